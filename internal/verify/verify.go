// Package verify audits packed solutions: overlap, bounds, the fixed height
// limit and the quality rate. Findings are reported, never raised.
package verify

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/strippack/internal/model"
)

// Overlap names two rectangles that share interior area.
type Overlap struct {
	A, B model.Rectangle
}

func (o Overlap) String() string {
	return fmt.Sprintf("%s overlaps %s", o.A.ID, o.B.ID)
}

// FindOverlap checks every pair of rectangles and returns the first
// overlapping pair in index order.
func FindOverlap(rects []model.Rectangle) (Overlap, bool) {
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Intersects(rects[j]) {
				return Overlap{A: rects[i], B: rects[j]}, true
			}
		}
	}
	return Overlap{}, false
}

// SweepOverlap reports whether any two rectangles overlap by sweeping a
// vertical line across the placed rectangles sorted by left edge. Its
// verdict always matches FindOverlap, but only rectangles whose horizontal
// extents intersect are compared.
func SweepOverlap(rects []model.Rectangle) (Overlap, bool) {
	idx := make([]int, 0, len(rects))
	for i, r := range rects {
		if r.Placed() && r.PlacedWidth() > 0 && r.PlacedHeight() > 0 {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool {
		return rects[idx[a]].X < rects[idx[b]].X
	})

	var active []int
	for _, i := range idx {
		r := rects[i]
		// Drop rectangles that end at or before the sweep line.
		kept := active[:0]
		for _, j := range active {
			if rects[j].X+rects[j].PlacedWidth() > r.X {
				kept = append(kept, j)
			}
		}
		active = kept

		for _, j := range active {
			if r.Intersects(rects[j]) {
				a, b := rects[j], r
				if i < j {
					a, b = r, rects[j]
				}
				return Overlap{A: a, B: b}, true
			}
		}
		active = append(active, i)
	}
	return Overlap{}, false
}

// sweepMinRects is the rectangle count from which Check switches to the sweep.
const sweepMinRects = 64

func findOverlap(rects []model.Rectangle) (Overlap, bool) {
	if len(rects) >= sweepMinRects {
		return SweepOverlap(rects)
	}
	return FindOverlap(rects)
}

// HasOverlapping reports whether any two rectangles overlap and logs the
// identities of the first offending pair.
func HasOverlapping(logger *log.Logger, rects []model.Rectangle) bool {
	o, found := FindOverlap(rects)
	if found {
		logger = orDefault(logger)
		logger.Warn("overlapping rectangles", "first", o.A.ID, "second", o.B.ID)
	}
	return found
}

// ProblemKind classifies a validation finding.
type ProblemKind string

const (
	ProblemOverlap        ProblemKind = "overlap"
	ProblemNegative       ProblemKind = "negative_coordinates"
	ProblemUnplaced       ProblemKind = "unplaced"
	ProblemHeightExceeded ProblemKind = "height_exceeded"
	ProblemImpossibleRate ProblemKind = "impossible_rate"
	ProblemMissing        ProblemKind = "missing_solution"
)

// Problem is a single validation finding.
type Problem struct {
	Kind    ProblemKind
	Message string
}

// Report gathers every problem found in a solution.
type Report struct {
	Problems []Problem
}

// Valid reports whether no problems were found.
func (r Report) Valid() bool {
	return len(r.Problems) == 0
}

// Has reports whether a problem of the given kind was found.
func (r Report) Has(kind ProblemKind) bool {
	for _, p := range r.Problems {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

func (r *Report) add(kind ProblemKind, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Check runs every validation on the solution.
func Check(sol *model.Solution) Report {
	var report Report
	if sol == nil {
		report.add(ProblemMissing, "no solution")
		return report
	}
	params := sol.Parameters

	if o, found := findOverlap(params.Rectangles); found {
		report.add(ProblemOverlap, "rectangles %s and %s overlap", o.A.ID, o.B.ID)
	}

	for _, r := range params.Rectangles {
		switch {
		case r.X == model.Unplaced && r.Y == model.Unplaced:
			report.add(ProblemUnplaced, "rectangle %s was not placed", r.ID)
		case r.X < 0 || r.Y < 0:
			report.add(ProblemNegative, "rectangle %s has negative coordinates (%d, %d)", r.ID, r.X, r.Y)
		}
	}

	if params.HeightVariant == model.HeightFixed {
		for _, r := range params.Rectangles {
			if r.Y+r.PlacedHeight() > params.Height {
				report.add(ProblemHeightExceeded, "rectangle %s reaches %d, above height %d", r.ID, r.Y+r.PlacedHeight(), params.Height)
			}
		}
	}

	if rate := sol.Rate(); rate < 1 {
		report.add(ProblemImpossibleRate, "rate %.4f is below 1", rate)
	}

	return report
}

// IsValidSolution checks the solution, logs every problem found and
// returns whether it passed.
func IsValidSolution(logger *log.Logger, sol *model.Solution) bool {
	logger = orDefault(logger)
	report := Check(sol)
	for _, p := range report.Problems {
		logger.Warn(p.Message, "check", p.Kind)
	}
	return report.Valid()
}

func orDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}
