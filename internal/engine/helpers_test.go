package engine

import (
	"bytes"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/strippack/internal/model"
)

// rowSolver places rectangles left to right on the floor, leaving gap
// units between neighbours, and counts how often it is called.
type rowSolver struct {
	name    string
	support model.HeightSupport
	gap     int
	calls   int
	pack    func(p model.Parameters) (*model.Solution, error)
}

func newRowSolver(name string, gap int, variants ...model.HeightVariant) *rowSolver {
	if len(variants) == 0 {
		variants = []model.HeightVariant{model.HeightFixed}
	}
	return &rowSolver{name: name, gap: gap, support: model.SupportOf(variants...)}
}

func (s *rowSolver) Name() string                       { return s.name }
func (s *rowSolver) HeightSupport() model.HeightSupport { return s.support }

func (s *rowSolver) Pack(p model.Parameters) (*model.Solution, error) {
	s.calls++
	if !CanSolve(s, p) {
		return nil, unsupported(s, p)
	}
	if s.pack != nil {
		return s.pack(p)
	}
	x := 0
	for i := range p.Rectangles {
		r := &p.Rectangles[i]
		if p.HeightVariant == model.HeightFixed && r.Height > p.Height {
			return nil, ErrNoSolution
		}
		r.Place(x, 0, false)
		x += r.Width + s.gap
	}
	return model.NewSolution(p, s.name), nil
}

// columnSolver is a trivial fixed-height strategy: next-fit columns in
// input order.
type columnSolver struct {
	calls   int
	heights []int
}

func (s *columnSolver) Name() string { return "columns" }

func (s *columnSolver) HeightSupport() model.HeightSupport {
	return model.SupportOf(model.HeightFixed)
}

func (s *columnSolver) Pack(p model.Parameters) (*model.Solution, error) {
	s.calls++
	s.heights = append(s.heights, p.Height)
	x, y, colWidth := 0, 0, 0
	for i := range p.Rectangles {
		r := &p.Rectangles[i]
		if r.Height > p.Height {
			return nil, ErrNoSolution
		}
		if y+r.Height > p.Height {
			x += colWidth
			y, colWidth = 0, 0
		}
		r.Place(x, y, false)
		y += r.Height
		colWidth = max(colWidth, r.Width)
	}
	return model.NewSolution(p, s.Name()), nil
}

// fakeClock advances by step on every reading.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{Level: log.DebugLevel})
}

func bufferLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

// randomParameters builds n rectangles with sides in [1, maxSide].
func randomParameters(seed int64, n, maxSide int, variant model.HeightVariant, height int, rotation bool) model.Parameters {
	rng := rand.New(rand.NewSource(seed))
	sizes := make([][2]int, n)
	for i := range sizes {
		sizes[i] = [2]int{1 + rng.Intn(maxSide), 1 + rng.Intn(maxSide)}
	}
	return model.NewParameters(variant, height, rotation, sizes...)
}

func variedTen(variant model.HeightVariant, height int) model.Parameters {
	return model.NewParameters(variant, height, false,
		[2]int{4, 7}, [2]int{3, 3}, [2]int{8, 2}, [2]int{5, 5}, [2]int{2, 9},
		[2]int{6, 4}, [2]int{1, 6}, [2]int{7, 3}, [2]int{3, 8}, [2]int{4, 4},
	)
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
