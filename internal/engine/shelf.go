package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/strippack/internal/model"
)

// Shelf stacks rectangles into columns, widest first, placing each one in
// the first column with enough room left (first-fit decreasing). For free
// height it tries a few heights around the square root of the total area.
type Shelf struct{}

func NewShelf() *Shelf {
	return &Shelf{}
}

func (s *Shelf) Name() string { return string(model.AlgorithmShelf) }

func (s *Shelf) HeightSupport() model.HeightSupport {
	return model.SupportOf(model.HeightFixed, model.HeightFree)
}

func (s *Shelf) Pack(params model.Parameters) (*model.Solution, error) {
	if !CanSolve(s, params) {
		return nil, unsupported(s, params)
	}
	if params.HeightVariant == model.HeightFixed {
		p := params.Copy()
		if !packColumns(&p, p.Height) {
			return nil, ErrNoSolution
		}
		return model.NewSolution(p, s.Name()), nil
	}

	lo := params.MinimumHeight()
	side := int(math.Ceil(math.Sqrt(float64(params.TotalArea()))))
	heights := []int{lo, max(lo, side), max(lo, side*3/2), max(lo, 2*side)}

	var best *model.Solution
	for _, h := range heights {
		p := params.Copy()
		if !packColumns(&p, h) {
			continue
		}
		sol := model.NewSolution(p, s.Name())
		if sol.IsBetter(best) {
			best = sol
		}
	}
	if best == nil {
		return nil, ErrNoSolution
	}
	best.Parameters.Height = best.Height()
	return best, nil
}

type column struct {
	x, width, used int
}

// packColumns places every rectangle of p into columns of the given height.
func packColumns(p *model.Parameters, height int) bool {
	p.ResetPlacement()

	// Stand rectangles upright when allowed so columns stay narrow.
	for i := range p.Rectangles {
		r := &p.Rectangles[i]
		rotate := p.RotationAllowed && r.Width > r.Height && r.Width <= height
		if r.Height > height && p.RotationAllowed && r.Width <= height {
			rotate = true
		}
		r.Rotated = rotate
		if r.PlacedHeight() > height {
			return false
		}
	}

	order := make([]int, len(p.Rectangles))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return p.Rectangles[order[i]].PlacedWidth() > p.Rectangles[order[j]].PlacedWidth()
	})

	var cols []column
	next := 0
	for _, idx := range order {
		r := &p.Rectangles[idx]
		placed := false
		for c := range cols {
			if cols[c].used+r.PlacedHeight() <= height {
				r.Place(cols[c].x, cols[c].used, r.Rotated)
				cols[c].used += r.PlacedHeight()
				placed = true
				break
			}
		}
		if !placed {
			cols = append(cols, column{x: next, width: r.PlacedWidth(), used: r.PlacedHeight()})
			r.Place(next, 0, r.Rotated)
			next += r.PlacedWidth()
		}
	}
	return true
}
