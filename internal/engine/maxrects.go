package engine

import (
	"sort"

	"github.com/piwi3910/strippack/internal/model"
)

// rotationStrategy controls how rectangles are rotated during packing.
type rotationStrategy int

const (
	rotBestFit    rotationStrategy = iota // Compare both orientations, pick tighter fit
	rotAllNormal                          // Always use normal orientation (fallback to rotated if doesn't fit)
	rotAllRotated                         // Prefer rotated (fallback to normal if doesn't fit)
)

// MaxRects packs a fixed-height strip with a maximal-rectangles packer,
// largest rectangles first, and keeps the narrowest of three rotation policies.
type MaxRects struct{}

func NewMaxRects() *MaxRects {
	return &MaxRects{}
}

func (m *MaxRects) Name() string { return string(model.AlgorithmMaxRects) }

func (m *MaxRects) HeightSupport() model.HeightSupport {
	return model.SupportOf(model.HeightFixed)
}

func (m *MaxRects) Pack(params model.Parameters) (*model.Solution, error) {
	if !CanSolve(m, params) {
		return nil, unsupported(m, params)
	}

	order := areaDescending(params.Rectangles)
	strategies := []rotationStrategy{rotAllNormal}
	if params.RotationAllowed {
		strategies = []rotationStrategy{rotBestFit, rotAllNormal, rotAllRotated}
	}

	var best *model.Solution
	for _, strat := range strategies {
		p := params.Copy()
		p.ResetPlacement()
		if !packOrdered(&p, order, nil, strat) {
			continue
		}
		sol := model.NewSolution(p, m.Name())
		if sol.IsBetter(best) {
			best = sol
		}
	}
	if best == nil {
		return nil, ErrNoSolution
	}
	return best, nil
}

// areaDescending returns the rectangle indices sorted by area, largest first.
func areaDescending(rects []model.Rectangle) []int {
	order := make([]int, len(rects))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return rects[order[i]].Area() > rects[order[j]].Area()
	})
	return order
}

// stripWidth is wide enough to hold every rectangle side by side.
func stripWidth(params model.Parameters) int {
	w := 0
	for _, r := range params.Rectangles {
		side := r.Width
		if params.RotationAllowed && r.Height > side {
			side = r.Height
		}
		w += side
	}
	return w
}

// packOrdered places the rectangles of p in the given order into a strip of
// height p.Height. prefer, when non-nil, holds a per-position rotation
// preference that overrides strategy. Returns false if a rectangle could
// not be placed.
func packOrdered(p *model.Parameters, order []int, prefer []bool, strategy rotationStrategy) bool {
	packer := newMaxRectsPacker(stripWidth(*p), p.Height)

	for pos, idx := range order {
		r := &p.Rectangles[idx]
		canRotate := p.RotationAllowed && r.Width != r.Height

		s := strategy
		if prefer != nil {
			s = rotAllNormal
			if prefer[pos] {
				s = rotAllRotated
			}
		}

		placed := false
		switch s {
		case rotAllRotated:
			if canRotate {
				placed = tryPlace(packer, r, true)
			}
			if !placed {
				placed = tryPlace(packer, r, false)
			}

		case rotBestFit:
			if canRotate {
				normalFit := packer.bestFit(r.Width, r.Height)
				rotatedFit := packer.bestFit(r.Height, r.Width)
				placed = tryPlace(packer, r, rotatedFit.better(normalFit))
			}
			if !placed {
				placed = tryPlace(packer, r, false)
			}
			if !placed && canRotate {
				placed = tryPlace(packer, r, true)
			}

		default: // rotAllNormal
			placed = tryPlace(packer, r, false)
			if !placed && canRotate {
				placed = tryPlace(packer, r, true)
			}
		}

		if !placed {
			return false
		}
	}
	return true
}

// tryPlace inserts r into the packer in the requested orientation.
func tryPlace(packer *maxRectsPacker, r *model.Rectangle, rotated bool) bool {
	w, h := r.Width, r.Height
	if rotated {
		w, h = h, w
	}
	ok, x, y := packer.insert(w, h)
	if ok {
		r.Place(x, y, rotated)
	}
	return ok
}
