package model

import "sort"

// Remnant is an empty region of the strip above the skyline of a packing.
type Remnant struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the area of the remnant.
func (r Remnant) Area() int64 {
	return int64(r.Width) * int64(r.Height)
}

// Remnants returns the empty regions between the skyline of the packing and
// the top of its bounding box. A fixed-height packing also reports the band
// between the bounding box and the container height. Regions with a side
// shorter than minSide are dropped; the rest come largest first.
//
// Holes below the skyline are not reported.
func (s *Solution) Remnants(minSide int) []Remnant {
	width, height := s.Width(), s.Height()
	if width == 0 {
		return nil
	}

	var placed []Rectangle
	edges := []int{0, width}
	for _, r := range s.Parameters.Rectangles {
		if !r.Placed() {
			continue
		}
		placed = append(placed, r)
		edges = append(edges, r.X, r.X+r.PlacedWidth())
	}
	sort.Ints(edges)

	var remnants []Remnant
	var open *Remnant
	for i := 0; i+1 < len(edges); i++ {
		a, b := edges[i], edges[i+1]
		if a == b || a < 0 {
			continue
		}
		// Edges include every rectangle side, so a rectangle either spans
		// [a, b) completely or not at all.
		sky := 0
		for _, r := range placed {
			if r.X <= a && r.X+r.PlacedWidth() >= b && r.Y+r.PlacedHeight() > sky {
				sky = r.Y + r.PlacedHeight()
			}
		}
		if open != nil && open.Y == sky && open.X+open.Width == a {
			open.Width += b - a
			continue
		}
		if open != nil {
			remnants = append(remnants, *open)
			open = nil
		}
		if sky < height {
			open = &Remnant{X: a, Y: sky, Width: b - a, Height: height - sky}
		}
	}
	if open != nil {
		remnants = append(remnants, *open)
	}

	if s.Parameters.HeightVariant == HeightFixed && s.Parameters.Height > height {
		remnants = append(remnants, Remnant{X: 0, Y: height, Width: width, Height: s.Parameters.Height - height})
	}

	kept := remnants[:0]
	for _, r := range remnants {
		if r.Width >= minSide && r.Height >= minSide {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Area() > kept[j].Area()
	})
	return kept
}

// WastedArea returns the part of the bounding box not covered by rectangles.
func (s *Solution) WastedArea() int64 {
	return s.Area() - s.Parameters.TotalArea()
}
