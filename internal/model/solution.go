package model

import (
	"fmt"
	"time"
)

// Solution is a packed Parameters together with the solver that produced it.
type Solution struct {
	Parameters Parameters    `json:"parameters"`
	SolvedBy   string        `json:"solved_by"`
	Elapsed    time.Duration `json:"elapsed"`
}

// NewSolution wraps placed parameters. The caller hands over ownership of params.
func NewSolution(params Parameters, solvedBy string) *Solution {
	return &Solution{Parameters: params, SolvedBy: solvedBy}
}

// Copy returns an independent deep copy.
func (s *Solution) Copy() *Solution {
	if s == nil {
		return nil
	}
	return &Solution{
		Parameters: s.Parameters.Copy(),
		SolvedBy:   s.SolvedBy,
		Elapsed:    s.Elapsed,
	}
}

// Width returns the right-most extent of all placed rectangles.
func (s *Solution) Width() int {
	w := 0
	for _, r := range s.Parameters.Rectangles {
		if r.Placed() && r.X+r.PlacedWidth() > w {
			w = r.X + r.PlacedWidth()
		}
	}
	return w
}

// Height returns the top-most extent of all placed rectangles.
func (s *Solution) Height() int {
	h := 0
	for _, r := range s.Parameters.Rectangles {
		if r.Placed() && r.Y+r.PlacedHeight() > h {
			h = r.Y + r.PlacedHeight()
		}
	}
	return h
}

// Area returns the bounding-box area of the packing.
func (s *Solution) Area() int64 {
	return int64(s.Width()) * int64(s.Height())
}

// LowerBound is the area no packing can beat: the larger of the summed
// rectangle areas and the known optimal area.
func (s *Solution) LowerBound() int64 {
	lb := s.Parameters.TotalArea()
	if s.Parameters.Optimal > lb {
		lb = s.Parameters.Optimal
	}
	return lb
}

// Rate is the achieved area divided by the lower bound. A value of 1 is
// provably optimal; anything below 1 means the packing is broken.
func (s *Solution) Rate() float64 {
	lb := s.LowerBound()
	if lb == 0 {
		return 0
	}
	return float64(s.Area()) / float64(lb)
}

// Optimal reports whether the packing reaches the lower bound exactly.
func (s *Solution) Optimal() bool {
	return s.Area() == s.LowerBound()
}

// IsBetter reports whether s has a strictly smaller area than other.
// Equal areas keep the incumbent.
func (s *Solution) IsBetter(other *Solution) bool {
	if other == nil {
		return true
	}
	return s.Area() < other.Area()
}

func (s *Solution) String() string {
	return fmt.Sprintf("%s: %dx%d area=%d rate=%.4f (%d rectangles, %s)",
		s.SolvedBy, s.Width(), s.Height(), s.Area(), s.Rate(), len(s.Parameters.Rectangles), s.Elapsed.Round(time.Millisecond))
}
