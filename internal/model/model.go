package model

import (
	"fmt"

	"github.com/google/uuid"
)

// HeightVariant selects whether the container height is given or chosen by the solver.
type HeightVariant string

const (
	HeightFixed HeightVariant = "fixed" // Container height is given, width is minimized
	HeightFree  HeightVariant = "free"  // Solver chooses the height minimizing area
)

func (v HeightVariant) String() string {
	return string(v)
}

// HeightSupport is the set of height variants a solver can natively handle.
type HeightSupport uint8

const (
	SupportFixed HeightSupport = 1 << iota
	SupportFree
)

// SupportOf builds a HeightSupport from a list of variants.
func SupportOf(variants ...HeightVariant) HeightSupport {
	var hs HeightSupport
	for _, v := range variants {
		hs |= supportBit(v)
	}
	return hs
}

func supportBit(v HeightVariant) HeightSupport {
	switch v {
	case HeightFixed:
		return SupportFixed
	case HeightFree:
		return SupportFree
	default:
		return 0
	}
}

// Contains reports whether the variant is in the set.
func (hs HeightSupport) Contains(v HeightVariant) bool {
	bit := supportBit(v)
	return bit != 0 && hs&bit != 0
}

func (hs HeightSupport) String() string {
	switch hs {
	case SupportFixed:
		return "{fixed}"
	case SupportFree:
		return "{free}"
	case SupportFixed | SupportFree:
		return "{fixed,free}"
	default:
		return "{}"
	}
}

// Unplaced is the coordinate value of a rectangle that has not been placed yet.
const Unplaced = -1

// Rectangle is a single item to be packed. Width and Height are the
// dimensions as given; Rotated swaps the placed footprint.
type Rectangle struct {
	ID      string `json:"id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Rotated bool   `json:"rotated"`
}

func NewRectangle(w, h int) Rectangle {
	return Rectangle{
		ID:     uuid.New().String()[:8],
		Width:  w,
		Height: h,
		X:      Unplaced,
		Y:      Unplaced,
	}
}

// Copy returns an independent copy that keeps the same ID.
func (r Rectangle) Copy() Rectangle {
	return r
}

// Placed reports whether the rectangle has been given coordinates.
func (r Rectangle) Placed() bool {
	return r.X >= 0 && r.Y >= 0
}

// PlacedWidth returns the horizontal extent considering rotation.
func (r Rectangle) PlacedWidth() int {
	if r.Rotated {
		return r.Height
	}
	return r.Width
}

// PlacedHeight returns the vertical extent considering rotation.
func (r Rectangle) PlacedHeight() int {
	if r.Rotated {
		return r.Width
	}
	return r.Height
}

// Area returns width times height.
func (r Rectangle) Area() int64 {
	return int64(r.Width) * int64(r.Height)
}

// Place sets the position and orientation of the rectangle.
func (r *Rectangle) Place(x, y int, rotated bool) {
	r.X = x
	r.Y = y
	r.Rotated = rotated
}

// Intersects reports whether two placed rectangles share interior area.
// Intervals are half-open, so rectangles that only touch along an edge or
// at a corner do not intersect.
func (r Rectangle) Intersects(other Rectangle) bool {
	if !r.Placed() || !other.Placed() {
		return false
	}
	return r.X < other.X+other.PlacedWidth() && other.X < r.X+r.PlacedWidth() &&
		r.Y < other.Y+other.PlacedHeight() && other.Y < r.Y+r.PlacedHeight()
}

func (r Rectangle) String() string {
	return fmt.Sprintf("%s(%dx%d @ %d,%d rot=%t)", r.ID, r.Width, r.Height, r.X, r.Y, r.Rotated)
}

// Parameters is one problem instance. It is a value type: Copy before
// handing it to anything that places rectangles.
type Parameters struct {
	HeightVariant   HeightVariant `json:"height_variant"`
	Height          int           `json:"height"` // Only meaningful for HeightFixed
	RotationAllowed bool          `json:"rotation_allowed"`
	Rectangles      []Rectangle   `json:"rectangles"`

	// Optimal is a known optimal area for benchmark inputs, 0 when unknown.
	Optimal int64 `json:"optimal,omitempty"`

	// FreeHeightProbe is set while the free-height search drives a fixed-height solver.
	FreeHeightProbe bool `json:"-"`
}

// NewParameters builds a parameter set with fresh rectangles of the given sizes.
func NewParameters(variant HeightVariant, height int, rotation bool, sizes ...[2]int) Parameters {
	p := Parameters{
		HeightVariant:   variant,
		Height:          height,
		RotationAllowed: rotation,
		Rectangles:      make([]Rectangle, 0, len(sizes)),
	}
	for _, s := range sizes {
		p.Rectangles = append(p.Rectangles, NewRectangle(s[0], s[1]))
	}
	return p
}

// Copy returns a deep copy. Rectangle IDs are preserved.
func (p Parameters) Copy() Parameters {
	cp := p
	if p.Rectangles != nil {
		cp.Rectangles = make([]Rectangle, len(p.Rectangles))
		for i, r := range p.Rectangles {
			cp.Rectangles[i] = r.Copy()
		}
	}
	return cp
}

// ResetPlacement marks every rectangle as unplaced and unrotated.
func (p *Parameters) ResetPlacement() {
	for i := range p.Rectangles {
		p.Rectangles[i].Place(Unplaced, Unplaced, false)
	}
}

// TotalArea returns the sum of rectangle areas.
func (p Parameters) TotalArea() int64 {
	var total int64
	for _, r := range p.Rectangles {
		total += r.Area()
	}
	return total
}

// MinimumHeight is the lowest container height any packing can have:
// the tallest rectangle, or the largest shorter side when rotation is allowed.
func (p Parameters) MinimumHeight() int {
	m := 0
	for _, r := range p.Rectangles {
		h := r.Height
		if p.RotationAllowed && r.Width < h {
			h = r.Width
		}
		if h > m {
			m = h
		}
	}
	return m
}

// MaximumHeight is the height of all rectangles stacked on top of each other.
func (p Parameters) MaximumHeight() int {
	total := 0
	for _, r := range p.Rectangles {
		total += r.Height
	}
	return total
}

// Validate checks the instance invariants expected from an input source.
func (p Parameters) Validate() error {
	if len(p.Rectangles) == 0 {
		return fmt.Errorf("no rectangles to pack")
	}
	switch p.HeightVariant {
	case HeightFixed:
		if p.Height <= 0 {
			return fmt.Errorf("fixed height must be positive, got %d", p.Height)
		}
	case HeightFree:
	default:
		return fmt.Errorf("unknown height variant %q", p.HeightVariant)
	}
	for i, r := range p.Rectangles {
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("rectangle %d (%s) has non-positive size %dx%d", i, r.ID, r.Width, r.Height)
		}
		if p.HeightVariant == HeightFixed {
			fits := r.Height <= p.Height || (p.RotationAllowed && r.Width <= p.Height)
			if !fits {
				return fmt.Errorf("rectangle %d (%s) of height %d does not fit in height %d", i, r.ID, r.Height, p.Height)
			}
		}
	}
	return nil
}
