// Package generator builds synthetic packing problems for benchmarks.
package generator

import (
	"math"
	"math/rand"

	"github.com/piwi3910/strippack/internal/model"
)

// Config bounds the generated instances.
type Config struct {
	MaxWidth  int  `json:"max_width" toml:"max_width"`
	MaxHeight int  `json:"max_height" toml:"max_height"`
	MinSide   int  `json:"min_side" toml:"min_side"` // No cut leaves a side shorter than this
	Rotation  bool `json:"rotation" toml:"rotation"`
}

// DefaultConfig returns the bounds used by the benchmark suite.
func DefaultConfig() Config {
	return Config{
		MaxWidth:  100,
		MaxHeight: 200,
		MinSide:   5,
	}
}

// OptimalBin cuts a random W×H grid into rectangles with alternating
// vertical and horizontal guillotine cuts, so a perfect packing of height H
// is known to exist. The result has a fixed height H and Optimal = W·H.
func OptimalBin(seed int64, cfg Config) model.Parameters {
	if cfg.MinSide <= 0 {
		cfg.MinSide = DefaultConfig().MinSide
	}
	rng := rand.New(rand.NewSource(seed))
	w := cfg.MinSide + rng.Intn(max(cfg.MaxWidth-cfg.MinSide, 0)+1)
	h := cfg.MinSide + rng.Intn(max(cfg.MaxHeight-cfg.MinSide, 0)+1)

	g := &cutter{rng: rng, minSide: cfg.MinSide}
	g.cut(w, h, true)

	return model.Parameters{
		HeightVariant:   model.HeightFixed,
		Height:          h,
		RotationAllowed: cfg.Rotation,
		Rectangles:      g.rects,
		Optimal:         int64(w) * int64(h),
	}
}

type cutter struct {
	rng     *rand.Rand
	minSide int
	rects   []model.Rectangle
}

// cut splits a w×h piece at a random fraction rounded to two decimals, or
// keeps it whole when either half would be thinner than minSide.
func (c *cutter) cut(w, h int, vertical bool) {
	frac := math.Round(c.rng.Float64()*100) / 100
	side := h
	if vertical {
		side = w
	}
	first := int(float64(side) * frac)
	if first < c.minSide || side-first < c.minSide {
		c.rects = append(c.rects, model.NewRectangle(w, h))
		return
	}
	if vertical {
		c.cut(first, h, false)
		c.cut(w-first, h, false)
		return
	}
	c.cut(w, first, true)
	c.cut(w, h-first, true)
}

// Random returns n rectangles with sides drawn uniformly from [1, maxSide].
// Fixed-height instances get the tallest side as height, which always fits.
func Random(seed int64, n, maxSide int, variant model.HeightVariant, rotation bool) model.Parameters {
	rng := rand.New(rand.NewSource(seed))
	maxSide = max(maxSide, 1)
	p := model.Parameters{
		HeightVariant:   variant,
		RotationAllowed: rotation,
		Rectangles:      make([]model.Rectangle, 0, n),
	}
	for i := 0; i < n; i++ {
		p.Rectangles = append(p.Rectangles, model.NewRectangle(1+rng.Intn(maxSide), 1+rng.Intn(maxSide)))
	}
	if variant == model.HeightFixed {
		p.Height = max(p.MinimumHeight(), maxSide)
	}
	return p
}

// Suite returns count optimal-bin instances with consecutive seeds.
func Suite(seed int64, count int, cfg Config) []model.Parameters {
	suite := make([]model.Parameters, 0, count)
	for i := 0; i < count; i++ {
		suite = append(suite, OptimalBin(seed+int64(i), cfg))
	}
	return suite
}
