package engine

// rect is a free region inside the strip.
type rect struct {
	x, y, w, h int
}

// maxRectsPacker keeps the list of maximal free rectangles of a strip and
// splits them on each insertion.
type maxRectsPacker struct {
	freeRects []rect
}

func newMaxRectsPacker(width, height int) *maxRectsPacker {
	return &maxRectsPacker{
		freeRects: []rect{{0, 0, width, height}},
	}
}

// fit scores a candidate position. Lower right edges keep the strip
// narrow; area waste breaks ties.
type fit struct {
	index int
	right int
	waste int
}

func (f fit) better(o fit) bool {
	if o.index < 0 {
		return f.index >= 0
	}
	if f.right != o.right {
		return f.right < o.right
	}
	return f.waste < o.waste
}

// insert places a w x h item at the position with the lowest right edge,
// using Best Area Fit to break ties. Returns success and position.
func (mp *maxRectsPacker) insert(w, h int) (bool, int, int) {
	best := mp.bestFit(w, h)
	if best.index < 0 {
		return false, 0, 0
	}

	chosen := mp.freeRects[best.index]
	px, py := chosen.x, chosen.y
	mp.splitAroundPlacement(rect{x: px, y: py, w: w, h: h})
	return true, px, py
}

// bestFit returns the best position for a w x h item without modifying
// the packer state. The index is -1 if it doesn't fit anywhere.
func (mp *maxRectsPacker) bestFit(w, h int) fit {
	best := fit{index: -1}
	for i, r := range mp.freeRects {
		if w > r.w || h > r.h {
			continue
		}
		f := fit{index: i, right: r.x + w, waste: r.w*r.h - w*h}
		if f.better(best) {
			best = f
		}
	}
	return best
}

// splitAroundPlacement removes all free rects that overlap with the placed rect
// and generates maximal sub-rects from each overlap. Then prunes contained rects.
func (mp *maxRectsPacker) splitAroundPlacement(placed rect) {
	var newRects []rect

	for _, r := range mp.freeRects {
		if !rectsOverlap(r, placed) {
			newRects = append(newRects, r)
			continue
		}

		// Left strip (full height of original rect)
		if placed.x > r.x {
			newRects = append(newRects, rect{x: r.x, y: r.y, w: placed.x - r.x, h: r.h})
		}
		// Right strip
		if placed.x+placed.w < r.x+r.w {
			newRects = append(newRects, rect{
				x: placed.x + placed.w, y: r.y,
				w: (r.x + r.w) - (placed.x + placed.w), h: r.h,
			})
		}
		// Bottom strip (full width of original rect)
		if placed.y > r.y {
			newRects = append(newRects, rect{x: r.x, y: r.y, w: r.w, h: placed.y - r.y})
		}
		// Top strip
		if placed.y+placed.h < r.y+r.h {
			newRects = append(newRects, rect{
				x: r.x, y: placed.y + placed.h,
				w: r.w, h: (r.y + r.h) - (placed.y + placed.h),
			})
		}
	}

	mp.freeRects = pruneContained(newRects)
}

// rectsOverlap returns true if two rectangles overlap (not just touch).
func rectsOverlap(a, b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

// pruneContained removes any rect that is fully contained within another.
// Of two identical rects only the first is kept.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !containsRect(b, a) {
				continue
			}
			if a != b || j < i {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

// containsRect returns true if outer fully contains inner.
func containsRect(outer, inner rect) bool {
	return outer.x <= inner.x && outer.y <= inner.y &&
		outer.x+outer.w >= inner.x+inner.w &&
		outer.y+outer.h >= inner.y+inner.h
}
