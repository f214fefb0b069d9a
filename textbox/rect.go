// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textbox

import "image/color"

// Rect is one renderable rectangle: a glyph, a stroke outline, an
// underline/strikethrough bar, or a highlight-clipped sub-rectangle of any
// of those. UV is (u0, v0, u1, v1) within Texture.
type Rect struct {
	X, Y, Width, Height float32
	UV                  [4]float32
	Texture             Image
	Color               color.RGBA
}

// clipAgainstSelection splits r against a selection's pixel X extent
// [clipMinX, clipMaxX), per spec.md §4.G's highlight-clipping rule: fully
// outside the clip emits r unchanged; fully inside recolors it white (the
// textbox owner repaints the selection background separately, underneath,
// in the caller's own pass); a straddling rect splits into up to three
// sub-rectangles with UVs divided in proportion to the width each
// sub-rectangle takes from r. A split boundary within one pixel of either
// edge collapses into that edge, per spec.md scenario 6's "avoid
// sub-pixel slivers" rule.
func clipAgainstSelection(r Rect, clipMinX, clipMaxX float32, highlightColor color.RGBA) []Rect {
	x0, x1 := r.X, r.X+r.Width
	if r.Width <= 0 || x1 <= clipMinX || x0 >= clipMaxX {
		return []Rect{r}
	}
	if x0 >= clipMinX && x1 <= clipMaxX {
		rr := r
		rr.Color = highlightColor
		return []Rect{rr}
	}

	lo, hi := clipMinX, clipMaxX
	if lo < x0 {
		lo = x0
	}
	if hi > x1 {
		hi = x1
	}
	if lo-x0 <= 1 {
		lo = x0
	}
	if x1-hi <= 1 {
		hi = x1
	}

	var out []Rect
	if lo > x0 {
		out = append(out, subRect(r, x0, lo, r.Color))
	}
	if hi > lo {
		out = append(out, subRect(r, lo, hi, highlightColor))
	}
	if x1 > hi {
		out = append(out, subRect(r, hi, x1, r.Color))
	}
	return out
}

// subRect returns the portion of r spanning [x0, x1) on the X axis, with
// UVs interpolated proportionally to where [x0, x1) falls within r's full
// width.
func subRect(r Rect, x0, x1 float32, col color.RGBA) Rect {
	fracStart := (x0 - r.X) / r.Width
	fracEnd := (x1 - r.X) / r.Width
	u0, v0, u1, v1 := r.UV[0], r.UV[1], r.UV[2], r.UV[3]
	return Rect{
		X: x0, Y: r.Y, Width: x1 - x0, Height: r.Height,
		UV:      [4]float32{u0 + (u1-u0)*fracStart, v0, u0 + (u1-u0)*fracEnd, v1},
		Texture: r.Texture,
		Color:   col,
	}
}
