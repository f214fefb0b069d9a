// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "golang.org/x/image/math/fixed"

// Infinity is used for empty-box sentinel values.
const Infinity = float32(1e38)

// Box2 is a 2D axis-aligned bounding box defined by its minimum and maximum
// corners.
type Box2 struct {
	Min Vector2
	Max Vector2
}

// B2 returns a new [Box2] from the given minimum and maximum x, y coordinates.
func B2(x0, y0, x1, y1 float32) Box2 {
	return Box2{Vec2(x0, y0), Vec2(x1, y1)}
}

// B2Empty returns a new empty [Box2] (min/max at +/- Infinity).
func B2Empty() Box2 {
	b := Box2{}
	b.SetEmpty()
	return b
}

// B2FromFixed returns a new [Box2] from a fixed.Rectangle26_6.
func B2FromFixed(r fixed.Rectangle26_6) Box2 {
	b := Box2{}
	b.Min.SetFixed(r.Min)
	b.Max.SetFixed(r.Max)
	return b
}

// SetEmpty sets this box to empty.
func (b *Box2) SetEmpty() {
	b.Min.SetScalar(Infinity)
	b.Max.SetScalar(-Infinity)
}

// IsEmpty reports whether max < min on either axis.
func (b Box2) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// Size returns the width, height of the box as a [Vector2].
func (b Box2) Size() Vector2 {
	if b.IsEmpty() {
		return Vector2{}
	}
	return b.Max.Sub(b.Min)
}

// Translate returns a copy of this box shifted by the given offset.
func (b Box2) Translate(off Vector2) Box2 {
	return Box2{Min: b.Min.Add(off), Max: b.Max.Add(off)}
}

// ExpandByBox grows this box to also contain other.
func (b *Box2) ExpandByBox(other Box2) {
	if other.IsEmpty() {
		return
	}
	if b.IsEmpty() {
		*b = other
		return
	}
	b.Min.X = min(b.Min.X, other.Min.X)
	b.Min.Y = min(b.Min.Y, other.Min.Y)
	b.Max.X = max(b.Max.X, other.Max.X)
	b.Max.Y = max(b.Max.Y, other.Max.Y)
}

// ContainsPoint reports whether pt lies within this box, inclusive of edges.
func (b Box2) ContainsPoint(pt Vector2) bool {
	return pt.X >= b.Min.X && pt.X <= b.Max.X && pt.Y >= b.Min.Y && pt.Y <= b.Max.Y
}
