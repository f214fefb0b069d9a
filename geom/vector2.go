// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom provides the small set of 2D vector and box primitives that
// layout and rendering need: pen positions, glyph advances, and bounding
// boxes, plus fixed-point round-tripping for the shaper's Int26_6 values.
package geom

import "golang.org/x/image/math/fixed"

// Vector2 is a 2D vector or point, with X and Y float32 components.
type Vector2 struct {
	X, Y float32
}

// Vec2 returns a new [Vector2] with the given x, y values.
func Vec2(x, y float32) Vector2 {
	return Vector2{X: x, Y: y}
}

// SetScalar sets both X and Y to the given scalar value.
func (v *Vector2) SetScalar(s float32) {
	v.X = s
	v.Y = s
}

// SetFixed sets from a fixed.Point26_6, converting to float32.
func (v *Vector2) SetFixed(p fixed.Point26_6) {
	v.X = FromFixed(p.X)
	v.Y = FromFixed(p.Y)
}

// ToFixed returns this vector as a fixed.Point26_6.
func (v Vector2) ToFixed() fixed.Point26_6 {
	return fixed.Point26_6{X: ToFixed(v.X), Y: ToFixed(v.Y)}
}

// Add returns the sum of this vector and other.
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{v.X + other.X, v.Y + other.Y}
}

// SetAdd sets this vector to itself plus other.
func (v *Vector2) SetAdd(other Vector2) {
	v.X += other.X
	v.Y += other.Y
}

// Sub returns the difference of this vector and other.
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{v.X - other.X, v.Y - other.Y}
}

// MulScalar returns this vector scaled by s.
func (v Vector2) MulScalar(s float32) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

// FromFixed converts a fixed.Int26_6 to a float32.
func FromFixed(x fixed.Int26_6) float32 {
	return float32(x) / 64
}

// ToFixed converts a float32 to a fixed.Int26_6.
func ToFixed(x float32) fixed.Int26_6 {
	return fixed.Int26_6(x * 64)
}
