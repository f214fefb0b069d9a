// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textbox

import (
	"image/color"
	"testing"
)

func TestClipAgainstSelectionFullyOutside(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 20, Height: 10, UV: [4]float32{0, 0, 1, 1}, Color: color.RGBA{R: 255, A: 255}}
	out := clipAgainstSelection(r, 30, 50, color.RGBA{B: 255, A: 255})
	if len(out) != 1 || out[0] != r {
		t.Errorf("expected the rect emitted unchanged but got %+v", out)
	}
}

func TestClipAgainstSelectionFullyInside(t *testing.T) {
	r := Rect{X: 10, Y: 0, Width: 5, Height: 10, UV: [4]float32{0, 0, 1, 1}, Color: color.RGBA{R: 255, A: 255}}
	highlight := color.RGBA{B: 255, A: 255}
	out := clipAgainstSelection(r, 0, 20, highlight)
	if len(out) != 1 {
		t.Fatalf("expected a single recolored rect but got %d", len(out))
	}
	if out[0].Color != highlight {
		t.Errorf("expected highlight color %v but got %v", highlight, out[0].Color)
	}
	if out[0].X != r.X || out[0].Width != r.Width {
		t.Errorf("expected geometry unchanged but got X=%v Width=%v", out[0].X, out[0].Width)
	}
}

// TestClipAgainstSelectionScenario6 matches spec.md's worked example: a
// glyph rect at x=100, w=20 with selection (105, 115) splits into three
// sub-rects at x=100 (w=5, original color), x=105 (w=10, white), x=115
// (w=5, original color), with UVs split proportionally 5/20, 10/20, 5/20.
func TestClipAgainstSelectionScenario6(t *testing.T) {
	orig := color.RGBA{R: 255, A: 255}
	highlight := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	r := Rect{X: 100, Y: 0, Width: 20, Height: 10, UV: [4]float32{0, 0, 1, 1}, Color: orig}

	out := clipAgainstSelection(r, 105, 115, highlight)
	if len(out) != 3 {
		t.Fatalf("expected 3 sub-rects but got %d: %+v", len(out), out)
	}

	left, mid, right := out[0], out[1], out[2]
	if left.X != 100 || left.Width != 5 || left.Color != orig {
		t.Errorf("left sub-rect: expected X=100 Width=5 color=%v but got %+v", orig, left)
	}
	if mid.X != 105 || mid.Width != 10 || mid.Color != highlight {
		t.Errorf("middle sub-rect: expected X=105 Width=10 color=%v but got %+v", highlight, mid)
	}
	if right.X != 115 || right.Width != 5 || right.Color != orig {
		t.Errorf("right sub-rect: expected X=115 Width=5 color=%v but got %+v", orig, right)
	}

	wantU := func(frac0, frac1 float32) (float32, float32) { return frac0, frac1 }
	u0, u1 := wantU(5.0/20, 10.0/20)
	if left.UV[0] != 0 || left.UV[2] != u0 {
		t.Errorf("left sub-rect UV: expected [0, %v] but got [%v, %v]", u0, left.UV[0], left.UV[2])
	}
	if mid.UV[0] != u0 || mid.UV[2] != u1+u0 {
		t.Errorf("middle sub-rect UV: expected [%v, %v] but got [%v, %v]", u0, u1+u0, mid.UV[0], mid.UV[2])
	}
	if right.UV[0] != u1+u0 || right.UV[2] != 1 {
		t.Errorf("right sub-rect UV: expected [%v, 1] but got [%v, %v]", u1+u0, right.UV[0], right.UV[2])
	}
}

func TestClipAgainstSelectionCollapsesSubPixelSliver(t *testing.T) {
	orig := color.RGBA{R: 255, A: 255}
	highlight := color.RGBA{B: 255, A: 255}
	r := Rect{X: 100, Y: 0, Width: 20, Height: 10, UV: [4]float32{0, 0, 1, 1}, Color: orig}

	// Selection starting 0.5px inside the rect's left edge: the sliver is
	// under 1px and should collapse, leaving only 2 sub-rects.
	out := clipAgainstSelection(r, 100.5, 115, highlight)
	if len(out) != 2 {
		t.Fatalf("expected a collapsed 2-rect split but got %d: %+v", len(out), out)
	}
	if out[0].X != 100 || out[0].Color != highlight {
		t.Errorf("expected the collapsed left edge to merge into the highlighted rect but got %+v", out[0])
	}
	if out[1].X != 115 || out[1].Color != orig {
		t.Errorf("expected the right remainder to keep the original color but got %+v", out[1])
	}
}

func TestSubRectUVInterpolation(t *testing.T) {
	r := Rect{X: 0, Width: 10, UV: [4]float32{0.2, 0.3, 0.8, 0.7}}
	s := subRect(r, 5, 10, color.RGBA{})
	if s.UV[0] != 0.5 || s.UV[2] != 0.8 {
		t.Errorf("expected interpolated U range [0.5, 0.8] but got [%v, %v]", s.UV[0], s.UV[2])
	}
	if s.UV[1] != 0.3 || s.UV[3] != 0.7 {
		t.Errorf("expected V range unchanged at [0.3, 0.7] but got [%v, %v]", s.UV[1], s.UV[3])
	}
}
