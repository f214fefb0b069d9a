// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"testing"

	"golang.org/x/image/math/fixed"
)

// syntheticLayout builds a two-line ParagraphLayout with hand-crafted glyph
// advances (one glyph per rune, each 10px wide) instead of going through
// real font shaping, so pixel-position queries can be tested without
// loading font data.
func syntheticLayout() *ParagraphLayout {
	mkRun := func(start, end int) VisualRun {
		r := VisualRun{Start: start, End: end}
		for i := start; i < end; i++ {
			r.Glyphs = append(r.Glyphs, Glyph{XAdvance: fixed.I(10), ClusterRune: i})
		}
		r.Advance = fixed.I(10 * (end - start))
		return r
	}
	line0 := Line{Start: 0, End: 5, Runs: []VisualRun{mkRun(0, 5)}}
	positionLine(&line0)
	line1 := Line{Start: 5, End: 11, Runs: []VisualRun{mkRun(5, 11)}}
	positionLine(&line1)
	pl := &ParagraphLayout{Lines: []Line{line0, line1}}
	pl.placeLinesVertically()
	return pl
}

func TestLineIndexForRune(t *testing.T) {
	pl := syntheticLayout()
	tests := []struct {
		idx  int
		want int
	}{
		{0, 0}, {4, 0}, {5, 0}, {6, 1}, {11, 1}, {-1, 0}, {100, 1},
	}
	for _, test := range tests {
		if got := pl.LineIndexForRune(test.idx); got != test.want {
			t.Errorf("LineIndexForRune(%d): expected line %d but got %d", test.idx, test.want, got)
		}
	}
}

func TestCalcCursorPixelPosMonotonic(t *testing.T) {
	pl := syntheticLayout()
	var prevX float32 = -1
	for i := 0; i <= 5; i++ {
		cp := pl.CalcCursorPixelPos(1000, AlignLeft, i)
		if cp.X < prevX {
			t.Errorf("expected monotonically non-decreasing pixel X as cursor advances, but X dropped from %v to %v at rune %d", prevX, cp.X, i)
		}
		prevX = cp.X
	}
}

func TestCalcCursorPixelPosExactGlyphBoundaries(t *testing.T) {
	pl := syntheticLayout()
	for i := 0; i <= 5; i++ {
		cp := pl.CalcCursorPixelPos(1000, AlignLeft, i)
		want := float32(10 * i)
		if cp.X != want {
			t.Errorf("cursor %d: expected pixel X %v but got %v", i, want, cp.X)
		}
	}
}

func TestFindClosestCursorPositionRestrictsToLine(t *testing.T) {
	pl := syntheticLayout()
	boundaries := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	// x=55 is past line 0's total width (50px) but this should still only
	// consider line 0's own boundaries [0,5], landing on its last one.
	got := pl.FindClosestCursorPosition(1000, AlignLeft, boundaries, 0, 55)
	if got != 5 {
		t.Errorf("expected closest position on line 0 to be 5 but got %d", got)
	}
	got = pl.FindClosestCursorPosition(1000, AlignLeft, boundaries, 1, 30)
	if got != 8 {
		t.Errorf("expected closest position on line 1 at x=30 to be rune 8 but got %d", got)
	}
}

func TestGetClosestLineToHeight(t *testing.T) {
	pl := syntheticLayout()
	pl.Lines[0].Ascent, pl.Lines[0].Descent, pl.Lines[0].Y = 10, 2, 10
	pl.Lines[1].Ascent, pl.Lines[1].Descent, pl.Lines[1].Y = 10, 2, 30
	if got := pl.GetClosestLineToHeight(5); got != 0 {
		t.Errorf("expected y=5 to land on line 0 but got %d", got)
	}
	if got := pl.GetClosestLineToHeight(25); got != 1 {
		t.Errorf("expected y=25 to land on line 1 but got %d", got)
	}
}

func TestGetPositionRangeInRun(t *testing.T) {
	pl := syntheticLayout()
	minX, maxX := pl.GetPositionRangeInRun(0, 0, 1, 3)
	if minX != 10 || maxX != 30 {
		t.Errorf("expected range [10,30) for runes [1,3) but got [%v,%v)", minX, maxX)
	}
}

func TestRunContainsCharRange(t *testing.T) {
	pl := syntheticLayout()
	if !pl.RunContainsCharRange(0, 0, 1, 3) {
		t.Errorf("expected run 0 on line 0 to contain [1,3)")
	}
	if pl.RunContainsCharRange(0, 0, 4, 7) {
		t.Errorf("expected run 0 on line 0 to NOT contain [4,7), which spans past its end")
	}
}

func TestLineOriginXAlignment(t *testing.T) {
	pl := syntheticLayout() // line 0 width = 50px
	if got := pl.LineOriginX(0, 200, AlignLeft); got != 0 {
		t.Errorf("expected left-aligned origin 0 but got %v", got)
	}
	if got := pl.LineOriginX(0, 200, AlignCenter); got != 75 {
		t.Errorf("expected centered origin 75 but got %v", got)
	}
	if got := pl.LineOriginX(0, 200, AlignRight); got != 150 {
		t.Errorf("expected right-aligned origin 150 but got %v", got)
	}
}
