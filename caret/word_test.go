// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caret

import "testing"

func TestClassOf(t *testing.T) {
	tests := []struct {
		r    rune
		want wordClass
	}{
		{'a', classOther},
		{'1', classOther},
		{' ', classSpace},
		{'\t', classSpace},
		{'\n', classLineBreak},
		{'\r', classLineBreak},
		{'\u2028', classLineBreak},
		{'\u2029', classLineBreak},
	}
	for _, test := range tests {
		if got := classOf(test.r); got != test.want {
			t.Errorf("classOf(%q): expected %v but got %v", test.r, test.want, got)
		}
	}
}

func TestNextWordBoundary(t *testing.T) {
	text := []rune("hello world")
	bounds := graphemeBoundaries(text)
	if got := nextWordBoundary(text, bounds, 0); got != 5 {
		t.Errorf("expected next word boundary from 0 to be 5 but got %d", got)
	}
	if got := nextWordBoundary(text, bounds, 5); got != 11 {
		t.Errorf("expected next word boundary from 5 to be 11 but got %d", got)
	}
}

func TestPrevWordBoundary(t *testing.T) {
	text := []rune("hello world")
	bounds := graphemeBoundaries(text)
	if got := prevWordBoundary(text, bounds, 11); got != 6 {
		t.Errorf("expected prev word boundary from 11 to be 6 but got %d", got)
	}
	if got := prevWordBoundary(text, bounds, 6); got != 0 {
		t.Errorf("expected prev word boundary from 6 to be 0 but got %d", got)
	}
}

func TestWordRangeAt(t *testing.T) {
	text := []rune("hello world")
	bounds := graphemeBoundaries(text)
	start, end := wordRangeAt(text, bounds, 2)
	if start != 0 || end != 5 {
		t.Errorf("expected word range [0,5) for pos 2 but got [%d,%d)", start, end)
	}
	start, end = wordRangeAt(text, bounds, 5)
	if start != 5 || end != 6 {
		t.Errorf("expected single-space run range [5,6) for pos 5 but got [%d,%d)", start, end)
	}
	start, end = wordRangeAt(text, bounds, 8)
	if start != 6 || end != 11 {
		t.Errorf("expected word range [6,11) for pos 8 but got [%d,%d)", start, end)
	}
}
