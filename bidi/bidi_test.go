// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bidi

import "testing"

func TestNewParagraphPureLTR(t *testing.T) {
	p := NewParagraph("hello world", LTR)
	if p.Direction != LTR {
		t.Errorf("expected LTR direction but got %v", p.Direction)
	}
	if p.ParaLevel != 0 {
		t.Errorf("expected paraLevel 0 but got %d", p.ParaLevel)
	}
}

func TestNewParagraphExplicitRTLBase(t *testing.T) {
	p := NewParagraph("hello", RTL)
	if p.ParaLevel != 1 {
		t.Errorf("expected paraLevel 1 for explicit RTL base but got %d", p.ParaLevel)
	}
}

func TestLineRunLengthsSumToLineLength(t *testing.T) {
	p := NewParagraph("hello world", LTR)
	ln, err := p.NewLine(0, p.Len())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var total int
	for _, r := range ln.Runs {
		total += r.Length()
	}
	if total != ln.length() {
		t.Errorf("expected run lengths to sum to line length %d but got %d", ln.length(), total)
	}
}

func TestVisualLogicalRoundTrip(t *testing.T) {
	p := NewParagraph("hello world", LTR)
	ln, err := p.NewLine(0, p.Len())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < ln.length(); i++ {
		v := ln.VisualIndex(i)
		if v == NoWhere {
			t.Fatalf("index %d: unexpected NoWhere", i)
		}
		back := ln.LogicalIndex(v)
		if back != i {
			t.Errorf("round trip failed at logical %d: visual %d mapped back to %d", i, v, back)
		}
	}
}

func TestPureLTRLineIsIdentityMap(t *testing.T) {
	p := NewParagraph("abcdef", LTR)
	ln, err := p.NewLine(0, p.Len())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < ln.length(); i++ {
		if v := ln.VisualIndex(i); v != i {
			t.Errorf("expected identity map for pure LTR line, index %d: expected %d but got %d", i, i, v)
		}
	}
}

func TestNewLineOutOfBoundsRangeErrors(t *testing.T) {
	p := NewParagraph("hello", LTR)
	if _, err := p.NewLine(-1, p.Len()); err == nil {
		t.Errorf("expected error for negative start")
	}
	if _, err := p.NewLine(0, p.Len()+1); err == nil {
		t.Errorf("expected error for limit past end")
	}
	if _, err := p.NewLine(3, 1); err == nil {
		t.Errorf("expected error when start > limit")
	}
}

func TestTrailingWhitespaceTrimmedFromRuns(t *testing.T) {
	p := NewParagraph("hello   ", LTR)
	ln, err := p.NewLine(0, p.Len())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ln.TrailingWSStart != 5 {
		t.Errorf("expected trailing whitespace start at 5 but got %d", ln.TrailingWSStart)
	}
}

func TestLogicalMapAndVisualMapAreInverses(t *testing.T) {
	p := NewParagraph("go lang", LTR)
	ln, err := p.NewLine(0, p.Len())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lm := ln.LogicalMap()
	vm := ln.VisualMap()
	for i, v := range lm {
		if v == NoWhere {
			continue
		}
		if vm[v] != i {
			t.Errorf("logical %d -> visual %d -> logical %d, expected round trip", i, v, vm[v])
		}
	}
}

func TestRuneIndexForByteOffsetHandlesMultiByte(t *testing.T) {
	p := NewParagraph("aéb", LTR) // 'a', 'é' (2 bytes), 'b'
	text := "aéb"
	if got := p.RuneIndexForByteOffset(text, 0); got != 0 {
		t.Errorf("expected rune index 0 at byte 0 but got %d", got)
	}
	if got := p.RuneIndexForByteOffset(text, 1); got != 1 {
		t.Errorf("expected rune index 1 at byte 1 but got %d", got)
	}
	if got := p.RuneIndexForByteOffset(text, 3); got != 2 {
		t.Errorf("expected rune index 2 at byte 3 but got %d", got)
	}
}
