// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caret

import (
	"testing"
	"time"

	"github.com/Mlleters/rich-text/layout"
)

// singleLineLayout builds a minimal one-line [layout.ParagraphLayout]
// covering [0, end) with no shaped runs — sufficient for tests that only
// exercise line lookup and click accumulation, not pixel-accurate hit
// testing (which requires real shaped glyph advances).
func singleLineLayout(end int) *layout.ParagraphLayout {
	pl := &layout.ParagraphLayout{}
	pl.Lines = []layout.Line{{Start: 0, End: end, Ascent: 10, Descent: 2, Y: 10}}
	return pl
}

func TestClickAccumulationSelectsWordThenLineThenAll(t *testing.T) {
	m := New(false)
	m.SetText([]rune("hello world"))
	pl := singleLineLayout(len(m.Text))
	base := time.Unix(0, 0)

	m.Click(pl, 100, layout.AlignLeft, 0, 0, base)
	if m.ClickCount != 1 {
		t.Fatalf("expected ClickCount 1 but got %d", m.ClickCount)
	}
	start, end := m.SelectionRange()
	if start != 0 || end != 5 {
		t.Errorf("expected word selection [0,5) but got [%d,%d)", start, end)
	}

	m.Click(pl, 100, layout.AlignLeft, 0, 0, base.Add(100*time.Millisecond))
	if m.ClickCount != 2 {
		t.Fatalf("expected ClickCount 2 but got %d", m.ClickCount)
	}
	start, end = m.SelectionRange()
	if start != 0 || end != 11 {
		t.Errorf("expected line selection [0,11) but got [%d,%d)", start, end)
	}

	m.Click(pl, 100, layout.AlignLeft, 0, 0, base.Add(200*time.Millisecond))
	if m.ClickCount != 3 {
		t.Fatalf("expected ClickCount 3 but got %d", m.ClickCount)
	}
	start, end = m.SelectionRange()
	if start != 0 || end != 11 {
		t.Errorf("expected whole-text selection [0,11) but got [%d,%d)", start, end)
	}

	m.Click(pl, 100, layout.AlignLeft, 0, 0, base.Add(300*time.Millisecond))
	if m.ClickCount%4 != 0 {
		t.Fatalf("expected ClickCount%%4 == 0 on the fourth click but got %d", m.ClickCount)
	}
	if m.HasSelection() {
		t.Errorf("expected the fourth click to collapse to a single caret with no selection")
	}
}

func TestClickResetsAccumulationAfterDoubleClickWindow(t *testing.T) {
	m := New(false)
	m.SetText([]rune("hello world"))
	pl := singleLineLayout(len(m.Text))
	base := time.Unix(0, 0)

	m.Click(pl, 100, layout.AlignLeft, 0, 0, base)
	m.Click(pl, 100, layout.AlignLeft, 0, 0, base.Add(DoubleClickTime+time.Millisecond))
	if m.ClickCount != 1 {
		t.Errorf("expected click outside the double-click window to reset ClickCount to 1 but got %d", m.ClickCount)
	}
}
