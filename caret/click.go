// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caret

import (
	"time"

	"github.com/Mlleters/rich-text/layout"
)

// Click handles a mouse click at (x, y), accumulating clickCount per
// spec.md §4.F: within [DoubleClickTime] and at the same hit position,
// clickCount increments; otherwise it resets to 1. clickCount%4 selects
// what the click does: 1 the word under the cursor, 2 the line, 3 the
// whole text, 0 (every fourth click) collapses back to a single caret.
func (m *Model) Click(pl *layout.ParagraphLayout, boxWidth float32, xAlign layout.XAlign, x, y float32, now time.Time) {
	li := pl.GetClosestLineToHeight(y)
	pos := pl.FindClosestCursorPosition(boxWidth, xAlign, m.graphemeBounds, li, x)

	if m.ClickCount > 0 && pos == m.lastClickPos && now.Sub(m.lastClickTime) <= DoubleClickTime {
		m.ClickCount++
	} else {
		m.ClickCount = 1
	}
	m.lastClickTime = now
	m.lastClickPos = pos

	m.Cursor = pos
	m.SelectionStart = NoSelection

	switch m.ClickCount % 4 {
	case 1:
		start, end := wordRangeAt(m.Text, m.graphemeBounds, pos)
		m.SelectionStart, m.Cursor = start, end
	case 2:
		li := pl.LineIndexForRune(pos)
		m.SelectionStart = pl.GetLineStartPosition(li)
		m.Cursor = pl.GetLineEndPosition(li)
	case 3:
		m.SelectionStart = 0
		m.Cursor = len(m.Text)
	case 0:
		// single caret, no selection: already set above.
	}
}
