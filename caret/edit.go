// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caret

// InsertText inserts s at rune index at, adjusting the cursor and any
// active selection that lies at or after at (spec.md §4.F insert_text).
func (m *Model) InsertText(s string, at int) {
	r := []rune(s)
	if len(r) == 0 {
		return
	}
	text := make([]rune, 0, len(m.Text)+len(r))
	text = append(text, m.Text[:at]...)
	text = append(text, r...)
	text = append(text, m.Text[at:]...)
	m.Text = text

	if m.Cursor >= at {
		m.Cursor += len(r)
	}
	if m.SelectionStart != NoSelection && m.SelectionStart >= at {
		m.SelectionStart += len(r)
	}
	m.refreshGraphemeBounds()
}

// adjustForRemoval maps a rune index across the removal of [start, end):
// positions before start are unaffected, positions at or after end shift
// left by the removed length, and positions inside the removed range
// collapse to start.
func adjustForRemoval(pos, start, end int) int {
	switch {
	case pos <= start:
		return pos
	case pos >= end:
		return pos - (end - start)
	default:
		return start
	}
}

// RemoveText deletes the rune range [start, end), a no-op if the range is
// empty (spec.md §7 "edit operations that would produce invalid states
// ... are no-ops").
func (m *Model) RemoveText(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(m.Text) {
		end = len(m.Text)
	}
	if start >= end {
		return
	}
	text := make([]rune, 0, len(m.Text)-(end-start))
	text = append(text, m.Text[:start]...)
	text = append(text, m.Text[end:]...)
	m.Text = text

	m.Cursor = adjustForRemoval(m.Cursor, start, end)
	if m.SelectionStart != NoSelection {
		m.SelectionStart = adjustForRemoval(m.SelectionStart, start, end)
	}
	m.refreshGraphemeBounds()
}

// RemoveHighlighted deletes the active selection, if any, and leaves the
// cursor at the deletion point (spec.md §4.F remove_highlighted).
func (m *Model) RemoveHighlighted() {
	if !m.HasSelection() {
		return
	}
	start, end := m.SelectionRange()
	m.RemoveText(start, end)
	m.SelectionStart = NoSelection
	m.Cursor = start
}

// Backspace deletes the grapheme (or, if wordGranular, the word)
// immediately before the cursor, or the selection if one is active
// (spec.md §4.F "backspace/delete (with Ctrl = word-granular)").
func (m *Model) Backspace(wordGranular bool) {
	if m.HasSelection() {
		m.RemoveHighlighted()
		return
	}
	if m.Cursor == 0 {
		return
	}
	start := m.prevGraphemeBoundary(m.Cursor)
	if wordGranular {
		start = prevWordBoundary(m.Text, m.graphemeBounds, m.Cursor)
	}
	end := m.Cursor
	m.RemoveText(start, end)
}

// Delete deletes the grapheme (or, if wordGranular, the word) immediately
// after the cursor, or the selection if one is active.
func (m *Model) Delete(wordGranular bool) {
	if m.HasSelection() {
		m.RemoveHighlighted()
		return
	}
	if m.Cursor >= len(m.Text) {
		return
	}
	end := m.nextGraphemeBoundary(m.Cursor)
	if wordGranular {
		end = nextWordBoundary(m.Text, m.graphemeBounds, m.Cursor)
	}
	m.RemoveText(m.Cursor, end)
}

// Enter implements spec.md §4.F's enter behavior: insert a newline if the
// box is multi-line, otherwise report that focus should be released.
// Returns true if a newline was inserted.
func (m *Model) Enter() bool {
	if !m.MultiLine {
		return false
	}
	if m.HasSelection() {
		m.RemoveHighlighted()
	}
	m.InsertText("\n", m.Cursor)
	return true
}

// Copy writes the active selection's text to the clipboard, a no-op if
// there is no selection or no clipboard is attached.
func (m *Model) Copy() {
	if m.Clipboard == nil || !m.HasSelection() {
		return
	}
	start, end := m.SelectionRange()
	m.Clipboard.SetText(string(m.Text[start:end]))
}

// Cut copies the active selection to the clipboard and deletes it.
func (m *Model) Cut() {
	if m.Clipboard == nil || !m.HasSelection() {
		return
	}
	start, end := m.SelectionRange()
	m.Clipboard.SetText(string(m.Text[start:end]))
	m.RemoveHighlighted()
}

// Paste replaces the active selection (if any) with the clipboard's
// current text, inserting at the cursor if there is no selection.
func (m *Model) Paste() {
	if m.Clipboard == nil {
		return
	}
	s := m.Clipboard.Text()
	if s == "" {
		return
	}
	if m.HasSelection() {
		m.RemoveHighlighted()
	}
	m.InsertText(s, m.Cursor)
}
