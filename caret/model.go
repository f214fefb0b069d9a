// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package caret implements component F, CaretModel: the cursor/selection
// state of a single-paragraph text box, its grapheme/word/line/document
// navigation primitives, click-to-select accumulation, and text edit
// operations. It is grounded on the teacher's cursor-movement methods
// (caret/nav_ref.go's Base.cursorForward/cursorBackwardWord/etc.) and
// word-boundary helpers (caret/word_ref.go's ForwardWord/BackwardWord),
// generalized from the teacher's multi-line rope-backed Lines buffer down
// to a single []rune paragraph plus a [layout.ParagraphLayout] for the
// line-aware queries (spec.md §4.F).
package caret

import (
	"time"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/Mlleters/rich-text/layout"
)

// NoSelection is the SelectionStart sentinel meaning no selection is
// active (spec.md §4.F's `selectionStart: CursorPosition|INVALID`).
const NoSelection = -1

// DoubleClickTime is the window spec.md §4.F's click accumulation uses to
// decide whether a click continues the previous click's run.
const DoubleClickTime = 500 * time.Millisecond

// Clipboard is the platform clipboard callback spec.md §4.F's cut/copy/
// paste ops are defined against (spec.md §6 "clipboard get/set of UTF-8
// strings").
type Clipboard interface {
	SetText(s string)
	Text() string
}

// Model is one text box's cursor/selection state (spec.md §4.F). Text is
// the box's owned rune buffer; edit operations mutate it directly, and the
// owning box is expected to re-layout afterward (spec.md §4.G "Orchestrates
// a re-layout on any of: ... edit").
type Model struct {
	Text           []rune
	Cursor         int
	SelectionStart int

	// MultiLine controls Enter's behavior: insert a newline, or release
	// focus (spec.md §4.F).
	MultiLine bool

	Clipboard Clipboard

	lastClickTime time.Time
	lastClickPos  int
	ClickCount    int

	// graphemeBounds are cached grapheme-cluster boundary rune indices
	// into Text, recomputed on SetText; navigation and hit-testing never
	// leave Cursor mid-cluster (spec.md §4.F "use a grapheme cluster
	// boundary iterator").
	graphemeBounds []int
}

// New returns an empty Model.
func New(multiLine bool) *Model {
	m := &Model{MultiLine: multiLine, SelectionStart: NoSelection}
	m.refreshGraphemeBounds()
	return m
}

// SetText replaces the model's text buffer, resets the cursor and
// selection, and recomputes grapheme boundaries.
func (m *Model) SetText(text []rune) {
	m.Text = text
	m.Cursor = 0
	m.SelectionStart = NoSelection
	m.refreshGraphemeBounds()
}

func (m *Model) refreshGraphemeBounds() {
	m.graphemeBounds = graphemeBoundaries(m.Text)
}

// graphemeBoundaries returns the ordered grapheme-cluster boundary rune
// indices into text, starting at 0 and ending at len(text). Grounded on
// the teacher-adjacent iw2rmb-flourish grapheme package's uniseg.Graphemes
// walk, adapted to work in rune-index space rather than byte/string space
// since the rest of this package addresses text by rune index.
func graphemeBoundaries(text []rune) []int {
	bounds := []int{0}
	if len(text) == 0 {
		return bounds
	}
	g := uniseg.NewGraphemes(string(text))
	pos := 0
	for g.Next() {
		pos += utf8.RuneCountInString(g.Str())
		bounds = append(bounds, pos)
	}
	return bounds
}

func (m *Model) nextGraphemeBoundary(pos int) int {
	i := boundIndex(m.graphemeBounds, pos)
	if i < len(m.graphemeBounds)-1 {
		i++
	}
	return m.graphemeBounds[i]
}

func (m *Model) prevGraphemeBoundary(pos int) int {
	i := boundIndex(m.graphemeBounds, pos)
	if m.graphemeBounds[i] >= pos && i > 0 {
		i--
	}
	return m.graphemeBounds[i]
}

// HasSelection reports whether a non-empty selection is active.
func (m *Model) HasSelection() bool {
	return m.SelectionStart != NoSelection && m.SelectionStart != m.Cursor
}

// SelectionRange returns the selection's [start, end) rune range,
// normalized so start <= end regardless of which end the cursor sits at.
func (m *Model) SelectionRange() (start, end int) {
	if m.SelectionStart == NoSelection {
		return m.Cursor, m.Cursor
	}
	if m.SelectionStart < m.Cursor {
		return m.SelectionStart, m.Cursor
	}
	return m.Cursor, m.SelectionStart
}

// ClearSelection drops any active selection without moving the cursor.
func (m *Model) ClearSelection() { m.SelectionStart = NoSelection }

// beginMove implements spec.md §4.F's selection rule: "if selectionMode,
// selectionStart is captured at the first move; cursor updates
// thereafter; clear on non-selection move." Grounded on the teacher's
// cursorSelectShow/cursorSelect org-position pattern (caret/nav_ref.go).
func (m *Model) beginMove(selectionMode bool) {
	if selectionMode {
		if m.SelectionStart == NoSelection {
			m.SelectionStart = m.Cursor
		}
	} else {
		m.SelectionStart = NoSelection
	}
}

// NextChar moves the cursor forward one grapheme cluster.
func (m *Model) NextChar(selectionMode bool) {
	m.beginMove(selectionMode)
	m.Cursor = m.nextGraphemeBoundary(m.Cursor)
}

// PrevChar moves the cursor backward one grapheme cluster.
func (m *Model) PrevChar(selectionMode bool) {
	m.beginMove(selectionMode)
	m.Cursor = m.prevGraphemeBoundary(m.Cursor)
}

// NextWord moves the cursor forward to the end of the next word.
func (m *Model) NextWord(selectionMode bool) {
	m.beginMove(selectionMode)
	m.Cursor = nextWordBoundary(m.Text, m.graphemeBounds, m.Cursor)
}

// PrevWord moves the cursor backward to the start of the previous word.
func (m *Model) PrevWord(selectionMode bool) {
	m.beginMove(selectionMode)
	m.Cursor = prevWordBoundary(m.Text, m.graphemeBounds, m.Cursor)
}

// TextStart moves the cursor to the beginning of the text.
func (m *Model) TextStart(selectionMode bool) {
	m.beginMove(selectionMode)
	m.Cursor = 0
}

// TextEnd moves the cursor to the end of the text.
func (m *Model) TextEnd(selectionMode bool) {
	m.beginMove(selectionMode)
	m.Cursor = len(m.Text)
}

// LineStart moves the cursor to the start of the wrapped line it
// currently sits on. Requires a current layout (spec.md §4.F).
func (m *Model) LineStart(selectionMode bool, pl *layout.ParagraphLayout) {
	m.beginMove(selectionMode)
	li := pl.LineIndexForRune(m.Cursor)
	m.Cursor = pl.GetLineStartPosition(li)
}

// LineEnd moves the cursor to the end of the wrapped line it currently
// sits on. Requires a current layout (spec.md §4.F).
func (m *Model) LineEnd(selectionMode bool, pl *layout.ParagraphLayout) {
	m.beginMove(selectionMode)
	li := pl.LineIndexForRune(m.Cursor)
	m.Cursor = pl.GetLineEndPosition(li)
}

// moveLine moves the cursor to the closest position, by pixel X, on the
// wrapped line dir positions away from its current line. Grounded on the
// teacher's cursorDown/cursorUp (caret/nav_ref.go), generalized from the
// teacher's persistent cursorColumn to re-deriving the target X from the
// cursor's current pixel position each call, since this module has no
// multi-call navigation session state beyond Model itself.
func (m *Model) moveLine(selectionMode bool, pl *layout.ParagraphLayout, boxWidth float32, xAlign layout.XAlign, dir int) {
	m.beginMove(selectionMode)
	cur := pl.CalcCursorPixelPos(boxWidth, xAlign, m.Cursor)
	li := cur.LineIndex + dir
	if li < 0 || li >= pl.LineCount() {
		return
	}
	m.Cursor = pl.FindClosestCursorPosition(boxWidth, xAlign, m.graphemeBounds, li, cur.X)
}

// NextLine moves the cursor down one wrapped line, preserving its pixel X
// position as closely as possible. Requires a current layout.
func (m *Model) NextLine(selectionMode bool, pl *layout.ParagraphLayout, boxWidth float32, xAlign layout.XAlign) {
	m.moveLine(selectionMode, pl, boxWidth, xAlign, 1)
}

// PrevLine moves the cursor up one wrapped line. Requires a current layout.
func (m *Model) PrevLine(selectionMode bool, pl *layout.ParagraphLayout, boxWidth float32, xAlign layout.XAlign) {
	m.moveLine(selectionMode, pl, boxWidth, xAlign, -1)
}

// MoveToMouse sets the cursor to the closest grapheme boundary position on
// the wrapped line nearest y, then closest to x within that line (spec.md
// §4.F move_to_mouse).
func (m *Model) MoveToMouse(selectionMode bool, pl *layout.ParagraphLayout, boxWidth float32, xAlign layout.XAlign, x, y float32) {
	m.beginMove(selectionMode)
	li := pl.GetClosestLineToHeight(y)
	m.Cursor = pl.FindClosestCursorPosition(boxWidth, xAlign, m.graphemeBounds, li, x)
}
