// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bidi

import (
	"unicode/utf8"

	xbidi "golang.org/x/text/unicode/bidi"
)

// InsertFlag marks a directional mark (LRM/RLM) that should be
// conceptually inserted around a position when the line is rendered, per
// spec.md §4.C step 6. The per-control decrements of step 7 are accumulated
// into the same field after the flags are OR'd in, so the two cannot be
// told apart in a run that holds both.
type InsertFlag int32

const (
	InsertLRMBefore InsertFlag = 1 << 16
	InsertLRMAfter  InsertFlag = 1 << 17
	InsertRLMBefore InsertFlag = 1 << 18
	InsertRLMAfter  InsertFlag = 1 << 19
)

// InsertPoint requests a directional mark be considered present at pos
// (a line-relative rune index) with the given flag.
type InsertPoint struct {
	Pos  int
	Flag InsertFlag
}

// Run is one maximal constant-level (or trailing-WS) span of a [Line], in
// visual order after [Line.buildRuns] runs L2 reordering.
type Run struct {
	// LogicalStart packs the line-relative logical start index in the
	// upper bits and the run's level parity in bit 0, set during
	// finalization (spec.md §4.C step 5).
	LogicalStart int32
	// VisualLimit is the cumulative visual end offset of this run.
	VisualLimit int32
	// InsertRemove accumulates OR'd InsertFlag bits (marks to insert) and
	// per-control decrements (spec.md §4.C steps 6-7).
	InsertRemove int32

	length int32 // logical length, used internally before finalization
}

// LogicalStartIndex returns the run's logical start with the parity bit
// masked off.
func (r Run) LogicalStartIndex() int { return int(r.LogicalStart >> 1) }

// Odd reports whether this run's level is odd (right-to-left).
func (r Run) Odd() bool { return r.LogicalStart&1 != 0 }

// Length returns the run's logical length in line-relative runes, so
// callers outside this package (layout's bidi/font-run intersection, per
// spec.md §4.D step 4) can recover the run's full logical range from
// LogicalStartIndex()+Length() without reaching into the unexported field
// finalizeRuns populates it from.
func (r Run) Length() int { return int(r.length) }

// Line is a line-level bidi view over a [Paragraph]'s range, produced by
// [Paragraph.NewLine].
type Line struct {
	paragraph *Paragraph

	Start, Limit    int
	ParaLevel       uint8
	Direction       Direction
	TrailingWSStart int

	Runs         []Run
	ControlCount int

	insertPoints []InsertPoint
}

func (ln *Line) length() int { return ln.Limit - ln.Start }

// levelAt returns the resolved paragraph level for the line-relative index i.
func (ln *Line) levelAt(i int) uint8 {
	return ln.paragraph.levels[ln.Start+i]
}

// setTrailingWSStart implements spec.md §4.C step 4.
func (ln *Line) setTrailingWSStart() {
	length := ln.length()
	i := length
	for i > 0 && isWSClass(ln.paragraph.dirProps[ln.Start+i-1]) {
		i--
	}
	for i > 0 && ln.levelAt(i-1) == ln.ParaLevel {
		i--
	}
	ln.TrailingWSStart = i
	if length > 0 && ln.paragraph.dirProps[ln.Start+length-1] == blockSeparatorClass() {
		ln.TrailingWSStart = length
	}
}

// recomputeDirection implements spec.md §4.C step 5.
func (ln *Line) recomputeDirection() {
	if ln.TrailingWSStart == 0 {
		if ln.ParaLevel&1 == 0 {
			ln.Direction = LTR
		} else {
			ln.Direction = RTL
		}
		return
	}

	base := ln.levelAt(0) & 1
	// trailing WS runs at paraLevel; compare parity against the first char.
	if ln.TrailingWSStart < ln.length() && (ln.ParaLevel&1) != base {
		ln.Direction = Mixed
		return
	}
	for i := 1; i < ln.TrailingWSStart; i++ {
		if ln.levelAt(i)&1 != base {
			ln.Direction = Mixed
			return
		}
	}
	if base == 0 {
		ln.Direction = LTR
	} else {
		ln.Direction = RTL
	}
}

// buildRuns implements the "Counting runs + reorder (getRuns)" algorithm
// of spec.md §4.C.
func (ln *Line) buildRuns() {
	length := ln.length()
	if length == 0 {
		return
	}

	if ln.Direction != Mixed {
		ln.Runs = []Run{{length: int32(length)}}
		ln.finalizeRuns()
		ln.applyInsertPoints()
		ln.removeControls()
		return
	}

	var runs []Run
	minLevel, maxLevel := ln.ParaLevel, ln.ParaLevel
	runStart := 0
	for i := 1; i < ln.TrailingWSStart; i++ {
		if ln.levelAt(i) != ln.levelAt(runStart) {
			lvl := ln.levelAt(runStart)
			runs = append(runs, Run{LogicalStart: int32(runStart), length: int32(i - runStart)})
			minLevel, maxLevel = minMax(minLevel, maxLevel, lvl)
			runStart = i
		}
	}
	if ln.TrailingWSStart > 0 {
		lvl := ln.levelAt(runStart)
		runs = append(runs, Run{LogicalStart: int32(runStart), length: int32(ln.TrailingWSStart - runStart)})
		minLevel, maxLevel = minMax(minLevel, maxLevel, lvl)
	}
	trailingIdx := -1
	if ln.TrailingWSStart < length {
		trailingIdx = len(runs)
		runs = append(runs, Run{LogicalStart: int32(ln.TrailingWSStart), length: int32(length - ln.TrailingWSStart)})
		minLevel, maxLevel = minMax(minLevel, maxLevel, ln.ParaLevel)
	}

	ln.Runs = runs
	ln.reorderLine(minLevel, maxLevel, trailingIdx)
	ln.finalizeRuns()
	ln.applyInsertPoints()
	ln.removeControls()
}

func minMax(curMin, curMax, lvl uint8) (uint8, uint8) {
	if lvl < curMin {
		curMin = lvl
	}
	if lvl > curMax {
		curMax = lvl
	}
	return curMin, curMax
}

// reorderLine implements spec.md §4.C step 4 (reorderLine): UAX #9 L2 over
// the accumulated runs, excluding the trailing WS run from inner passes but
// including it in the final full-array reversal, which is done only when the
// lowest level is odd (minLevel is even once incremented).
func (ln *Line) reorderLine(minLevel, maxLevel uint8, trailingIdx int) {
	minLevel++
	inner := ln.Runs
	hasTrailing := trailingIdx >= 0
	if hasTrailing {
		inner = ln.Runs[:trailingIdx]
	}

	runLevel := func(i int) uint8 {
		// level recovered from the run's first logical char.
		return ln.levelAt(int(ln.Runs[i].LogicalStart))
	}

	for level := maxLevel; level >= minLevel && level > 0; level-- {
		start := -1
		for i := 0; i < len(inner); i++ {
			if runLevel(i) >= level {
				if start < 0 {
					start = i
				}
			} else if start >= 0 {
				reverseRuns(inner, start, i-1)
				start = -1
			}
		}
		if start >= 0 {
			reverseRuns(inner, start, len(inner)-1)
		}
		if level == minLevel {
			break
		}
	}

	if minLevel&1 == 0 {
		reverseRuns(ln.Runs, 0, len(ln.Runs)-1)
	}
}

func reverseRuns(runs []Run, i, j int) {
	for i < j {
		runs[i], runs[j] = runs[j], runs[i]
		i++
		j--
	}
}

// finalizeRuns implements spec.md §4.C step 5.
func (ln *Line) finalizeRuns() {
	var visual int32
	for i := range ln.Runs {
		r := &ln.Runs[i]
		logicalStart := r.LogicalStart
		var parity int32
		if int(logicalStart) < ln.TrailingWSStart || len(ln.Runs) == 1 {
			parity = int32(ln.levelAt(int(logicalStart)) & 1)
		} else {
			parity = int32(ln.ParaLevel & 1)
		}
		r.LogicalStart = (logicalStart << 1) | parity
		visual += r.length
		r.VisualLimit = visual
	}
}

// applyInsertPoints implements spec.md §4.C step 6.
func (ln *Line) applyInsertPoints() {
	for _, ip := range ln.insertPoints {
		idx := ln.runContaining(ip.Pos)
		if idx >= 0 {
			ln.Runs[idx].InsertRemove |= int32(ip.Flag)
		}
	}
}

// AddInsertPoint records a directional mark at pos and ORs its flag into the
// containing run at once; VisualIndex counts it from then on. Exposed so
// callers assembling a line can request LRM/RLM insertion around bidi
// boundary characters.
func (ln *Line) AddInsertPoint(pos int, flag InsertFlag) {
	ln.insertPoints = append(ln.insertPoints, InsertPoint{Pos: pos, Flag: flag})
	ln.applyInsertPoints()
}

func (ln *Line) runContaining(pos int) int {
	for i, r := range ln.Runs {
		start := r.LogicalStartIndex()
		if pos >= start && pos < start+int(r.length) {
			return i
		}
	}
	return -1
}

// removeControls implements spec.md §4.C step 7 and the UTF-8 correctness
// requirement: it decodes the line's source runes one code point at a time
// rather than indexing raw UTF-8 bytes.
func (ln *Line) removeControls() {
	for i := 0; i < ln.length(); i++ {
		r := ln.paragraph.Text[ln.Start+i]
		if isBidiControl(r) {
			idx := ln.runContaining(i)
			if idx >= 0 {
				ln.Runs[idx].InsertRemove--
				ln.ControlCount++
			}
		}
	}
}

func isBidiControl(r rune) bool {
	switch {
	case r == 0x200E || r == 0x200F:
		return true
	case r >= 0x202A && r <= 0x202E:
		return true
	case r >= 0x2066 && r <= 0x2069:
		return true
	}
	return false
}

// blockSeparatorClass names the paragraph-separator comparison used by
// setTrailingWSStart.
func blockSeparatorClass() xbidi.Class { return xbidi.B }

// RuneIndexForByteOffset converts a caller-supplied UTF-8 byte offset into
// this paragraph's source text to a rune index, per spec.md §4.C's explicit
// requirement that byte offsets never split inside a multi-byte sequence:
// decoding proceeds one code point at a time rather than indexing bytes.
func (p *Paragraph) RuneIndexForByteOffset(text string, byteOffset int) int {
	n := 0
	for i := range text {
		if i >= byteOffset {
			break
		}
		n++
		_, sz := utf8.DecodeRuneInString(text[i:])
		if sz > 1 {
			// multi-byte rune: the loop's range already advances by rune
			// boundaries, so nothing further to do here.
			_ = sz
		}
	}
	return n
}
