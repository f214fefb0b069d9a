// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bidi

// linearSearchThreshold is the run-count cutoff spec.md §4.C names for
// switching logical_index's run lookup from linear to binary search.
const linearSearchThreshold = 10

// LevelAt returns the resolved bidi level for the line-relative logical
// index i, per spec.md §4.C.
func (ln *Line) LevelAt(i int) uint8 {
	if i >= ln.TrailingWSStart || ln.Direction != Mixed {
		return ln.ParaLevel
	}
	return ln.levelAt(i)
}

// VisualIndex maps a line-relative logical index to its visual position,
// per spec.md §4.C. Returns [NoWhere] if logicalIndex addresses a removed
// bidi control.
func (ln *Line) VisualIndex(logicalIndex int) int {
	if len(ln.Runs) <= 1 {
		if ln.controlBefore(logicalIndex) {
			return NoWhere
		}
		return logicalIndex + ln.markAdjustment(logicalIndex, 0, ln.length()) - ln.controlAdjustment(logicalIndex, 0, ln.length())
	}

	for _, r := range ln.Runs {
		start := r.LogicalStartIndex()
		length := int(r.length)
		if logicalIndex < start || logicalIndex >= start+length {
			continue
		}
		var visualStart int32
		// visualStart is this run's visual start, i.e. the previous run's
		// VisualLimit (0 for the first run).
		visualStart = ln.visualStartOf(r)

		var visual int
		if !r.Odd() {
			visual = int(visualStart) + (logicalIndex - start)
		} else {
			visual = int(visualStart) + length - (logicalIndex - start) - 1
		}

		if isControlAt(ln, logicalIndex) {
			return NoWhere
		}
		visual += ln.markAdjustment(logicalIndex, start, start+length)
		visual -= ln.controlAdjustment(logicalIndex, start, start+length)
		return visual
	}
	return NoWhere
}

func (ln *Line) visualStartOf(target Run) int32 {
	for _, r := range ln.Runs {
		if r.LogicalStart == target.LogicalStart && r.VisualLimit == target.VisualLimit {
			return r.VisualLimit - r.length
		}
	}
	return 0
}

func isControlAt(ln *Line, logicalIndex int) bool {
	if logicalIndex < 0 || logicalIndex >= ln.length() {
		return false
	}
	return isBidiControl(ln.paragraph.Text[ln.Start+logicalIndex])
}

func (ln *Line) controlBefore(logicalIndex int) bool { return isControlAt(ln, logicalIndex) }

// markAdjustment counts queued insert points strictly before logicalIndex
// within [runStart, runLimit).
func (ln *Line) markAdjustment(logicalIndex, runStart, runLimit int) int {
	n := 0
	for _, ip := range ln.insertPoints {
		if ip.Pos >= runStart && ip.Pos < runLimit && ip.Pos < logicalIndex {
			n++
		}
	}
	return n
}

// controlAdjustment counts bidi control characters strictly before
// logicalIndex within [runStart, runLimit), in logical order.
func (ln *Line) controlAdjustment(logicalIndex, runStart, runLimit int) int {
	n := 0
	end := logicalIndex
	if end > runLimit {
		end = runLimit
	}
	for i := runStart; i < end; i++ {
		if isBidiControl(ln.paragraph.Text[ln.Start+i]) {
			n++
		}
	}
	return n
}

// LogicalIndex maps a visual position back to its line-relative logical
// index, the inverse of [Line.VisualIndex]. Run lookup is linear for small
// run counts and binary above [linearSearchThreshold], per spec.md §4.C.
func (ln *Line) LogicalIndex(visualIndex int) int {
	if len(ln.Runs) <= 1 {
		if visualIndex < 0 || visualIndex >= ln.length() {
			return NoWhere
		}
		return visualIndex
	}

	idx := ln.findRunForVisual(visualIndex)
	if idx < 0 {
		return NoWhere
	}
	r := ln.Runs[idx]
	start := r.LogicalStartIndex()
	length := int(r.length)
	visualStart := int(r.VisualLimit) - length

	var logical int
	if !r.Odd() {
		logical = start + (visualIndex - visualStart)
	} else {
		logical = start + length - (visualIndex - visualStart) - 1
	}
	if isControlAt(ln, logical) {
		return NoWhere
	}
	return logical
}

func (ln *Line) findRunForVisual(visualIndex int) int {
	if len(ln.Runs) > linearSearchThreshold {
		first, count := 0, len(ln.Runs)
		for count > 0 {
			step := count / 2
			i := first + step
			if int(ln.Runs[i].VisualLimit) <= visualIndex {
				first = i + 1
				count -= step + 1
			} else {
				count = step
			}
		}
		if first < len(ln.Runs) {
			return first
		}
		return -1
	}
	for i, r := range ln.Runs {
		if visualIndex < int(r.VisualLimit) {
			return i
		}
	}
	return -1
}

// LogicalMap fills a full-length logical->visual index map, per spec.md §4.C.
func (ln *Line) LogicalMap() []int {
	out := make([]int, ln.length())
	for i := range out {
		out[i] = ln.VisualIndex(i)
	}
	return out
}

// VisualMap fills a full-length visual->logical index map, per spec.md §4.C.
func (ln *Line) VisualMap() []int {
	out := make([]int, ln.length())
	for i := range out {
		out[i] = ln.LogicalIndex(i)
	}
	return out
}
