// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rich implements the piecewise-constant formatting model of
// spec.md component E: a generic run-length array plus the font, color,
// stroke, strikethrough, and underline run arrays that make up a
// [FormattingRuns], and the default/inline-markup constructors that
// produce one from plain or tagged source text.
package rich

// RunArray stores a sequence of values as runs: each entry covers the
// half-open range [previous limit, limit). This is the Go counterpart of
// the original engine's ValueRuns<T> template (value_runs.hpp): O(1)
// append via [RunArray.Add], O(log n) lookup via [RunArray.GetRunIndex],
// and cheap [RunArray.Subset] extraction for re-slicing a paragraph's runs
// to a substring.
type RunArray[T comparable] struct {
	values []T
	limits []int32
}

// NewRunArray returns a RunArray with one run covering [0, limit) with the
// given value.
func NewRunArray[T comparable](value T, limit int32) RunArray[T] {
	var ra RunArray[T]
	ra.Add(limit, value)
	return ra
}

// Add appends a run ending at limit with the given value. If the new value
// equals the previous run's value, the two runs are coalesced instead of
// creating an adjacent duplicate (see DESIGN.md's Open Question decision on
// this point; the original never produces two equal adjacent runs either,
// since FormattingParser only pushes a new run on an actual attribute
// change).
func (ra *RunArray[T]) Add(limit int32, value T) {
	if n := len(ra.limits); n > 0 && ra.values[n-1] == value {
		ra.limits[n-1] = limit
		return
	}
	ra.values = append(ra.values, value)
	ra.limits = append(ra.limits, limit)
}

// Clear empties the array.
func (ra *RunArray[T]) Clear() {
	ra.values = ra.values[:0]
	ra.limits = ra.limits[:0]
}

// Empty reports whether the array holds no runs.
func (ra RunArray[T]) Empty() bool { return len(ra.limits) == 0 }

// RunCount returns the number of runs.
func (ra RunArray[T]) RunCount() int { return len(ra.limits) }

// Limit returns the array's overall limit (the last run's limit).
func (ra RunArray[T]) Limit() int32 {
	if len(ra.limits) == 0 {
		return 0
	}
	return ra.limits[len(ra.limits)-1]
}

// RunValue returns the value of run i.
func (ra RunArray[T]) RunValue(i int) T { return ra.values[i] }

// RunLimit returns the limit of run i.
func (ra RunArray[T]) RunLimit(i int) int32 { return ra.limits[i] }

// GetRunIndex returns the index of the run containing index, via binary
// search over the limits (matching value_runs.hpp's get_run_index exactly:
// the first run whose limit is > index).
func (ra RunArray[T]) GetRunIndex(index int32) int {
	first, count := 0, len(ra.limits)
	for count > 0 {
		step := count / 2
		i := first + step
		if ra.limits[i] <= index {
			first = i + 1
			count -= step + 1
		} else {
			count = step
		}
	}
	return first
}

// GetValue returns the value covering index.
func (ra RunArray[T]) GetValue(index int32) T {
	return ra.values[ra.GetRunIndex(index)]
}

// Subset returns the portion of ra's runs covering
// [offset, offset+length), with limits rebased to start at 0, matching
// value_runs.hpp's get_runs_subset.
func (ra RunArray[T]) Subset(offset, length int32) RunArray[T] {
	var out RunArray[T]
	i := 0
	for i < len(ra.limits) && ra.limits[i] < offset {
		i++
	}
	for ; i < len(ra.limits); i++ {
		newLimit := ra.limits[i] - offset
		if newLimit < length {
			out.Add(newLimit, ra.values[i])
		} else {
			out.Add(length, ra.values[i])
			break
		}
	}
	return out
}

// runBuilder is the push/pop stack that backs inline-markup parsing
// (component E's tag nesting): each open tag pushes a new value onto the
// stack and closes a run at the tag's start; each close tag pops back to
// the enclosing value and closes a run at the tag's end. This mirrors
// ValueRunBuilder<T> in value_run_builder.hpp.
type runBuilder[T comparable] struct {
	runs  RunArray[T]
	stack []T
}

func newRunBuilder[T comparable](base T) *runBuilder[T] {
	return &runBuilder[T]{stack: []T{base}}
}

func (b *runBuilder[T]) push(limit int32, value T) {
	b.runs.Add(limit, b.stack[len(b.stack)-1])
	b.stack = append(b.stack, value)
}

func (b *runBuilder[T]) pop(limit int32) {
	if b.runs.Empty() || b.runs.Limit() < limit {
		b.runs.Add(limit, b.stack[len(b.stack)-1])
	}
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *runBuilder[T]) current() T { return b.stack[len(b.stack)-1] }

func (b *runBuilder[T]) base() T { return b.stack[0] }

func (b *runBuilder[T]) get() RunArray[T] { return b.runs }
