// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rich

import (
	"image/color"

	"github.com/Mlleters/rich-text/font"
)

// Joins is the line-join style used when stroking glyph outlines, carried
// over from the original's StrokeType enum (stroke_type.hpp).
type Joins int

const (
	JoinRound Joins = iota
	JoinBevel
	JoinMiter
)

// Stroke describes an outline stroke applied to a run of glyphs: color,
// pixel thickness, and join style.
type Stroke struct {
	Color     color.RGBA
	Thickness uint8
	Joins     Joins
}

// DefaultStroke is the stroke state markup starts from absent a <stroke>
// tag: opaque black, 1px, round joins (formatting.cpp's parse_stroke_attributes
// defaults).
var DefaultStroke = Stroke{Color: color.RGBA{A: 255}, Thickness: 1, Joins: JoinRound}

// FormattingRuns is the full set of piecewise-constant styling attributes
// over one logical text buffer (spec.md §4.E). Each field is independently
// run-length encoded since attributes change at different boundaries (a
// <font> tag's run limits needn't align with a <s> tag's).
type FormattingRuns struct {
	FontRuns          RunArray[font.Font]
	ColorRuns         RunArray[color.RGBA]
	StrokeRuns        RunArray[Stroke]
	StrikethroughRuns RunArray[bool]
	UnderlineRuns     RunArray[bool]

	// ContentText is the visible string after markup stripping — the same
	// string ParseInline also returns directly, kept here too so a
	// FormattingRuns value is self-contained (spec.md §3).
	ContentText string

	// SourceIndex maps a rune index into ContentText back to the rune
	// index it came from in the original markup source, for callers (an
	// editor operating on markup while laying out stripped content) that
	// need to translate a content position back to a source position.
	// Only populated when markup was actually parsed and stripped
	// (ParseInline); nil from MakeDefault, where content and source are
	// the same string and no translation is needed.
	SourceIndex []int32
}

// MakeDefault returns a [FormattingRuns] covering all of text with a single
// run of the given base attributes and no strikethrough/underline —
// the "no markup" starting point (formatting.cpp's make_default_formatting_runs).
func MakeDefault(text string, base font.Font, baseColor color.RGBA, baseStroke Stroke) FormattingRuns {
	limit := int32(len([]rune(text)))
	return FormattingRuns{
		FontRuns:          NewRunArray(base, limit),
		ColorRuns:         NewRunArray(baseColor, limit),
		StrokeRuns:        NewRunArray(baseStroke, limit),
		StrikethroughRuns: NewRunArray(false, limit),
		UnderlineRuns:     NewRunArray(false, limit),
		ContentText:       text,
	}
}
