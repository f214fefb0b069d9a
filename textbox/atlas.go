// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package textbox implements component G, TextBoxCore: the orchestration
// that re-lays-out a single-paragraph text box on any input change and
// emits a flat [Rect] list a renderer consumes, grounded on the original
// engine's TextBox::create_text_rects (text_box.cpp) generalized from a
// fixed MSDF/stroke GPU pipeline to the atlas interface spec.md §6
// specifies as an external collaborator.
package textbox

import "github.com/Mlleters/rich-text/font"

// Image is an opaque atlas-owned texture handle; textbox never inspects
// it, only threads it through to the Rect the renderer consumes.
type Image any

// GlyphInfo is one atlas query's result: the backing image, its UV extent
// within that image, the glyph's pixel size and offset from the pen
// position, and whether it is a pre-colored (e.g. emoji) glyph (spec.md §6
// get_glyph_info/get_stroke_info).
type GlyphInfo struct {
	Image    Image
	UV       [4]float32
	Size     [2]float32
	Offset   [2]float32
	HasColor bool
}

// Atlas is the glyph-rasterization cache textbox consumes to turn shaped
// glyph IDs into renderable rectangles (spec.md §6 "Atlas interface
// (consumed)"). Implementations own the actual rasterization/packing;
// textbox only asks for already-rasterized glyph placement.
type Atlas interface {
	GlyphInfo(in *font.Instance, glyphID uint32) GlyphInfo
	StrokeInfo(in *font.Instance, glyphID uint32, thickness uint8, joins int) GlyphInfo
	DefaultTexture() Image
}
