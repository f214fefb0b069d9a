// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textbox

import (
	"image/color"

	"golang.org/x/image/math/fixed"

	"github.com/Mlleters/rich-text/bidi"
	"github.com/Mlleters/rich-text/caret"
	"github.com/Mlleters/rich-text/font"
	"github.com/Mlleters/rich-text/layout"
	"github.com/Mlleters/rich-text/rich"
)

// fixedToFloat converts a 26.6 fixed-point pixel measurement to a float32.
func fixedToFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }

// Box is one single-paragraph text box: its content, style inputs, and
// derived [layout.ParagraphLayout] and [caret.Model], kept in sync by
// [Box.Recalc] (spec.md §4.G). Grounded on the original TextBox's field
// set (text_box.hpp) and its recalc_text/create_text_rects orchestration
// (text_box.cpp), generalized from a fixed MSDF render pipeline to the
// [Atlas] abstraction and from TextBox's GPU-pipeline-indexed RECT/MSDF/
// OUTLINE rect list to a plain [Rect] slice.
type Box struct {
	Registry *font.Registry
	Cache    *font.InstanceCache
	Resolver *font.SubFontResolver
	Atlas    Atlas

	BaseFont  font.Font
	TextColor color.RGBA

	// SelectionColor is the selection background, painted by the box owner
	// as a background rectangle before the text rects; Rects does not use
	// it and emits clipped-interior sub-rects in white (spec.md §4.G "to
	// recolor via selection background pass emitted separately").
	SelectionColor color.RGBA

	Text     string
	RichText bool

	Width, Height float32
	Wrap          bool
	XAlign        layout.XAlign
	YAlign        layout.YAlign
	BaseDir       bidi.Direction

	MultiLine bool
	Focused   bool

	Model *caret.Model

	layout     *layout.ParagraphLayout
	formatting rich.FormattingRuns
	dirty      bool
}

// New returns an empty Box wired against reg/cache/resolver/atlas.
func New(reg *font.Registry, cache *font.InstanceCache, resolver *font.SubFontResolver, atlas Atlas) *Box {
	return &Box{
		Registry: reg, Cache: cache, Resolver: resolver, Atlas: atlas,
		TextColor: color.RGBA{A: 255}, SelectionColor: color.RGBA{B: 255, A: 128},
		Model: caret.New(false), dirty: true,
	}
}

// SetText replaces the box's text and marks it for re-layout.
func (b *Box) SetText(text string) {
	b.Text = text
	b.Model.SetText([]rune(text))
	b.dirty = true
}

// SetFont, SetSize, SetWrap, SetAlign, and SetFocused mirror the original's
// individual setters (text_box.cpp's set_font/set_size/...), each marking
// the box dirty rather than re-laying-out immediately; Rects() recalculates
// lazily on next access (spec.md §4.G "Orchestrates a re-layout on any of:
// font, text, size, wrap, alignment, rich-text flag, focus ... , edit").
func (b *Box) SetFont(f font.Font) {
	b.BaseFont = f
	b.dirty = true
}

func (b *Box) SetSize(width, height float32) {
	b.Width, b.Height = width, height
	b.dirty = true
}

func (b *Box) SetWrap(wrap bool) {
	b.Wrap = wrap
	b.dirty = true
}

func (b *Box) SetAlign(xAlign layout.XAlign, yAlign layout.YAlign) {
	b.XAlign, b.YAlign = xAlign, yAlign
	b.dirty = true
}

func (b *Box) SetRichText(richText bool) {
	b.RichText = richText
	b.dirty = true
}

// SetFocused marks or clears focus. Focus acquisition/release triggers a
// re-layout since rich-text markup parsing is gated off while focused
// (see Recalc): a focused, editable box always shows its literal
// characters, never interprets them as markup mid-edit.
func (b *Box) SetFocused(focused bool) {
	b.Focused = focused
	b.dirty = true
}

// MarkEdited flags the box for re-layout after an out-of-band edit to
// b.Model (e.g. a caret.Model insert/delete the box owner applied
// directly), syncing b.Text from the model's buffer.
func (b *Box) MarkEdited() {
	b.Text = string(b.Model.Text)
	b.dirty = true
}

// Layout returns the box's current layout, recalculating first if dirty.
func (b *Box) Layout() *layout.ParagraphLayout {
	b.Recalc()
	return b.layout
}

// Recalc re-runs formatting parse, shaping, and line wrap if the box has
// changed since the last call; a no-op otherwise (spec.md §4.G).
func (b *Box) Recalc() {
	if !b.dirty {
		return
	}
	b.dirty = false

	if b.Registry == nil || b.Cache == nil || b.Resolver == nil {
		b.layout = nil
		return
	}

	// Rich-text markup is parsed only while unfocused: the original gates
	// rich text off during editing (text_box.cpp), a preserved policy
	// choice per spec.md §9's open-question note, not a hard requirement.
	var plain string
	if b.RichText && !b.Focused {
		f, content := rich.ParseInline(b.Text, b.BaseFont, b.TextColor, rich.DefaultStroke)
		b.formatting = f
		plain = content
	} else {
		plain = b.Text
		b.formatting = rich.MakeDefault(b.Text, b.BaseFont, b.TextColor, rich.DefaultStroke)
	}

	width := b.Width
	if !b.Wrap {
		width = 0
	}

	pl, err := layout.New(plain, b.formatting, b.BaseDir, b.Registry, b.Cache, b.Resolver, width, b.Height, b.YAlign)
	if err != nil {
		b.layout = nil
		return
	}
	b.layout = pl
}

// Rects returns the box's renderable rectangle list, built from the
// current layout: stroke glyphs, then main glyphs with underline/
// strikethrough bars around them, in the z-order spec.md §4.G specifies
// (stroke -> underline -> main glyph -> strikethrough), with each main
// glyph rect split against the active selection per clipAgainstSelection.
func (b *Box) Rects() []Rect {
	b.Recalc()
	if b.layout == nil {
		return nil
	}

	var selMinX, selMaxX float32
	hasSel := b.Model != nil && b.Model.HasSelection()
	if hasSel {
		start, end := b.Model.SelectionRange()
		selMinX, selMaxX = b.selectionPixelRange(start, end)
	}

	var out []Rect
	b.layout.ForEachRun(b.Width, b.XAlign, func(lineIndex, runIndex int, lineX, lineY float32) {
		run := &b.layout.Lines[lineIndex].Runs[runIndex]
		in := b.Cache.Get(run.Family, run.Font)
		if in == nil {
			return
		}

		pen := run.PenX
		for _, g := range run.Glyphs {
			x := lineX + fixedToFloat(pen)
			y := lineY - fixedToFloat(g.YOffset)
			pen += g.XAdvance

			stroke := b.formatting.StrokeRuns.GetValue(int32(g.ClusterRune))
			if stroke.Color.A > 0 {
				info := b.Atlas.StrokeInfo(in, g.GlyphID, stroke.Thickness, int(stroke.Joins))
				out = append(out, Rect{
					X: x + info.Offset[0], Y: y + info.Offset[1],
					Width: info.Size[0], Height: info.Size[1],
					UV: info.UV, Texture: info.Image, Color: stroke.Color,
				})
			}

			info := b.Atlas.GlyphInfo(in, g.GlyphID)
			textColor := b.formatting.ColorRuns.GetValue(int32(g.ClusterRune))
			if info.HasColor {
				textColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}

			if b.formatting.UnderlineRuns.GetValue(int32(g.ClusterRune)) {
				offset, thickness := in.Face.UnderlineMetrics()
				out = append(out, Rect{
					X: x + info.Offset[0], Y: y + offset,
					Width: info.Size[0], Height: thickness + 0.5,
					Texture: b.Atlas.DefaultTexture(), Color: textColor,
				})
			}

			glyphRect := Rect{
				X: x + info.Offset[0], Y: y + info.Offset[1],
				Width: info.Size[0], Height: info.Size[1],
				UV: info.UV, Texture: info.Image, Color: textColor,
			}
			if hasSel {
				out = append(out, clipAgainstSelection(glyphRect, selMinX, selMaxX, color.RGBA{R: 255, G: 255, B: 255, A: 255})...)
			} else {
				out = append(out, glyphRect)
			}

			if b.formatting.StrikethroughRuns.GetValue(int32(g.ClusterRune)) {
				offset, thickness := in.Face.StrikethroughMetrics()
				out = append(out, Rect{
					X: x + info.Offset[0], Y: y + offset,
					Width: info.Size[0], Height: thickness + 0.5,
					Texture: b.Atlas.DefaultTexture(), Color: textColor,
				})
			}
		}
	})
	return out
}

// selectionPixelRange returns the box-relative pixel X extent of the rune
// range [start, end) on the line containing start, spanning every run of
// that line it touches. A selection that wraps onto later lines is measured
// on its first line only; no extent is computed for the other lines.
func (b *Box) selectionPixelRange(start, end int) (minX, maxX float32) {
	li := b.layout.LineIndexForRune(start)
	ln := &b.layout.Lines[li]
	lineX := b.layout.LineOriginX(li, b.Width, b.XAlign)
	found := false
	for ri := range ln.Runs {
		r := &ln.Runs[ri]
		if r.Start >= end || r.End <= start {
			continue
		}
		lo, hi := b.layout.GetPositionRangeInRun(li, ri, start, end)
		lo, hi = lineX+lo, lineX+hi
		if !found {
			minX, maxX = lo, hi
			found = true
			continue
		}
		if lo < minX {
			minX = lo
		}
		if hi > maxX {
			maxX = hi
		}
	}
	return
}
