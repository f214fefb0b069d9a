// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/Mlleters/rich-text/bidi"
	"github.com/Mlleters/rich-text/font"
	"github.com/Mlleters/rich-text/rich"
)

// XAlign is the horizontal alignment a query call requests a line's visual
// runs be positioned against.
type XAlign int

const (
	AlignLeft XAlign = iota
	AlignCenter
	AlignRight
)

// YAlign is the vertical alignment used to place a paragraph's lines within
// its box height (spec.md §4.D step 7's textYAlignment).
type YAlign int

const (
	AlignTop YAlign = iota
	AlignVCenter
	AlignBottom
)

// ParagraphLayout is the shaped, wrapped, and BiDi-reordered result of
// laying out one paragraph against a font table and box size (spec.md
// §4.D). Its queries are the surface component G (textbox) drives to emit
// render rectangles and the caret model drives for hit-testing.
type ParagraphLayout struct {
	Text      []rune
	Paragraph *bidi.Paragraph
	Lines     []Line

	Width      float32
	Height     float32
	YAlign     YAlign
	Truncated  bool
}

// New lays out text under formatting against reg/cache/resolver, wrapping
// to width (0 = no wrap, one line) and vertically placing lines within
// height per yAlign. baseDir selects the paragraph's base direction (Mixed
// requests first-strong-character detection).
func New(text string, formatting rich.FormattingRuns, baseDir bidi.Direction, reg *font.Registry, cache *font.InstanceCache, resolver *font.SubFontResolver, width, height float32, yAlign YAlign) (*ParagraphLayout, error) {
	runes := []rune(text)
	para := bidi.NewParagraph(text, baseDir)

	odd, err := directionOddArray(para)
	if err != nil {
		return nil, err
	}

	runs := buildShapingRuns(runes, formatting.FontRuns, odd, reg, resolver)

	var shaper shaping.HarfbuzzShaper
	outs := shapeAll(runes, runs, cache, &shaper)

	pdir := di.DirectionLTR
	if para.ParaLevel&1 == 1 {
		pdir = di.DirectionRTL
	}

	brk := shaping.WhenNecessary
	maxWidth := 1 << 20
	if width <= 0 {
		brk = shaping.Never
	} else {
		maxWidth = int(width)
	}
	cfg := shaping.WrapConfig{Direction: pdir, BreakPolicy: brk}

	var wrapper shaping.LineWrapper
	wrapped, truncated := wrapper.WrapParagraph(cfg, maxWidth, runes, shaping.NewSliceIterator(outs))

	pl := &ParagraphLayout{Text: runes, Paragraph: para, Width: width, Height: height, YAlign: yAlign, Truncated: truncated > 0}
	for _, lineOuts := range wrapped {
		if len(lineOuts) == 0 {
			continue
		}
		start, end := lineRuneRange(lineOuts)
		ln, err := buildLine(para, lineOuts, start, end, runs)
		if err != nil {
			return nil, err
		}
		positionLine(&ln)
		pl.Lines = append(pl.Lines, ln)
	}
	if len(pl.Lines) == 0 {
		pl.Lines = []Line{{Start: 0, End: 0}}
	}
	pl.placeLinesVertically()
	return pl, nil
}

// placeLinesVertically implements spec.md §4.D step 7: lines stack
// top-to-bottom by their own ascent/descent, offset as a block within
// Height according to YAlign.
func (pl *ParagraphLayout) placeLinesVertically() {
	var total float32
	for _, ln := range pl.Lines {
		total += ln.Ascent + ln.Descent
	}

	var top float32
	switch pl.YAlign {
	case AlignVCenter:
		top = (pl.Height - total) / 2
	case AlignBottom:
		top = pl.Height - total
	}

	y := top
	for i := range pl.Lines {
		y += pl.Lines[i].Ascent
		pl.Lines[i].Y = y
		y += pl.Lines[i].Descent
	}
}

// LineCount returns the number of wrapped lines.
func (pl *ParagraphLayout) LineCount() int { return len(pl.Lines) }

// GetLineAscent returns line lineIndex's ascent in pixels.
func (pl *ParagraphLayout) GetLineAscent(lineIndex int) float32 { return pl.Lines[lineIndex].Ascent }

// GetLineHeight returns line lineIndex's total height (ascent+descent).
func (pl *ParagraphLayout) GetLineHeight(lineIndex int) float32 {
	ln := &pl.Lines[lineIndex]
	return ln.Ascent + ln.Descent
}

// GetLineStartPosition returns the first rune index of line lineIndex.
func (pl *ParagraphLayout) GetLineStartPosition(lineIndex int) int { return pl.Lines[lineIndex].Start }

// GetLineEndPosition returns the rune index one past the last rune of line
// lineIndex.
func (pl *ParagraphLayout) GetLineEndPosition(lineIndex int) int { return pl.Lines[lineIndex].End }

// GetClosestLineToHeight returns the line index whose vertical extent
// contains y, or the nearest line above/below if y falls outside every
// line's extent.
func (pl *ParagraphLayout) GetClosestLineToHeight(y float32) int {
	for i := range pl.Lines {
		ln := &pl.Lines[i]
		top, bottom := ln.Y-ln.Ascent, ln.Y+ln.Descent
		if y < top {
			return i
		}
		if y <= bottom {
			return i
		}
	}
	if len(pl.Lines) == 0 {
		return 0
	}
	return len(pl.Lines) - 1
}

func lineOriginX(width fixed.Int26_6, boxWidth float32, xAlign XAlign) float32 {
	w := fixedToFloat(width)
	switch xAlign {
	case AlignCenter:
		return (boxWidth - w) / 2
	case AlignRight:
		return boxWidth - w
	default:
		return 0
	}
}

// LineOriginX returns line lineIndex's horizontal origin after xAlign is
// applied against boxWidth — the same value [ForEachRun] passes its
// callback as lineX, exposed directly for callers (e.g. textbox's
// selection-highlight pixel range) that need a line's origin without
// walking every run on it.
func (pl *ParagraphLayout) LineOriginX(lineIndex int, boxWidth float32, xAlign XAlign) float32 {
	return lineOriginX(pl.Lines[lineIndex].Width, boxWidth, xAlign)
}

// ForEachRun iterates every visual run across every line, in visual order:
// lines top-to-bottom, runs left-to-right in visual (already-reordered)
// coordinates, per spec.md §4.D queries and §5's callback-ordering
// requirement. lineX is the run's line's horizontal origin after xAlign is
// applied against boxWidth; it is the same for every run on a line.
func (pl *ParagraphLayout) ForEachRun(boxWidth float32, xAlign XAlign, cb func(lineIndex, runIndex int, lineX, lineY float32)) {
	for li := range pl.Lines {
		ln := &pl.Lines[li]
		lineX := lineOriginX(ln.Width, boxWidth, xAlign)
		for ri := range ln.Runs {
			cb(li, ri, lineX, ln.Y)
		}
	}
}

// RunContainsCharRange reports whether the run at (lineIndex, runIndex)
// fully contains the rune range [start, end).
func (pl *ParagraphLayout) RunContainsCharRange(lineIndex, runIndex, start, end int) bool {
	r := &pl.Lines[lineIndex].Runs[runIndex]
	return start >= r.Start && end <= r.End
}

// GetPositionRangeInRun returns the run-local pixel X extent covered by
// the rune range [start, end), clamped to the run's own extent, for
// selection-highlight rendering within a single run (spec.md §4.D
// queries).
func (pl *ParagraphLayout) GetPositionRangeInRun(lineIndex, runIndex, start, end int) (minX, maxX float32) {
	r := &pl.Lines[lineIndex].Runs[runIndex]
	pen := r.PenX
	found := false
	for _, g := range r.Glyphs {
		x0 := fixedToFloat(pen)
		pen += g.XAdvance
		x1 := fixedToFloat(pen)
		if g.ClusterRune >= start && g.ClusterRune < end {
			if !found {
				minX, maxX = x0, x1
				found = true
				continue
			}
			if x0 < minX {
				minX = x0
			}
			if x1 > maxX {
				maxX = x1
			}
		}
	}
	if !found {
		minX = fixedToFloat(r.PenX)
		maxX = minX
	}
	return
}

// CaretPixel is a caret's rendered pixel position and the metrics of the
// line it sits on.
type CaretPixel struct {
	X, Y            float32
	Ascent, Descent float32
	LineIndex       int
}

// LineIndexForRune returns the index of the line containing rune index idx,
// clamping to the first or last line if idx falls outside every line's
// range. The caret package uses this for line-start/line-end/next-line/
// prev-line navigation (spec.md §4.F), which "requires a current layout".
func (pl *ParagraphLayout) LineIndexForRune(idx int) int { return pl.lineIndexForRune(idx) }

func (pl *ParagraphLayout) lineIndexForRune(idx int) int {
	for i := range pl.Lines {
		ln := &pl.Lines[i]
		if idx >= ln.Start && idx <= ln.End {
			return i
		}
	}
	if len(pl.Lines) == 0 {
		return 0
	}
	if idx < pl.Lines[0].Start {
		return 0
	}
	return len(pl.Lines) - 1
}

// CalcCursorPixelPos returns the pixel position of the caret sitting just
// before rune index cursor, per spec.md §4.D queries.
func (pl *ParagraphLayout) CalcCursorPixelPos(boxWidth float32, xAlign XAlign, cursor int) CaretPixel {
	li := pl.lineIndexForRune(cursor)
	ln := &pl.Lines[li]
	lineX := lineOriginX(ln.Width, boxWidth, xAlign)

	x := lineX
	for ri := range ln.Runs {
		r := &ln.Runs[ri]
		switch {
		case cursor <= r.Start:
			x = lineX + fixedToFloat(r.PenX)
		case cursor >= r.End:
			x = lineX + fixedToFloat(r.PenX+r.Advance)
			continue
		default:
			pen := r.PenX
			for _, g := range r.Glyphs {
				if g.ClusterRune >= cursor {
					break
				}
				pen += g.XAdvance
			}
			x = lineX + fixedToFloat(pen)
		}
		break
	}
	return CaretPixel{X: x, Y: ln.Y, Ascent: ln.Ascent, Descent: ln.Descent, LineIndex: li}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// FindClosestCursorPosition returns whichever candidate rune index in
// boundaries sits pixel-nearest x on lineIndex. boundaries must be
// grapheme-cluster boundary positions (the caret package's job, via
// rivo/uniseg) so the returned cursor never lands mid-cluster; layout
// itself has no notion of grapheme boundaries, only glyph clusters, which
// is why the candidate set is supplied rather than computed here (spec.md
// §4.D move_to_mouse / find_closest_cursor_position).
func (pl *ParagraphLayout) FindClosestCursorPosition(boxWidth float32, xAlign XAlign, boundaries []int, lineIndex int, x float32) int {
	if len(boundaries) == 0 {
		return 0
	}
	if lineIndex < 0 || lineIndex >= len(pl.Lines) {
		lineIndex = 0
	}
	ln := &pl.Lines[lineIndex]

	best, bestDist := -1, float32(0)
	for _, b := range boundaries {
		if b < ln.Start || b > ln.End {
			continue
		}
		d := abs32(pl.CalcCursorPixelPos(boxWidth, xAlign, b).X - x)
		if best < 0 || d < bestDist {
			best, bestDist = b, d
		}
	}
	if best < 0 {
		return boundaries[0]
	}
	return best
}
