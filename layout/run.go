// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/Mlleters/rich-text/bidi"
	"github.com/Mlleters/rich-text/font"
)

// Glyph is one positioned glyph within a [VisualRun].
type Glyph struct {
	GlyphID  uint32
	XAdvance fixed.Int26_6
	YAdvance fixed.Int26_6
	XOffset  fixed.Int26_6
	YOffset  fixed.Int26_6

	// ClusterRune is the absolute rune index (into the paragraph's Text)
	// this glyph's cluster begins at.
	ClusterRune int
}

// VisualRun is a maximal run of shaped glyphs sharing one resolved font and
// BiDi direction, in the visual (left-to-right rendering) order established
// by [buildLine]'s intersection of BiDi runs and font/script runs, per
// spec.md §4.D step 4.
type VisualRun struct {
	// Start, End are the run's rune range in the paragraph's Text, in
	// logical (not visual) order: Start < End always, even for RTL runs.
	Start, End int

	Family font.FamilyHandle
	Font   font.Font
	RTL    bool

	Glyphs []Glyph

	// PenX is this run's line-relative pen start, set by [positionLine].
	PenX    fixed.Int26_6
	Advance fixed.Int26_6

	Ascent, Descent fixed.Int26_6
}

// Line is one wrapped line of a [ParagraphLayout]: a rune range plus its
// visual runs and vertical placement.
type Line struct {
	Start, End int
	Runs       []VisualRun

	// Width is the line's total visual width (sum of run advances).
	Width fixed.Int26_6

	// Ascent, Descent are the line's metrics (spec.md §4.D step 5): the
	// max face ascent/descent across the line's runs.
	Ascent, Descent float32

	// Y is the line's baseline position within the box, set by
	// [ParagraphLayout.placeLinesVertically].
	Y float32
}

// buildLine reconciles one already-wrapped line's shaped outputs with the
// paragraph's BiDi structure: it asks the BiDi package for this line's
// visual run order (recomputing trailing-whitespace handling specific to
// this line, per spec.md §4.C) and buckets the pre-shaped font/script
// outputs into that order, reversing a bucket's internal ordering when its
// BiDi run is RTL. This is the "intersect the line's char range with BiDi
// runs, then with font runs, taking the finer granularity" step (§4.D
// step 4); outputs are already split no coarser than a BiDi run, so a
// bucket never needs to be split further — only reordered. shapeRuns is the
// same shapingRun slice shapeAll shaped outs against, consulted via
// runMetaAt to recover each resulting VisualRun's resolved family/font
// (shaping.Output itself carries neither).
func buildLine(para *bidi.Paragraph, outs []shaping.Output, lineStart, lineEnd int, shapeRuns []shapingRun) (Line, error) {
	bln, err := para.NewLine(lineStart, lineEnd)
	if err != nil {
		return Line{}, err
	}

	ln := Line{Start: lineStart, End: lineEnd}
	for _, br := range bln.Runs {
		bStart := lineStart + br.LogicalStartIndex()
		bEnd := bStart + br.Length()

		var bucket []int
		for oi, out := range outs {
			start, _ := outputRuneRange(out)
			if start >= bStart && start < bEnd {
				bucket = append(bucket, oi)
			}
		}
		if br.Odd() {
			for i, j := 0, len(bucket)-1; i < j; i, j = i+1, j-1 {
				bucket[i], bucket[j] = bucket[j], bucket[i]
			}
		}

		for _, oi := range bucket {
			out := outs[oi]
			start, end := outputRuneRange(out)
			family, fnt := runMetaAt(shapeRuns, start)
			vr := VisualRun{
				Start:   start,
				End:     end,
				Family:  family,
				Font:    fnt,
				RTL:     br.Odd(),
				Advance: out.Advance,
				Ascent:  out.LineBounds.Ascent,
				Descent: out.LineBounds.Descent,
			}
			vr.Glyphs = make([]Glyph, len(out.Glyphs))
			for gi, g := range out.Glyphs {
				vr.Glyphs[gi] = Glyph{
					GlyphID:     uint32(g.GlyphID),
					XAdvance:    g.XAdvance,
					YAdvance:    g.YAdvance,
					XOffset:     g.XOffset,
					YOffset:     g.YOffset,
					ClusterRune: g.ClusterIndex,
				}
			}
			ln.Runs = append(ln.Runs, vr)
		}
	}
	return ln, nil
}

// positionLine assigns each run's line-relative pen start and computes the
// line's total width and ascent/descent (spec.md §4.D steps 5-6).
func positionLine(ln *Line) {
	var pen fixed.Int26_6
	var maxAsc, maxDesc fixed.Int26_6
	for i := range ln.Runs {
		r := &ln.Runs[i]
		r.PenX = pen
		pen += r.Advance
		if r.Ascent > maxAsc {
			maxAsc = r.Ascent
		}
		if r.Descent > maxDesc {
			maxDesc = r.Descent
		}
	}
	ln.Width = pen
	ln.Ascent = fixedToFloat(maxAsc)
	ln.Descent = fixedToFloat(maxDesc)
}

// lineRuneRange returns the [start,end) rune range spanned by a wrapped
// line's shaped outputs.
func lineRuneRange(outs []shaping.Output) (start, end int) {
	if len(outs) == 0 {
		return 0, 0
	}
	start, end = outputRuneRange(outs[0])
	for _, out := range outs[1:] {
		s, e := outputRuneRange(out)
		if s < start {
			start = s
		}
		if e > end {
			end = e
		}
	}
	return
}
