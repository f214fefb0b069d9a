// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout implements component D, ParagraphLayout: shaping a
// paragraph's runs against resolved fonts, greedy word-wrapping the shaped
// output into lines, and reconciling each line's BiDi runs (component C)
// with its font/script runs into the visual runs a renderer or caret
// consumes.
//
// Shaping bypasses go-text/typesetting's fontscan.FontMap and
// shaping.Segmenter: this module's own font package (components A and B)
// already performs family/script fallback resolution, so layout builds
// shaping.Input values directly against the resolved font.Instance faces,
// grounded on the manual-Face pattern in gogpu-gg/text/shaper_gotext.go
// rather than the automatic-fontmap pattern in
// cogentcore-core's text/shaped/shapedgt/shaper.go. See DESIGN.md.
package layout

import (
	"sort"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/Mlleters/rich-text/bidi"
	"github.com/Mlleters/rich-text/font"
	"github.com/Mlleters/rich-text/rich"
)

// shapingRun is one maximal span sharing a resolved family, script, and
// paragraph-level BiDi direction: the finest granularity spec.md §4.D
// step 2 shapes against a single font.Instance.
type shapingRun struct {
	start, end int
	family     font.FamilyHandle
	fnt        font.Font
	script     language.Script
	dir        di.Direction
}

// directionOddArray recovers a per-rune odd/even level flag from a
// whole-paragraph bidi.Line, the granularity spec.md §4.D step 1-2 needs to
// assign a shaping direction to each font sub-run before line breaking has
// even happened. The line-specific trailing-whitespace adjustments bidi.Line
// applies are re-derived per actual output line later, in buildLine.
func directionOddArray(para *bidi.Paragraph) ([]bool, error) {
	length := para.Len()
	odd := make([]bool, length)
	if length == 0 {
		return odd, nil
	}
	ln, err := para.NewLine(0, length)
	if err != nil {
		return nil, err
	}
	for _, r := range ln.Runs {
		start := r.LogicalStartIndex()
		end := start + r.Length()
		for i := start; i < end; i++ {
			odd[i] = r.Odd()
		}
	}
	return odd, nil
}

func directionOf(odd bool) di.Direction {
	if odd {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// buildShapingRuns intersects a paragraph's FontRuns with per-family
// fallback resolution ([font.SubFontResolver.Resolve]) and BiDi direction
// boundaries, producing the maximal runs step 2 shapes individually.
func buildShapingRuns(text []rune, fontRuns rich.RunArray[font.Font], odd []bool, reg *font.Registry, resolver *font.SubFontResolver) []shapingRun {
	var out []shapingRun
	if len(text) == 0 {
		return out
	}

	var pos int32
	for fi := 0; fi < fontRuns.RunCount(); fi++ {
		limit := fontRuns.RunLimit(fi)
		fnt := fontRuns.RunValue(fi)
		baseFam, ok := reg.GetFamily(fnt.Family)
		if !ok {
			baseFam = font.NoFamily
		}

		for _, sr := range resolver.Resolve(text, int(pos), int(limit), baseFam, fnt.Weight, fnt.Style) {
			start := sr.Start
			for start < sr.Limit {
				end := start
				d := odd[start]
				for end < sr.Limit && odd[end] == d {
					end++
				}
				rf := fnt
				if fam := reg.Family(sr.Family); fam != nil {
					rf.Family = fam.Name()
				}
				out = append(out, shapingRun{start: start, end: end, family: sr.Family, fnt: rf, script: sr.Script, dir: directionOf(d)})
				start = end
			}
		}
		pos = limit
	}
	return out
}

// toFixed converts a pixel size to the 26.6 fixed-point scale
// shaping.Input.Size expects.
func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v*64 + 0.5)
}

// fixedToFloat converts a 26.6 fixed-point pixel measurement back to a
// float32, the inverse of toFixed.
func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

// shapeAll shapes every run in runs against its resolved font.Instance,
// skipping runs whose family fails to resolve entirely (an unloadable or
// missing face degrades to "nothing rendered for this run" rather than a
// hard failure, matching spec.md §7's "always produce something" posture).
func shapeAll(text []rune, runs []shapingRun, cache *font.InstanceCache, shaper *shaping.HarfbuzzShaper) []shaping.Output {
	outs := make([]shaping.Output, 0, len(runs))
	for _, r := range runs {
		in := cache.Get(r.family, r.fnt)
		if in == nil {
			continue
		}
		face := in.Face.ShapingFace()
		if face == nil {
			continue
		}
		input := shaping.Input{
			Text:      text,
			RunStart:  r.start,
			RunEnd:    r.end,
			Direction: r.dir,
			Face:      face,
			Size:      toFixed(r.fnt.Size),
			Script:    r.script,
			Language:  language.NewLanguage(""),
		}
		outs = append(outs, shaper.Shape(input))
	}
	return outs
}

// outputRuneRange returns the absolute [start,end) rune range an already-
// shaped Output covers. Isolated here since shaping.Output's exact field
// names for this (Runes.Offset/Runes.Count) are grounded on general
// go-text/typesetting API knowledge rather than a literal read of this
// pack's vendored source; see DESIGN.md's layout entry.
func outputRuneRange(out shaping.Output) (start, end int) {
	start = out.Runes.Offset
	end = start + out.Runes.Count
	return
}

// runMetaAt recovers the (family, font) a shapingRun resolved for rune idx.
// shaping.LineWrapper.WrapParagraph can split a shaped Output at a line
// break partway through the run that produced it, so the wrapped Output's
// own start rune is not always one of runs' original start positions;
// runMetaAt instead finds whichever run's [start,end) range contains idx.
// runs is sorted and non-overlapping (buildShapingRuns appends runs in
// increasing rune order), so a binary search on end works.
func runMetaAt(runs []shapingRun, idx int) (font.FamilyHandle, font.Font) {
	i := sort.Search(len(runs), func(i int) bool { return runs[i].end > idx })
	if i < len(runs) && runs[i].start <= idx {
		return runs[i].family, runs[i].fnt
	}
	return font.NoFamily, font.Font{}
}
