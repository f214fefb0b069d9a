// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bidi implements component C: paragraph-level bidirectional text
// state (delegated to golang.org/x/text/unicode/bidi) plus the line-level
// post-processing spec.md §4.C requires on top of it — trailing-whitespace
// computation, run counting, the UAX #9 L2 visual reorder, and the
// logical/visual index maps a caret or renderer needs.
package bidi

import (
	xbidi "golang.org/x/text/unicode/bidi"

	"github.com/Mlleters/rich-text/internal/xerrors"
)

// Direction is a paragraph or line's overall reading direction.
type Direction uint8

const (
	LTR Direction = iota
	RTL
	Mixed
)

// NoWhere is returned by index-mapping queries for a position with no
// valid counterpart (e.g. a logical index pointing at a removed control).
const NoWhere = -1

// maskWS is the set of bidi classes rule L1 treats as trailing whitespace:
// whitespace, boundary neutrals, and the explicit embedding/override/
// isolate formatting characters.
func isWSClass(c xbidi.Class) bool {
	switch c {
	case xbidi.WS, xbidi.BN, xbidi.LRE, xbidi.RLE, xbidi.LRO, xbidi.RLO,
		xbidi.PDF, xbidi.LRI, xbidi.RLI, xbidi.FSI, xbidi.PDI:
		return true
	}
	return false
}

// Paragraph holds one paragraph's resolved bidi state: the base embedding
// level, per-rune classes, and per-rune levels. golang.org/x/text/unicode/bidi
// exposes runs (contiguous same-direction spans) rather than ICU's
// arbitrary-depth embedding levels, so Levels here only ever takes the
// values paraLevel and paraLevel^1 — nested embedding beyond one level is
// not distinguishable through that library's public API. See DESIGN.md.
type Paragraph struct {
	Text      []rune
	ParaLevel uint8
	Direction Direction

	dirProps []xbidi.Class
	levels   []uint8
}

// NewParagraph resolves bidi state for text under the given base direction
// (LTR or RTL forces that paragraph level; Mixed requests the standard
// first-strong-character auto-detection, UAX #9's rule P3).
func NewParagraph(text string, base Direction) *Paragraph {
	runes := []rune(text)
	p := &Paragraph{Text: runes, dirProps: make([]xbidi.Class, len(runes)), levels: make([]uint8, len(runes))}

	for i, r := range runes {
		props, _ := xbidi.LookupRune(r)
		p.dirProps[i] = props.Class()
	}

	var defaultDir xbidi.Direction
	switch base {
	case LTR:
		defaultDir = xbidi.LeftToRight
	case RTL:
		defaultDir = xbidi.RightToLeft
	default:
		defaultDir = xbidi.Neutral
	}

	var xp xbidi.Paragraph
	_, _ = xp.SetString(text, xbidi.DefaultDirection(defaultDir))
	ordering, err := xp.Order()

	paraLevel := uint8(0)
	sawRTL, sawLTR := false, false
	if err == nil {
		for i := 0; i < ordering.NumRuns(); i++ {
			run := ordering.Run(i)
			startRune, endRune := run.Pos()
			lvl := uint8(0)
			if run.Direction() == xbidi.RightToLeft {
				lvl = 1
				sawRTL = true
			} else {
				sawLTR = true
			}
			for j := startRune; j <= endRune && j < len(p.levels); j++ {
				p.levels[j] = lvl
			}
		}
		if base == RTL || (base == Mixed && ordering.NumRuns() > 0 && func() bool { r := ordering.Run(0); return r.Direction() == xbidi.RightToLeft }()) {
			// keep paraLevel at 0 unless the resolved base direction is RTL
		}
	}
	if base == RTL {
		paraLevel = 1
	} else if base == Mixed {
		// approximate P3: first strong character determines the paragraph level
		for _, c := range p.dirProps {
			if c == xbidi.R || c == xbidi.AL {
				paraLevel = 1
				break
			}
			if c == xbidi.L {
				paraLevel = 0
				break
			}
		}
	}
	p.ParaLevel = paraLevel

	switch {
	case sawRTL && sawLTR:
		p.Direction = Mixed
	case sawRTL:
		p.Direction = RTL
	default:
		p.Direction = LTR
	}

	return p
}

// Len returns the paragraph's rune length.
func (p *Paragraph) Len() int { return len(p.Text) }

// NewLine constructs a [Line] for the rune range [start, limit) of p, per
// spec.md §4.C step 1-6. It returns an [xerrors.InvalidArgument] error if
// the range is out of bounds.
func (p *Paragraph) NewLine(start, limit int) (*Line, error) {
	if start < 0 || limit > len(p.Text) || start > limit {
		return nil, xerrors.New(xerrors.InvalidArgument, "bidi line range out of bounds")
	}

	ln := &Line{
		paragraph: p,
		Start:     start,
		Limit:     limit,
		ParaLevel: p.ParaLevel,
	}
	length := limit - start

	if p.Direction != Mixed {
		ln.Direction = p.Direction
		// take the paragraph's trailing-whitespace start, clipped to this line.
		paraWS := len(p.Text)
		for paraWS > 0 && isWSClass(p.dirProps[paraWS-1]) {
			paraWS--
		}
		switch {
		case paraWS <= start:
			ln.TrailingWSStart = 0
		case paraWS < limit:
			ln.TrailingWSStart = paraWS - start
		default:
			ln.TrailingWSStart = length
		}
	} else {
		ln.setTrailingWSStart()
		ln.recomputeDirection()
		if ln.Direction != Mixed {
			// pure-LTR/RTL: parity forced to paraLevel, no per-char levels needed.
			ln.TrailingWSStart = 0
		}
	}

	ln.buildRuns()
	return ln, nil
}
