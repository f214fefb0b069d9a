// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rich

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/Mlleters/rich-text/font"
	"github.com/Mlleters/rich-text/internal/xerrors"
)

// ParseInline parses a small inline markup dialect into a [FormattingRuns]
// plus the plain-text content with markup stripped, grounded on the
// original engine's FormattingParser (formatting.cpp): a hand-written
// recursive-descent scanner with LIFO tag matching, not a general markup
// library, since the grammar is a handful of fixed tags.
//
// Supported tags: <b>...</b> (bold), <i>...</i> (italic), <u>...</u>
// (underline), <s>...</s> (strikethrough),
// <font face="Name" color="#RRGGBB" size="N">...</font>,
// <stroke color="..." thickness="N" transparency="N" joins="round|bevel|miter">...</stroke>,
// and <!-- comment -->. Tags must close in LIFO order; on any malformed
// input, parsing aborts and ParseInline falls back to [MakeDefault] over
// the raw text, matching formatting.cpp's get_result() error fallback.
func ParseInline(text string, base font.Font, baseColor color.RGBA, baseStroke Stroke) (FormattingRuns, string) {
	p := &parser{
		src:    []rune(text),
		base:   base,
		fonts:  newRunBuilder(base),
		colors: newRunBuilder(baseColor),
		stroke: newRunBuilder(baseStroke),
		strike: newRunBuilder(false),
		under:  newRunBuilder(false),
	}
	p.parseContent("")
	if p.err {
		xerrors.Log(xerrors.New(xerrors.InvalidArgument, "malformed inline markup, falling back to plain text"))
		return MakeDefault(text, base, baseColor, baseStroke), text
	}
	content := string(p.out)
	return FormattingRuns{
		FontRuns:          p.fonts.get(),
		ColorRuns:         p.colors.get(),
		StrokeRuns:        p.stroke.get(),
		StrikethroughRuns: p.strike.get(),
		UnderlineRuns:     p.under.get(),
		ContentText:       content,
		SourceIndex:       p.srcIndex,
	}, content
}

const sentinel = rune(-1)

type parser struct {
	src []rune
	pos int
	out []rune
	// srcIndex[i] is the rune index in src that produced out[i], the
	// opaque content-index-to-source-index map spec.md §3 asks
	// FormattingRuns to carry.
	srcIndex []int32
	err      bool

	base   font.Font
	fonts  *runBuilder[font.Font]
	colors *runBuilder[color.RGBA]
	stroke *runBuilder[Stroke]
	strike *runBuilder[bool]
	under  *runBuilder[bool]
}

func (p *parser) nextChar() rune {
	if p.pos >= len(p.src) {
		return sentinel
	}
	c := p.src[p.pos]
	p.pos++
	return c
}

func (p *parser) raise() { p.err = true }

func (p *parser) outLen() int32 { return int32(len(p.out)) }

func (p *parser) consumeChar(c rune) bool {
	if p.nextChar() == c {
		return true
	}
	p.raise()
	return false
}

func (p *parser) consumeWord(word string) bool {
	for _, c := range word {
		if !p.consumeChar(c) {
			return false
		}
	}
	return true
}

func (p *parser) finalize() {
	p.fonts.pop(p.outLen())
	p.colors.pop(p.outLen())
	p.stroke.pop(p.outLen())
	p.strike.pop(p.outLen())
	p.under.pop(p.outLen())
}

// parseContent consumes text up to either EOF (expectedClose == "") or a
// matching "</expectedClose" tag, appending plain runes to p.out.
func (p *parser) parseContent(expectedClose string) {
	for {
		c := p.nextChar()
		switch {
		case c == sentinel:
			if expectedClose == "" {
				p.finalize()
			} else {
				p.raise()
			}
			return
		case c == '<':
			if p.parseOpenBracket(expectedClose) {
				return
			}
		default:
			p.out = append(p.out, c)
			p.srcIndex = append(p.srcIndex, int32(p.pos-1))
		}
		if p.err {
			return
		}
	}
}

// parseOpenBracket handles the character right after '<'. It returns true
// when parseContent should return immediately (close tag consumed, or a
// terminal error).
func (p *parser) parseOpenBracket(expectedClose string) bool {
	switch p.nextChar() {
	case '!':
		p.parseComment()
	case '/':
		if expectedClose == "" {
			p.raise()
		} else {
			p.consumeWord(expectedClose)
		}
		return true
	case 'b':
		p.parseBTag()
	case 'f':
		p.parseFont()
	case 'i':
		p.parseITag()
	case 's':
		p.parseSTag()
	case 'u':
		p.parseUTag()
	default:
		p.raise()
		return true
	}
	return false
}

func (p *parser) parseComment() {
	if !p.consumeChar('-') || !p.consumeChar('-') {
		return
	}
	for {
		c := p.nextChar()
		if c == sentinel {
			p.raise()
			return
		}
		if c == '-' {
			if !p.consumeChar('-') || !p.consumeChar('>') {
				return
			}
			return
		}
	}
}

func (p *parser) parseSTag() {
	switch p.nextChar() {
	case '>':
		p.parseToggle(p.strike, "s>")
	case 't':
		p.parseStroke()
	default:
		p.raise()
	}
}

func (p *parser) parseUTag() {
	switch p.nextChar() {
	case '>':
		p.parseToggle(p.under, "u>")
	default:
		p.raise()
	}
}

func (p *parser) parseToggle(b *runBuilder[bool], closeWord string) {
	b.push(p.outLen(), true)
	p.parseContent(closeWord)
	if !p.err {
		b.pop(p.outLen())
	}
}

func (p *parser) parseBTag() {
	switch p.nextChar() {
	case '>':
		p.parseFontToggle("b>", func(f font.Font) font.Font {
			f.Weight = font.Bold
			return f
		})
	default:
		p.raise()
	}
}

func (p *parser) parseITag() {
	switch p.nextChar() {
	case '>':
		p.parseFontToggle("i>", func(f font.Font) font.Font {
			f.Style = font.StyleItalic
			return f
		})
	default:
		p.raise()
	}
}

// parseFontToggle pushes transform applied to the current font onto p.fonts
// for the duration of expectedClose's content, the same LIFO push/pop shape
// parseToggle uses for the boolean strike/underline runs, mirrored here for
// <b>/<i> since a weight/style change needs the whole font.Font value, not
// a bool.
func (p *parser) parseFontToggle(closeWord string, transform func(font.Font) font.Font) {
	p.fonts.push(p.outLen(), transform(p.fonts.current()))
	p.parseContent(closeWord)
	if !p.err {
		p.fonts.pop(p.outLen())
	}
}

func (p *parser) parseFont() {
	if !p.consumeWord("ont") {
		return
	}
	family := p.base.Family
	size := p.fonts.current().Size
	haveFont, haveColor := false, false
	var col color.RGBA

	for {
		switch p.nextChar() {
		case 'f':
			if !p.consumeWord("ace=\"") {
				return
			}
			name := p.parseAttributeValue()
			if p.err {
				return
			}
			family = name
			haveFont = true
		case 's':
			if !p.consumeWord("ize=\"") {
				return
			}
			sv := p.parseAttributeValue()
			n, perr := strconv.ParseFloat(sv, 32)
			if perr != nil {
				p.raise()
				return
			}
			size = float32(n)
			haveFont = true
		case 'c':
			if !p.consumeWord("olor=\"") {
				return
			}
			c, ok := p.parseColor()
			if !ok {
				return
			}
			if !p.consumeChar('"') {
				return
			}
			col = c
			haveColor = true
		case ' ':
		case '>':
			goto parsed
		default:
			p.raise()
			return
		}
	}
parsed:
	cur := p.fonts.current()
	if haveFont {
		next := cur
		next.Family = family
		next.Size = size
		p.fonts.push(p.outLen(), next)
	}
	if haveColor {
		p.colors.push(p.outLen(), col)
	}
	p.parseContent("font>")
	if p.err {
		return
	}
	if haveFont {
		p.fonts.pop(p.outLen())
	}
	if haveColor {
		p.colors.pop(p.outLen())
	}
}

func (p *parser) parseStroke() {
	if !p.consumeWord("roke") {
		p.raise()
		return
	}
	state, ok := p.parseStrokeAttributes()
	if !ok {
		return
	}
	p.stroke.push(p.outLen(), state)
	p.parseContent("stroke>")
	if !p.err {
		p.stroke.pop(p.outLen())
	}
}

func (p *parser) parseStrokeAttributes() (Stroke, bool) {
	result := DefaultStroke
	for {
		switch p.nextChar() {
		case 'c':
			if !p.consumeWord("olor=\"") {
				return result, false
			}
			c, ok := p.parseColor()
			if !ok {
				return result, false
			}
			if !p.consumeChar('"') {
				return result, false
			}
			c.A = result.Color.A
			result.Color = c
		case 'j':
			if !p.consumeWord("oins=\"") {
				return result, false
			}
			name := p.parseQuotedRunUntil('"')
			switch name {
			case "round":
				result.Joins = JoinRound
			case "bevel":
				result.Joins = JoinBevel
			case "miter":
				result.Joins = JoinMiter
			default:
				p.raise()
				return result, false
			}
		case 't':
			switch p.nextChar() {
			case 'h':
				if !p.consumeWord("ickness=\"") {
					return result, false
				}
				v := p.parseAttributeValue()
				n, err := strconv.ParseUint(v, 10, 8)
				if err != nil {
					p.raise()
					return result, false
				}
				result.Thickness = uint8(n)
			case 'r':
				if !p.consumeWord("ansparency=\"") {
					return result, false
				}
				v := p.parseAttributeValue()
				n, err := strconv.ParseFloat(v, 32)
				if err != nil {
					p.raise()
					return result, false
				}
				result.Color.A = uint8((1 - n) * 255)
			default:
				p.raise()
				return result, false
			}
		case ' ':
		case '>':
			return result, true
		default:
			p.raise()
			return result, false
		}
	}
}

// parseAttributeValue reads characters up to the closing '"', assuming the
// attribute name and opening quote were already consumed.
func (p *parser) parseAttributeValue() string {
	return p.parseQuotedRunUntil('"')
}

func (p *parser) parseQuotedRunUntil(closer rune) string {
	start := p.pos
	for {
		c := p.nextChar()
		if c == closer {
			return string(p.src[start : p.pos-1])
		}
		if c == sentinel {
			p.raise()
			return ""
		}
	}
}

// parseColor parses either #RRGGBB or rgb(r,g,b), matching
// formatting.cpp's parse_color/parse_color_hex/parse_color_rgb.
func (p *parser) parseColor() (color.RGBA, bool) {
	switch p.nextChar() {
	case '#':
		return p.parseColorHex()
	case 'r':
		return p.parseColorRGB()
	default:
		p.raise()
		return color.RGBA{}, false
	}
}

func (p *parser) parseColorHex() (color.RGBA, bool) {
	start := p.pos
	for i := 0; i < 6; i++ {
		c := p.nextChar()
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			p.raise()
			return color.RGBA{}, false
		}
	}
	v, err := strconv.ParseUint(string(p.src[start:p.pos]), 16, 32)
	if err != nil {
		p.raise()
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

func (p *parser) parseColorRGB() (color.RGBA, bool) {
	if !p.consumeWord("gb(") {
		return color.RGBA{}, false
	}
	var channels [3]uint8
	for ch := 0; ch < 3; ch++ {
		start := p.pos
		for {
			c := p.nextChar()
			if c == sentinel {
				p.raise()
				return color.RGBA{}, false
			}
			if c == ',' || c == ')' {
				numStr := strings.TrimSpace(string(p.src[start : p.pos-1]))
				n, err := strconv.ParseUint(numStr, 10, 8)
				if err != nil {
					p.raise()
					return color.RGBA{}, false
				}
				channels[ch] = uint8(n)
				break
			}
		}
	}
	return color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: 255}, true
}
