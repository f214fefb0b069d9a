// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rich

import (
	"image/color"
	"strings"
	"testing"

	"github.com/Mlleters/rich-text/font"
)

func TestParseInlinePlainTextRoundTrips(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	baseColor := color.RGBA{A: 255}
	runs, content := ParseInline("hello world", base, baseColor, DefaultStroke)
	if content != "hello world" {
		t.Errorf("expected content %q but got %q", "hello world", content)
	}
	if runs.FontRuns.RunCount() != 1 || runs.FontRuns.GetValue(0) != base {
		t.Errorf("expected a single base font run")
	}
}

func TestParseInlineStripsTagsAndAppliesColor(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	baseColor := color.RGBA{A: 255}
	runs, content := ParseInline(`abc<font color="#FF0000">def</font>ghi`, base, baseColor, DefaultStroke)
	if content != "abcdefghi" {
		t.Fatalf("expected stripped content %q but got %q", "abcdefghi", content)
	}
	want := color.RGBA{R: 255, A: 255}
	for i := 3; i < 6; i++ {
		if got := runs.ColorRuns.GetValue(int32(i)); got != want {
			t.Errorf("index %d: expected color %v but got %v", i, want, got)
		}
	}
	if got := runs.ColorRuns.GetValue(0); got != baseColor {
		t.Errorf("index 0: expected base color %v but got %v", baseColor, got)
	}
	if got := runs.ColorRuns.GetValue(8); got != baseColor {
		t.Errorf("index 8: expected base color restored but got %v", got)
	}
}

func TestParseInlineStrikethroughAndUnderline(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	runs, content := ParseInline("<s>x</s><u>y</u>z", base, color.RGBA{A: 255}, DefaultStroke)
	if content != "xyz" {
		t.Fatalf("expected content %q but got %q", "xyz", content)
	}
	if !runs.StrikethroughRuns.GetValue(0) {
		t.Errorf("expected index 0 struck through")
	}
	if runs.StrikethroughRuns.GetValue(1) {
		t.Errorf("expected index 1 not struck through")
	}
	if !runs.UnderlineRuns.GetValue(1) {
		t.Errorf("expected index 1 underlined")
	}
	if runs.UnderlineRuns.GetValue(2) {
		t.Errorf("expected index 2 not underlined")
	}
}

func TestParseInlineNestedTags(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	runs, content := ParseInline("<s><u>both</u></s>", base, color.RGBA{A: 255}, DefaultStroke)
	if content != "both" {
		t.Fatalf("expected content %q but got %q", "both", content)
	}
	for i := 0; i < len(content); i++ {
		if !runs.StrikethroughRuns.GetValue(int32(i)) || !runs.UnderlineRuns.GetValue(int32(i)) {
			t.Errorf("index %d: expected both strikethrough and underline set", i)
		}
	}
}

func TestParseInlineMalformedFallsBackToPlain(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	raw := "<font>unterminated"
	runs, content := ParseInline(raw, base, color.RGBA{A: 255}, DefaultStroke)
	if content != raw {
		t.Errorf("expected fallback content to equal raw input %q but got %q", raw, content)
	}
	if runs.FontRuns.RunCount() != 1 || runs.FontRuns.GetValue(0) != base {
		t.Errorf("expected fallback to a single base font run")
	}
}

func TestParseInlineMismatchedCloseTagFails(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	raw := "<s>x</u>"
	_, content := ParseInline(raw, base, color.RGBA{A: 255}, DefaultStroke)
	if content != raw {
		t.Errorf("expected mismatched close tag to fall back to raw input %q but got %q", raw, content)
	}
}

func TestParseInlineStrokeAttributes(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	runs, content := ParseInline(`<stroke color="#00FF00" thickness="3" joins="miter">x</stroke>`, base, color.RGBA{A: 255}, DefaultStroke)
	if content != "x" {
		t.Fatalf("expected content %q but got %q", "x", content)
	}
	got := runs.StrokeRuns.GetValue(0)
	want := Stroke{Color: color.RGBA{G: 255, A: 255}, Thickness: 3, Joins: JoinMiter}
	if got != want {
		t.Errorf("expected stroke %+v but got %+v", want, got)
	}
}

func TestParseInlineBoldAndItalic(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12, Weight: font.Normal, Style: font.StyleNormal}
	runs, content := ParseInline("<b>x</b><i>y</i>z", base, color.RGBA{A: 255}, DefaultStroke)
	if content != "xyz" {
		t.Fatalf("expected content %q but got %q", "xyz", content)
	}
	if got := runs.FontRuns.GetValue(0); got.Weight != font.Bold || got.Style != font.StyleNormal {
		t.Errorf("index 0: expected bold/normal but got weight=%v style=%v", got.Weight, got.Style)
	}
	if got := runs.FontRuns.GetValue(1); got.Weight != font.Normal || got.Style != font.StyleItalic {
		t.Errorf("index 1: expected normal/italic but got weight=%v style=%v", got.Weight, got.Style)
	}
	if got := runs.FontRuns.GetValue(2); got != base {
		t.Errorf("index 2: expected the base font restored but got %+v", got)
	}
}

func TestParseInlineNestedBoldItalic(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	runs, content := ParseInline("<b><i>both</i></b>", base, color.RGBA{A: 255}, DefaultStroke)
	if content != "both" {
		t.Fatalf("expected content %q but got %q", "both", content)
	}
	for i := 0; i < len(content); i++ {
		got := runs.FontRuns.GetValue(int32(i))
		if got.Weight != font.Bold || got.Style != font.StyleItalic {
			t.Errorf("index %d: expected bold+italic but got weight=%v style=%v", i, got.Weight, got.Style)
		}
	}
}

func TestParseInlineSourceIndexMapsContentBackToSource(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	raw := `abc<font color="#FF0000">def</font>ghi`
	runs, content := ParseInline(raw, base, color.RGBA{A: 255}, DefaultStroke)
	if content != "abcdefghi" {
		t.Fatalf("expected stripped content %q but got %q", "abcdefghi", content)
	}
	if runs.ContentText != content {
		t.Fatalf("expected ContentText %q but got %q", content, runs.ContentText)
	}
	if len(runs.SourceIndex) != len(content) {
		t.Fatalf("expected one source index per content rune, got %d for %d runes", len(runs.SourceIndex), len(content))
	}
	// "abc" precedes the tag untouched, so content index i maps to source index i.
	for i := 0; i < 3; i++ {
		if runs.SourceIndex[i] != int32(i) {
			t.Errorf("content index %d: expected source index %d but got %d", i, i, runs.SourceIndex[i])
		}
	}
	// "def" sits after the 22-rune opening <font ...> tag, so each of its
	// content runes maps to its shifted position in raw.
	defStart := strings.Index(raw, "def")
	for i := 0; i < 3; i++ {
		want := int32(defStart + i)
		if got := runs.SourceIndex[3+i]; got != want {
			t.Errorf("content index %d: expected source index %d but got %d", 3+i, want, got)
		}
	}
	// "ghi" follows the closing </font>.
	ghiStart := strings.Index(raw, "ghi")
	for i := 0; i < 3; i++ {
		want := int32(ghiStart + i)
		if got := runs.SourceIndex[6+i]; got != want {
			t.Errorf("content index %d: expected source index %d but got %d", 6+i, want, got)
		}
	}
}

func TestParseInlineMakeDefaultHasNoSourceIndex(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	runs := MakeDefault("hello", base, color.RGBA{A: 255}, DefaultStroke)
	if runs.ContentText != "hello" {
		t.Errorf("expected ContentText %q but got %q", "hello", runs.ContentText)
	}
	if runs.SourceIndex != nil {
		t.Errorf("expected no SourceIndex for unparsed default formatting, got %v", runs.SourceIndex)
	}
}

func TestParseInlineComment(t *testing.T) {
	base := font.Font{Family: "Sans", Size: 12}
	runs, content := ParseInline("a<!-- ignored -->b", base, color.RGBA{A: 255}, DefaultStroke)
	if content != "ab" {
		t.Errorf("expected comment stripped to %q but got %q", "ab", content)
	}
	if runs.FontRuns.RunCount() != 1 {
		t.Errorf("expected comment to introduce no font run boundary")
	}
}
