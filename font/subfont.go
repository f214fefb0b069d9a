// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package font

import "github.com/go-text/typesetting/language"

// ScriptRun identifies a maximal run of text that shares one resolved
// [FamilyHandle], produced by [SubFontResolver.Resolve] (spec.md §4.B).
type ScriptRun struct {
	Start, Limit int // rune offsets within the source text
	Family       FamilyHandle
	Script       language.Script
}

// SubFontResolver walks a run of text requested against one base family and
// splits it into per-family runs: characters the base family covers stay
// with it, characters it doesn't fall through its LinkedFamilies in order,
// then its FallbackFamilies, matching the original's multi_script_font.cpp
// resolution order (base -> linked -> fallback -> last-resort).
type SubFontResolver struct {
	registry *Registry
	cache    *InstanceCache
}

// NewSubFontResolver returns a resolver over reg using cache for face
// loading (so glyph-coverage probes reuse the caller's already-warm faces).
func NewSubFontResolver(reg *Registry, cache *InstanceCache) *SubFontResolver {
	return &SubFontResolver{registry: reg, cache: cache}
}

// Resolve splits text[start:limit] into per-family [ScriptRun]s for the
// given base family and style/weight, per spec.md §4.B.
func (sr *SubFontResolver) Resolve(text []rune, start, limit int, base FamilyHandle, weight Weight, style Style) []ScriptRun {
	var runs []ScriptRun
	if start >= limit {
		return runs
	}

	runStart := start
	runFamily := NoFamily
	var runScript language.Script

	flush := func(end int) {
		if end > runStart {
			runs = append(runs, ScriptRun{Start: runStart, Limit: end, Family: runFamily, Script: runScript})
		}
	}

	for i := start; i < limit; i++ {
		r := text[i]
		sc := language.LookupScript(r)
		fam := sr.resolveChar(r, sc, base, weight, style)
		if i == start {
			runFamily, runScript = fam, sc
			runStart = i
			continue
		}
		if fam != runFamily {
			flush(i)
			runStart = i
			runFamily, runScript = fam, sc
		} else {
			runScript = sc
		}
	}
	flush(limit)
	return runs
}

// resolveChar picks the first family in base -> linked -> fallback order
// whose scripts cover sc and whose chosen face has a glyph for r. If none
// qualifies, base itself is returned as the last resort so layout always
// has *something* to shape with (spec.md §4.B "never returns no family").
func (sr *SubFontResolver) resolveChar(r rune, sc language.Script, base FamilyHandle, weight Weight, style Style) FamilyHandle {
	if sr.familyCanRender(base, sc, r, weight, style) {
		return base
	}

	fam := sr.registry.Family(base)
	if fam == nil {
		return base
	}
	for _, h := range fam.linkedHandles {
		if sr.familyCanRender(h, sc, r, weight, style) {
			return h
		}
	}
	for _, h := range fam.fallbackHandles {
		if sr.familyCanRender(h, sc, r, weight, style) {
			return h
		}
	}
	return base
}

func (sr *SubFontResolver) familyCanRender(h FamilyHandle, sc language.Script, r rune, weight Weight, style Style) bool {
	fam := sr.registry.Family(h)
	if fam == nil || !fam.CoversScript(sc) {
		return false
	}
	in := sr.cache.Get(h, Font{Family: fam.name, Weight: weight, Style: style, Size: 1})
	if in == nil {
		return false
	}
	return in.Face.HasCodepoint(r)
}
