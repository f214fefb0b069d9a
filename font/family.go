// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package font

import (
	"sync"

	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
)

// Face is one loaded face within a family: a weight/style slot plus the
// go-text face data backing it. Face is created when its family is
// registered; its font data is parsed lazily the first time GetFontData
// needs it (spec.md §4.A "creates shaper state ... on first use"). A
// *Face is shared process-wide — Registry.GetFontData hands the same
// pointer to every per-goroutine InstanceCache — so its one piece of
// post-load mutable state, hasCodepoint, guards itself with its own lock
// rather than relying on callers to serialize access.
type Face struct {
	info FaceCreateInfo
	data []byte // raw font bytes, read once and cached

	loaded  bool
	loadErr error
	face    *gofont.Face

	// hasCodepointMu guards hasCodepoint: concurrent InstanceCaches on
	// different goroutines (spec.md §5) can probe coverage for different
	// runes on this same shared Face at once.
	hasCodepointMu sync.Mutex
	// hasCodepoint caches Cmap.Lookup results so repeated has-glyph checks
	// during fallback search (§4.B) don't re-walk the cmap subtable.
	hasCodepoint map[rune]bool

	upem uint16

	strikethroughOffset, strikethroughSize float32
	underlineOffset, underlineSize         float32
}

// ShapingFace returns the parsed go-text face backing this Face, for
// direct use as a shaping.Input.Face by the layout package (spec.md §4.D
// step 2): layout builds shaping.Input values itself rather than going
// through fontscan's automatic face resolution, since [SubFontResolver]
// already performs that role (see DESIGN.md's layout grounding entry).
func (f *Face) ShapingFace() *gofont.Face {
	if f == nil {
		return nil
	}
	return f.face
}

// Family is a named group of faces spanning the weight x style grid, plus
// the linked/fallback chains used to cover scripts and glyphs the family's
// own faces lack (spec.md §3, §4.B).
type Family struct {
	handle FamilyHandle
	name   string

	// scripts restricts which scripts this family claims to cover; nil/empty
	// means "no restriction", i.e. it's a candidate for any script.
	scripts map[language.Script]bool

	// faces[style][weight] indexes the face grid; NoFace when absent.
	faces [NumStyles][NumWeights]FaceHandle

	linkedFamilies   []string
	fallbackFamilies []string

	// resolved once all families in a registration batch exist, since
	// linked/fallback names may forward-reference families not yet created.
	linkedHandles   []FamilyHandle
	fallbackHandles []FamilyHandle
}

func newFamily(handle FamilyHandle, name string) *Family {
	f := &Family{handle: handle, name: name}
	for s := range f.faces {
		for w := range f.faces[s] {
			f.faces[s][w] = NoFace
		}
	}
	return f
}

// CoversScript reports whether this family claims to cover s. An empty
// scripts set covers every script.
func (f *Family) CoversScript(s language.Script) bool {
	if len(f.scripts) == 0 {
		return true
	}
	return f.scripts[s]
}

// Name returns the family's registered name.
func (f *Family) Name() string { return f.name }

// Handle returns the family's handle in its owning registry.
func (f *Family) Handle() FamilyHandle { return f.handle }

// bestFace picks the closest face to the requested weight/style, falling
// back to any present face in the same style column, then any face at all.
// This mirrors the original's multi_script_font.cpp nearest-weight search.
func (f *Family) bestFace(weight Weight, style Style) FaceHandle {
	wi := weightIndex(weight)
	if h := f.faces[style][wi]; h != NoFace {
		return h
	}
	// Search outward from wi within the same style column.
	for d := 1; d < NumWeights; d++ {
		if wi-d >= 0 {
			if h := f.faces[style][wi-d]; h != NoFace {
				return h
			}
		}
		if wi+d < NumWeights {
			if h := f.faces[style][wi+d]; h != NoFace {
				return h
			}
		}
	}
	// No face in the requested style: try Normal, then any style.
	for _, s := range [...]Style{StyleNormal, StyleItalic, StyleOblique} {
		for _, h := range f.faces[s] {
			if h != NoFace {
				return h
			}
		}
	}
	return NoFace
}
