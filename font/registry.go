// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package font

import (
	"bytes"
	"encoding/json"
	"sync"

	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"

	"github.com/Mlleters/rich-text/internal/xerrors"
)

// Registry is the process-wide catalog of families and faces (spec.md §3's
// "process-global font catalog"). A Registry is safe for concurrent reads
// once populated; RegisterFamily takes an internal lock so registration can
// happen from any goroutine at startup.
type Registry struct {
	mu sync.RWMutex

	families     []*Family
	familyByName map[string]FamilyHandle

	faces []*Face
}

// NewRegistry returns an empty, ready-to-populate registry.
func NewRegistry() *Registry {
	return &Registry{familyByName: map[string]FamilyHandle{}}
}

// getOrCreateFamilyLocked returns the handle for name, creating an empty,
// uninitialized family if it doesn't exist yet so forward references from
// LinkedFamilies/FallbackFamilies resolve regardless of registration order.
func (r *Registry) getOrCreateFamilyLocked(name string) FamilyHandle {
	if h, ok := r.familyByName[name]; ok {
		return h
	}
	h := FamilyHandle(len(r.families))
	r.families = append(r.families, newFamily(h, name))
	r.familyByName[name] = h
	return h
}

// RegisterFamily loads and indexes one family's faces (spec.md §4.A). It
// returns [RegistryAlreadyLoaded] if the family's faces were already
// populated, and [RegistryNoFaces] if info.Faces is empty.
func (r *Registry) RegisterFamily(info FamilyCreateInfo) (FamilyHandle, Status, error) {
	if len(info.Faces) == 0 {
		return NoFamily, NoFaces, xerrors.New(xerrors.RegistryNoFaces, info.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.getOrCreateFamilyLocked(info.Name)
	fam := r.families[h]
	for _, w := range fam.faces {
		for _, fh := range w {
			if fh != NoFace {
				return h, AlreadyLoaded, xerrors.New(xerrors.RegistryAlreadyLoaded, info.Name)
			}
		}
	}

	if len(info.Scripts) > 0 {
		fam.scripts = make(map[language.Script]bool, len(info.Scripts))
		for _, s := range info.Scripts {
			fam.scripts[s] = true
		}
	}
	fam.linkedFamilies = info.LinkedFamilies
	fam.fallbackFamilies = info.FallbackFamilies
	fam.linkedHandles = make([]FamilyHandle, len(info.LinkedFamilies))
	for i, n := range info.LinkedFamilies {
		fam.linkedHandles[i] = r.getOrCreateFamilyLocked(n)
	}
	fam.fallbackHandles = make([]FamilyHandle, len(info.FallbackFamilies))
	for i, n := range info.FallbackFamilies {
		fam.fallbackHandles[i] = r.getOrCreateFamilyLocked(n)
	}

	for _, fc := range info.Faces {
		fh := FaceHandle(len(r.faces))
		r.faces = append(r.faces, &Face{info: fc})
		wi := weightIndex(fc.Weight)
		fam.faces[fc.Style][wi] = fh
	}

	return h, OK, nil
}

// familyJSON mirrors FamilyCreateInfo for unmarshaling a registration batch
// from JSON, the form the supplemented "family manifest" feature uses
// (SPEC_FULL.md SUPPLEMENTED FEATURES).
type familyJSON struct {
	Name             string   `json:"name"`
	Scripts          []string `json:"scripts,omitempty"`
	LinkedFamilies   []string `json:"linkedFamilies,omitempty"`
	FallbackFamilies []string `json:"fallbackFamilies,omitempty"`
	Faces            []struct {
		Name   string  `json:"name"`
		URI    string  `json:"uri"`
		Weight float32 `json:"weight"`
		Style  string  `json:"style"`
	} `json:"faces"`
}

var styleNames = map[string]Style{"normal": StyleNormal, "italic": StyleItalic, "oblique": StyleOblique}

// scriptNames maps the manifest's human-readable script names to go-text's
// language.Script constants. language.Script has no public string parser in
// the version vendored here, so the manifest format is restricted to this
// fixed set rather than accepting arbitrary ISO 15924 tags.
var scriptNames = map[string]language.Script{
	"latin":      language.Latin,
	"han":        language.Han,
	"arabic":     language.Arabic,
	"hebrew":     language.Hebrew,
	"cyrillic":   language.Cyrillic,
	"greek":      language.Greek,
	"devanagari": language.Devanagari,
	"thai":       language.Thai,
	"hiragana":   language.Hiragana,
	"katakana":   language.Katakana,
	"hangul":     language.Hangul,
}

// RegisterFamiliesFromJSON loads a batch of family manifests such as might
// ship alongside an application's asset bundle. Malformed entries are
// logged and skipped rather than aborting the whole batch, matching this
// module's "never fatal" error posture (spec.md §7).
func (r *Registry) RegisterFamiliesFromJSON(data []byte) error {
	var manifest []familyJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		return xerrors.New(xerrors.InvalidArgument, "malformed family manifest: "+err.Error())
	}
	for _, fj := range manifest {
		info := FamilyCreateInfo{
			Name:             fj.Name,
			LinkedFamilies:   fj.LinkedFamilies,
			FallbackFamilies: fj.FallbackFamilies,
		}
		for _, s := range fj.Scripts {
			if sc, ok := scriptNames[s]; ok {
				info.Scripts = append(info.Scripts, sc)
			}
		}
		for _, ff := range fj.Faces {
			info.Faces = append(info.Faces, FaceCreateInfo{
				Name:   ff.Name,
				URI:    ff.URI,
				Weight: Weight(ff.Weight),
				Style:  styleNames[ff.Style],
			})
		}
		if _, _, err := r.RegisterFamily(info); err != nil {
			xerrors.Log(err)
		}
	}
	return nil
}

// GetFamily looks up a family by name.
func (r *Registry) GetFamily(name string) (FamilyHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.familyByName[name]
	return h, ok
}

// Family returns the family at handle h, or nil if h is out of range.
func (r *Registry) Family(h FamilyHandle) *Family {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h < 0 || int(h) >= len(r.families) {
		return nil
	}
	return r.families[h]
}

// GetFace resolves the best face in family h for the requested weight and
// style (spec.md §4.A/§4.B nearest-weight search).
func (r *Registry) GetFace(h FamilyHandle, weight Weight, style Style) FaceHandle {
	fam := r.Family(h)
	if fam == nil {
		return NoFace
	}
	return fam.bestFace(weight, style)
}

// loadFace lazily reads and parses a face's bytes via font.ParseTTC, the
// same entry point fontinfo.go's FontData.Load uses for embedded font
// bytes, and extracts the metrics GetFontData reports.
func (r *Registry) loadFace(fh FaceHandle) *Face {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fh < 0 || int(fh) >= len(r.faces) {
		return nil
	}
	fc := r.faces[fh]
	if fc.loaded {
		return fc
	}
	fc.loaded = true
	faces, err := gofont.ParseTTC(bytes.NewReader(fc.data))
	if err != nil || len(faces) == 0 {
		fc.loadErr = xerrors.New(xerrors.FontLoadFailed, fc.info.Name)
		xerrors.Log(fc.loadErr)
		return fc
	}
	face := faces[0]
	fc.face = face
	fc.upem = face.Upem()
	fc.hasCodepoint = map[rune]bool{}

	// OS/2 strikethrough/underline metrics, read through go-text's
	// LineMetric accessor (spec.md §4.A). The accessor has no absence
	// signal of its own (it returns 0 for an unset table), so a zero
	// value here falls back to a computed default just as an explicit
	// "not present" would.
	if v := face.LineMetric(gofont.StrikethroughPosition); v != 0 {
		fc.strikethroughOffset = v
	} else {
		fc.strikethroughOffset = float32(fc.upem) * 0.3
	}
	if v := face.LineMetric(gofont.StrikethroughThickness); v != 0 {
		fc.strikethroughSize = v
	} else {
		fc.strikethroughSize = float32(fc.upem) * 0.05
	}
	if v := face.LineMetric(gofont.UnderlinePosition); v != 0 {
		fc.underlineOffset = v
	} else {
		fc.underlineOffset = -float32(fc.upem) * 0.1
	}
	if v := face.LineMetric(gofont.UnderlineThickness); v != 0 {
		fc.underlineSize = v
	} else {
		fc.underlineSize = float32(fc.upem) * 0.05
	}
	return fc
}

// GetFontData returns the parsed face data for fh, loading it on first use.
func (r *Registry) GetFontData(fh FaceHandle) *Face {
	return r.loadFace(fh)
}

// SetFaceData attaches raw font bytes to a face slot before first use; in a
// full deployment these come from an embedded filesystem or an app bundle
// (see the DOMAIN STACK notes in SPEC_FULL.md), so this module keeps the
// byte source pluggable rather than hardcoding one filesystem layout.
func (r *Registry) SetFaceData(fh FaceHandle, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fh < 0 || int(fh) >= len(r.faces) {
		return
	}
	r.faces[fh].data = data
}

// HasCodepoint reports whether face fh's cmap maps the rune to a glyph,
// the test §4.B's fallback search uses to decide whether a family's face
// can render a given character. Safe for concurrent use across the
// per-goroutine InstanceCaches spec.md §5 allows to share one Face.
func (f *Face) HasCodepoint(r rune) bool {
	if f == nil || f.loadErr != nil || f.face == nil {
		return false
	}
	f.hasCodepointMu.Lock()
	defer f.hasCodepointMu.Unlock()
	if v, ok := f.hasCodepoint[r]; ok {
		return v
	}
	_, ok := f.face.Cmap.Lookup(r)
	f.hasCodepoint[r] = ok
	return ok
}

// Upem returns the face's units-per-em, or 0 if unloaded/unparseable.
func (f *Face) Upem() uint16 {
	if f == nil {
		return 0
	}
	return f.upem
}

// StrikethroughMetrics returns the offset and thickness (in font units)
// of the strikethrough line, per spec.md §4.A.
func (f *Face) StrikethroughMetrics() (offset, thickness float32) {
	return f.strikethroughOffset, f.strikethroughSize
}

// UnderlineMetrics returns the offset and thickness (in font units) of the
// underline, per spec.md §4.A.
func (f *Face) UnderlineMetrics() (offset, thickness float32) {
	return f.underlineOffset, f.underlineSize
}
