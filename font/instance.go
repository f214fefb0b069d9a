// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package font

// Instance is a shaping-ready handle for one (face, size) pair: the parsed
// face plus the scaled metrics a shaper consults every run. Go has no
// notion of thread-local storage, so spec.md §3/§5's "per-thread font
// instance cache" is expressed as an explicit [InstanceCache] value that
// the owner of a goroutine (e.g. one per rendering worker) holds and reuses
// across calls, rather than anything implicit tied to a goroutine ID.
type Instance struct {
	Face   *Face
	Handle FaceHandle
	Font   Font

	ascent, descent, lineGap float32
}

// Ascent returns the scaled ascent in pixels for this instance's size.
func (in *Instance) Ascent() float32 { return in.ascent }

// Descent returns the scaled descent (positive-down) in pixels.
func (in *Instance) Descent() float32 { return in.descent }

// LineGap returns the scaled recommended inter-line gap in pixels.
func (in *Instance) LineGap() float32 { return in.lineGap }

// InstanceCache memoizes (family, weight, style, size) -> [Instance]
// resolutions against a shared, read-only [Registry]. A cache is not safe
// for concurrent use; callers that shape from multiple goroutines should
// give each one its own cache, matching the original's one-instance-cache-
// per-worker-thread design (spec.md §5).
type InstanceCache struct {
	registry *Registry
	byKey    map[instanceKey]*Instance
}

type instanceKey struct {
	family FamilyHandle
	weight Weight
	style  Style
	size   float32
}

// NewInstanceCache returns a cache backed by reg.
func NewInstanceCache(reg *Registry) *InstanceCache {
	return &InstanceCache{registry: reg, byKey: map[instanceKey]*Instance{}}
}

// Get resolves fnt against family h, creating and caching the [Instance] on
// first use (spec.md §4.A "creates shaper state ... on first use").
func (c *InstanceCache) Get(h FamilyHandle, fnt Font) *Instance {
	key := instanceKey{family: h, weight: fnt.Weight, style: fnt.Style, size: fnt.Size}
	if in, ok := c.byKey[key]; ok {
		return in
	}

	fh := c.registry.GetFace(h, fnt.Weight, fnt.Style)
	if fh == NoFace {
		return nil
	}
	face := c.registry.GetFontData(fh)
	if face == nil || face.loadErr != nil {
		return nil
	}

	in := &Instance{Face: face, Handle: fh, Font: fnt}
	scale := fnt.Size / float32(face.upem)
	if ext, ok := face.face.FontHExtents(); ok {
		in.ascent = ext.Ascender * scale
		in.descent = -ext.Descender * scale
		in.lineGap = ext.LineGap * scale
	} else {
		in.ascent = fnt.Size * 0.8
		in.descent = fnt.Size * 0.2
	}

	c.byKey[key] = in
	return in
}
