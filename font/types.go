// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package font implements the process-wide font registry and per-script
// face resolution described in spec components A and B: a catalog of
// families grouped by weight/style, linked/fallback chains for covering
// scripts the base family lacks, and a per-owner instance cache that
// wraps go-text/typesetting faces with shaping-ready metrics.
package font

import "github.com/go-text/typesetting/language"

// FaceHandle is an opaque, never-reused index into the registry's face
// table.
type FaceHandle int32

// NoFace is the sentinel -1, never assigned to a real face.
const NoFace FaceHandle = -1

// FamilyHandle is an opaque index into the registry's family table.
type FamilyHandle int32

// NoFamily is the sentinel -1, never assigned to a real family.
const NoFamily FamilyHandle = -1

// Weight mirrors the CSS/OpenType numeric weight scale (100-900), matching
// the scale go-text/typesetting's font.Weight uses so StyleToAspect-style
// conversions are a direct cast.
type Weight float32

const (
	Thin       Weight = 100
	ExtraLight Weight = 200
	Light      Weight = 300
	Normal     Weight = 400
	Medium     Weight = 500
	SemiBold   Weight = 600
	Bold       Weight = 700
	ExtraBold  Weight = 800
	Black      Weight = 900
)

// weightBuckets are the discrete slots a [Family] stores faces in.
var weightBuckets = [...]Weight{Thin, ExtraLight, Light, Normal, Medium, SemiBold, Bold, ExtraBold, Black}

// NumWeights is the number of weight buckets a Family carries faces for.
const NumWeights = len(weightBuckets)

// weightIndex returns the bucket index nearest to w.
func weightIndex(w Weight) int {
	best, bestDist := 0, Weight(1e9)
	for i, wb := range weightBuckets {
		d := w - wb
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Style is the slant of a face.
type Style int

const (
	StyleNormal Style = iota
	StyleItalic
	StyleOblique
)

// NumStyles is the number of style buckets a Family carries faces for.
const NumStyles = 3

// Font identifies a concrete, sized rendering of text as seen by the
// registry: a family name plus weight, style, and pixel size (spec.md §4.A
// `Font = {family, weight, style, size}`).
type Font struct {
	Family string
	Weight Weight
	Style  Style
	Size   float32
}

// Status is the result of a registration attempt.
type Status int

const (
	OK Status = iota
	AlreadyLoaded
	NoFaces
)

// FaceCreateInfo describes one face to load into a family.
type FaceCreateInfo struct {
	Name   string
	URI    string
	Weight Weight
	Style  Style
}

// FamilyCreateInfo describes a family to register (spec.md §4.A).
// Family names referenced in LinkedFamilies/FallbackFamilies that don't yet
// exist are created in an uninitialized state so forward references resolve.
type FamilyCreateInfo struct {
	Name             string
	Scripts          []language.Script // empty = all scripts
	LinkedFamilies   []string
	FallbackFamilies []string
	Faces            []FaceCreateInfo
}
