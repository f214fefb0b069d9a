// Copyright (c) 2025, rich-text contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xerrors holds the sentinel error kinds used across the module
// (spec.md §7) and a small log-and-passthrough helper for call sites that
// cannot propagate an error (e.g. a callback, a best-effort fallback path),
// in the same spirit as the teacher's base/errors.Log idiom.
package xerrors

import (
	"errors"
	"log/slog"
)

// Kind identifies one of the error classes spec.md §7 enumerates.
type Kind int

const (
	// InvalidArgument covers out-of-range indices, nil output pointers,
	// and a BiDi line spanning a paragraph boundary.
	InvalidArgument Kind = iota
	// MemoryAllocation is reported when layout buffers would be too large;
	// callers are expected to retry with simpler text.
	MemoryAllocation
	// RegistryAlreadyLoaded is returned by RegisterFamily for a family
	// that has already been initialized.
	RegistryAlreadyLoaded
	// RegistryNoFaces is returned by RegisterFamily when no faces were
	// provided.
	RegistryNoFaces
	// FontLoadFailed marks a face whose file bytes could not be read or
	// parsed; never fatal, it just empties that face's lookups.
	FontLoadFailed
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case MemoryAllocation:
		return "memory allocation"
	case RegistryAlreadyLoaded:
		return "registry: already loaded"
	case RegistryNoFaces:
		return "registry: no faces"
	case FontLoadFailed:
		return "font load failed"
	default:
		return "unknown"
	}
}

// Error is a Kind paired with context.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// New returns an *Error of the given kind with the given message.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Message: msg}
}

// Is reports whether err, or an error it wraps, is an *Error of the given
// kind; it looks through the chain with errors.As.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// Log logs a non-nil error at Warn level and returns it unchanged, for call
// sites that degrade gracefully rather than propagate (face load failures,
// malformed markup falling back to defaults, and similar spec.md §7
// "never fatal" paths). Returns nil if err is nil.
func Log(err error) error {
	if err == nil {
		return nil
	}
	slog.Warn("recovered error", "error", err)
	return err
}
