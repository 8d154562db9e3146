// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package fastpfor

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
)

// Logger exports the base.Logger type.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
var DefaultLogger Logger = base.DefaultLogger{}

// QuietLogger exports the base.QuietLogger type.
type QuietLogger = base.QuietLogger

var (
	// ErrInvalidConfiguration is returned when a codec is constructed with
	// an unusable block or page size.
	ErrInvalidConfiguration = base.ErrInvalidConfiguration
	// ErrInvalidInput is returned when the requested length exceeds the data
	// available in the input buffer.
	ErrInvalidInput = base.ErrInvalidInput
	// ErrInsufficientOutputSpace is returned when the output buffer cannot
	// hold the result. The caller may retry with a larger buffer.
	ErrInsufficientOutputSpace = base.ErrInsufficientOutputSpace
	// ErrInvalidOffset is returned when a cursor already points past the end
	// of its buffer.
	ErrInvalidOffset = base.ErrInvalidOffset
	// ErrCorruptStream is returned when an encoded stream is structurally
	// invalid.
	ErrCorruptStream = base.ErrCorruptStream
)

// IsCorruptionError returns true if the given error indicates a corrupt
// encoded stream.
func IsCorruptionError(err error) bool {
	return errors.Is(err, base.ErrCorruptStream)
}
