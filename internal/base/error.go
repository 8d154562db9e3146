// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidConfiguration is returned when a codec is constructed with an
	// unusable block or page size.
	ErrInvalidConfiguration = errors.New("fastpfor: invalid configuration")
	// ErrInvalidInput is returned when the requested length exceeds the data
	// available in the input buffer.
	ErrInvalidInput = errors.New("fastpfor: invalid input")
	// ErrInsufficientOutputSpace is returned when the output buffer cannot hold
	// the result. The caller may retry with a larger buffer.
	ErrInsufficientOutputSpace = errors.New("fastpfor: insufficient output space")
	// ErrInvalidOffset is returned when a cursor already points past the end of
	// its buffer.
	ErrInvalidOffset = errors.New("fastpfor: invalid offset")
	// ErrCorruptStream is returned when an encoded stream is structurally
	// invalid: a truncated run, an out of range bit width, or metadata that
	// disagrees with the data that follows it.
	ErrCorruptStream = errors.New("fastpfor: corrupt stream")
)

// MarkCorruptionError marks given error as a corruption error.
func MarkCorruptionError(err error) error {
	if errors.Is(err, ErrCorruptStream) {
		return err
	}
	return errors.Mark(err, ErrCorruptStream)
}

// CorruptionErrorf formats according to a format specifier and returns
// the string as an error value that is marked as a corruption error.
func CorruptionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrCorruptStream)
}

// InvalidConfigurationErrorf returns an error marked with
// ErrInvalidConfiguration.
func InvalidConfigurationErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidConfiguration)
}

// InvalidInputErrorf returns an error marked with ErrInvalidInput.
func InvalidInputErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidInput)
}

// InsufficientSpaceErrorf returns an error marked with
// ErrInsufficientOutputSpace.
func InsufficientSpaceErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInsufficientOutputSpace)
}

// InvalidOffsetErrorf returns an error marked with ErrInvalidOffset.
func InvalidOffsetErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidOffset)
}

// CheckBounds validates a (buffer, length, position) triple the way every
// codec does on entry: the position must lie within the buffer and the
// requested length must fit after it.
func CheckBounds(bufLen, length, pos int, what string) error {
	if pos < 0 || pos > bufLen {
		return InvalidOffsetErrorf("fastpfor: %s offset %d outside buffer of length %d",
			errors.Safe(what), errors.Safe(pos), errors.Safe(bufLen))
	}
	if length < 0 || length > bufLen-pos {
		return InvalidInputErrorf("fastpfor: %s length %d exceeds %d words available at offset %d",
			errors.Safe(what), errors.Safe(length), errors.Safe(bufLen-pos), errors.Safe(pos))
	}
	return nil
}
