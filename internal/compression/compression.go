// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package compression wraps the general purpose byte compressors that may be
// layered on top of an integer codec's output when it is stored.
package compression

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
)

// Algorithm identifies a byte compression algorithm. The values are stored
// in container headers and must not change.
type Algorithm uint8

const (
	None Algorithm = iota
	Snappy
	MinLZ
	Zstd
	NumAlgorithms
)

var algorithmNames = [NumAlgorithms]string{
	None:   "none",
	Snappy: "snappy",
	MinLZ:  "minlz",
	Zstd:   "zstd",
}

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	if a < NumAlgorithms {
		return algorithmNames[a]
	}
	return "unknown"
}

// SafeValue implements redact.SafeValue.
func (a Algorithm) SafeValue() {}

// ParseAlgorithm returns the algorithm with the given name.
func ParseAlgorithm(s string) (Algorithm, error) {
	for a, name := range algorithmNames {
		if strings.EqualFold(s, name) {
			return Algorithm(a), nil
		}
	}
	return 0, errors.Newf("unknown compression algorithm %q", s)
}

// Compressor compresses byte slices.
type Compressor interface {
	Algorithm() Algorithm

	// Compress a block, appending the compressed data to dst[:0].
	Compress(dst, src []byte) []byte

	// Close must be called when the Compressor is no longer needed.
	// After Close is called, the Compressor must not be used again.
	Close()
}

// GetCompressor returns a Compressor for the given algorithm.
func GetCompressor(a Algorithm) Compressor {
	switch a {
	case None:
		return passthrough{}
	case Snappy:
		return snappyCodec
	case MinLZ:
		return minlzCodec
	case Zstd:
		return getZstdCompressor(zstdLevel)
	default:
		panic(errors.AssertionFailedf("invalid compression algorithm %d", errors.Safe(uint8(a))))
	}
}

// Decompressor decompresses byte slices.
type Decompressor interface {
	// DecompressInto decompresses compressed into buf. The buf slice must have
	// the exact size as the decompressed value. Callers may use
	// DecompressedLen to determine the correct size.
	DecompressInto(buf, compressed []byte) error

	// DecompressedLen returns the length of the provided block once
	// decompressed.
	DecompressedLen(b []byte) (decompressedLen int, err error)

	// Close must be called when the Decompressor is no longer needed.
	// After Close is called, the Decompressor must not be used again.
	Close()
}

// GetDecompressor returns a Decompressor for the given algorithm.
func GetDecompressor(a Algorithm) Decompressor {
	switch a {
	case None:
		return passthrough{}
	case Snappy:
		return snappyCodec
	case MinLZ:
		return minlzCodec
	case Zstd:
		return getZstdDecompressor()
	default:
		panic(errors.AssertionFailedf("invalid compression algorithm %d", errors.Safe(uint8(a))))
	}
}

// Compress compresses src with the given algorithm, reusing dst's memory
// where possible.
func Compress(a Algorithm, dst, src []byte) []byte {
	c := GetCompressor(a)
	defer c.Close()
	return c.Compress(dst, src)
}

// Decompress decompresses src, which was compressed with the given
// algorithm, into a newly allocated buffer of decompressedLen bytes. A
// payload declaring any other length is rejected before allocating. Errors
// are marked as corruption.
func Decompress(a Algorithm, src []byte, decompressedLen int) ([]byte, error) {
	d := GetDecompressor(a)
	defer d.Close()
	n, err := d.DecompressedLen(src)
	if err != nil {
		return nil, base.MarkCorruptionError(err)
	}
	if n != decompressedLen {
		return nil, base.CorruptionErrorf("fastpfor: %s payload declares %d bytes, expected %d",
			a, errors.Safe(n), errors.Safe(decompressedLen))
	}
	buf := make([]byte, n)
	if err := d.DecompressInto(buf, src); err != nil {
		return nil, base.MarkCorruptionError(err)
	}
	return buf, nil
}
