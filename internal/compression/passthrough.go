// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
)

// passthrough stores payloads as is. It serves as both the Compressor and
// the Decompressor for None.
type passthrough struct{}

var _ Compressor = passthrough{}
var _ Decompressor = passthrough{}

func (passthrough) Algorithm() Algorithm { return None }

func (passthrough) Compress(dst, src []byte) []byte {
	return append(dst[:0], src...)
}

func (passthrough) DecompressInto(dst, src []byte) error {
	if n := copy(dst, src); n != len(src) || n != len(dst) {
		return base.CorruptionErrorf("fastpfor: stored payload of %d bytes, expected %d",
			errors.Safe(len(src)), errors.Safe(len(dst)))
	}
	return nil
}

func (passthrough) DecompressedLen(src []byte) (int, error) { return len(src), nil }

func (passthrough) Close() {}
