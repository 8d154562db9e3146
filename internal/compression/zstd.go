// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
)

const zstdLevel = 3

// Zstd payloads are framed as
//
//	uvarint(decompressed length) | zstd frame
//
// so that DecompressedLen does not depend on the frame header, which the two
// zstd implementations populate differently.

// appendZstdPrefix resets dst and appends the length prefix for a payload of
// n bytes, reserving room for bound further bytes.
func appendZstdPrefix(dst []byte, n, bound int) []byte {
	if cap(dst) < binary.MaxVarintLen64+bound {
		dst = make([]byte, 0, binary.MaxVarintLen64+bound)
	}
	return binary.AppendUvarint(dst[:0], uint64(n))
}

// splitZstdPayload returns the decompressed length and the zstd frame.
func splitZstdPayload(src []byte) (int, []byte, error) {
	n, prefixLen := binary.Uvarint(src)
	if prefixLen <= 0 || n > uint64(maxInt) {
		return 0, nil, base.CorruptionErrorf("fastpfor: zstd payload has invalid length prefix")
	}
	return int(n), src[prefixLen:], nil
}

const maxInt = int(^uint(0) >> 1)

func (*zstdCompressor) Algorithm() Algorithm { return Zstd }

func (*zstdDecompressor) DecompressedLen(b []byte) (int, error) {
	n, _, err := splitZstdPayload(b)
	return n, err
}

func (z *zstdDecompressor) DecompressInto(dst, src []byte) error {
	n, frame, err := splitZstdPayload(src)
	if err != nil {
		return err
	}
	if n != len(dst) {
		return base.CorruptionErrorf("fastpfor: zstd payload of %d bytes, expected %d",
			errors.Safe(n), errors.Safe(len(dst)))
	}
	if n == 0 {
		return nil
	}
	if len(frame) == 0 {
		return base.CorruptionErrorf("fastpfor: zstd payload is missing its frame")
	}
	written, err := z.decode(dst, frame)
	if err != nil {
		return errors.Wrap(err, "zstd")
	}
	if written != len(dst) {
		return base.CorruptionErrorf("fastpfor: zstd decompressed %d bytes, expected %d",
			errors.Safe(written), errors.Safe(len(dst)))
	}
	return nil
}

func (z *zstdDecompressor) Close() {
	zstdDecompressorPool.Put(z)
}

func getZstdDecompressor() *zstdDecompressor {
	return zstdDecompressorPool.Get().(*zstdDecompressor)
}
