// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
	"github.com/golang/snappy"
	"github.com/minio/minlz"
)

const minlzLevel = minlz.LevelBalanced

// lzCodec adapts the snappy-style block APIs, which share a calling
// convention, to Compressor and Decompressor.
type lzCodec struct {
	alg     Algorithm
	encode  func(dst, src []byte) []byte
	decode  func(dst, src []byte) ([]byte, error)
	decoded func(src []byte) (int, error)
}

var _ Compressor = (*lzCodec)(nil)
var _ Decompressor = (*lzCodec)(nil)

var snappyCodec = &lzCodec{
	alg: Snappy,
	encode: func(dst, src []byte) []byte {
		return snappy.Encode(dst[:cap(dst):cap(dst)], src)
	},
	decode:  snappy.Decode,
	decoded: snappy.DecodedLen,
}

var minlzCodec = &lzCodec{
	alg: MinLZ,
	encode: func(dst, src []byte) []byte {
		// MinLZ blocks are limited in size; larger payloads are written as
		// snappy blocks, which minlz.Decode also accepts.
		if len(src) > minlz.MaxBlockSize {
			return snappyCodec.encode(dst, src)
		}
		compressed, err := minlz.Encode(dst, src, minlzLevel)
		if err != nil {
			panic(errors.Wrap(err, "minlz compression"))
		}
		return compressed
	},
	decode:  minlz.Decode,
	decoded: minlz.DecodedLen,
}

func (c *lzCodec) Algorithm() Algorithm { return c.alg }

func (c *lzCodec) Compress(dst, src []byte) []byte { return c.encode(dst, src) }

func (c *lzCodec) DecompressInto(buf, compressed []byte) error {
	result, err := c.decode(buf, compressed)
	if err != nil {
		return errors.Wrapf(err, "%s", c.alg)
	}
	// Both libraries allocate a new buffer when buf is too small. The length
	// was obtained from DecompressedLen, so that only happens on corruption.
	if len(result) != len(buf) || (len(result) > 0 && &result[0] != &buf[0]) {
		return base.CorruptionErrorf("fastpfor: %s decoded %d bytes, expected %d",
			c.alg, errors.Safe(len(result)), errors.Safe(len(buf)))
	}
	return nil
}

func (c *lzCodec) DecompressedLen(b []byte) (int, error) {
	n, err := c.decoded(b)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", c.alg)
	}
	return n, nil
}

func (c *lzCodec) Close() {}
