// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build !cgo

package compression

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
)

// ZstdImplementation names the zstd library in use.
const ZstdImplementation = "klauspost/compress"

type zstdCompressor struct {
	level int
	enc   *zstd.Encoder
}

var _ Compressor = (*zstdCompressor)(nil)

// zstdCompressorPools holds a *sync.Pool of encoders per level.
var zstdCompressorPools sync.Map

func getZstdCompressor(level int) *zstdCompressor {
	p, _ := zstdCompressorPools.LoadOrStore(level, &sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
			if err != nil {
				panic(errors.Wrap(err, "zstd encoder"))
			}
			return &zstdCompressor{level: level, enc: enc}
		},
	})
	return p.(*sync.Pool).Get().(*zstdCompressor)
}

func (z *zstdCompressor) Compress(dst, src []byte) []byte {
	dst = appendZstdPrefix(dst, len(src), len(src))
	return z.enc.EncodeAll(src, dst)
}

func (z *zstdCompressor) Close() {
	p, _ := zstdCompressorPools.Load(z.level)
	p.(*sync.Pool).Put(z)
}

type zstdDecompressor struct {
	dec *zstd.Decoder
}

var _ Decompressor = (*zstdDecompressor)(nil)

var zstdDecompressorPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			panic(errors.Wrap(err, "zstd decoder"))
		}
		return &zstdDecompressor{dec: dec}
	},
}

func (z *zstdDecompressor) decode(dst, frame []byte) (int, error) {
	result, err := z.dec.DecodeAll(frame, dst[:0])
	if err != nil {
		return 0, err
	}
	// DecodeAll reallocates when the frame holds more than len(dst) bytes;
	// the caller rejects the resulting length.
	return len(result), nil
}
