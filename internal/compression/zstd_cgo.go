// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build cgo

package compression

import (
	"sync"

	"github.com/DataDog/zstd"
	"github.com/cockroachdb/errors"
)

// ZstdImplementation names the zstd library in use.
const ZstdImplementation = "facebook/zstd"

type zstdCompressor struct {
	level int
	ctx   zstd.Ctx
}

var _ Compressor = (*zstdCompressor)(nil)

var zstdCompressorPool = sync.Pool{
	New: func() any {
		return &zstdCompressor{ctx: zstd.NewCtx()}
	},
}

func getZstdCompressor(level int) *zstdCompressor {
	z := zstdCompressorPool.Get().(*zstdCompressor)
	z.level = level
	return z
}

func (z *zstdCompressor) Compress(dst, src []byte) []byte {
	// Size the buffer from CompressBound so the library writes in place
	// after the prefix.
	bound := zstd.CompressBound(len(src))
	dst = appendZstdPrefix(dst, len(src), bound)
	prefixLen := len(dst)
	frame := dst[prefixLen : prefixLen+bound]
	result, err := z.ctx.CompressLevel(frame, src, z.level)
	if err != nil {
		panic(errors.Wrap(err, "zstd compression"))
	}
	if len(result) > 0 && &result[0] != &frame[0] {
		panic(errors.AssertionFailedf("zstd allocated a new buffer despite checking CompressBound"))
	}
	return dst[:prefixLen+len(result)]
}

func (z *zstdCompressor) Close() {
	zstdCompressorPool.Put(z)
}

type zstdDecompressor struct {
	ctx zstd.Ctx
}

var _ Decompressor = (*zstdDecompressor)(nil)

var zstdDecompressorPool = sync.Pool{
	New: func() any {
		return &zstdDecompressor{ctx: zstd.NewCtx()}
	},
}

func (z *zstdDecompressor) decode(dst, frame []byte) (int, error) {
	return z.ctx.DecompressInto(dst, frame)
}
