// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package page

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
	"github.com/cockroachdb/fastpfor/internal/bitpack"
	"github.com/cockroachdb/fastpfor/internal/patch"
)

// Decoder decodes pages produced by an Encoder. Its scratch memory is reused
// across calls, so a Decoder must not be used concurrently.
type Decoder struct {
	patcher patch.Patcher
	meta    []byte
	block   BlockLayout
}

// DecodePage decodes the page at the front of in into out, where blocks hold
// blockSize values. The page may not declare more values than out holds. It
// returns the number of words consumed and values produced. Errors are marked
// with base.ErrCorruptStream; out may be partially overwritten when one is
// returned.
func (d *Decoder) DecodePage(
	in, out []uint32, blockSize int,
) (consumed, produced int, err error) {
	numBlocks, meta, r, err := readHeader(in, d.meta)
	d.meta = meta
	if err != nil {
		return 0, 0, err
	}
	if numBlocks > len(out)/blockSize {
		return 0, 0, base.CorruptionErrorf("fastpfor: page declares %d blocks but at most %d remain",
			errors.Safe(numBlocks), errors.Safe(len(out)/blockSize))
	}

	m := metaReader{buf: d.meta}
	for k := 0; k < numBlocks; k++ {
		if err := m.readBlock(&d.block, blockSize); err != nil {
			return 0, 0, err
		}
		block := out[k*blockSize : (k+1)*blockSize]
		b := d.block.Width
		if words := bitpack.PackedWords(blockSize, b); words > len(in)-r {
			return 0, 0, base.CorruptionErrorf("fastpfor: packed run of block %d truncated: need %d words, have %d",
				errors.Safe(k), errors.Safe(words), errors.Safe(len(in)-r))
		}
		r += bitpack.UnpackGroups(block, in[r:], b)
		for _, bk := range d.block.Buckets {
			n, err := d.patcher.Apply(block, b, bk, in[r:])
			if err != nil {
				return 0, 0, errors.Wrapf(err, "block %d", errors.Safe(k))
			}
			r += n
		}
	}
	if m.off != len(m.buf) {
		return 0, 0, base.CorruptionErrorf("fastpfor: %d unconsumed page metadata bytes",
			errors.Safe(len(m.buf)-m.off))
	}
	return r, numBlocks * blockSize, nil
}
