// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package page implements the page and block framing of the patched
// frame-of-reference codec.
//
// A page holds a whole number of fixed-size blocks. Its encoding is a
// two-word header, a metadata section, then the body of every block in order:
//
//	+-----------+-----------+---------------------+--------+-----+--------+
//	| numBlocks | metaBytes | metadata (padded)   | block0 | ... | blockN |
//	+-----------+-----------+---------------------+--------+-----+--------+
//
// The metadata is a byte string packed little-endian into words and zero
// padded to a word boundary. For every block it records:
//
//	width:u8 numBuckets:u8 (extra:u8 count:uvarint posWidth:u8)*numBuckets
//
// A block body is the block's values packed at width bits
// (blockSize*width/32 words) followed by the position-delta and high-bit
// runs of each exception bucket, in metadata order (see package patch).
//
// The header carries every length the decoder needs, so pages can be decoded
// without any external length table.
package page

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
	"github.com/cockroachdb/fastpfor/internal/bitpack"
	"github.com/cockroachdb/fastpfor/internal/patch"
)

// HeaderWords is the number of fixed words preceding a page's metadata.
const HeaderWords = 2

// metaWords returns the number of words occupied by n metadata bytes.
func metaWords(n int) int {
	return (n + 3) / 4
}

// putMeta packs meta into dst little-endian, zero padding the final word, and
// returns the number of words written.
func putMeta(dst []uint32, meta []byte) int {
	w := 0
	for ; len(meta) >= 4; meta = meta[4:] {
		dst[w] = binary.LittleEndian.Uint32(meta)
		w++
	}
	if len(meta) > 0 {
		var tail [4]byte
		copy(tail[:], meta)
		dst[w] = binary.LittleEndian.Uint32(tail[:])
		w++
	}
	return w
}

// getMeta appends the first n metadata bytes stored in src to dst.
func getMeta(dst []byte, src []uint32, n int) []byte {
	for _, w := range src {
		dst = binary.LittleEndian.AppendUint32(dst, w)
	}
	return dst[:n]
}

// BlockLayout describes the encoding of one block.
type BlockLayout struct {
	// Width is the bit width of the block's main packed run.
	Width int
	// Buckets describes the block's exceptions, by ascending extra width.
	Buckets []patch.Bucket
}

// Exceptions returns the number of exceptions in the block.
func (bl BlockLayout) Exceptions() int {
	n := 0
	for _, bk := range bl.Buckets {
		n += bk.Count
	}
	return n
}

// BodyWords returns the number of words occupied by the block's body.
func (bl BlockLayout) BodyWords(blockSize int) int {
	n := bitpack.PackedWords(blockSize, bl.Width)
	for _, bk := range bl.Buckets {
		n += bk.RunWords()
	}
	return n
}

// metaReader parses the metadata section of a page.
type metaReader struct {
	buf []byte
	off int
}

func (m *metaReader) readByte() (int, error) {
	if m.off >= len(m.buf) {
		return 0, base.CorruptionErrorf("fastpfor: page metadata truncated at byte %d", errors.Safe(m.off))
	}
	v := m.buf[m.off]
	m.off++
	return int(v), nil
}

func (m *metaReader) readUvarint() (int, error) {
	v, n := binary.Uvarint(m.buf[m.off:])
	if n <= 0 || v > 1<<31 {
		return 0, base.CorruptionErrorf("fastpfor: invalid uvarint in page metadata at byte %d", errors.Safe(m.off))
	}
	m.off += n
	return int(v), nil
}

// readBlock parses the metadata of the next block into bl, reusing
// bl.Buckets' memory.
func (m *metaReader) readBlock(bl *BlockLayout, blockSize int) error {
	width, err := m.readByte()
	if err != nil {
		return err
	}
	if width > bitpack.MaxWidth {
		return base.CorruptionErrorf("fastpfor: block bit width %d out of range", errors.Safe(width))
	}
	numBuckets, err := m.readByte()
	if err != nil {
		return err
	}
	if numBuckets > bitpack.MaxWidth-width {
		return base.CorruptionErrorf("fastpfor: %d exception buckets for bit width %d",
			errors.Safe(numBuckets), errors.Safe(width))
	}
	bl.Width = width
	bl.Buckets = bl.Buckets[:0]
	prevExtra, total := 0, 0
	for i := 0; i < numBuckets; i++ {
		var bk patch.Bucket
		if bk.Extra, err = m.readByte(); err != nil {
			return err
		}
		if bk.Extra <= prevExtra || width+bk.Extra > bitpack.MaxWidth {
			return base.CorruptionErrorf("fastpfor: exception bucket extra width %d invalid after %d at bit width %d",
				errors.Safe(bk.Extra), errors.Safe(prevExtra), errors.Safe(width))
		}
		prevExtra = bk.Extra
		if bk.Count, err = m.readUvarint(); err != nil {
			return err
		}
		total += bk.Count
		if bk.Count == 0 || total > blockSize {
			return base.CorruptionErrorf("fastpfor: exception count %d invalid for block of %d values",
				errors.Safe(bk.Count), errors.Safe(blockSize))
		}
		if bk.PosWidth, err = m.readByte(); err != nil {
			return err
		}
		if bk.PosWidth > bitpack.MaxWidth {
			return base.CorruptionErrorf("fastpfor: position width %d out of range", errors.Safe(bk.PosWidth))
		}
		bl.Buckets = append(bl.Buckets, bk)
	}
	return nil
}

// readHeader validates the fixed header and metadata section of the page at
// the front of in. It returns the block count, the metadata bytes (appended to
// meta[:0]) and the offset of the first block body.
func readHeader(in []uint32, meta []byte) (numBlocks int, _ []byte, bodyOff int, _ error) {
	if len(in) < HeaderWords {
		return 0, meta, 0, base.CorruptionErrorf("fastpfor: page header truncated to %d words", errors.Safe(len(in)))
	}
	numBlocks = int(in[0])
	metaLen := int(in[1])
	if numBlocks == 0 {
		return 0, meta, 0, base.CorruptionErrorf("fastpfor: page declares no blocks")
	}
	// Every block needs at least two metadata bytes.
	if metaLen < 2*numBlocks {
		return 0, meta, 0, base.CorruptionErrorf("fastpfor: %d metadata bytes cannot describe %d blocks",
			errors.Safe(metaLen), errors.Safe(numBlocks))
	}
	mw := metaWords(metaLen)
	if mw > len(in)-HeaderWords {
		return 0, meta, 0, base.CorruptionErrorf("fastpfor: page metadata of %d words truncated to %d",
			errors.Safe(mw), errors.Safe(len(in)-HeaderWords))
	}
	meta = getMeta(meta[:0], in[HeaderWords:HeaderWords+mw], metaLen)
	return numBlocks, meta, HeaderWords + mw, nil
}

// Layout describes the encoding of one page.
type Layout struct {
	// Blocks holds the layout of every block in the page.
	Blocks []BlockLayout
	// MetaBytes is the length of the metadata section in bytes.
	MetaBytes int
	// Words is the total encoded size of the page.
	Words int
}

// ReadLayout parses the page at the front of in without decoding any values.
func ReadLayout(in []uint32, blockSize int) (Layout, error) {
	numBlocks, meta, r, err := readHeader(in, nil)
	if err != nil {
		return Layout{}, err
	}
	l := Layout{Blocks: make([]BlockLayout, numBlocks), MetaBytes: len(meta)}
	m := metaReader{buf: meta}
	for k := range l.Blocks {
		if err := m.readBlock(&l.Blocks[k], blockSize); err != nil {
			return Layout{}, err
		}
		r += l.Blocks[k].BodyWords(blockSize)
		if r > len(in) {
			return Layout{}, base.CorruptionErrorf("fastpfor: block %d body extends past the end of the input",
				errors.Safe(k))
		}
	}
	if m.off != len(m.buf) {
		return Layout{}, base.CorruptionErrorf("fastpfor: %d unconsumed page metadata bytes",
			errors.Safe(len(m.buf)-m.off))
	}
	l.Words = r
	return l, nil
}
