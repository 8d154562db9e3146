// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package fastpfor implements compression of unsigned 32-bit integer
// sequences with the patched frame-of-reference (PFOR) family of codecs.
//
// The FastPFOR codec splits its input into fixed-size blocks, packs every
// block at the bit width minimizing its encoded size and stores the high bits
// of the few values that do not fit ("exceptions") in side runs that are
// patched back in on decode. Blocks are grouped into pages sharing a
// self-describing header. FastPFOR only encodes whole blocks; a Composition
// of FastPFOR and VariableByte encodes inputs of any length.
//
// All codecs implement the Codec interface and operate on word buffers with
// caller-owned cursors:
//
//	codec, err := fastpfor.New(fastpfor.CompositionAlgorithm, nil)
//	...
//	out := make([]uint32, fastpfor.MaxCompressedLength(codec.Algorithm(), len(values), nil))
//	inPos, outPos := fastpfor.NewCursor(0), fastpfor.NewCursor(0)
//	err = codec.Compress(values, len(values), inPos, out, outPos)
package fastpfor

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
	"github.com/cockroachdb/fastpfor/internal/binfmt"
	"github.com/cockroachdb/fastpfor/internal/page"
)

// streamHeaderWords is the number of words preceding the pages of a FastPFOR
// stream: the number of values encoded and the block size.
const streamHeaderWords = 2

// FastPFOR is the patched frame-of-reference codec.
//
// A stream consists of a two-word header holding the number of values
// encoded and the block size, followed by the pages. Compress encodes the
// largest whole number of blocks of its input and leaves the remainder
// unread. An empty input produces no output at all.
type FastPFOR struct {
	opts Options
	enc  page.Encoder
	dec  page.Decoder
}

var _ Codec = (*FastPFOR)(nil)

// NewFastPFOR constructs a FastPFOR codec. opts may be nil, in which case
// the defaults are used.
func NewFastPFOR(opts *Options) (*FastPFOR, error) {
	o := opts.ensureDefaults()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	f := &FastPFOR{opts: *o}
	f.enc.Init(o.BlockSize)
	return f, nil
}

// Algorithm implements Codec.
func (f *FastPFOR) Algorithm() Algorithm { return FastPFORAlgorithm }

// BlockSize returns the number of values per block.
func (f *FastPFOR) BlockSize() int { return f.opts.BlockSize }

// Compress implements Codec.
func (f *FastPFOR) Compress(
	in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor,
) error {
	if err := checkCursors(in, inLength, inPos, out, outPos); err != nil {
		return err
	}
	if inLength == 0 {
		return nil
	}
	bs := f.opts.BlockSize
	n := inLength / bs * bs
	if uint64(n) > math.MaxUint32 {
		return base.InvalidInputErrorf("fastpfor: %d values exceed the stream limit", errors.Safe(n))
	}
	src := in[inPos.Position() : inPos.Position()+n]
	dst := out[outPos.Position():]
	if len(dst) < streamHeaderWords {
		return base.InsufficientSpaceErrorf("fastpfor: stream header does not fit in %d words",
			errors.Safe(len(dst)))
	}
	dst[0] = uint32(n)
	dst[1] = uint32(bs)
	w := streamHeaderWords
	for len(src) > 0 {
		pn := min(f.opts.PageSize, len(src))
		k, err := f.enc.EncodePage(src[:pn], dst[w:])
		if err != nil {
			return err
		}
		w += k
		src = src[pn:]
	}
	inPos.Advance(n)
	outPos.Advance(w)
	return nil
}

// Uncompress implements Codec. The stream must have been produced with the
// same block size.
func (f *FastPFOR) Uncompress(
	in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor,
) error {
	if err := checkCursors(in, inLength, inPos, out, outPos); err != nil {
		return err
	}
	if inLength == 0 {
		return nil
	}
	src := in[inPos.Position() : inPos.Position()+inLength]
	n, err := f.readStreamHeader(src)
	if err != nil {
		return err
	}
	if avail := len(out) - outPos.Position(); n > avail {
		return base.InsufficientSpaceErrorf("fastpfor: %d decoded values do not fit in %d words",
			errors.Safe(n), errors.Safe(avail))
	}
	dst := out[outPos.Position() : outPos.Position()+n]
	r := streamHeaderWords
	for produced := 0; produced < n; {
		c, p, err := f.dec.DecodePage(src[r:], dst[produced:], f.opts.BlockSize)
		if err != nil {
			f.opts.Logger.Errorf("fastpfor: rejecting page at word %d: %v", inPos.Position()+r, err)
			return err
		}
		r += c
		produced += p
	}
	inPos.Advance(r)
	outPos.Advance(n)
	return nil
}

// readStreamHeader validates the stream header at the front of src and
// returns the number of values the stream holds.
func (f *FastPFOR) readStreamHeader(src []uint32) (int, error) {
	if len(src) < streamHeaderWords {
		return 0, base.CorruptionErrorf("fastpfor: stream header truncated to %d words", errors.Safe(len(src)))
	}
	n, bs := int(src[0]), int(src[1])
	if bs != f.opts.BlockSize {
		return 0, base.CorruptionErrorf("fastpfor: stream block size %d does not match codec block size %d",
			errors.Safe(bs), errors.Safe(f.opts.BlockSize))
	}
	if n%bs != 0 {
		return 0, base.CorruptionErrorf("fastpfor: stream of %d values is not a whole number of blocks",
			errors.Safe(n))
	}
	return n, nil
}

// BlockInfo summarizes the encoding of one block.
type BlockInfo struct {
	// Width is the bit width of the block's main packed run.
	Width int
	// Exceptions is the number of values patched in from exception runs.
	Exceptions int
	// Words is the size of the block's body.
	Words int
}

// Describe returns an annotated dump of the FastPFOR stream at the front of
// in along with a summary of every block it holds. It decodes no values.
// Words of in following the stream, such as the tail of a Composition, are
// noted but not formatted.
func (f *FastPFOR) Describe(in []uint32) (string, []BlockInfo, error) {
	n, err := f.readStreamHeader(in)
	if err != nil {
		return "", nil, err
	}
	fm := binfmt.New(in)
	fm.Word("stream: %d values", n)
	fm.Word("stream: block size %d", f.opts.BlockSize)
	var blocks []BlockInfo
	for pageNum := 0; len(blocks)*f.opts.BlockSize < n; pageNum++ {
		fm.Comment("page %d", pageNum)
		l, err := page.Describe(fm, f.opts.BlockSize)
		if err != nil {
			return "", nil, errors.Wrapf(err, "page %d", errors.Safe(pageNum))
		}
		for _, bl := range l.Blocks {
			blocks = append(blocks, BlockInfo{
				Width:      bl.Width,
				Exceptions: bl.Exceptions(),
				Words:      bl.BodyWords(f.opts.BlockSize),
			})
		}
	}
	if len(blocks)*f.opts.BlockSize != n {
		return "", nil, base.CorruptionErrorf("fastpfor: pages hold %d values, stream header declares %d",
			errors.Safe(len(blocks)*f.opts.BlockSize), errors.Safe(n))
	}
	if fm.More() {
		fm.Comment("%d words follow the stream", len(fm.Unformatted()))
	}
	return fm.String(), blocks, nil
}
