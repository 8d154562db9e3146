// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package page

import (
	"encoding/binary"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
	"github.com/cockroachdb/fastpfor/internal/bitpack"
	"github.com/cockroachdb/fastpfor/internal/cost"
	"github.com/cockroachdb/fastpfor/internal/invariants"
	"github.com/cockroachdb/fastpfor/internal/patch"
)

// Encoder encodes pages. Its scratch memory (bit width histogram, exception
// accumulator, per-block choices, serialized exception runs and metadata
// buffer) is reused across calls, so an Encoder must not be used
// concurrently.
type Encoder struct {
	blockSize int
	hist      cost.Histogram
	exc       patch.Exceptions
	choices   []cost.Choice
	// runs holds the exception runs of every block of the page being
	// encoded, in block order; runWords[k] is the length of block k's runs.
	runs     []uint32
	runWords []int
	meta     []byte
}

// Init initializes the encoder for blocks of blockSize values. blockSize must
// be a positive multiple of 32.
func (e *Encoder) Init(blockSize int) {
	if blockSize <= 0 || blockSize%32 != 0 {
		panic(errors.AssertionFailedf("invalid block size %d", blockSize))
	}
	e.blockSize = blockSize
	e.choices = e.choices[:0]
	e.runs = e.runs[:0]
	e.runWords = e.runWords[:0]
	e.meta = e.meta[:0]
}

// analyze chooses the bit width of every block of in, builds the page
// metadata, serializes the exception runs and returns the exact encoded size
// of the page in words.
func (e *Encoder) analyze(in []uint32) int {
	e.choices = e.choices[:0]
	e.runs = e.runs[:0]
	e.runWords = e.runWords[:0]
	e.meta = e.meta[:0]
	words := HeaderWords
	for start := 0; start < len(in); start += e.blockSize {
		block := in[start : start+e.blockSize]
		c := cost.ChooseBlock(&e.hist, block)
		e.choices = append(e.choices, c)
		words += bitpack.PackedWords(e.blockSize, c.Width)
		e.meta = append(e.meta, byte(c.Width))
		if c.Exceptions == 0 {
			e.meta = append(e.meta, 0)
			e.runWords = append(e.runWords, 0)
			continue
		}
		e.exc.Collect(block, c.Width)
		buckets := e.exc.Buckets()
		e.meta = append(e.meta, byte(len(buckets)))
		for _, bk := range buckets {
			e.meta = append(e.meta, byte(bk.Extra))
			e.meta = binary.AppendUvarint(e.meta, uint64(bk.Count))
			e.meta = append(e.meta, byte(bk.PosWidth))
		}
		n := e.exc.RunWords()
		off := len(e.runs)
		e.runs = slices.Grow(e.runs, n)[:off+n]
		e.exc.WriteRuns(e.runs[off:])
		e.runWords = append(e.runWords, n)
		words += n
	}
	return words + metaWords(len(e.meta))
}

// EncodePage encodes in, whose length must be a positive multiple of the
// block size, as a single page at the front of out and returns the number of
// words written. If out cannot hold the page nothing is written and an error
// marked with base.ErrInsufficientOutputSpace is returned.
func (e *Encoder) EncodePage(in, out []uint32) (int, error) {
	if len(in) == 0 || len(in)%e.blockSize != 0 {
		return 0, errors.AssertionFailedf("page of %d values is not a multiple of block size %d",
			errors.Safe(len(in)), errors.Safe(e.blockSize))
	}
	size := e.analyze(in)
	if size > len(out) {
		return 0, base.InsufficientSpaceErrorf("fastpfor: page of %d words does not fit in %d words",
			errors.Safe(size), errors.Safe(len(out)))
	}

	out[0] = uint32(len(e.choices))
	out[1] = uint32(len(e.meta))
	w := HeaderWords
	w += putMeta(out[w:], e.meta)
	runs := e.runs
	for k, c := range e.choices {
		block := in[k*e.blockSize : (k+1)*e.blockSize]
		w += bitpack.PackGroups(out[w:], block, c.Width)
		n := copy(out[w:], runs[:e.runWords[k]])
		runs = runs[n:]
		w += n
	}
	if invariants.Enabled && w != size {
		panic(errors.AssertionFailedf("encoded %d words, expected %d", w, size))
	}
	return w, nil
}
