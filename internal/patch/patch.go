// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package patch relocates the high bits of a block's outlier values
// ("exceptions") out of its fixed-width packed run and restores them on
// decode.
//
// The exceptions of a block packed at width b are grouped into buckets by the
// number of extra bits they need, Len(v)-b. Buckets are ordered by ascending
// extra width and each serializes to two packed runs:
//
//	position deltas: Count values at PosWidth bits
//	high bits:       Count values (v >> b) at Extra bits
//
// Positions within a bucket are strictly increasing, and each is stored as
// the gap from the previous position minus one (the first as the position
// itself) so that runs of adjacent exceptions pack into zero bits.
package patch

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
	"github.com/cockroachdb/fastpfor/internal/bitpack"
	"github.com/cockroachdb/fastpfor/internal/invariants"
)

// Bucket describes the exceptions of one block that share an extra width.
type Bucket struct {
	// Extra is the number of high bits stored per exception.
	Extra int
	// Count is the number of exceptions in the bucket.
	Count int
	// PosWidth is the bit width of the bucket's position-delta run.
	PosWidth int
}

// RunWords returns the number of words occupied by the bucket's runs.
func (bk Bucket) RunWords() int {
	return bitpack.PackedWords(bk.Count, bk.PosWidth) + bitpack.PackedWords(bk.Count, bk.Extra)
}

// Exceptions accumulates the exceptions of a single block. The zero value is
// ready for use; its memory is reused across calls to Collect.
type Exceptions struct {
	width   int
	buckets []Bucket
	// deltas and highs hold the exceptions grouped by bucket, in bucket order.
	deltas []uint32
	highs  []uint32
}

// Collect resets e and gathers the exceptions of block relative to bit width
// b.
func (e *Exceptions) Collect(block []uint32, b int) {
	e.width = b
	e.buckets = e.buckets[:0]
	e.deltas = e.deltas[:0]
	e.highs = e.highs[:0]

	var counts [bitpack.MaxWidth + 1]int
	for _, v := range block {
		if l := bitpack.Len(v); l > b {
			counts[l-b]++
		}
	}
	// next[extra] is the index at which the next exception needing extra
	// bits is stored.
	var next [bitpack.MaxWidth + 1]int
	total := 0
	for extra := 1; extra <= bitpack.MaxWidth-b; extra++ {
		if counts[extra] == 0 {
			continue
		}
		next[extra] = total
		e.buckets = append(e.buckets, Bucket{Extra: extra, Count: counts[extra]})
		total += counts[extra]
	}
	if total == 0 {
		return
	}
	if cap(e.deltas) < total {
		e.deltas = make([]uint32, total, len(block))
		e.highs = make([]uint32, total, len(block))
	}
	e.deltas = e.deltas[:total]
	e.highs = e.highs[:total]
	invariants.Mangle(e.deltas)

	var prev [bitpack.MaxWidth + 1]int
	for i := range prev {
		prev[i] = -1
	}
	for i, v := range block {
		l := bitpack.Len(v)
		if l <= b {
			continue
		}
		extra := l - b
		j := next[extra]
		next[extra]++
		e.deltas[j] = uint32(i - prev[extra] - 1)
		e.highs[j] = v >> b
		prev[extra] = i
	}

	off := 0
	for i := range e.buckets {
		bk := &e.buckets[i]
		bk.PosWidth = bitpack.MaxBits(e.deltas[off : off+bk.Count])
		off += bk.Count
	}
}

// Width returns the bit width passed to the last Collect.
func (e *Exceptions) Width() int { return e.width }

// Buckets returns the buckets gathered by the last Collect, ordered by
// ascending extra width. The slice is only valid until the next Collect.
func (e *Exceptions) Buckets() []Bucket { return e.buckets }

// Count returns the total number of exceptions.
func (e *Exceptions) Count() int { return len(e.deltas) }

// RunWords returns the number of words WriteRuns will write.
func (e *Exceptions) RunWords() int {
	n := 0
	for _, bk := range e.buckets {
		n += bk.RunWords()
	}
	return n
}

// WriteRuns serializes the runs of every bucket into dst, which must hold at
// least RunWords words, and returns the number of words written.
func (e *Exceptions) WriteRuns(dst []uint32) int {
	w, off := 0, 0
	for _, bk := range e.buckets {
		w += bitpack.Pack(dst[w:], e.deltas[off:off+bk.Count], bk.PosWidth)
		w += bitpack.Pack(dst[w:], e.highs[off:off+bk.Count], bk.Extra)
		off += bk.Count
	}
	if invariants.Enabled && w != e.RunWords() {
		panic(errors.AssertionFailedf("wrote %d exception words, expected %d", w, e.RunWords()))
	}
	return w
}

// Patcher restores exceptions into decoded blocks. The zero value is ready
// for use; its scratch memory is reused across calls.
type Patcher struct {
	deltas []uint32
	highs  []uint32
}

// Apply reads the runs of bk from the front of src and ORs each exception's
// high bits, shifted left by b, into block. It returns the number of words of
// src consumed.
func (p *Patcher) Apply(block []uint32, b int, bk Bucket, src []uint32) (int, error) {
	need := bk.RunWords()
	if need > len(src) {
		return 0, base.CorruptionErrorf("fastpfor: exception run of %d words truncated to %d",
			errors.Safe(need), errors.Safe(len(src)))
	}
	if cap(p.deltas) < bk.Count {
		p.deltas = make([]uint32, bk.Count)
		p.highs = make([]uint32, bk.Count)
	}
	deltas, highs := p.deltas[:bk.Count], p.highs[:bk.Count]
	r := bitpack.Unpack(deltas, src, bk.PosWidth)
	r += bitpack.Unpack(highs, src[r:], bk.Extra)

	pos := -1
	for i := range deltas {
		pos += int(deltas[i]) + 1
		if pos >= len(block) {
			return 0, base.CorruptionErrorf("fastpfor: exception position %d outside block of %d values",
				errors.Safe(pos), errors.Safe(len(block)))
		}
		block[pos] |= highs[i] << b
	}
	return r, nil
}
