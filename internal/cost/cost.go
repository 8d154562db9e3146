// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package cost implements the per-block bit width selection of the patched
// frame-of-reference codec.
//
// A block of n values packed at width b costs n*b bits in its main run. Every
// value needing more than b bits becomes an exception that additionally costs
// its extra high bits plus PositionOverhead bits to locate it. Choose returns
// the width minimizing the total.
package cost

import (
	"fmt"

	"github.com/cockroachdb/fastpfor/internal/bitpack"
)

// PositionOverhead is the number of bits charged per exception for recording
// its position within the block.
const PositionOverhead = 8

// Histogram counts the values of a block by the number of bits they require:
// h[k] is the number of values v with bitpack.Len(v) == k.
type Histogram [bitpack.MaxWidth + 1]int

// Reset zeroes the histogram.
func (h *Histogram) Reset() {
	*h = Histogram{}
}

// Add records every value in values.
func (h *Histogram) Add(values []uint32) {
	for _, v := range values {
		h[bitpack.Len(v)]++
	}
}

// Count returns the number of values recorded.
func (h *Histogram) Count() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// MaxBits returns the width of the widest value recorded.
func (h *Histogram) MaxBits() int {
	for b := bitpack.MaxWidth; b > 0; b-- {
		if h[b] != 0 {
			return b
		}
	}
	return 0
}

// Choice describes the bit width selected for a block.
type Choice struct {
	// Width is the bit width of the block's main packed run.
	Width int
	// Exceptions is the number of values requiring more than Width bits.
	Exceptions int
	// MaxBits is the width of the widest value in the block.
	MaxBits int
	// Cost is the estimated encoded size in bits.
	Cost int
}

// String implements fmt.Stringer.
func (c Choice) String() string {
	return fmt.Sprintf("width=%d exceptions=%d maxbits=%d cost=%d",
		c.Width, c.Exceptions, c.MaxBits, c.Cost)
}

// Choose selects the bit width minimizing the cost of the block summarized by
// h. Candidates are visited from the widest value down to zero and a candidate
// only replaces the incumbent when it is strictly cheaper, so among equal-cost
// widths the larger one wins. The result is a pure function of h.
func Choose(h *Histogram) Choice {
	n := h.Count()
	maxBits := h.MaxBits()
	best := Choice{Width: maxBits, MaxBits: maxBits, Cost: n * maxBits}

	// exceptions and extra track, for the candidate b, the number of values
	// wider than b and the sum of their widths beyond b.
	var exceptions, extra int
	for b := maxBits - 1; b >= 0; b-- {
		exceptions += h[b+1]
		if exceptions == n {
			// Every value would be an exception; this and all narrower
			// widths are strictly more expensive than some wider width.
			break
		}
		extra += exceptions
		if c := n*b + extra + exceptions*PositionOverhead; c < best.Cost {
			best = Choice{Width: b, Exceptions: exceptions, MaxBits: maxBits, Cost: c}
		}
	}
	return best
}

// ChooseBlock is a convenience wrapper that resets h, records block and
// returns the chosen width.
func ChooseBlock(h *Histogram, block []uint32) Choice {
	h.Reset()
	h.Add(block)
	return Choose(h)
}
