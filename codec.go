// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package fastpfor

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
	"github.com/cockroachdb/fastpfor/internal/bitpack"
	"github.com/cockroachdb/fastpfor/internal/page"
	"github.com/cockroachdb/redact"
)

// Codec compresses and uncompresses sequences of unsigned 32-bit integers.
//
// Compress reads inLength values of in starting at inPos and writes an
// encoding of a prefix of them to out starting at outPos, advancing inPos by
// the number of values encoded and outPos by the number of words written.
// Uncompress reverses Compress: it reads at most inLength words of in
// starting at inPos and writes the decoded values to out starting at outPos.
//
// Cursors are advanced only when a call succeeds. On error the contents of
// out beyond outPos are unspecified. Errors are marked with one of
// ErrInvalidInput, ErrInvalidOffset, ErrInsufficientOutputSpace or
// ErrCorruptStream.
//
// A Codec reuses internal scratch memory across calls and must not be used
// concurrently.
type Codec interface {
	Compress(in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor) error
	Uncompress(in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor) error
	Algorithm() Algorithm
}

// Algorithm identifies a codec.
type Algorithm uint8

// The supported codecs.
const (
	// FastPFORAlgorithm is the patched frame-of-reference codec. It only
	// encodes whole blocks, leaving any partial tail for another codec.
	FastPFORAlgorithm Algorithm = iota
	// VariableByteAlgorithm encodes every value as one to five bytes.
	VariableByteAlgorithm
	// JustCopyAlgorithm copies values unchanged.
	JustCopyAlgorithm
	// CompositionAlgorithm encodes whole blocks with FastPFOR and the
	// remaining tail with VariableByte.
	CompositionAlgorithm

	numAlgorithms
)

var algorithmNames = [numAlgorithms]string{
	FastPFORAlgorithm:     "fastpfor",
	VariableByteAlgorithm: "variablebyte",
	JustCopyAlgorithm:     "justcopy",
	CompositionAlgorithm:  "composition",
}

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	if a < numAlgorithms {
		return algorithmNames[a]
	}
	return "unknown"
}

// SafeValue implements redact.SafeValue.
func (a Algorithm) SafeValue() {}

var _ redact.SafeValue = Algorithm(0)

// ParseAlgorithm returns the algorithm with the given name. Names are matched
// case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	for a, name := range algorithmNames {
		if strings.EqualFold(s, name) {
			return Algorithm(a), nil
		}
	}
	return 0, errors.Newf("fastpfor: unknown codec %q", s)
}

// New constructs a codec implementing alg. opts configures the FastPFOR codec
// (on its own or as the first half of a Composition) and may be nil.
func New(alg Algorithm, opts *Options) (Codec, error) {
	switch alg {
	case FastPFORAlgorithm:
		return NewFastPFOR(opts)
	case VariableByteAlgorithm:
		return NewVariableByte(), nil
	case JustCopyAlgorithm:
		return NewJustCopy(), nil
	case CompositionAlgorithm:
		f, err := NewFastPFOR(opts)
		if err != nil {
			return nil, err
		}
		return NewComposition(f, NewVariableByte()), nil
	default:
		return nil, base.InvalidConfigurationErrorf("fastpfor: unknown codec %d", errors.Safe(uint8(alg)))
	}
}

// MaxCompressedLength returns an upper bound on the number of words alg
// writes when compressing n values. opts must match the options the codec was
// constructed with and may be nil.
func MaxCompressedLength(alg Algorithm, n int, opts *Options) int {
	switch alg {
	case FastPFORAlgorithm:
		return maxFastPFORLength(n, opts)
	case VariableByteAlgorithm:
		return maxVariableByteLength(n)
	case JustCopyAlgorithm:
		return n
	case CompositionAlgorithm:
		o := opts.ensureDefaults()
		return maxFastPFORLength(n, opts) + maxVariableByteLength(n%o.BlockSize)
	default:
		return 0
	}
}

// maxFastPFORLength bounds the encoded size of n values. Every block is
// chosen to cost at most 32 bits per value in the cost model, which
// undercounts each exception's position by at most 4 bits. On top of that,
// each of up to 32 exception buckets rounds two runs up to whole words and
// costs four metadata bytes.
func maxFastPFORLength(n int, opts *Options) int {
	o := opts.ensureDefaults()
	blocks := n / o.BlockSize
	if blocks == 0 {
		return streamHeaderWords
	}
	pages := (blocks*o.BlockSize + o.PageSize - 1) / o.PageSize
	perBlock := o.BlockSize + o.BlockSize/8 + 2*bitpack.MaxWidth + (2+4*bitpack.MaxWidth+3)/4
	return streamHeaderWords + pages*page.HeaderWords + blocks*perBlock
}

// checkCursors validates the arguments common to every Compress and
// Uncompress call.
func checkCursors(in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor) error {
	if err := base.CheckBounds(len(in), inLength, inPos.Position(), "input"); err != nil {
		return err
	}
	if p := outPos.Position(); p < 0 || p > len(out) {
		return base.InvalidOffsetErrorf("fastpfor: output offset %d outside buffer of length %d",
			errors.Safe(p), errors.Safe(len(out)))
	}
	return nil
}
