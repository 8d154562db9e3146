// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package fastpfor

import (
	randv1 "math/rand"
	"math/rand/v2"
	"testing"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/testutils"
	"github.com/cockroachdb/metamorphic"
	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

var allAlgorithms = []Algorithm{
	FastPFORAlgorithm, VariableByteAlgorithm, JustCopyAlgorithm, CompositionAlgorithm,
}

func newCodec(t *testing.T, alg Algorithm, opts *Options) Codec {
	o := opts.ensureDefaults()
	o.Logger = testutils.NewLogger(t)
	c, err := New(alg, o)
	require.NoError(t, err)
	return c
}

// consumedBy returns the number of values of an n value input that c
// encodes.
func consumedBy(c Codec, n int) int {
	if f, ok := c.(*FastPFOR); ok {
		return n / f.BlockSize() * f.BlockSize()
	}
	return n
}

// compress encodes all of in with c into a buffer sized by
// MaxCompressedLength and returns the encoding.
func compress(t *testing.T, c Codec, opts *Options, in []uint32) []uint32 {
	out := make([]uint32, MaxCompressedLength(c.Algorithm(), len(in), opts))
	inPos, outPos := NewCursor(0), NewCursor(0)
	require.NoError(t, c.Compress(in, len(in), inPos, out, outPos))
	require.Equal(t, consumedBy(c, len(in)), inPos.Position())
	return out[:outPos.Position()]
}

// uncompress decodes enc with c into a buffer of exactly n values.
func uncompress(t *testing.T, c Codec, enc []uint32, n int) []uint32 {
	out := make([]uint32, n)
	inPos, outPos := NewCursor(0), NewCursor(0)
	require.NoError(t, c.Uncompress(enc, len(enc), inPos, out, outPos))
	require.Equal(t, len(enc), inPos.Position())
	require.Equal(t, n, outPos.Position())
	return out
}

func TestDynamicCodecSwitching(t *testing.T) {
	defer leaktest.AfterTest(t)()
	in := make([]uint32, BlockSize128)
	for i := range in {
		in[i] = uint32(i)
	}
	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			c := newCodec(t, alg, nil)
			enc := compress(t, c, nil, in)
			require.Equal(t, in, uncompress(t, c, enc, len(in)))
		})
	}
}

type valueGen func(rng *rand.Rand) uint32

// valueGens weights the distributions random inputs are drawn from. Inputs
// are built from runs of values, each run drawn from one distribution.
var valueGens = metamorphic.Weighted[valueGen]{
	{Item: func(*rand.Rand) uint32 { return 0 }, Weight: 1},
	{Item: func(rng *rand.Rand) uint32 { return rng.Uint32N(16) }, Weight: 4},
	{Item: func(rng *rand.Rand) uint32 {
		if rng.IntN(64) == 0 {
			return rng.Uint32()
		}
		return rng.Uint32N(256)
	}, Weight: 4},
	{Item: func(rng *rand.Rand) uint32 { return rng.Uint32() >> rng.UintN(33) }, Weight: 2},
	{Item: func(rng *rand.Rand) uint32 { return rng.Uint32() }, Weight: 1},
	{Item: func(*rand.Rand) uint32 { return 0xffffffff }, Weight: 1},
}

func randomInput(rng *rand.Rand, n int) []uint32 {
	nextGen := valueGens.RandomDeck(randv1.New(randv1.NewSource(rng.Int64())))
	in := make([]uint32, 0, n)
	for len(in) < n {
		gen := nextGen()
		for run := 1 + rng.IntN(300); run > 0 && len(in) < n; run-- {
			in = append(in, gen(rng))
		}
	}
	return in
}

func TestRandomRoundtrip(t *testing.T) {
	defer leaktest.AfterTest(t)()
	seed := rand.Uint64()
	t.Logf("seed: %d", seed)
	rng := rand.New(rand.NewPCG(seed, seed))

	for _, alg := range allAlgorithms {
		for _, blockSize := range []int{32, BlockSize128, BlockSize256, BlockSize512} {
			opts := &Options{BlockSize: blockSize, PageSize: blockSize * (1 + rng.IntN(4))}
			c := newCodec(t, alg, opts)
			for i := 0; i < 20; i++ {
				n := rng.IntN(5000)
				in := randomInput(rng, n)
				enc := compress(t, c, opts, in)
				m := consumedBy(c, n)
				require.Equal(t, in[:m], uncompress(t, c, enc, m), "%s block size %d", alg, blockSize)
			}
		}
	}
}

func TestCursorOffsets(t *testing.T) {
	defer leaktest.AfterTest(t)()
	rng := rand.New(rand.NewPCG(7, 7))
	in := randomInput(rng, 1000)
	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			c := newCodec(t, alg, nil)
			const inOff, outOff, n = 13, 5, 900
			m := consumedBy(c, n)

			out := make([]uint32, outOff+MaxCompressedLength(alg, n, nil)+7)
			inPos, outPos := NewCursor(inOff), NewCursor(outOff)
			require.NoError(t, c.Compress(in, n, inPos, out, outPos))
			require.Equal(t, inOff+m, inPos.Position())
			encLen := outPos.Position() - outOff

			dec := make([]uint32, 3+m)
			inPos, outPos = NewCursor(outOff), NewCursor(3)
			require.NoError(t, c.Uncompress(out, encLen, inPos, dec, outPos))
			require.Equal(t, outOff+encLen, inPos.Position())
			require.Equal(t, 3+m, outPos.Position())
			require.Equal(t, in[inOff:inOff+m], dec[3:])
		})
	}
}

func TestArgumentErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()
	in := make([]uint32, 256)
	for i := range in {
		in[i] = uint32(i * 7)
	}
	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			c := newCodec(t, alg, nil)
			out := make([]uint32, MaxCompressedLength(alg, len(in), nil))

			check := func(err error, sentinel error, inPos, outPos *Cursor, in0, out0 int) {
				t.Helper()
				require.True(t, errors.Is(err, sentinel), "expected %v, got %v", sentinel, err)
				require.Equal(t, in0, inPos.Position())
				require.Equal(t, out0, outPos.Position())
			}
			for _, fn := range []func(in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor) error{
				c.Compress, c.Uncompress,
			} {
				inPos, outPos := NewCursor(len(in)+1), NewCursor(0)
				check(fn(in, 0, inPos, out, outPos), ErrInvalidOffset, inPos, outPos, len(in)+1, 0)

				inPos, outPos = NewCursor(-1), NewCursor(0)
				check(fn(in, 1, inPos, out, outPos), ErrInvalidOffset, inPos, outPos, -1, 0)

				inPos, outPos = NewCursor(0), NewCursor(len(out)+1)
				check(fn(in, 1, inPos, out, outPos), ErrInvalidOffset, inPos, outPos, 0, len(out)+1)

				inPos, outPos = NewCursor(10), NewCursor(0)
				check(fn(in, len(in), inPos, out, outPos), ErrInvalidInput, inPos, outPos, 10, 0)

				inPos, outPos = NewCursor(0), NewCursor(0)
				check(fn(in, -1, inPos, out, outPos), ErrInvalidInput, inPos, outPos, 0, 0)
			}

			// An output buffer one word short of the encoding.
			enc := compress(t, c, nil, in)
			short := make([]uint32, len(enc)-1)
			inPos, outPos := NewCursor(0), NewCursor(0)
			check(c.Compress(in, len(in), inPos, short, outPos), ErrInsufficientOutputSpace, inPos, outPos, 0, 0)

			// A decode buffer one value short.
			dec := make([]uint32, len(in)-1)
			inPos, outPos = NewCursor(0), NewCursor(0)
			check(c.Uncompress(enc, len(enc), inPos, dec, outPos), ErrInsufficientOutputSpace, inPos, outPos, 0, 0)
		})
	}
}

func TestEmptyInput(t *testing.T) {
	defer leaktest.AfterTest(t)()
	for _, alg := range allAlgorithms {
		c := newCodec(t, alg, nil)
		inPos, outPos := NewCursor(0), NewCursor(0)
		require.NoError(t, c.Compress(nil, 0, inPos, nil, outPos))
		require.Equal(t, 0, inPos.Position())
		require.Equal(t, 0, outPos.Position())
		require.NoError(t, c.Uncompress(nil, 0, inPos, nil, outPos))
		require.Equal(t, 0, inPos.Position())
		require.Equal(t, 0, outPos.Position())
	}
}

func TestMaxCompressedLength(t *testing.T) {
	defer leaktest.AfterTest(t)()
	rng := rand.New(rand.NewPCG(11, 13))
	for _, alg := range allAlgorithms {
		for _, blockSize := range []int{32, BlockSize128, 4096} {
			opts := &Options{BlockSize: blockSize, PageSize: 4 * blockSize}
			c := newCodec(t, alg, opts)
			for i := 0; i < 10; i++ {
				n := rng.IntN(3 * 4096)
				// Values of widely varying widths maximize exception buckets.
				in := make([]uint32, n)
				for j := range in {
					in[j] = rng.Uint32() >> rng.UintN(33)
				}
				bound := MaxCompressedLength(alg, n, opts)
				out := make([]uint32, bound)
				inPos, outPos := NewCursor(0), NewCursor(0)
				require.NoError(t, c.Compress(in, n, inPos, out, outPos))
				require.LessOrEqual(t, outPos.Position(), bound)
			}
		}
	}
}

func TestAlgorithm(t *testing.T) {
	for _, alg := range allAlgorithms {
		parsed, err := ParseAlgorithm(alg.String())
		require.NoError(t, err)
		require.Equal(t, alg, parsed)
		// Algorithms are safe to include in redacted error messages.
		require.Equal(t, alg.String(), string(redact.Sprintf("%v", alg).Redact()))
	}
	parsed, err := ParseAlgorithm("FastPFOR")
	require.NoError(t, err)
	require.Equal(t, FastPFORAlgorithm, parsed)

	_, err = ParseAlgorithm("lz4")
	require.Error(t, err)
	require.Equal(t, "unknown", Algorithm(200).String())

	_, err = New(Algorithm(200), nil)
	require.True(t, errors.Is(err, ErrInvalidConfiguration))
}
