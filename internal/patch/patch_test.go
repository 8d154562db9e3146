// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package patch

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
	"github.com/cockroachdb/fastpfor/internal/bitpack"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"
)

// roundtrip collects the exceptions of block at width b, serializes them and
// patches them back into the truncated block.
func roundtrip(t *testing.T, e *Exceptions, p *Patcher, block []uint32, b int) {
	t.Helper()
	e.Collect(block, b)
	runs := make([]uint32, e.RunWords())
	require.Equal(t, len(runs), e.WriteRuns(runs))

	decoded := make([]uint32, len(block))
	for i, v := range block {
		decoded[i] = v & bitpack.Mask(b)
	}
	off := 0
	for _, bk := range e.Buckets() {
		n, err := p.Apply(decoded, b, bk, runs[off:])
		require.NoError(t, err)
		require.Equal(t, bk.RunWords(), n)
		off += n
	}
	require.Equal(t, len(runs), off)
	require.Equal(t, block, decoded)
}

func TestCollect(t *testing.T) {
	block := []uint32{1, 2, 3, 4, 5, 0, 1, 100, 2, 3, 7, 0, 0, 1, 2, 3}
	var e Exceptions
	e.Collect(block, 2)

	want := []Bucket{
		// Positions 3, 4 and 10 store gaps 3, 0 and 5.
		{Extra: 1, Count: 3, PosWidth: 3},
		{Extra: 5, Count: 1, PosWidth: 3},
	}
	if diff := pretty.Diff(want, e.Buckets()); len(diff) > 0 {
		t.Fatalf("unexpected buckets:\n%v", diff)
	}
	require.Equal(t, 4, e.Count())
	require.Equal(t, 2, e.Width())
	require.Equal(t, 4, e.RunWords())

	var p Patcher
	roundtrip(t, &e, &p, block, 2)

	// Recollecting at the widest width leaves nothing to patch.
	e.Collect(block, 7)
	require.Empty(t, e.Buckets())
	require.Zero(t, e.Count())
	require.Zero(t, e.RunWords())
}

func TestAdjacentExceptionsPackToZeroBits(t *testing.T) {
	block := make([]uint32, 32)
	for i := range block {
		block[i] = 1 << 9
	}
	var e Exceptions
	e.Collect(block, 0)
	require.Equal(t, []Bucket{{Extra: 10, Count: 32, PosWidth: 0}}, e.Buckets())
	var p Patcher
	roundtrip(t, &e, &p, block, 0)
}

func TestRandomRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 7))
	var e Exceptions
	var p Patcher
	for _, n := range []int{32, 128, 512} {
		for b := 0; b <= bitpack.MaxWidth; b++ {
			t.Run(fmt.Sprintf("n=%d/b=%d", n, b), func(t *testing.T) {
				block := make([]uint32, n)
				for i := range block {
					block[i] = rng.Uint32() >> rng.IntN(33)
				}
				roundtrip(t, &e, &p, block, b)
			})
		}
	}
}

func TestApplyCorruption(t *testing.T) {
	var p Patcher
	block := make([]uint32, 8)

	// The runs are shorter than the bucket requires.
	_, err := p.Apply(block, 4, Bucket{Extra: 8, Count: 5, PosWidth: 3}, []uint32{0})
	require.True(t, errors.Is(err, base.ErrCorruptStream), "%v", err)

	// A position delta pointing past the end of the block.
	runs := make([]uint32, 2)
	bitpack.Pack(runs[:1], []uint32{9}, 4)
	bitpack.Pack(runs[1:], []uint32{1}, 1)
	_, err = p.Apply(block, 4, Bucket{Extra: 1, Count: 1, PosWidth: 4}, runs)
	require.True(t, errors.Is(err, base.ErrCorruptStream), "%v", err)
}

func TestBucketsByExtraWidth(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	var e Exceptions
	block := make([]uint32, 256)
	for i := range block {
		block[i] = rng.Uint32() >> rng.IntN(33)
	}
	for b := 0; b < bitpack.MaxWidth; b++ {
		e.Collect(block, b)
		var counts [bitpack.MaxWidth + 1]int
		for _, v := range block {
			if l := bitpack.Len(v); l > b {
				counts[l-b]++
			}
		}
		total := 0
		for _, bk := range e.Buckets() {
			require.Equal(t, counts[bk.Extra], bk.Count, "b=%d extra=%d", b, bk.Extra)
			total += bk.Count
		}
		require.Equal(t, e.Count(), total)
		for extra, c := range counts {
			if c > 0 {
				require.True(t, slices.ContainsFunc(e.Buckets(), func(bk Bucket) bool { return bk.Extra == extra }),
					"b=%d: missing bucket for extra width %d", b, extra)
			}
		}
	}
}
