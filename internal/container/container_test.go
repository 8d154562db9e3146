// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package container

import (
	"bytes"
	"encoding/binary"
	"math/rand/v2"
	"testing"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
	"github.com/cockroachdb/fastpfor/internal/compression"
	"github.com/stretchr/testify/require"
)

func testPayload(n int) []uint32 {
	rng := rand.New(rand.NewPCG(1, uint64(n)))
	payload := make([]uint32, n)
	for i := range payload {
		payload[i] = rng.Uint32N(1 << 12)
	}
	return payload
}

func TestRoundtrip(t *testing.T) {
	defer leaktest.AfterTest(t)()
	for a := compression.None; a < compression.NumAlgorithms; a++ {
		t.Run(a.String(), func(t *testing.T) {
			for _, n := range []int{0, 1, 1000} {
				payload := testPayload(n)
				var buf bytes.Buffer
				h := Header{Codec: 3, Compression: a, BlockSize: 128, PageSize: 65536, Values: 5 * n}
				written, err := Write(&buf, h, payload)
				require.NoError(t, err)
				require.Equal(t, n, written.Words)

				got, gotPayload, err := Read(&buf)
				require.NoError(t, err)
				require.Equal(t, written, got)
				require.Equal(t, payload, gotPayload)
				require.Zero(t, buf.Len())
			}
		})
	}
}

func TestEmptyPayloadIsUncompressed(t *testing.T) {
	var buf bytes.Buffer
	h, err := Write(&buf, Header{Compression: compression.Zstd}, nil)
	require.NoError(t, err)
	require.Equal(t, compression.None, h.Compression)
	require.Equal(t, HeaderLen, buf.Len())
}

func TestCorruption(t *testing.T) {
	defer leaktest.AfterTest(t)()
	for a := compression.None; a < compression.NumAlgorithms; a++ {
		var buf bytes.Buffer
		_, err := Write(&buf, Header{Compression: a}, testPayload(500))
		require.NoError(t, err)
		valid := buf.Bytes()

		mutations := map[string]func(b []byte) []byte{
			"magic":       func(b []byte) []byte { b[0] = 'X'; return b },
			"version":     func(b []byte) []byte { b[4] = Version + 1; return b },
			"compression": func(b []byte) []byte { b[6] = uint8(compression.NumAlgorithms); return b },
			"payload":     func(b []byte) []byte { b[HeaderLen+(len(b)-HeaderLen)/2] ^= 0x5a; return b },
			"checksum":    func(b []byte) []byte { b[40] ^= 1; return b },
			"words":       func(b []byte) []byte { b[24]++; return b },
			"truncated":   func(b []byte) []byte { return b[:len(b)-1] },
			"header":      func(b []byte) []byte { return b[:HeaderLen-1] },
			"lengths":     func(b []byte) []byte { b[39] = 0xff; return b },
		}
		for name, mutate := range mutations {
			t.Run(a.String()+"/"+name, func(t *testing.T) {
				b := mutate(append([]byte(nil), valid...))
				_, _, err := Read(bytes.NewReader(b))
				require.True(t, errors.Is(err, base.ErrCorruptStream), "%v", err)
			})
		}
	}
}

func TestForgedDecompressedLength(t *testing.T) {
	defer leaktest.AfterTest(t)()
	for _, forged := range []uint64{1 << 62, 1, 4*500 + 4} {
		var buf bytes.Buffer
		_, err := Write(&buf, Header{Compression: compression.Zstd}, testPayload(500))
		require.NoError(t, err)
		valid := buf.Bytes()

		// Replace the zstd length prefix and fix up the stored length so that
		// only the prefix disagrees with the header.
		stored := valid[HeaderLen:]
		_, k := binary.Uvarint(stored)
		require.Positive(t, k)
		b := append([]byte(nil), valid[:HeaderLen]...)
		b = binary.AppendUvarint(b, forged)
		b = append(b, stored[k:]...)
		binary.LittleEndian.PutUint64(b[32:], uint64(len(b)-HeaderLen))

		_, _, err = Read(bytes.NewReader(b))
		require.True(t, errors.Is(err, base.ErrCorruptStream), "%d: %v", forged, err)
	}
}
