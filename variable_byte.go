// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package fastpfor

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
)

// VariableByte encodes every value as a run of 7-bit groups, least
// significant first. Every byte but the last of a value has its high bit
// set.
//
// A stream is a word holding the number of encoded bytes followed by the
// bytes packed little-endian into words, zero padded to a word boundary. An
// empty input produces no output at all.
type VariableByte struct {
	buf []byte
}

var _ Codec = (*VariableByte)(nil)

// NewVariableByte constructs a VariableByte codec.
func NewVariableByte() *VariableByte {
	return &VariableByte{}
}

// Algorithm implements Codec.
func (v *VariableByte) Algorithm() Algorithm { return VariableByteAlgorithm }

// maxVariableByteLength bounds the encoded size of n values.
func maxVariableByteLength(n int) int {
	if n == 0 {
		return 0
	}
	return 1 + (binary.MaxVarintLen32*n+3)/4
}

// Compress implements Codec.
func (v *VariableByte) Compress(
	in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor,
) error {
	if err := checkCursors(in, inLength, inPos, out, outPos); err != nil {
		return err
	}
	if inLength == 0 {
		return nil
	}
	v.buf = v.buf[:0]
	for _, x := range in[inPos.Position() : inPos.Position()+inLength] {
		v.buf = binary.AppendUvarint(v.buf, uint64(x))
	}
	words := 1 + (len(v.buf)+3)/4
	if avail := len(out) - outPos.Position(); words > avail {
		return base.InsufficientSpaceErrorf("fastpfor: %d variable byte words do not fit in %d words",
			errors.Safe(words), errors.Safe(avail))
	}

	dst := out[outPos.Position():]
	dst[0] = uint32(len(v.buf))
	w := 1
	b := v.buf
	for ; len(b) >= 4; b = b[4:] {
		dst[w] = binary.LittleEndian.Uint32(b)
		w++
	}
	if len(b) > 0 {
		var tail [4]byte
		copy(tail[:], b)
		dst[w] = binary.LittleEndian.Uint32(tail[:])
		w++
	}
	inPos.Advance(inLength)
	outPos.Advance(w)
	return nil
}

// Uncompress implements Codec.
func (v *VariableByte) Uncompress(
	in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor,
) error {
	if err := checkCursors(in, inLength, inPos, out, outPos); err != nil {
		return err
	}
	if inLength == 0 {
		return nil
	}
	src := in[inPos.Position() : inPos.Position()+inLength]
	n := int(src[0])
	words := 1 + (n+3)/4
	if words > len(src) {
		return base.CorruptionErrorf("fastpfor: %d variable byte words truncated to %d",
			errors.Safe(words), errors.Safe(len(src)))
	}
	v.buf = v.buf[:0]
	for _, w := range src[1:words] {
		v.buf = binary.LittleEndian.AppendUint32(v.buf, w)
	}
	for _, c := range v.buf[n:] {
		if c != 0 {
			return base.CorruptionErrorf("fastpfor: non-zero variable byte padding")
		}
	}
	b := v.buf[:n]

	// Every value ends with a byte whose high bit is clear.
	count := 0
	for _, c := range b {
		if c < 0x80 {
			count++
		}
	}
	if avail := len(out) - outPos.Position(); count > avail {
		return base.InsufficientSpaceErrorf("fastpfor: %d decoded values do not fit in %d words",
			errors.Safe(count), errors.Safe(avail))
	}
	dst := out[outPos.Position() : outPos.Position()+count]
	for i := range dst {
		x, k := binary.Uvarint(b)
		switch {
		case k == 0:
			return base.CorruptionErrorf("fastpfor: variable byte value %d truncated", errors.Safe(i))
		case k < 0 || x > 0xffffffff:
			return base.CorruptionErrorf("fastpfor: variable byte value %d overflows 32 bits", errors.Safe(i))
		}
		dst[i] = uint32(x)
		b = b[k:]
	}
	if len(b) > 0 {
		return base.CorruptionErrorf("fastpfor: variable byte stream ends mid-value")
	}
	inPos.Advance(words)
	outPos.Advance(count)
	return nil
}
