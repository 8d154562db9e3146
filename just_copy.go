// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package fastpfor

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
)

// JustCopy copies values unchanged. Its encoded size equals its input size,
// making it the baseline other codecs are measured against.
type JustCopy struct{}

var _ Codec = JustCopy{}

// NewJustCopy constructs a JustCopy codec.
func NewJustCopy() JustCopy {
	return JustCopy{}
}

// Algorithm implements Codec.
func (JustCopy) Algorithm() Algorithm { return JustCopyAlgorithm }

// Compress implements Codec.
func (JustCopy) Compress(
	in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor,
) error {
	return copyWords(in, inLength, inPos, out, outPos)
}

// Uncompress implements Codec.
func (JustCopy) Uncompress(
	in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor,
) error {
	return copyWords(in, inLength, inPos, out, outPos)
}

func copyWords(in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor) error {
	if err := checkCursors(in, inLength, inPos, out, outPos); err != nil {
		return err
	}
	if avail := len(out) - outPos.Position(); inLength > avail {
		return base.InsufficientSpaceErrorf("fastpfor: %d words do not fit in %d words",
			errors.Safe(inLength), errors.Safe(avail))
	}
	copy(out[outPos.Position():], in[inPos.Position():inPos.Position()+inLength])
	inPos.Advance(inLength)
	outPos.Advance(inLength)
	return nil
}
