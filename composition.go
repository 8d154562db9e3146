// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package fastpfor

// Composition chains two codecs: the first encodes as much of the input as
// it accepts and the second encodes the remainder. Composing FastPFOR with
// VariableByte yields a codec for inputs of any length.
type Composition struct {
	first  Codec
	second Codec
}

var _ Codec = (*Composition)(nil)

// NewComposition constructs a Composition of first and second. second must
// consume its entire input.
func NewComposition(first, second Codec) *Composition {
	return &Composition{first: first, second: second}
}

// Algorithm implements Codec.
func (c *Composition) Algorithm() Algorithm { return CompositionAlgorithm }

// Compress implements Codec.
func (c *Composition) Compress(
	in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor,
) error {
	return c.chain(in, inLength, inPos, out, outPos, Codec.Compress)
}

// Uncompress implements Codec.
func (c *Composition) Uncompress(
	in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor,
) error {
	return c.chain(in, inLength, inPos, out, outPos, Codec.Uncompress)
}

type codecFunc func(c Codec, in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor) error

func (c *Composition) chain(
	in []uint32, inLength int, inPos *Cursor, out []uint32, outPos *Cursor, fn codecFunc,
) error {
	if err := checkCursors(in, inLength, inPos, out, outPos); err != nil {
		return err
	}
	if inLength == 0 {
		return nil
	}
	// Work on copies so the caller's cursors only move once both halves
	// succeed.
	ip, op := *inPos, *outPos
	if err := fn(c.first, in, inLength, &ip, out, &op); err != nil {
		return err
	}
	rest := inLength - (ip.Position() - inPos.Position())
	if err := fn(c.second, in, rest, &ip, out, &op); err != nil {
		return err
	}
	*inPos, *outPos = ip, op
	return nil
}
