// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package fastpfor

import "fmt"

// Cursor is a caller-owned position within a buffer, counted in the buffer's
// elements. Codecs read the position on entry and advance it by the number of
// elements consumed or produced; they never move it backwards and never
// retain it beyond a call.
type Cursor struct {
	pos int
}

// NewCursor returns a cursor positioned at pos.
func NewCursor(pos int) *Cursor {
	return &Cursor{pos: pos}
}

// Position returns the current position.
func (c *Cursor) Position() int {
	return c.pos
}

// SetPosition moves the cursor to pos.
func (c *Cursor) SetPosition(pos int) {
	c.pos = pos
}

// Advance moves the cursor n elements forward.
func (c *Cursor) Advance(n int) {
	c.pos += n
}

// String implements fmt.Stringer.
func (c *Cursor) String() string {
	return fmt.Sprintf("@%d", c.pos)
}
