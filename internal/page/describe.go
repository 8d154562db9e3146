// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package page

import (
	"github.com/cockroachdb/fastpfor/internal/binfmt"
	"github.com/cockroachdb/fastpfor/internal/bitpack"
)

// Describe formats the page at the formatter's current offset, annotating
// every word, and returns the page's layout. Nothing is formatted if the page
// is invalid.
func Describe(f *binfmt.Formatter, blockSize int) (Layout, error) {
	l, err := ReadLayout(f.Unformatted(), blockSize)
	if err != nil {
		return Layout{}, err
	}
	f.Word("page: %d blocks", len(l.Blocks))
	f.Word("page: %d metadata bytes", l.MetaBytes)
	f.Words(metaWords(l.MetaBytes), "page metadata")
	for k, bl := range l.Blocks {
		f.Comment("block %d: width=%d exceptions=%d", k, bl.Width, bl.Exceptions())
		f.Words(bitpack.PackedWords(blockSize, bl.Width), "block %d: values at %d bits", k, bl.Width)
		for _, bk := range bl.Buckets {
			f.Words(bitpack.PackedWords(bk.Count, bk.PosWidth),
				"block %d: %d position deltas at %d bits", k, bk.Count, bk.PosWidth)
			f.Words(bitpack.PackedWords(bk.Count, bk.Extra),
				"block %d: %d high bit groups at %d bits", k, bk.Count, bk.Extra)
		}
	}
	return l, nil
}
