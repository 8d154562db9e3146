// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package binfmt exposes utilities for formatting streams of 32-bit words
// with descriptive comments.
package binfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// New constructs a new word formatter.
func New(data []uint32) *Formatter {
	offsetWidth := strconv.Itoa(max(int(math.Log10(float64(len(data)-1)))+1, 1))
	return &Formatter{
		data:            data,
		offsetFormatStr: "%0" + offsetWidth + "d-%0" + offsetWidth + "d: ",
	}
}

// Formatter is a utility for formatting word streams with descriptive
// comments.
type Formatter struct {
	lines []line
	data  []uint32
	off   int

	offsetFormatStr string
}

// wordsPerLine is the maximum number of words formatted on one line.
const wordsPerLine = 4

// line is one row of output: the hex rendering of a run of words, and the
// comment describing them. Either may be empty.
type line struct {
	words   string
	comment string
}

// More returns true if there is more data that can be formatted.
func (f *Formatter) More() bool {
	return f.off < len(f.data)
}

// Unformatted returns the words not yet formatted. The caller must not
// modify them.
func (f *Formatter) Unformatted() []uint32 {
	return f.data[f.off:]
}

// Word formats a single word in hexadecimal, followed by the comment.
func (f *Formatter) Word(format string, args ...interface{}) int {
	return f.Words(1, format, args...)
}

// Words formats the next n words in hexadecimal, wrapping lines at the
// line width. The comment is attached to the first line and
// subsequent lines are marked as continuations. Words formats nothing when n
// is zero.
func (f *Formatter) Words(n int, format string, args ...interface{}) int {
	if n <= 0 {
		return 0
	}
	comment := strings.TrimSpace(fmt.Sprintf(format, args...))
	for end := f.off + n; f.off < end; {
		next := min(f.off+wordsPerLine, end)
		var sb strings.Builder
		fmt.Fprintf(&sb, f.offsetFormatStr, f.off, next)
		sb.WriteByte('x')
		for _, w := range f.data[f.off:next] {
			fmt.Fprintf(&sb, " %08x", w)
		}
		f.lines = append(f.lines, line{words: sb.String(), comment: comment})
		comment = "(continued...)"
		f.off = next
	}
	return n
}

// Comment adds a line containing only a comment, consuming no data.
func (f *Formatter) Comment(format string, args ...interface{}) {
	f.lines = append(f.lines, line{comment: fmt.Sprintf(format, args...)})
}

// String returns the current formatted output. Comments following words are
// aligned in a column; comment-only lines start at the left margin.
func (f *Formatter) String() string {
	width := 0
	for _, l := range f.lines {
		width = max(width, len(l.words))
	}
	var sb strings.Builder
	for _, l := range f.lines {
		switch {
		case l.comment == "":
			sb.WriteString(l.words)
		case l.words == "":
			sb.WriteString("# " + l.comment)
		default:
			fmt.Fprintf(&sb, "%-*s # %s", width, l.words, l.comment)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
