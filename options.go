// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package fastpfor

import (
	"bytes"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
)

// Block sizes offered for the FastPFOR codec. BlockSize128 is the default;
// the larger sizes amortize per-block metadata over large inputs.
const (
	BlockSize128 = 128
	BlockSize256 = 256
	BlockSize512 = 512
)

// DefaultPageSize is the default number of values per FastPFOR page.
const DefaultPageSize = 65536

const (
	minBlockSize = 32
	maxBlockSize = 4096
	maxPageSize  = 1 << 24
)

// Options holds the parameters of the FastPFOR codec.
type Options struct {
	// BlockSize is the number of values sharing one bit width. It must be a
	// power of two between 32 and 4096.
	//
	// The default value is 128.
	BlockSize int

	// PageSize is the maximum number of values sharing one page header. It
	// must be a positive multiple of BlockSize no larger than 1<<24.
	//
	// The default value is 65536.
	PageSize int

	// Logger receives a message for every corrupt page rejected while
	// uncompressing.
	//
	// The default value logs to the Go stdlib logs.
	Logger Logger
}

// EnsureDefaults ensures that the default values for all options are set if
// a value was not already specified. Negative sizes are left in place for
// Validate to reject.
func (o *Options) EnsureDefaults() {
	if o.BlockSize == 0 {
		o.BlockSize = BlockSize128
	}
	if o.PageSize == 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger
	}
}

// ensureDefaults returns a copy of o with defaults applied. o may be nil.
func (o *Options) ensureDefaults() *Options {
	var c Options
	if o != nil {
		c = *o
	}
	c.EnsureDefaults()
	return &c
}

// Validate verifies that the options are mutually consistent. For example,
// PageSize must be a multiple of BlockSize.
func (o *Options) Validate() error {
	// Note that we can presume Options.EnsureDefaults has been called, so there
	// is no need to check for zero values.

	var buf strings.Builder
	if o.BlockSize < minBlockSize || o.BlockSize > maxBlockSize || bits.OnesCount(uint(o.BlockSize)) != 1 {
		fmt.Fprintf(&buf, "BlockSize (%d) must be a power of two between %d and %d\n",
			o.BlockSize, minBlockSize, maxBlockSize)
	}
	if o.PageSize <= 0 || o.PageSize > maxPageSize {
		fmt.Fprintf(&buf, "PageSize (%d) must be between 1 and %d\n", o.PageSize, maxPageSize)
	} else if o.BlockSize > 0 && o.PageSize%o.BlockSize != 0 {
		fmt.Fprintf(&buf, "PageSize (%d) must be a multiple of BlockSize (%d)\n", o.PageSize, o.BlockSize)
	}
	if buf.Len() == 0 {
		return nil
	}
	return base.InvalidConfigurationErrorf("fastpfor: invalid options:\n%s", errors.Safe(buf.String()))
}

// String returns a textual representation of the options that can be
// parsed back by Parse.
func (o *Options) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[Options]\n")
	fmt.Fprintf(&buf, "  block_size=%d\n", o.BlockSize)
	fmt.Fprintf(&buf, "  page_size=%d\n", o.PageSize)
	return buf.String()
}

// Parse parses the options from the specified string. Blank lines and lines
// beginning with ';' or '#' are ignored. Unknown sections and keys are
// errors. Options not present in s are left untouched.
func (o *Options) Parse(s string) error {
	var section string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 || line[0] == ';' || line[0] == '#' {
			continue
		}
		n := len(line)
		if line[0] == '[' && line[n-1] == ']' {
			section = line[1 : n-1]
			if section != "Options" {
				return errors.Errorf("fastpfor: unknown section: %q", errors.Safe(section))
			}
			continue
		}
		if section == "" {
			return errors.Errorf("fastpfor: option outside of a section: %q", errors.Safe(line))
		}
		pos := strings.IndexByte(line, '=')
		if pos < 0 {
			return errors.Errorf("fastpfor: invalid key=value syntax: %q", errors.Safe(line))
		}
		key := strings.TrimSpace(line[:pos])
		value := strings.TrimSpace(line[pos+1:])

		var err error
		switch key {
		case "block_size":
			o.BlockSize, err = strconv.Atoi(value)
		case "page_size":
			o.PageSize, err = strconv.Atoi(value)
		default:
			return errors.Errorf("fastpfor: unknown option: %s.%s",
				errors.Safe(section), errors.Safe(key))
		}
		if err != nil {
			return errors.Wrapf(err, "fastpfor: parsing %s.%s", errors.Safe(section), errors.Safe(key))
		}
	}
	return nil
}
