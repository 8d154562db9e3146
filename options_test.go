// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package fastpfor

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.EnsureDefaults()
	require.Equal(t, BlockSize128, o.BlockSize)
	require.Equal(t, DefaultPageSize, o.PageSize)
	require.NotNil(t, o.Logger)
	require.NoError(t, o.Validate())

	// A nil *Options is treated as the defaults.
	var nilOpts *Options
	require.Equal(t, BlockSize128, nilOpts.ensureDefaults().BlockSize)
}

func TestOptionsValidate(t *testing.T) {
	testCases := []struct {
		blockSize, pageSize int
		ok                  bool
	}{
		{BlockSize128, DefaultPageSize, true},
		{BlockSize256, 256, true},
		{BlockSize512, 2 * DefaultPageSize, true},
		{32, 32, true},
		{4096, 1 << 24, true},
		{16, 1024, false},
		{8192, 8192, false},
		{100, 1000, false},
		{128, 200, false},
		{128, -128, false},
		{-64, 128, false},
		{-128, 0, false},
		{128, 1<<24 + 128, false},
	}
	for _, tc := range testCases {
		o := Options{BlockSize: tc.blockSize, PageSize: tc.pageSize}
		err := o.Validate()
		if tc.ok {
			require.NoError(t, err, "%+v", tc)
			continue
		}
		require.True(t, errors.Is(err, ErrInvalidConfiguration), "%+v: %v", tc, err)
		_, err = NewFastPFOR(&o)
		require.True(t, errors.Is(err, ErrInvalidConfiguration), "%+v: %v", tc, err)
	}
}

func TestOptionsParse(t *testing.T) {
	o := &Options{BlockSize: BlockSize512, PageSize: 4096}
	s := o.String()
	require.Equal(t, "[Options]\n  block_size=512\n  page_size=4096\n", s)

	var parsed Options
	require.NoError(t, parsed.Parse(s))
	require.Equal(t, o.BlockSize, parsed.BlockSize)
	require.Equal(t, o.PageSize, parsed.PageSize)

	// Comments and blank lines are ignored and missing keys are untouched.
	parsed = Options{PageSize: 1024}
	require.NoError(t, parsed.Parse("# tuning\n\n[Options]\n  ; larger blocks\n  block_size=256\n"))
	require.Equal(t, 256, parsed.BlockSize)
	require.Equal(t, 1024, parsed.PageSize)

	for _, s := range []string{
		"[Options]\n  block_size=x\n",
		"[Options]\n  unknown=1\n",
		"[Other]\n  block_size=128\n",
		"block_size=128\n",
		"[Options]\n  block_size\n",
	} {
		require.Error(t, new(Options).Parse(s), "%q", s)
	}
}
