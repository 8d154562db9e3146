// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	dumpPlot       bool
	dumpPlotHeight = 10
)

var dumpCmd = &cobra.Command{
	Use:   "dump <in>",
	Short: "print the layout of an encoded container",
	Long: `
Dump prints the container header and, for FastPFOR payloads, an annotated
listing of every page and block. With --plot it also plots the bit width
chosen for each block.
`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	h, payload, codec, err := readContainer(args[0])
	if err != nil {
		return err
	}
	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "codec:       %s\n", codec.Algorithm())
	fmt.Fprintf(stdout, "compression: %s\n", h.Compression)
	fmt.Fprintf(stdout, "values:      %d\n", h.Values)
	fmt.Fprintf(stdout, "words:       %d\n", h.Words)
	fmt.Fprintf(stdout, "checksum:    %016x\n", h.Checksum)

	switch codec.Algorithm() {
	case fastpfor.FastPFORAlgorithm, fastpfor.CompositionAlgorithm:
	default:
		return nil
	}
	f, err := fastpfor.NewFastPFOR(&fastpfor.Options{BlockSize: h.BlockSize, PageSize: h.PageSize})
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	dump, blocks, err := f.Describe(payload)
	if err != nil {
		return errors.Wrapf(err, "%s", args[0])
	}
	fmt.Fprint(stdout, dump)

	if dumpPlot && len(blocks) > 0 {
		widths := make([]float64, len(blocks))
		for i, b := range blocks {
			widths[i] = float64(b.Width)
		}
		fmt.Fprintf(stdout, "\nbit width per block:\n%s\n",
			asciigraph.Plot(widths, asciigraph.Height(dumpPlotHeight)))
	}
	return nil
}
