// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// pfor is a command line tool for encoding, decoding, inspecting and
// benchmarking integer files with the fastpfor codecs.
package main

import (
	"log"
	"os"

	"github.com/cockroachdb/fastpfor"
	"github.com/spf13/cobra"
)

var (
	codecName       string
	compressionName string
	blockSize       int
	pageSize        int
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "pfor [command] (flags)",
	Short: "fastpfor encoding/introspection/benchmarking tool",
	Long:  ``,
}

// logger returns the logger commands report progress to.
func logger() fastpfor.Logger {
	if verbose {
		return fastpfor.DefaultLogger
	}
	return fastpfor.QuietLogger{Logger: fastpfor.DefaultLogger}
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		encodeCmd,
		decodeCmd,
		dumpCmd,
		benchCmd,
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "log progress")

	for _, cmd := range []*cobra.Command{encodeCmd, benchCmd} {
		cmd.Flags().IntVar(
			&blockSize, "block-size", fastpfor.BlockSize128, "values per FastPFOR block")
		cmd.Flags().IntVar(
			&pageSize, "page-size", fastpfor.DefaultPageSize, "values per FastPFOR page")
	}
	encodeCmd.Flags().StringVar(
		&codecName, "codec", fastpfor.CompositionAlgorithm.String(),
		"codec to encode with (fastpfor, variablebyte, justcopy, composition)")
	encodeCmd.Flags().StringVar(
		&compressionName, "compression", "none",
		"byte compression applied to the encoded payload (none, snappy, minlz, zstd)")

	dumpCmd.Flags().BoolVar(
		&dumpPlot, "plot", false, "plot the bit width chosen for every block")
	dumpCmd.Flags().IntVar(
		&dumpPlotHeight, "plot-height", dumpPlotHeight, "height of the bit width plot")

	benchCmd.Flags().IntVarP(
		&benchConfig.values, "num-values", "n", benchConfig.values, "number of values to generate")
	benchCmd.Flags().IntVar(
		&benchConfig.bits, "bits", benchConfig.bits, "bit width of the common values")
	benchCmd.Flags().StringVar(
		&benchConfig.dist, "dist", benchConfig.dist, "value distribution (uniform, outliers, sorted)")
	benchCmd.Flags().IntVar(
		&benchConfig.iterations, "iterations", benchConfig.iterations, "passes over the data per codec")
	benchCmd.Flags().Uint64Var(
		&benchConfig.seed, "seed", benchConfig.seed, "random seed for the generated values")
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
