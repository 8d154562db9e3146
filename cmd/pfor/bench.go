// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor"
	"github.com/cockroachdb/fastpfor/internal/compression"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var benchConfig = struct {
	values     int
	bits       int
	dist       string
	iterations int
	seed       uint64
}{
	values:     1 << 20,
	bits:       12,
	dist:       "outliers",
	iterations: 10,
	seed:       1,
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "compare the codecs on synthetic data",
	Long: `
Bench generates synthetic values and measures the encoded size and the
compression and decompression latency of every codec, alongside general
purpose byte compressors applied to the raw values. Codecs run concurrently,
each on its own goroutine with its own codec instance.
`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

// generateValues returns n values of the named distribution. Common values
// fit in bits bits.
func generateValues(dist string, n, bits int, seed uint64) ([]uint32, error) {
	if bits < 1 || bits > 32 {
		return nil, errors.Newf("bits must be between 1 and 32, got %d", errors.Safe(bits))
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	common := func() uint32 { return uint32(rng.Uint64N(1 << bits)) }
	values := make([]uint32, n)
	switch dist {
	case "uniform":
		for i := range values {
			values[i] = common()
		}
	case "outliers":
		for i := range values {
			values[i] = common()
			if rng.IntN(100) == 0 {
				values[i] = rng.Uint32()
			}
		}
	case "sorted":
		var v uint32
		for i := range values {
			v += common()
			values[i] = v
		}
	default:
		return nil, errors.Newf("unknown distribution %q", dist)
	}
	return values, nil
}

// benchResult holds the measurements of one codec.
type benchResult struct {
	name       string
	size       int
	values     int
	compress   *hdrhistogram.Histogram
	decompress *hdrhistogram.Histogram
}

func newLatencyHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, int64(10*time.Minute), 2)
}

// benchCodec measures an integer codec.
func benchCodec(
	ctx context.Context, alg fastpfor.Algorithm, opts *fastpfor.Options, values []uint32, iterations int,
) (*benchResult, error) {
	codec, err := fastpfor.New(alg, opts)
	if err != nil {
		return nil, err
	}
	r := &benchResult{name: alg.String(), compress: newLatencyHistogram(), decompress: newLatencyHistogram()}
	out := make([]uint32, fastpfor.MaxCompressedLength(alg, len(values), opts))
	decoded := make([]uint32, len(values))
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inPos, outPos := fastpfor.NewCursor(0), fastpfor.NewCursor(0)
		start := time.Now()
		if err := codec.Compress(values, len(values), inPos, out, outPos); err != nil {
			return nil, err
		}
		if err := r.compress.RecordValue(time.Since(start).Nanoseconds()); err != nil {
			return nil, err
		}
		r.size, r.values = 4*outPos.Position(), inPos.Position()

		enc := out[:outPos.Position()]
		inPos, outPos = fastpfor.NewCursor(0), fastpfor.NewCursor(0)
		start = time.Now()
		if err := codec.Uncompress(enc, len(enc), inPos, decoded, outPos); err != nil {
			return nil, err
		}
		if err := r.decompress.RecordValue(time.Since(start).Nanoseconds()); err != nil {
			return nil, err
		}
		if !slices.Equal(values[:r.values], decoded[:outPos.Position()]) {
			return nil, errors.AssertionFailedf("%s: decoded values differ from the input", alg)
		}
	}
	return r, nil
}

// benchCompression measures a byte compressor applied to the raw values.
func benchCompression(
	ctx context.Context, alg compression.Algorithm, values []uint32, iterations int,
) (*benchResult, error) {
	raw := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(raw[4*i:], v)
	}
	name := alg.String()
	if alg == compression.Zstd {
		name += " (" + compression.ZstdImplementation + ")"
	}
	r := &benchResult{name: name, values: len(values), compress: newLatencyHistogram(), decompress: newLatencyHistogram()}
	var buf []byte
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		buf = compression.Compress(alg, buf, raw)
		if err := r.compress.RecordValue(time.Since(start).Nanoseconds()); err != nil {
			return nil, err
		}
		r.size = len(buf)

		start = time.Now()
		decoded, err := compression.Decompress(alg, buf, len(raw))
		if err != nil {
			return nil, err
		}
		if err := r.decompress.RecordValue(time.Since(start).Nanoseconds()); err != nil {
			return nil, err
		}
		if !slices.Equal(raw, decoded) {
			return nil, errors.AssertionFailedf("%s: decompressed bytes differ from the input", alg)
		}
	}
	return r, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg := benchConfig
	values, err := generateValues(cfg.dist, cfg.values, cfg.bits, cfg.seed)
	if err != nil {
		return err
	}
	if cfg.iterations < 1 {
		return errors.Newf("iterations must be positive, got %d", errors.Safe(cfg.iterations))
	}
	opts := &fastpfor.Options{BlockSize: blockSize, PageSize: pageSize, Logger: logger()}
	if err := opts.Validate(); err != nil {
		return err
	}
	opts.Logger.Infof("benchmarking %d %s values (%d bits), %d iterations",
		len(values), cfg.dist, cfg.bits, cfg.iterations)

	codecs := []fastpfor.Algorithm{
		fastpfor.FastPFORAlgorithm,
		fastpfor.CompositionAlgorithm,
		fastpfor.VariableByteAlgorithm,
		fastpfor.JustCopyAlgorithm,
	}
	compressors := []compression.Algorithm{compression.Snappy, compression.MinLZ, compression.Zstd}
	results := make([]*benchResult, len(codecs)+len(compressors))

	g, ctx := errgroup.WithContext(context.Background())
	for i, alg := range codecs {
		g.Go(func() error {
			r, err := benchCodec(ctx, alg, opts, values, cfg.iterations)
			results[i] = r
			return errors.Wrapf(err, "%s", alg)
		})
	}
	for i, alg := range compressors {
		g.Go(func() error {
			r, err := benchCompression(ctx, alg, values, cfg.iterations)
			results[len(codecs)+i] = r
			return errors.Wrapf(err, "%s", alg)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tbl := tablewriter.NewWriter(cmd.OutOrStdout())
	tbl.SetHeader([]string{"Codec", "Values", "Size", "Bits/Value", "Compress p50", "Decompress p50", "Decompress rate"})
	for _, r := range results {
		p50 := time.Duration(r.decompress.ValueAtPercentile(50))
		rate := "-"
		if p50 > 0 {
			rate = string(crhumanize.Count(int64(float64(r.values)/p50.Seconds()), crhumanize.Compact)) + "/s"
		}
		tbl.Append([]string{
			r.name,
			string(crhumanize.Count(int64(r.values), crhumanize.Compact)),
			string(crhumanize.Bytes(int64(r.size), crhumanize.Compact, crhumanize.OmitI)),
			fmt.Sprintf("%.2f", bitsPerValue(r.size, r.values)),
			time.Duration(r.compress.ValueAtPercentile(50)).String(),
			p50.String(),
			rate,
		})
	}
	tbl.Render()
	return nil
}
