// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bytes"
	"encoding/binary"
	"os"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor"
	"github.com/cockroachdb/fastpfor/internal/compression"
	"github.com/cockroachdb/fastpfor/internal/container"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <in> <out>",
	Short: "encode a file of little-endian uint32 values",
	Long: `
Encode reads a file of little-endian unsigned 32-bit integers and writes a
container holding their encoding.
`,
	Args: cobra.ExactArgs(2),
	RunE: runEncode,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <in> <out>",
	Short: "decode a container into a file of little-endian uint32 values",
	Args:  cobra.ExactArgs(2),
	RunE:  runDecode,
}

// readValues parses a file of little-endian uint32 values.
func readValues(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, errors.Newf("%s: length %d is not a multiple of 4", path, errors.Safe(len(data)))
	}
	values := make([]uint32, len(data)/4)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return values, nil
}

func writeValues(path string, values []uint32) error {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[4*i:], v)
	}
	return os.WriteFile(path, data, 0644)
}

func runEncode(cmd *cobra.Command, args []string) error {
	alg, err := fastpfor.ParseAlgorithm(codecName)
	if err != nil {
		return err
	}
	comp, err := compression.ParseAlgorithm(compressionName)
	if err != nil {
		return err
	}
	opts := &fastpfor.Options{BlockSize: blockSize, PageSize: pageSize, Logger: logger()}
	codec, err := fastpfor.New(alg, opts)
	if err != nil {
		return err
	}
	values, err := readValues(args[0])
	if err != nil {
		return err
	}

	out := make([]uint32, fastpfor.MaxCompressedLength(alg, len(values), opts))
	inPos, outPos := fastpfor.NewCursor(0), fastpfor.NewCursor(0)
	if err := codec.Compress(values, len(values), inPos, out, outPos); err != nil {
		return err
	}
	if inPos.Position() != len(values) {
		opts.Logger.Infof("%s encoded %d of %d values; the remainder is dropped",
			alg, inPos.Position(), len(values))
	}

	var buf bytes.Buffer
	h, err := container.Write(&buf, container.Header{
		Codec:       uint8(alg),
		Compression: comp,
		BlockSize:   blockSize,
		PageSize:    pageSize,
		Values:      inPos.Position(),
	}, out[:outPos.Position()])
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], buf.Bytes(), 0644); err != nil {
		return err
	}
	opts.Logger.Infof("encoded %s values (%s) into %s with %s/%s: %.2f bits/value",
		crhumanize.Count(int64(h.Values), crhumanize.Compact),
		crhumanize.Bytes(int64(4*len(values)), crhumanize.Compact, crhumanize.OmitI),
		crhumanize.Bytes(int64(buf.Len()), crhumanize.Compact, crhumanize.OmitI),
		alg, h.Compression, bitsPerValue(buf.Len(), h.Values))
	return nil
}

func bitsPerValue(size, values int) float64 {
	if values == 0 {
		return 0
	}
	return float64(8*size) / float64(values)
}

// readContainer reads a container and constructs the codec that decodes its
// payload.
func readContainer(path string) (container.Header, []uint32, fastpfor.Codec, error) {
	f, err := os.Open(path)
	if err != nil {
		return container.Header{}, nil, nil, err
	}
	defer f.Close()
	h, payload, err := container.Read(f)
	if err != nil {
		return container.Header{}, nil, nil, errors.Wrapf(err, "%s", path)
	}
	opts := &fastpfor.Options{BlockSize: h.BlockSize, PageSize: h.PageSize, Logger: logger()}
	codec, err := fastpfor.New(fastpfor.Algorithm(h.Codec), opts)
	if err != nil {
		return container.Header{}, nil, nil, err
	}
	return h, payload, codec, nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	h, payload, codec, err := readContainer(args[0])
	if err != nil {
		return err
	}
	values := make([]uint32, h.Values)
	inPos, outPos := fastpfor.NewCursor(0), fastpfor.NewCursor(0)
	if err := codec.Uncompress(payload, len(payload), inPos, values, outPos); err != nil {
		return err
	}
	if outPos.Position() != h.Values {
		return errors.Newf("%s: decoded %d values, container declares %d",
			args[0], errors.Safe(outPos.Position()), errors.Safe(h.Values))
	}
	if err := writeValues(args[1], values); err != nil {
		return err
	}
	logger().Infof("decoded %s values", crhumanize.Count(int64(h.Values), crhumanize.Compact))
	return nil
}
