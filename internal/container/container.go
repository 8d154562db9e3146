// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package container frames an encoded integer stream for storage in a file.
//
// A container is a fixed-size little-endian header followed by the payload:
//
//	magic       [4]byte  "PFOR"
//	version     uint8
//	codec       uint8    the fastpfor.Algorithm of the payload
//	compression uint8    the compression.Algorithm wrapping the payload
//	reserved    uint8
//	blockSize   uint32
//	pageSize    uint32
//	values      uint64   number of values encoded
//	words       uint64   number of payload words before compression
//	stored      uint64   number of payload bytes that follow the header
//	checksum    uint64   xxhash64 of the uncompressed payload bytes
//
// The payload is the codec output as little-endian words, optionally
// compressed.
package container

import (
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/fastpfor/internal/base"
	"github.com/cockroachdb/fastpfor/internal/compression"
)

// Magic identifies a container.
const Magic = "PFOR"

// Version is the current container format version.
const Version = 1

// HeaderLen is the encoded size of a Header in bytes.
const HeaderLen = 48

// maxStoredLen bounds the payload size accepted by Read.
const maxStoredLen = 1 << 40

// Header describes the payload of a container.
type Header struct {
	// Codec is the fastpfor.Algorithm that produced the payload.
	Codec uint8
	// Compression is the algorithm the payload is compressed with.
	Compression compression.Algorithm
	// BlockSize and PageSize are the FastPFOR options the payload was
	// encoded with.
	BlockSize int
	PageSize  int
	// Values is the number of values encoded in the payload.
	Values int
	// Words is the length of the payload in words. It is set by Write.
	Words int
	// Checksum is the xxhash64 of the payload bytes. It is set by Write.
	Checksum uint64
}

func (h *Header) encode(buf []byte, stored int) {
	copy(buf[0:4], Magic)
	buf[4] = Version
	buf[5] = h.Codec
	buf[6] = uint8(h.Compression)
	buf[7] = 0
	binary.LittleEndian.PutUint32(buf[8:], uint32(h.BlockSize))
	binary.LittleEndian.PutUint32(buf[12:], uint32(h.PageSize))
	binary.LittleEndian.PutUint64(buf[16:], uint64(h.Values))
	binary.LittleEndian.PutUint64(buf[24:], uint64(h.Words))
	binary.LittleEndian.PutUint64(buf[32:], uint64(stored))
	binary.LittleEndian.PutUint64(buf[40:], h.Checksum)
}

func (h *Header) decode(buf []byte) (stored int, err error) {
	if string(buf[0:4]) != Magic {
		return 0, base.CorruptionErrorf("fastpfor: bad container magic %q", buf[0:4])
	}
	if buf[4] != Version {
		return 0, base.CorruptionErrorf("fastpfor: unsupported container version %d", errors.Safe(buf[4]))
	}
	h.Codec = buf[5]
	h.Compression = compression.Algorithm(buf[6])
	if h.Compression >= compression.NumAlgorithms {
		return 0, base.CorruptionErrorf("fastpfor: unknown container compression %d", errors.Safe(buf[6]))
	}
	h.BlockSize = int(binary.LittleEndian.Uint32(buf[8:]))
	h.PageSize = int(binary.LittleEndian.Uint32(buf[12:]))
	h.Values = int(binary.LittleEndian.Uint64(buf[16:]))
	h.Words = int(binary.LittleEndian.Uint64(buf[24:]))
	storedLen := binary.LittleEndian.Uint64(buf[32:])
	h.Checksum = binary.LittleEndian.Uint64(buf[40:])
	if storedLen > maxStoredLen || h.Words < 0 || uint64(h.Words) > maxStoredLen/4 || h.Values < 0 {
		return 0, base.CorruptionErrorf("fastpfor: container lengths out of range")
	}
	return int(storedLen), nil
}

// Write writes a container holding payload to w. The Words and Checksum
// fields of h are computed from payload. An empty payload is never
// compressed.
func Write(w io.Writer, h Header, payload []uint32) (Header, error) {
	raw := make([]byte, 4*len(payload))
	for i, v := range payload {
		binary.LittleEndian.PutUint32(raw[4*i:], v)
	}
	h.Words = len(payload)
	h.Checksum = xxhash.Sum64(raw)
	if len(raw) == 0 {
		h.Compression = compression.None
	}
	stored := raw
	if h.Compression != compression.None {
		stored = compression.Compress(h.Compression, nil, raw)
	}

	var buf [HeaderLen]byte
	h.encode(buf[:], len(stored))
	if _, err := w.Write(buf[:]); err != nil {
		return Header{}, errors.Wrap(err, "writing container header")
	}
	if _, err := w.Write(stored); err != nil {
		return Header{}, errors.Wrap(err, "writing container payload")
	}
	return h, nil
}

// Read reads a container from r, verifying its checksum. Malformed
// containers produce errors marked with base.ErrCorruptStream.
func Read(r io.Reader) (Header, []uint32, error) {
	var buf [HeaderLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, nil, base.MarkCorruptionError(errors.Wrap(err, "reading container header"))
		}
		return Header{}, nil, err
	}
	var h Header
	storedLen, err := h.decode(buf[:])
	if err != nil {
		return Header{}, nil, err
	}
	stored := make([]byte, storedLen)
	if _, err := io.ReadFull(r, stored); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, nil, base.MarkCorruptionError(errors.Wrap(err, "reading container payload"))
		}
		return Header{}, nil, err
	}

	raw := stored
	if h.Compression != compression.None {
		if raw, err = compression.Decompress(h.Compression, stored, 4*h.Words); err != nil {
			return Header{}, nil, err
		}
	}
	if len(raw) != 4*h.Words {
		return Header{}, nil, base.CorruptionErrorf("fastpfor: container payload of %d bytes, expected %d words",
			errors.Safe(len(raw)), errors.Safe(h.Words))
	}
	if sum := xxhash.Sum64(raw); sum != h.Checksum {
		return Header{}, nil, base.CorruptionErrorf("fastpfor: container checksum mismatch: %016x != %016x",
			errors.Safe(sum), errors.Safe(h.Checksum))
	}
	payload := make([]uint32, h.Words)
	for i := range payload {
		payload[i] = binary.LittleEndian.Uint32(raw[4*i:])
	}
	return h, payload, nil
}
