// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package bitpack packs and unpacks runs of unsigned integers at a fixed bit
// width into 32-bit words.
//
// Values are laid out least-significant bit first: value i occupies bits
// [i*b, (i+1)*b) of the concatenated little-endian word stream. A value may
// straddle two words. A bit width of zero produces no words at all, and a bit
// width of 32 is a plain copy.
package bitpack

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// MaxWidth is the largest supported bit width.
const MaxWidth = 32

// Len returns the number of bits required to represent v. Len(0) is 0.
func Len[T constraints.Unsigned](v T) int {
	return bits.Len64(uint64(v))
}

// MaxBits returns the number of bits required to represent every value in
// src.
func MaxBits(src []uint32) int {
	var acc uint32
	for _, v := range src {
		acc |= v
	}
	return Len(acc)
}

// PackedWords returns the number of words occupied by n values packed at bit
// width b.
func PackedWords(n, b int) int {
	return (n*b + 31) / 32
}

// Mask returns a mask of the b low-order bits.
func Mask(b int) uint32 {
	if b >= MaxWidth {
		return ^uint32(0)
	}
	return uint32(1)<<b - 1
}

// Pack32 packs exactly 32 values at bit width b into exactly b words of dst.
// Bits of a value above b are discarded.
func Pack32(dst *[32]uint32, src *[32]uint32, b int) {
	switch b {
	case 0:
		return
	case MaxWidth:
		*dst = *src
		return
	}
	mask := Mask(b)
	var acc uint64
	var n, w int
	for i := 0; i < 32; i++ {
		acc |= uint64(src[i]&mask) << n
		n += b
		if n >= 32 {
			dst[w] = uint32(acc)
			w++
			acc >>= 32
			n -= 32
		}
	}
}

// Unpack32 unpacks exactly 32 values at bit width b from the first b words of
// src.
func Unpack32(dst *[32]uint32, src *[32]uint32, b int) {
	switch b {
	case 0:
		*dst = [32]uint32{}
		return
	case MaxWidth:
		*dst = *src
		return
	}
	mask := uint64(Mask(b))
	var acc uint64
	var avail, r int
	for i := 0; i < 32; i++ {
		if avail < b {
			acc |= uint64(src[r]) << avail
			r++
			avail += 32
		}
		dst[i] = uint32(acc & mask)
		acc >>= b
		avail -= b
	}
}

// Pack packs all of src at bit width b into dst and returns the number of
// words written, which is always PackedWords(len(src), b). dst must have room
// for that many words. Trailing bits of the final word are zero.
func Pack(dst, src []uint32, b int) int {
	switch b {
	case 0:
		return 0
	case MaxWidth:
		return copy(dst[:len(src)], src)
	}
	mask := Mask(b)
	var acc uint64
	var n, w int
	for _, v := range src {
		acc |= uint64(v&mask) << n
		n += b
		if n >= 32 {
			dst[w] = uint32(acc)
			w++
			acc >>= 32
			n -= 32
		}
	}
	if n > 0 {
		dst[w] = uint32(acc)
		w++
	}
	return w
}

// Unpack fills dst with len(dst) values unpacked from src at bit width b and
// returns the number of words consumed, which is always
// PackedWords(len(dst), b). src must hold at least that many words.
func Unpack(dst, src []uint32, b int) int {
	switch b {
	case 0:
		clear(dst)
		return 0
	case MaxWidth:
		return copy(dst, src[:len(dst)])
	}
	mask := uint64(Mask(b))
	var acc uint64
	var avail, r int
	for i := range dst {
		if avail < b {
			acc |= uint64(src[r]) << avail
			r++
			avail += 32
		}
		dst[i] = uint32(acc & mask)
		acc >>= b
		avail -= b
	}
	return r
}

// PackGroups packs src, whose length must be a multiple of 32, at bit width b
// into dst 32 values at a time and returns the number of words written
// (len(src)/32*b).
func PackGroups(dst, src []uint32, b int) int {
	w := 0
	for k := 0; k+32 <= len(src); k += 32 {
		if len(dst)-w >= 32 {
			Pack32((*[32]uint32)(dst[w:w+32]), (*[32]uint32)(src[k:k+32]), b)
		} else {
			Pack(dst[w:w+b], src[k:k+32], b)
		}
		w += b
	}
	return w
}

// UnpackGroups fills dst, whose length must be a multiple of 32, with values
// unpacked from src at bit width b and returns the number of words consumed
// (len(dst)/32*b).
func UnpackGroups(dst, src []uint32, b int) int {
	r := 0
	for k := 0; k+32 <= len(dst); k += 32 {
		if len(src)-r >= 32 {
			Unpack32((*[32]uint32)(dst[k:k+32]), (*[32]uint32)(src[r:r+32]), b)
		} else {
			Unpack(dst[k:k+32], src[r:r+b], b)
		}
		r += b
	}
	return r
}
