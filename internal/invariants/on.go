// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build invariants || race

package invariants

import "math/rand/v2"

// Enabled is true if we were built with the "invariants" or "race" build tags.
const Enabled = true

// Mangle overwrites the contents of buf with garbage so that reads of stale
// scratch memory produce visibly wrong results in tests.
func Mangle(buf []uint32) {
	for i := range buf {
		buf[i] = rand.Uint32()
	}
}
