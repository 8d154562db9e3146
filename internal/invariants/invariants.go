// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invariants exposes assertions that are only compiled into builds
// using the "invariants" or "race" build tags. Codecs use it to verify their
// size accounting and to scribble over scratch buffers between blocks.
package invariants
