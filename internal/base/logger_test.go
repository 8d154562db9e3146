// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"bytes"
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	buf bytes.Buffer
}

func (l *recordingLogger) Infof(format string, args ...interface{}) {
	fmt.Fprintf(&l.buf, "I "+format+"\n", args...)
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(&l.buf, "E "+format+"\n", args...)
}

func (l *recordingLogger) Fatalf(format string, args ...interface{}) {
	fmt.Fprintf(&l.buf, "F "+format+"\n", args...)
}

func TestQuietLogger(t *testing.T) {
	var rec recordingLogger
	l := QuietLogger{Logger: &rec}
	l.Infof("page %d", 1)
	l.Errorf("page %d", 2)
	require.Equal(t, "E page 2\n", rec.buf.String())
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	w, flags, prefix := log.Writer(), log.Flags(), log.Prefix()
	log.SetOutput(&buf)
	log.SetFlags(0)
	log.SetPrefix("")
	defer func() {
		log.SetOutput(w)
		log.SetFlags(flags)
		log.SetPrefix(prefix)
	}()

	DefaultLogger{}.Infof("encoded %d values", 128)
	DefaultLogger{}.Errorf("rejecting page at word %d", 7)
	require.Equal(t, "encoded 128 values\nE rejecting page at word 7\n", buf.String())
}
