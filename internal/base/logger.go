// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"fmt"
	"log"
	"os"
)

// Logger receives diagnostics from the codecs, such as the reason a page was
// rejected during decoding.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// DefaultLogger writes to the standard library logger. Errors are prefixed
// with "E " so they stand out from progress messages.
type DefaultLogger struct{}

var _ Logger = DefaultLogger{}

func (DefaultLogger) Infof(format string, args ...interface{}) {
	output("", format, args)
}

func (DefaultLogger) Errorf(format string, args ...interface{}) {
	output("E ", format, args)
}

func (DefaultLogger) Fatalf(format string, args ...interface{}) {
	output("F ", format, args)
	os.Exit(1)
}

func output(prefix, format string, args []interface{}) {
	// Skip output and the DefaultLogger method so the caller's file and line
	// are reported when log.Lshortfile is set.
	_ = log.Output(3, prefix+fmt.Sprintf(format, args...))
}

// QuietLogger drops informational messages and forwards errors to the
// wrapped Logger.
type QuietLogger struct {
	Logger
}

var _ Logger = QuietLogger{}

// Infof discards the message.
func (QuietLogger) Infof(format string, args ...interface{}) {}
