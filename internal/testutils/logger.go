// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package testutils holds helpers shared by tests.
package testutils

import (
	"fmt"
	"sync"
	"testing"
)

// Logger is a logger that writes to a testing.TB and remembers every message
// logged through Errorf.
type Logger struct {
	T testing.TB

	mu     sync.Mutex
	errors []string
}

// NewLogger returns a Logger writing to t.
func NewLogger(t testing.TB) *Logger {
	return &Logger{T: t}
}

// Infof implements the Logger.Infof interface.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.T.Logf(format, args...)
}

// Errorf implements the Logger.Errorf interface.
func (l *Logger) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
	l.T.Log(msg)
}

// Fatalf implements the Logger.Fatalf interface.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.T.Helper()
	l.T.Fatalf(format, args...)
}

// Errors returns the messages logged through Errorf so far.
func (l *Logger) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}
