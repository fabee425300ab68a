// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2024 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

// Package logger exposes a single package-level Logger, swappable via
// SetLogger, the way snapd's top-level logger package works: callers
// anywhere in the program use the package-level Debugf/Noticef
// functions instead of threading a logger value through every call.
// The condition engine itself never imports this package -- it takes
// a condition.Logger interface value instead -- this is purely for
// cmd/unitcond and httpapi, which sit above the core.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// A Logger is something that can Debug and Notice.
type Logger interface {
	// Notice is for messages that the user should see.
	Notice(msg string)
	// Debug is for messages that the user should be able to find if
	// they're debugging something, but that aren't normally visible.
	Debug(msg string)
}

type nullLogger struct{}

func (nullLogger) Notice(string) {}
func (nullLogger) Debug(string)  {}

// NullLogger discards all log messages.
var NullLogger Logger = nullLogger{}

var logger Logger = NullLogger

// SetLogger sets the global logger to the given one.
func SetLogger(l Logger) {
	logger = l
}

// Debugf formats and outputs a debug-level message.
func Debugf(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf(format, v...))
}

// Noticef formats and outputs a notice-level message.
func Noticef(format string, v ...interface{}) {
	logger.Notice(fmt.Sprintf(format, v...))
}

// Panicf notices, then panics, with the given message.
func Panicf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	logger.Notice(msg)
	panic(msg)
}

type logWriter struct {
	log   *log.Logger
	debug bool
}

func (w logWriter) Notice(msg string) {
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		w.log.Output(3, "unitcond: "+line)
	}
}

func (w logWriter) Debug(msg string) {
	if !w.debug {
		return
	}
	w.Notice("DEBUG: " + msg)
}

// New creates a Logger that writes to out with the given flag set
// (see the stdlib log package), optionally including debug messages.
func New(out io.Writer, flag int, debug bool) Logger {
	return logWriter{log: log.New(out, "", flag), debug: debug}
}

// SimpleSetup calls SetLogger with a logger that writes to stderr,
// with debug messages enabled when the UNITCOND_DEBUG environment
// variable is non-empty.
func SimpleSetup() {
	debug := os.Getenv("UNITCOND_DEBUG") != ""
	SetLogger(New(os.Stderr, log.LstdFlags, debug))
}

// MockLogger replaces the global logger with one that writes to an
// in-memory buffer, returning it along with a restore function.
// Modeled on snapd's logger.MockLogger, used throughout the pack's
// tests to assert on log output without touching the real stream.
func MockLogger() (buf *prefixBuffer, restore func()) {
	old := logger
	b := &prefixBuffer{}
	SetLogger(logWriter{log: log.New(b, "", 0), debug: true})
	return b, func() { SetLogger(old) }
}

// prefixBuffer is a minimal io.Writer capturing everything written to
// it, exposed as a fmt.Stringer for test assertions.
type prefixBuffer struct {
	data []byte
}

func (b *prefixBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *prefixBuffer) String() string { return string(b.data) }
