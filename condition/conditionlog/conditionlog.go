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

// Package conditionlog adapts the package-level unitcond/logger (or any
// stdlib *log.Logger) to condition.Logger, so callers who already have
// a logger of their own don't need to write their own shim.
package conditionlog

import (
	"log"

	"github.com/snapcore/unitcond/condition"
	"github.com/snapcore/unitcond/logger"
)

// Stdlib adapts a *log.Logger to condition.Logger. Warningf prefixes
// and forwards to the wrapped logger; Debugf does the same only when
// Debug is set, and discards the message otherwise -- the stdlib
// logger has no level concept of its own.
type Stdlib struct {
	L     *log.Logger
	Debug bool
}

var _ condition.Logger = Stdlib{}

func (s Stdlib) Debugf(format string, v ...interface{}) {
	if !s.Debug {
		return
	}
	s.L.Printf("DEBUG: "+format, v...)
}

func (s Stdlib) Warningf(format string, v ...interface{}) {
	s.L.Printf("WARNING: "+format, v...)
}

// Package adapts the unitcond/logger package-level logger to
// condition.Logger, so cmd/unitcond and httpapi can hand List.Evaluate
// the same logger they use for everything else.
type Package struct{}

var _ condition.Logger = Package{}

func (Package) Debugf(format string, v ...interface{})   { logger.Debugf(format, v...) }
func (Package) Warningf(format string, v ...interface{}) { logger.Noticef(format, v...) }
