// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2016 Canonical Ltd
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

// Package dirs centralizes the handful of fixed host paths the condition
// evaluators read (/proc/cmdline, /etc/os-release, /sys/class/dmi/id/...,
// and so on) behind a single overridable root, the way snapd centralizes
// its own filesystem layout.
package dirs

import (
	"fmt"
	"path/filepath"
	"strings"
)

// GlobalRootDir is prepended to every fixed host-fact path this module
// reads. It is empty in production; tests set it to a scratch directory
// via SetRootDir so evaluators never touch the real machine.
var GlobalRootDir = ""

// SetRootDir overrides GlobalRootDir. Passing "" restores the real root.
func SetRootDir(newRootDir string) {
	if newRootDir == "" {
		newRootDir = "/"
	}
	GlobalRootDir = filepath.Clean(newRootDir)
	if GlobalRootDir == "/" {
		GlobalRootDir = ""
	}
}

// PathTo joins the given absolute path elements onto GlobalRootDir.
func PathTo(elem ...string) string {
	return filepath.Join(append([]string{GlobalRootDir, "/"}, elem...)...)
}

// StripRootDir removes GlobalRootDir from an absolute path, panicking if
// the path isn't absolute or doesn't live under GlobalRootDir.
func StripRootDir(dir string) string {
	if !filepath.IsAbs(dir) {
		panic(fmt.Sprintf("supplied path is not absolute %q", dir))
	}
	if !strings.HasPrefix(dir, GlobalRootDir) {
		panic(fmt.Sprintf("supplied path is not related to global root %q", dir))
	}
	result := filepath.Clean(dir[len(GlobalRootDir):])
	if result == "" {
		result = "/"
	}
	return result
}
