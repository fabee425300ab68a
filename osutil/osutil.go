// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2014-2016 Canonical Ltd
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

// Package osutil collects small filesystem predicates shared by the
// fact-gathering packages: existence, directory-ness, symlink-ness,
// mount-point-ness and the like.
package osutil

import (
	"os"
	"syscall"
)

// FileExists returns true if the given path exists.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDirectory returns true if the given path is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsSymlink returns true if the given path is a symlink.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// IsWritable returns true if the given path can be written to by the
// current process, approximated via access(2).
func IsWritable(path string) bool {
	return syscall.Access(path, unixWOK) == nil
}

const unixWOK = 2
