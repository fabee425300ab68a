// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2020 Canonical Ltd
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

// Package efi reads EFI variables, preferring the efivarfs mount when
// one is available and falling back to the legacy sysfs interfaces.
package efi

import (
	"io/ioutil"
	"path/filepath"

	"github.com/snapcore/unitcond/dirs"
	"github.com/snapcore/unitcond/osutil"
)

// efivarfsMountDir returns the directory efivarfs is mounted at,
// according to /proc/self/mountinfo, or "" if it isn't mounted (or
// mount state can't be determined).
func efivarfsMountDir() string {
	entries, err := osutil.LoadMountInfo()
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.FsType == "efivarfs" {
			return e.MountDir
		}
	}
	return ""
}

// ReadEfiVar reads the named EFI variable, in order of preference from
// the efivarfs mount, the legacy /sys/firmware/efi/vars interface, and
// finally the default efivarfs mountpoint (in case it is mounted but
// missing from mountinfo for some reason).
func ReadEfiVar(name string) ([]byte, error) {
	if mountDir := efivarfsMountDir(); mountDir != "" {
		return ioutil.ReadFile(filepath.Join(mountDir, name))
	}

	sysfsVarsPath := dirs.PathTo("/sys/firmware/efi/vars", name, "data")
	if osutil.FileExists(sysfsVarsPath) {
		return ioutil.ReadFile(sysfsVarsPath)
	}

	return ioutil.ReadFile(dirs.PathTo("/sys/firmware/efivars", name))
}
