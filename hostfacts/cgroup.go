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

package hostfacts

import (
	"path/filepath"

	"github.com/snapcore/unitcond/cgrouputil"
	"github.com/snapcore/unitcond/condition"
	"github.com/snapcore/unitcond/dirs"
)

func (Host) CgroupAllUnified() (bool, error) {
	return cgrouputil.AllUnified()
}

func (Host) CgroupMaskSupported() (condition.CGroupMask, error) {
	mask, err := cgrouputil.MaskSupported()
	return condition.CGroupMask(mask), err
}

func (Host) CgroupMaskFromString(s string) (condition.CGroupMask, bool) {
	mask, ok := cgrouputil.MaskFromString(s)
	return condition.CGroupMask(mask), ok
}

func (Host) CgroupSlicePath(slice string) (string, error) {
	return cgrouputil.SlicePath(slice)
}

func (Host) CgroupOwnRootScope() (string, error) {
	return cgrouputil.OwnRootScope()
}

func (Host) CgroupControllerPath(slicePath, controller string) (string, error) {
	return cgrouputil.ControllerPath(slicePath, controller)
}

func (Host) ReadResourcePressure(path string, full bool) (*condition.Pressure, error) {
	p, err := cgrouputil.ReadPressure(dirs.PathTo(path), full)
	if err != nil {
		return nil, err
	}
	return &condition.Pressure{Avg10: p.Avg10, Avg60: p.Avg60, Avg300: p.Avg300}, nil
}

func (Host) ParseOSRelease(key string) (string, bool) {
	return releaseLookup(key)
}

func (Host) CredentialsDir() (string, bool) {
	dir := dirs.PathTo("/run/credentials")
	if info, err := statPath(dir); err == nil && info.IsDir() {
		return dir, true
	}
	return "", false
}

func (Host) EncryptedCredentialsDir() (string, bool) {
	dir := dirs.PathTo("/run/credentials-encrypted")
	if info, err := statPath(dir); err == nil && info.IsDir() {
		return dir, true
	}
	return "", false
}

func globMatch(pattern string) (bool, error) {
	matches, err := filepath.Glob(dirs.PathTo(pattern))
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}
