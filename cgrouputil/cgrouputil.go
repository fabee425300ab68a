// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2019 Canonical Ltd
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

// Package cgrouputil resolves cgroup v1/v2 hierarchy questions: whether
// the unified hierarchy is in use, which controllers are available,
// where a given slice/scope lives on disk, and how to read its
// Pressure Stall Information files.
package cgrouputil

import (
	"fmt"
	"io/ioutil"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/snapcore/unitcond/dirs"
)

// Mask is a bitmask of cgroup controllers, using the same bit
// positions the condition package's CGroupMask uses.
type Mask uint32

const (
	MaskCPU Mask = 1 << iota
	MaskIO
	MaskMemory
	MaskPIDs
)

const cgroupRoot = "/sys/fs/cgroup"

const cgroup2SuperMagic = 0x63677270

// AllUnified reports whether /sys/fs/cgroup is itself a cgroup2
// mount (the "unified hierarchy"), as opposed to a cgroup v1 tmpfs
// with per-controller mounts underneath it.
func AllUnified() (bool, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dirs.PathTo(cgroupRoot), &st); err != nil {
		return false, err
	}
	return int64(st.Type) == cgroup2SuperMagic, nil
}

// MaskSupported returns the set of controllers available under the
// current hierarchy, read from cgroup.controllers (v2) or from which
// per-controller mounts exist (v1).
func MaskSupported() (Mask, error) {
	unified, err := AllUnified()
	if err != nil {
		return 0, err
	}
	if unified {
		data, err := ioutil.ReadFile(dirs.PathTo(cgroupRoot, "cgroup.controllers"))
		if err != nil {
			return 0, err
		}
		mask, _ := MaskFromString(string(data))
		return mask, nil
	}

	var mask Mask
	for name, bit := range v1ControllerDirs {
		if _, err := ioutil.ReadDir(dirs.PathTo(cgroupRoot, name)); err == nil {
			mask |= bit
		}
	}
	return mask, nil
}

var v1ControllerDirs = map[string]Mask{
	"cpu":     MaskCPU,
	"cpuacct": MaskCPU,
	"blkio":   MaskIO,
	"io":      MaskIO,
	"memory":  MaskMemory,
	"pids":    MaskPIDs,
}

var v2ControllerNames = map[string]Mask{
	"cpu":    MaskCPU,
	"io":     MaskIO,
	"memory": MaskMemory,
	"pids":   MaskPIDs,
}

// MaskFromString parses a whitespace/comma separated controller-name
// list (v1 or v2 names) into a Mask. It returns ok=false if the string
// names no controller this package recognizes.
func MaskFromString(s string) (Mask, bool) {
	var mask Mask
	found := false
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' || r == '\t' }) {
		if bit, ok := v2ControllerNames[field]; ok {
			mask |= bit
			found = true
			continue
		}
		if bit, ok := v1ControllerDirs[field]; ok {
			mask |= bit
			found = true
		}
	}
	return mask, found
}

// SlicePath returns the cgroupfs directory (relative to cgroupRoot,
// without a leading slash) that the given slice name maps to, e.g.
// "system.slice" -> "system.slice", "foo-bar.slice" -> "foo.slice/foo-bar.slice".
func SlicePath(slice string) (string, error) {
	if slice == "" || slice == "-.slice" {
		return "", nil
	}
	if !strings.HasSuffix(slice, ".slice") {
		return "", fmt.Errorf("cgrouputil: not a slice name: %q", slice)
	}
	name := strings.TrimSuffix(slice, ".slice")
	parts := strings.Split(name, "-")

	var segments []string
	for i := range parts {
		segments = append(segments, strings.Join(parts[:i+1], "-")+".slice")
	}
	return strings.Join(segments, "/"), nil
}

// OwnRootScope returns the calling process's own cgroup path (the
// unified-hierarchy entry in /proc/self/cgroup), with a trailing
// "/init.scope" stripped so slice-relative lookups land on the
// enclosing slice rather than the per-process scope.
func OwnRootScope() (string, error) {
	data, err := ioutil.ReadFile(dirs.PathTo("/proc/self/cgroup"))
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.SplitN(line, ":", 3)
		if len(fields) != 3 {
			continue
		}
		if fields[0] != "0" && fields[1] != "" {
			// Not the unified-hierarchy entry (v1 named hierarchy).
			continue
		}
		path := strings.TrimPrefix(fields[2], "/")
		path = strings.TrimSuffix(path, "/init.scope")
		return path, nil
	}
	return "", fmt.Errorf("cgrouputil: no unified cgroup entry in /proc/self/cgroup")
}

// ControllerPath returns the on-disk directory for the given
// controller under the given cgroup path, rooted appropriately for v1
// (per-controller mount) vs v2 (single unified mount).
func ControllerPath(cgroupPath, controller string) (string, error) {
	unified, err := AllUnified()
	if err != nil {
		return "", err
	}
	if unified {
		return dirs.PathTo(cgroupRoot, cgroupPath), nil
	}
	return dirs.PathTo(cgroupRoot, controller, cgroupPath), nil
}
