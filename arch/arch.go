// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2014-2015 Canonical Ltd
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

// Package arch maps between Go's GOARCH names, dpkg's architecture
// names (used for display and package-style compatibility checks),
// and systemd's architecture names (used by ConditionArchitecture=).
package arch

import "runtime"

// ArchitectureType is the dpkg-style architecture tag (e.g. "amd64", "armhf").
type ArchitectureType string

var arch = ubuntuArchFromGoArch(runtime.GOARCH)

// ubuntuArchFromGoArch maps a runtime.GOARCH value to its dpkg
// architecture name.
func ubuntuArchFromGoArch(goarch string) string {
	switch goarch {
	case "386":
		return "i386"
	case "amd64":
		return "amd64"
	case "arm":
		return "armhf"
	case "arm64":
		return "arm64"
	case "ppc64le":
		return "ppc64el"
	case "ppc64":
		return "ppc64"
	case "s390x":
		return "s390x"
	case "riscv64":
		return "riscv64"
	default:
		return goarch
	}
}

// SetArchitecture overrides the detected dpkg architecture; used by
// tests.
func SetArchitecture(a ArchitectureType) {
	arch = string(a)
}

// UbuntuArchitecture returns the detected (or overridden) dpkg-style
// architecture name.
func UbuntuArchitecture() string {
	return arch
}

// IsSupportedArchitecture reports whether the current architecture
// appears in archs, or archs contains the wildcard "all".
func IsSupportedArchitecture(archs []string) bool {
	for _, a := range archs {
		if a == "all" || a == arch {
			return true
		}
	}
	return false
}

// systemdArchFromGoArch maps runtime.GOARCH to the architecture name
// ConditionArchitecture=native resolves to, following systemd's own
// naming (distinct from dpkg's).
var systemdArchFromGoArch = map[string]string{
	"386":     "x86",
	"amd64":   "x86-64",
	"arm":     "arm",
	"arm64":   "arm64",
	"ppc64":   "ppc64",
	"ppc64le": "ppc64-le",
	"s390x":   "s390x",
	"riscv64": "riscv64",
	"mips":    "mips",
	"mips64":  "mips64",
	"loong64": "loongarch64",
}

// NativeArchitecture returns the build's native architecture using
// systemd's naming convention, for ConditionArchitecture=native.
func NativeArchitecture() string {
	if s, ok := systemdArchFromGoArch[runtime.GOARCH]; ok {
		return s
	}
	return runtime.GOARCH
}
