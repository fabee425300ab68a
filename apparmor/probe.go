// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2017 Canonical Ltd
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

// Package apparmor probes whether the running kernel has AppArmor
// support, and to what degree, used to answer ConditionSecurity=apparmor.
package apparmor

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

type SupportLevel int

const (
	NoSupport SupportLevel = iota
	PartialSupport
	FullSupport
)

// requiredFeatures are the kernel features snapd's own profiles rely
// on; missing any of them downgrades full support to partial.
var requiredFeatures = []string{"dbus", "file", "mount", "namespaces", "ptrace", "signal"}

var securityFSPath = "/sys/kernel/security/apparmor"

type KernelSupport struct {
	level    SupportLevel
	features map[string]bool
}

func (k *KernelSupport) IsEnabled() bool {
	return k.level != NoSupport
}

func (k *KernelSupport) SupportsFeature(name string) bool {
	return k.features[name]
}

func (k *KernelSupport) SupportLevel() (SupportLevel, string) {
	switch k.level {
	case NoSupport:
		return NoSupport, "apparmor is not enabled"
	case FullSupport:
		return FullSupport, "apparmor is enabled and all features are available"
	default:
		var missing []string
		for _, f := range requiredFeatures {
			if !k.features[f] {
				missing = append(missing, f)
			}
		}
		sort.Strings(missing)
		return PartialSupport, fmt.Sprintf("apparmor is enabled but some features are missing: %s", strings.Join(missing, ", "))
	}
}

var mockedLevel *SupportLevel

// MockSupportLevel forces ProbeKernel to report the given level,
// for use in tests.
func MockSupportLevel(level SupportLevel) (restore func()) {
	old := mockedLevel
	mockedLevel = &level
	return func() { mockedLevel = old }
}

// ProbeKernel reports the AppArmor support level of the running
// kernel, reading /sys/kernel/security/apparmor/features.
func ProbeKernel() *KernelSupport {
	if mockedLevel != nil {
		return levelToSupport(*mockedLevel)
	}

	entries, err := os.ReadDir(securityFSPath + "/features")
	if err != nil {
		return &KernelSupport{level: NoSupport}
	}

	features := make(map[string]bool, len(entries))
	for _, e := range entries {
		features[e.Name()] = true
	}

	level := FullSupport
	for _, f := range requiredFeatures {
		if !features[f] {
			level = PartialSupport
			break
		}
	}
	return &KernelSupport{level: level, features: features}
}

func levelToSupport(level SupportLevel) *KernelSupport {
	switch level {
	case NoSupport:
		return &KernelSupport{level: NoSupport}
	case PartialSupport:
		features := map[string]bool{"file": true}
		return &KernelSupport{level: PartialSupport, features: features}
	default:
		features := make(map[string]bool, len(requiredFeatures))
		for _, f := range requiredFeatures {
			features[f] = true
		}
		return &KernelSupport{level: FullSupport, features: features}
	}
}

// IsEnabled is the convenience most callers want: is AppArmor usable
// at all on this system.
func IsEnabled() bool {
	return ProbeKernel().IsEnabled()
}
