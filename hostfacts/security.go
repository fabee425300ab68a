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
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/snapcore/unitcond/apparmor"
	"github.com/snapcore/unitcond/dirs"
)

// securityFSModules are the LSMs that just need their securityfs
// directory to exist to count as enabled.
var securityFSModules = map[string]string{
	"selinux": "selinux",
	"smack":   "smack",
	"tomoyo":  "tomoyo",
	"ima":     "ima",
}

func (Host) SecurityModuleEnabled(name string) bool {
	if name == "apparmor" {
		return apparmor.IsEnabled()
	}
	if name == "audit" {
		return auditEnabled()
	}
	dir, ok := securityFSModules[name]
	if !ok {
		return false
	}
	info, err := os.Stat(dirs.PathTo("/sys/kernel/security", dir))
	return err == nil && info.IsDir()
}

// auditEnabled approximates systemd's netlink-based audit probe by
// checking whether the audit subsystem is compiled in, via the
// per-process loginuid file it exposes.
func auditEnabled() bool {
	_, err := os.Stat(dirs.PathTo("/proc/self/loginuid"))
	return err == nil
}

// CPUFlags parses the "flags" line of the first /proc/cpuinfo entry
// into a set of lower-cased flag names, for ConditionCPUFeature=.
func (Host) CPUFlags() (map[string]bool, error) {
	data, err := ioutil.ReadFile(dirs.PathTo("/proc/cpuinfo"))
	if err != nil {
		return nil, err
	}
	flags := map[string]bool{}
	for _, line := range strings.Split(string(data), "\n") {
		k, v, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(k) != "flags" && strings.TrimSpace(k) != "Features" {
			continue
		}
		for _, f := range strings.Fields(v) {
			flags[strings.ToLower(f)] = true
		}
		break
	}
	return flags, nil
}

// FirstBootOverride and NeedsUpdateOverride read the
// systemd.condition-first-boot=/systemd.condition-needs-update=
// kernel command line overrides.
func (h Host) FirstBootOverride() (bool, bool) {
	return cmdlineBoolOverride(h, "systemd.condition-first-boot")
}

func (h Host) NeedsUpdateOverride() (bool, bool) {
	return cmdlineBoolOverride(h, "systemd.condition-needs-update")
}

func cmdlineBoolOverride(h Host, key string) (bool, bool) {
	cmdline, err := h.ProcCmdline()
	if err != nil {
		return false, false
	}
	for _, tok := range strings.Fields(cmdline) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok || k != key {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}
