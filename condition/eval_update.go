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

package condition

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// evalNeedsUpdate implements the fall-through chain in spec.md §4.3:
// every unexpected error along the way is resolved in favor of
// "update needed" (true), matching the original's "rather invoke too
// many update tools than too few" policy.
func evalNeedsUpdate(c *Condition, _ []string, facts Facts) (bool, error) {
	if override, ok := facts.NeedsUpdateOverride(); ok {
		return override, nil
	}

	if facts.InInitrd() {
		return false, nil
	}

	if !filepath.IsAbs(c.Parameter) {
		return true, nil
	}

	if ro, err := facts.PathIsReadOnlyFS(c.Parameter); err == nil && ro {
		return false, nil
	}

	updatedPath := filepath.Join(c.Parameter, ".updated")
	target, err := facts.StatPath(updatedPath)
	if err != nil {
		return true, nil
	}

	usr, err := facts.StatPath("/usr/")
	if err != nil {
		return true, nil
	}

	usrSec, usrNsec := usr.ModTime().Unix(), int64(usr.ModTime().Nanosecond())
	targetSec, targetNsec := target.ModTime().Unix(), int64(target.ModTime().Nanosecond())

	if usrSec != targetSec {
		return usrSec > targetSec, nil
	}

	if usrNsec > 0 && targetNsec > 0 {
		return usrNsec > targetNsec, nil
	}

	raw, err := facts.ReadVirtualFile(updatedPath)
	if err != nil {
		return true, nil
	}
	ts, ok := parseEnvLine(string(raw), "TIMESTAMP_NSEC")
	if !ok || ts == "" {
		return true, nil
	}
	stamp, err := strconv.ParseUint(ts, 10, 64)
	if err != nil {
		return true, nil
	}

	return uint64(usr.ModTime().UnixNano()) > stamp, nil
}

// parseEnvLine scans KEY=VALUE lines (as written by systemd-style
// environment files) for key, returning its value.
func parseEnvLine(content, key string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		name, value, found := strings.Cut(line, "=")
		if found && name == key {
			return strings.Trim(value, `"'`), true
		}
	}
	return "", false
}

// evalFirstBoot faithfully reproduces the original's quirky override
// handling: once the kernel cmdline override parses, its own boolean
// value is returned unconditionally -- it is never compared against
// c.Parameter. See spec.md §9's Open Question of the same name.
func evalFirstBoot(c *Condition, _ []string, facts Facts) (bool, error) {
	if override, ok := facts.FirstBootOverride(); ok {
		return override, nil
	}

	want, err := parseBoolean(c.Parameter)
	if err != nil {
		return false, ErrUnparsable
	}

	_, err = facts.StatPath("/run/systemd/first-boot")
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		// Stat failure other than not-exists: fall through treating it
		// as absent, matching the original's "ignoring" log policy.
	}

	return exists == want, nil
}
