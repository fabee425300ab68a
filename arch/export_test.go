// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2023 Canonical Ltd
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

package arch

// MockSystemdArchFromGoArch overrides the systemd-style name reported
// for goarch, for NativeArchitecture tests.
func MockSystemdArchFromGoArch(goarch, systemdName string) (restore func()) {
	old, had := systemdArchFromGoArch[goarch]
	systemdArchFromGoArch[goarch] = systemdName
	return func() {
		if had {
			systemdArchFromGoArch[goarch] = old
		} else {
			delete(systemdArchFromGoArch, goarch)
		}
	}
}
