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

// Package tpm2probe detects TPM2 support, the way systemd's
// tpm2-util.c does: a resource-manager character device reachable
// through the kernel driver, or else firmware (ACPI TPM2 table)
// advertising a TPM2 is present without a loaded driver.
package tpm2probe

import (
	"path/filepath"

	"github.com/canonical/go-tpm2/linux"

	"github.com/snapcore/unitcond/dirs"
	"github.com/snapcore/unitcond/osutil"
)

// Support is a bitmask describing how TPM2 support was found,
// matching condition.TPM2Support's bit layout.
type Support int

const (
	SupportNone     Support = 0
	SupportDriver   Support = 1 << 0
	SupportFirmware Support = 1 << 1
)

// HasDriver reports whether a TPM2 resource-manager device node is
// present; when no /dev/tpmrm* node matches, it falls back to opening
// the default TPM device and reports whether that opens cleanly.
func HasDriver() bool {
	matches, err := filepath.Glob(dirs.PathTo("/dev/tpmrm*"))
	if err == nil && len(matches) > 0 {
		return true
	}
	dev, err := linux.DefaultTPMDevice()
	if err != nil {
		return false
	}
	t, err := dev.Open()
	if err != nil {
		return false
	}
	t.Close()
	return true
}

// HasFirmware reports whether firmware advertises a TPM2, per the
// ACPI TPM2 table being exposed under sysfs, even without a bound
// kernel driver.
func HasFirmware() bool {
	return osutil.FileExists(dirs.PathTo("/sys/firmware/acpi/tables/TPM2"))
}

// Detect returns the combined Support bitmask for the running system.
func Detect() Support {
	var s Support
	if HasDriver() {
		s |= SupportDriver
	}
	if HasFirmware() {
		s |= SupportFirmware
	}
	return s
}
