// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2021 Canonical Ltd
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

// Package efivars answers the handful of UEFI questions the condition
// evaluators need (is this an EFI boot, is Secure Boot enabled) using
// go-efilib's structured variable access, falling back to the raw
// efivarfs/sysfs reader in bootloader/efi when go-efilib can't reach
// the variable store (e.g. not running on real UEFI firmware).
package efivars

import (
	efi "github.com/canonical/go-efilib"

	rawefi "github.com/snapcore/unitcond/bootloader/efi"
)

// IsEFIBoot reports whether the system booted via UEFI, by checking
// that the SecureBoot global variable can be read.
func IsEFIBoot() bool {
	_, _, err := efi.ReadVariable("SecureBoot", efi.GlobalVariable)
	if err == nil {
		return true
	}
	_, err = rawefi.ReadEfiVar("SecureBoot-8be4df61-93ca-11d2-aa0d-00e098032b8c")
	return err == nil
}

// IsSecureBoot reports whether UEFI Secure Boot is enabled, per the
// single-byte SecureBoot global variable (1 == enabled).
func IsSecureBoot() bool {
	data, _, err := efi.ReadVariable("SecureBoot", efi.GlobalVariable)
	if err != nil {
		var fallbackErr error
		data, fallbackErr = rawefi.ReadEfiVar("SecureBoot-8be4df61-93ca-11d2-aa0d-00e098032b8c")
		if fallbackErr != nil {
			return false
		}
	}
	return len(data) == 1 && data[0] == 1
}
