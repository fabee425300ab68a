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

// Package hostfacts is the production implementation of
// condition.Facts, gathering real host state through golang.org/x/sys/unix
// and the sibling release/cgrouputil/efivars/tpm2probe/apparmor/arch
// packages instead of duplicating host-fact logic inside the evaluators.
package hostfacts

import (
	"bytes"
	"io/ioutil"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/snapcore/unitcond/arch"
	"github.com/snapcore/unitcond/condition"
	"github.com/snapcore/unitcond/dirs"
	"github.com/snapcore/unitcond/efivars"
	"github.com/snapcore/unitcond/release"
	"github.com/snapcore/unitcond/tpm2probe"
)

// Host is the real-system condition.Facts implementation.
type Host struct{}

var _ condition.Facts = Host{}

func (Host) ReadVirtualFile(path string) ([]byte, error) {
	return ioutil.ReadFile(dirs.PathTo(path))
}

func (Host) ProcCmdline() (string, error) {
	data, err := ioutil.ReadFile(dirs.PathTo("/proc/cmdline"))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func (Host) UnameRelease() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}
	return cToString(uts.Release[:]), nil
}

func (Host) UnameMachine() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}
	return cToString(uts.Machine[:]), nil
}

func cToString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func (Host) NativeArchitecture() string {
	return arch.NativeArchitecture()
}

func (Host) PhysicalMemory() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return uint64(info.Totalram) * uint64(info.Unit), nil
}

func (Host) CPUsInAffinityMask() (int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0, err
	}
	return set.Count(), nil
}

func (Host) DetectVirtualization() (condition.Virtualization, error) {
	id, err := release.DetectVirtualization()
	if err != nil {
		return condition.VirtNone, err
	}
	return virtFromID(id), nil
}

var virtByID = map[string]condition.Virtualization{
	"kvm":            condition.VirtKVM,
	"qemu":           condition.VirtQEMU,
	"vmware":         condition.VirtVMware,
	"oracle":         condition.VirtVirtualBox,
	"microsoft":      condition.VirtMicrosoft,
	"xen":            condition.VirtXen,
	"docker":         condition.VirtDocker,
	"lxc":            condition.VirtLXC,
	"systemd-nspawn": condition.VirtSystemdNspawn,
}

func virtFromID(id string) condition.Virtualization {
	if v, ok := virtByID[id]; ok {
		return v
	}
	if id == "none" || id == "" {
		return condition.VirtNone
	}
	return condition.VirtOtherVM
}

func (Host) RunningInUserNS() (bool, error) {
	return release.RunningInUserNS()
}

func (Host) OnACPower() (bool, error) {
	entries, err := ioutil.ReadDir(dirs.PathTo("/sys/class/power_supply"))
	if err != nil {
		// No power supply information (e.g. no battery/AC reporting):
		// assume mains power, matching systemd's on_ac_power() default.
		return true, nil
	}
	sawAC := false
	for _, e := range entries {
		typeData, err := ioutil.ReadFile(dirs.PathTo("/sys/class/power_supply", e.Name(), "type"))
		if err != nil || strings.TrimSpace(string(typeData)) != "Mains" {
			continue
		}
		sawAC = true
		online, err := ioutil.ReadFile(dirs.PathTo("/sys/class/power_supply", e.Name(), "online"))
		if err == nil && strings.TrimSpace(string(online)) == "1" {
			return true, nil
		}
	}
	if !sawAC {
		return true, nil
	}
	return false, nil
}

func (Host) IsEFIBoot() bool {
	return efivars.IsEFIBoot()
}

func (Host) IsEFISecureBoot() bool {
	return efivars.IsSecureBoot()
}

func (Host) TPM2Support() condition.TPM2Support {
	s := tpm2probe.Detect()
	var out condition.TPM2Support
	if s&tpm2probe.SupportDriver != 0 {
		out |= condition.TPM2SupportDriver
	}
	if s&tpm2probe.SupportFirmware != 0 {
		out |= condition.TPM2SupportFirmware
	}
	return out
}

func (Host) Hostname() (string, error) {
	return os.Hostname()
}

func (Host) MachineID() (string, error) {
	data, err := ioutil.ReadFile(dirs.PathTo("/etc/machine-id"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (Host) InInitrd() bool {
	_, err := os.Stat(dirs.PathTo("/etc/initrd-release"))
	return err == nil
}
