// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2016 Canonical Ltd
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

package release

import (
	"io/ioutil"
	"strings"

	"github.com/snapcore/unitcond/dirs"
	"github.com/snapcore/unitcond/osutil"
)

// dmiVendorToVirt maps /sys/class/dmi/id/sys_vendor (or product_name,
// for QEMU) to the systemd-style virtualization id it reports.
var dmiVendorToVirt = []struct {
	needle string
	id     string
}{
	{"QEMU", "qemu"},
	{"innotek GmbH", "oracle"},
	{"VirtualBox", "oracle"},
	{"VMware", "vmware"},
	{"Microsoft Corporation", "microsoft"},
	{"Xen", "xen"},
	{"Bochs", "bochs"},
	{"Amazon EC2", "amazon"},
	{"Google", "google"},
}

// detectContainer maps the content of /run/systemd/container (or, as a
// fallback, distinguishing files) to a systemd-style container id.
func detectContainer() string {
	if data, err := ioutil.ReadFile(dirs.PathTo("/run/systemd/container")); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}
	if osutil.FileExists(dirs.PathTo("/.dockerenv")) {
		return "docker"
	}
	if data, err := ioutil.ReadFile(dirs.PathTo("/proc/1/cgroup")); err == nil {
		s := string(data)
		switch {
		case strings.Contains(s, "docker"):
			return "docker"
		case strings.Contains(s, "lxc"):
			return "lxc"
		}
	}
	return ""
}

func detectVM() string {
	if osutil.FileExists(dirs.PathTo("/sys/hypervisor/type")) {
		if data, err := ioutil.ReadFile(dirs.PathTo("/sys/hypervisor/type")); err == nil {
			if strings.TrimSpace(string(data)) == "xen" {
				return "xen"
			}
		}
	}
	for _, path := range []string{"/sys/class/dmi/id/sys_vendor", "/sys/class/dmi/id/product_name"} {
		data, err := ioutil.ReadFile(dirs.PathTo(path))
		if err != nil {
			continue
		}
		vendor := strings.TrimSpace(string(data))
		for _, m := range dmiVendorToVirt {
			if strings.Contains(vendor, m.needle) {
				return m.id
			}
		}
	}
	return ""
}

// DetectVirtualization returns the systemd-style virtualization/container
// id ("qemu", "xen", "docker", "lxc", "systemd-nspawn", ...), or "none"
// when running on bare metal.
func DetectVirtualization() (string, error) {
	if id := detectContainer(); id != "" {
		return id, nil
	}
	if id := detectVM(); id != "" {
		return id, nil
	}
	return "none", nil
}

// RunningInUserNS reports whether the calling process is in a user
// namespace other than the initial one, by comparing /proc/self/uid_map
// against the host's full-range identity mapping.
func RunningInUserNS() (bool, error) {
	data, err := ioutil.ReadFile(dirs.PathTo("/proc/self/uid_map"))
	if err != nil {
		return false, err
	}
	fields := strings.Fields(strings.TrimSpace(string(data)))
	if len(fields) != 3 {
		return true, nil
	}
	return !(fields[0] == "0" && fields[2] == "4294967295"), nil
}
