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
	"bufio"
	"os"
	"os/user"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/snapcore/unitcond/dirs"
)

func (Host) CurrentUID() uint32  { return uint32(unix.Getuid()) }
func (Host) CurrentEUID() uint32 { return uint32(unix.Geteuid()) }
func (Host) Getpid() int         { return unix.Getpid() }

func (Host) Username() (string, error) {
	u, err := user.LookupId(strconv.Itoa(unix.Getuid()))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

func (Host) LookupUID(name string) (uint32, bool) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, false
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(uid), true
}

func (Host) LookupGID(name string) (uint32, bool) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, false
	}
	gid, err := strconv.ParseUint(g.Gid, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(gid), true
}

func (Host) InGID(gid uint32) (bool, error) {
	if uint32(unix.Getgid()) == gid || uint32(unix.Getegid()) == gid {
		return true, nil
	}
	groups, err := unix.Getgroups()
	if err != nil {
		return false, err
	}
	for _, g := range groups {
		if uint32(g) == gid {
			return true, nil
		}
	}
	return false, nil
}

func (h Host) InGroupName(name string) (bool, error) {
	gid, ok := h.LookupGID(name)
	if !ok {
		return false, nil
	}
	return h.InGID(gid)
}

// capabilityByName maps the bare (CAP_ prefix stripped, lower-cased)
// capability name to its bit index, following linux/capability.h.
var capabilityByName = map[string]int{
	"chown":            unix.CAP_CHOWN,
	"dac_override":     unix.CAP_DAC_OVERRIDE,
	"dac_read_search":  unix.CAP_DAC_READ_SEARCH,
	"fowner":           unix.CAP_FOWNER,
	"fsetid":           unix.CAP_FSETID,
	"kill":             unix.CAP_KILL,
	"setgid":           unix.CAP_SETGID,
	"setuid":           unix.CAP_SETUID,
	"setpcap":          unix.CAP_SETPCAP,
	"linux_immutable":  unix.CAP_LINUX_IMMUTABLE,
	"net_bind_service": unix.CAP_NET_BIND_SERVICE,
	"net_broadcast":    unix.CAP_NET_BROADCAST,
	"net_admin":        unix.CAP_NET_ADMIN,
	"net_raw":          unix.CAP_NET_RAW,
	"ipc_lock":         unix.CAP_IPC_LOCK,
	"ipc_owner":        unix.CAP_IPC_OWNER,
	"sys_module":       unix.CAP_SYS_MODULE,
	"sys_rawio":        unix.CAP_SYS_RAWIO,
	"sys_chroot":       unix.CAP_SYS_CHROOT,
	"sys_ptrace":       unix.CAP_SYS_PTRACE,
	"sys_pacct":        unix.CAP_SYS_PACCT,
	"sys_admin":        unix.CAP_SYS_ADMIN,
	"sys_boot":         unix.CAP_SYS_BOOT,
	"sys_nice":         unix.CAP_SYS_NICE,
	"sys_resource":     unix.CAP_SYS_RESOURCE,
	"sys_time":         unix.CAP_SYS_TIME,
	"sys_tty_config":   unix.CAP_SYS_TTY_CONFIG,
	"mknod":            unix.CAP_MKNOD,
	"lease":            unix.CAP_LEASE,
	"audit_write":      unix.CAP_AUDIT_WRITE,
	"audit_control":    unix.CAP_AUDIT_CONTROL,
	"setfcap":          unix.CAP_SETFCAP,
	"mac_override":     unix.CAP_MAC_OVERRIDE,
	"mac_admin":        unix.CAP_MAC_ADMIN,
	"syslog":           unix.CAP_SYSLOG,
	"wake_alarm":       unix.CAP_WAKE_ALARM,
	"block_suspend":    unix.CAP_BLOCK_SUSPEND,
	"audit_read":       unix.CAP_AUDIT_READ,
}

func (Host) CapabilityFromName(name string) (int, bool) {
	key := strings.ToLower(strings.TrimPrefix(strings.ToLower(name), "cap_"))
	bit, ok := capabilityByName[key]
	return bit, ok
}

func (Host) CapabilityBoundingSet() (uint64, error) {
	f, err := os.Open(dirs.PathTo("/proc/self/status"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "CapBnd:") {
			continue
		}
		hex := strings.TrimSpace(strings.TrimPrefix(line, "CapBnd:"))
		mask, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return 0, err
		}
		return mask, nil
	}
	return 0, scanner.Err()
}
