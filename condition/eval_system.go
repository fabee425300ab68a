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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var errUnknownBoolean = errors.New("condition: not a boolean value")

// parseBoolean accepts the same spellings systemd's parse_boolean does.
func parseBoolean(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "yes", "y", "true", "t", "on":
		return true, nil
	case "0", "no", "n", "false", "f", "off":
		return false, nil
	default:
		return false, errUnknownBoolean
	}
}

func evalVirtualization(c *Condition, _ []string, facts Facts) (bool, error) {
	if c.Parameter == "private-users" {
		return facts.RunningInUserNS()
	}

	v, err := facts.DetectVirtualization()
	if err != nil {
		return false, err
	}

	if b, err := parseBoolean(c.Parameter); err == nil {
		return b == (v != VirtNone), nil
	}

	switch c.Parameter {
	case "vm":
		return v.IsVM(), nil
	case "container":
		return v.IsContainer(), nil
	}

	return v != VirtNone && c.Parameter == v.String(), nil
}

// archAliases maps the systemd architecture name (what ConditionArchitecture=
// parameters use) to the kernel uname machine strings that identify it.
var archAliases = map[string][]string{
	"x86-64":      {"x86_64"},
	"x86":         {"i386", "i486", "i586", "i686"},
	"arm64":       {"aarch64", "aarch64_be"},
	"arm":         {"armv7l", "armv6l", "armv5tel"},
	"mips64":      {"mips64"},
	"mips":        {"mips", "mipsel"},
	"ppc64":       {"ppc64"},
	"ppc64-le":    {"ppc64le"},
	"s390x":       {"s390x"},
	"riscv64":     {"riscv64"},
	"loongarch64": {"loongarch64"},
}

func archMatches(systemdName, machine string) bool {
	for _, m := range archAliases[systemdName] {
		if m == machine {
			return true
		}
	}
	return false
}

func evalArchitecture(c *Condition, _ []string, facts Facts) (bool, error) {
	machine, err := facts.UnameMachine()
	if err != nil {
		return false, err
	}

	want := c.Parameter
	if want == "native" {
		want = facts.NativeArchitecture()
	}

	if _, known := archAliases[want]; !known {
		// Unknown architecture name: definitely not ours.
		return false, nil
	}
	return archMatches(want, machine), nil
}

func is128BitHex(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func evalHost(c *Condition, _ []string, facts Facts) (bool, error) {
	if is128BitHex(c.Parameter) {
		id, err := facts.MachineID()
		if err != nil {
			return false, err
		}
		return strings.EqualFold(id, c.Parameter), nil
	}

	hostname, err := facts.Hostname()
	if err != nil {
		return false, err
	}
	ok, err := doublestar.Match(strings.ToLower(c.Parameter), strings.ToLower(hostname))
	if err != nil {
		return false, ErrUnparsable
	}
	return ok, nil
}

func evalACPower(c *Condition, _ []string, facts Facts) (bool, error) {
	want, err := parseBoolean(c.Parameter)
	if err != nil {
		return false, ErrUnparsable
	}
	on, err := facts.OnACPower()
	if err != nil {
		return false, err
	}
	return on == want, nil
}

func hasTPM2(facts Facts) bool {
	s := facts.TPM2Support()
	return s.has(TPM2SupportDriver) || s.has(TPM2SupportFirmware)
}

func evalSecurity(c *Condition, _ []string, facts Facts) (bool, error) {
	switch c.Parameter {
	case "selinux", "smack", "apparmor", "audit", "ima", "tomoyo":
		return facts.SecurityModuleEnabled(c.Parameter), nil
	case "uefi-secureboot":
		return facts.IsEFISecureBoot(), nil
	case "tpm2":
		return hasTPM2(facts), nil
	default:
		return false, nil
	}
}

func evalCapability(c *Condition, _ []string, facts Facts) (bool, error) {
	bit, ok := facts.CapabilityFromName(c.Parameter)
	if !ok {
		return false, ErrUnparsable
	}
	mask, err := facts.CapabilityBoundingSet()
	if err != nil {
		return false, err
	}
	return mask&(uint64(1)<<uint(bit)) != 0, nil
}

func evalFirmware(c *Condition, _ []string, facts Facts) (bool, error) {
	switch {
	case c.Parameter == "device-tree":
		_, err := facts.StatPath("/sys/firmware/device-tree/")
		return err == nil, nil

	case c.Parameter == "uefi":
		return facts.IsEFIBoot(), nil

	case strings.HasPrefix(c.Parameter, "device-tree-compatible(") && strings.HasSuffix(c.Parameter, ")"):
		arg := strings.TrimSuffix(strings.TrimPrefix(c.Parameter, "device-tree-compatible("), ")")
		return evalDeviceTreeCompatible(arg, facts)

	case strings.HasPrefix(c.Parameter, "smbios-field(") && strings.HasSuffix(c.Parameter, ")"):
		arg := strings.TrimSuffix(strings.TrimPrefix(c.Parameter, "smbios-field("), ")")
		return evalSMBIOSField(arg, facts)

	default:
		return false, nil
	}
}

func evalDeviceTreeCompatible(want string, facts Facts) (bool, error) {
	raw, err := facts.ReadVirtualFile("/proc/device-tree/compatible")
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	for _, entry := range strings.Split(strings.TrimRight(string(raw), "\x00"), "\x00") {
		if entry == want {
			return true, nil
		}
	}
	return false, nil
}

// evalSMBIOSField parses "FIELD OP VALUE" -- the only Firmware
// sub-expression allowed to use the glob comparators.
func evalSMBIOSField(expr string, facts Facts) (bool, error) {
	cut := strings.IndexAny(expr, "!<=>")
	if cut < 0 {
		return false, ErrUnparsable
	}
	field := strings.TrimRight(expr[:cut], " \t")
	rest := expr[cut:]
	op := parseOrder(&rest, true)
	if op == orderInvalid {
		return false, ErrUnparsable
	}
	want := strings.TrimSpace(rest)
	if want == "" {
		return false, ErrUnparsable
	}
	if field == "" || field != filepath.Base(field) {
		return false, ErrUnparsable
	}

	raw, err := facts.ReadVirtualFile(fmt.Sprintf("/sys/class/dmi/id/%s", field))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	actual := strings.TrimRight(string(raw), " \t\r\n")

	switch op {
	case orderFnmatchEqual, orderFnmatchUnequal:
		matched, err := doublestar.Match(want, actual)
		if err != nil {
			return false, ErrUnparsable
		}
		if op == orderFnmatchUnequal {
			matched = !matched
		}
		return matched, nil
	default:
		return testOrder(verscmp(actual, want), op), nil
	}
}
