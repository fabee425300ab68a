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
	"strconv"
	"strings"
)

var sizeSuffixes = []struct {
	suffix string
	factor uint64
}{
	// Longest first so "KB"/"K" don't shadow each other wrongly.
	{"eb", 1 << 60}, {"e", 1 << 60},
	{"pb", 1 << 50}, {"p", 1 << 50},
	{"tb", 1 << 40}, {"t", 1 << 40},
	{"gb", 1 << 30}, {"g", 1 << 30},
	{"mb", 1 << 20}, {"m", 1 << 20},
	{"kb", 1 << 10}, {"k", 1 << 10},
	{"b", 1},
}

// parseSize parses a byte-size expression with 1024-based suffixes
// (K, M, G, T, P, E, optionally followed by "B"); a bare number has no
// suffix applied.
func parseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, suf := range sizeSuffixes {
		if strings.HasSuffix(lower, suf.suffix) {
			numPart := strings.TrimSpace(s[:len(s)-len(suf.suffix)])
			n, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return 0, ErrUnparsable
			}
			return uint64(n * float64(suf.factor)), nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrUnparsable
	}
	return n, nil
}

func evalCPUs(c *Condition, _ []string, facts Facts) (bool, error) {
	n, err := facts.CPUsInAffinityMask()
	if err != nil {
		return false, err
	}

	p := c.Parameter
	op := parseOrder(&p, false)
	if op == orderInvalid {
		op = orderGreaterOrEqual
	}
	want, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
	if err != nil {
		return false, ErrUnparsable
	}

	return testOrder(cmpUint(uint64(n), want), op), nil
}

func evalMemory(c *Condition, _ []string, facts Facts) (bool, error) {
	m, err := facts.PhysicalMemory()
	if err != nil {
		return false, err
	}

	p := c.Parameter
	op := parseOrder(&p, false)
	if op == orderInvalid {
		op = orderGreaterOrEqual
	}
	want, err := parseSize(p)
	if err != nil {
		return false, err
	}

	return testOrder(cmpUint(m, want), op), nil
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func evalCPUFeature(c *Condition, _ []string, facts Facts) (bool, error) {
	flags, err := facts.CPUFlags()
	if err != nil {
		return false, err
	}
	return flags[strings.ToLower(c.Parameter)], nil
}

func evalControlGroupController(c *Condition, _ []string, facts Facts) (bool, error) {
	switch c.Parameter {
	case "v2":
		return facts.CgroupAllUnified()
	case "v1":
		unified, err := facts.CgroupAllUnified()
		if err != nil {
			return false, err
		}
		return !unified, nil
	}

	supported, err := facts.CgroupMaskSupported()
	if err != nil {
		return false, err
	}
	wanted, ok := facts.CgroupMaskFromString(c.Parameter)
	if !ok || wanted == 0 {
		// Unknown/unparseable controller string: ignore, don't block.
		return true, nil
	}
	return supported&wanted == wanted, nil
}

// parsePermyriad parses a basis-10000 percentage, with an optional
// trailing '%' or '‰' that is accepted but doesn't rescale the value
// -- the number itself is already expressed in permyriads.
func parsePermyriad(s string) (uint32, error) {
	s = strings.TrimSuffix(s, "‰")
	s = strings.TrimSuffix(s, "%")
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, ErrUnparsable
	}
	return uint32(n), nil
}

func pressureProcType(k Kind) string {
	switch k {
	case MemoryPressure:
		return "memory"
	case CPUPressure:
		return "cpu"
	default:
		return "io"
	}
}

func pressureControllerMask(k Kind) CGroupMask {
	switch k {
	case MemoryPressure:
		return CGroupMaskMemory
	case CPUPressure:
		return CGroupMaskCPU
	default:
		return CGroupMaskIO
	}
}

// evalPressure implements the shared MemoryPressure/CPUPressure/
// IOPressure grammar: "[CGROUP:]PCT[%|‰][/WINDOW]".
func evalPressure(c *Condition, facts Facts) (bool, error) {
	ptype := pressureProcType(c.Kind)

	cgroup, rest, hasCgroup := strings.Cut(c.Parameter, ":")
	if !hasCgroup {
		rest = cgroup
		cgroup = ""
	}

	valueStr, windowStr, _ := strings.Cut(rest, "/")
	valueStr = strings.TrimSpace(valueStr)
	if valueStr == "" {
		return false, ErrUnparsable
	}

	window := Pressure5Min
	switch strings.TrimSpace(windowStr) {
	case "", "5min":
		window = Pressure5Min
	case "1min":
		window = Pressure1Min
	case "10sec":
		window = Pressure10Sec
	default:
		return false, ErrUnparsable
	}

	limit, err := parsePermyriad(valueStr)
	if err != nil {
		return false, err
	}

	var path string
	if cgroup == "" {
		path = "/proc/pressure/" + ptype
	} else {
		unified, err := facts.CgroupAllUnified()
		if err != nil {
			return false, err
		}
		if !unified {
			return true, nil // skip-pass: PSI cgroup checks need the unified hierarchy.
		}

		supported, err := facts.CgroupMaskSupported()
		if err != nil {
			return false, err
		}
		if supported&pressureControllerMask(c.Kind) == 0 {
			return true, nil // skip-pass: controller unavailable.
		}

		slicePath, err := facts.CgroupSlicePath(strings.TrimSpace(cgroup))
		if err != nil {
			return false, err
		}
		rootScope, err := facts.CgroupOwnRootScope()
		if err != nil {
			return false, err
		}
		rootScope = strings.TrimSuffix(rootScope, "/init.scope")
		if rootScope != "" && rootScope != "/" {
			slicePath = strings.TrimSuffix(rootScope, "/") + "/" + strings.TrimPrefix(slicePath, "/")
		}

		path, err = facts.CgroupControllerPath(slicePath, ptype+".pressure")
		if err != nil {
			return false, err
		}
	}

	pressure, err := facts.ReadResourcePressure(path, true)
	if err != nil {
		pressure, err = facts.ReadResourcePressure(path, false)
	}
	if err != nil {
		return true, nil // skip-pass: missing/unsupported, don't block activation.
	}

	return pressure.Window(window) <= limit, nil
}

func evalMemoryPressure(c *Condition, _ []string, facts Facts) (bool, error) {
	return evalPressure(c, facts)
}

func evalCPUPressure(c *Condition, _ []string, facts Facts) (bool, error) {
	return evalPressure(c, facts)
}

func evalIOPressure(c *Condition, _ []string, facts Facts) (bool, error) {
	return evalPressure(c, facts)
}
