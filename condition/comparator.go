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

import "strings"

// order is the comparator sub-grammar shared by several evaluators.
type order int

const (
	orderInvalid order = iota
	orderFnmatchEqual
	orderFnmatchUnequal
	orderLowerOrEqual
	orderGreaterOrEqual
	orderLower
	orderGreater
	orderEqual
	orderUnequal
)

// orderPrefixes lists every recognized prefix, longest first so the
// scanner never mis-classifies "<=" as "<". Glob operators come first
// since "=$" and "!=$" would otherwise be shadowed by "=" and "!=".
var orderPrefixes = []struct {
	op     order
	prefix string
	glob   bool
}{
	{orderFnmatchEqual, "=$", true},
	{orderFnmatchUnequal, "!=$", true},
	{orderLowerOrEqual, "<=", false},
	{orderGreaterOrEqual, ">=", false},
	{orderLower, "<", false},
	{orderGreater, ">", false},
	{orderEqual, "=", false},
	{orderUnequal, "!=", false},
}

// parseOrder consumes a comparator prefix from *s, advancing the
// cursor past it and returning the operator. It returns orderInvalid,
// leaving *s untouched, if no operator is recognized -- including the
// case where a glob operator is present but allowGlob is false.
func parseOrder(s *string, allowGlob bool) order {
	for _, p := range orderPrefixes {
		if p.glob && !allowGlob {
			continue
		}
		if strings.HasPrefix(*s, p.prefix) {
			*s = (*s)[len(p.prefix):]
			return p.op
		}
	}
	return orderInvalid
}

// testOrder folds a three-way comparison result k (negative, zero,
// positive) through the comparator op.
func testOrder(k int, op order) bool {
	switch op {
	case orderLower:
		return k < 0
	case orderLowerOrEqual:
		return k <= 0
	case orderEqual:
		return k == 0
	case orderUnequal:
		return k != 0
	case orderGreaterOrEqual:
		return k >= 0
	case orderGreater:
		return k > 0
	default:
		panic("condition: testOrder called with non-ordering operator")
	}
}

// verscmp implements the GNU strverscmp_improved ordering used to
// compare kernel releases, os-release values and SMBIOS/DMI fields:
// runs of digits normally compare by numeric value (shorter digit run
// wins, since there's no leading zero to strip), but a run starting
// with '0' is treated as a decimal fraction and compared
// lexicographically instead, so that "1.001" < "1.01" < "1.1" even
// though "1.001" is the longest string of the three.
func verscmp(a, b string) int {
	ia, ib := 0, 0
	for ia < len(a) || ib < len(b) {
		// Walk matching non-digit runs byte by byte.
		for ia < len(a) && ib < len(b) && !isDigit(a[ia]) && !isDigit(b[ib]) {
			if a[ia] != b[ib] {
				return int(a[ia]) - int(b[ib])
			}
			ia++
			ib++
		}

		aDigit := ia < len(a) && isDigit(a[ia])
		bDigit := ib < len(b) && isDigit(b[ib])

		if !aDigit && !bDigit {
			// Either both strings are exhausted, or one has
			// leftover non-digit text the other lacks.
			return strings.Compare(a[ia:], b[ib:])
		}
		if aDigit != bDigit {
			// A number outranks a letter or end-of-string.
			if aDigit {
				return -1
			}
			return 1
		}

		aStart := ia
		for ia < len(a) && isDigit(a[ia]) {
			ia++
		}
		bStart := ib
		for ib < len(b) && isDigit(b[ib]) {
			ib++
		}
		aRun, bRun := a[aStart:ia], b[bStart:ib]

		if aRun[0] == '0' || bRun[0] == '0' {
			// Fractional: compare the raw digit text so that more
			// leading zeros sorts lower.
			if c := strings.Compare(aRun, bRun); c != 0 {
				return c
			}
			continue
		}

		// Plain integers, no leading zeros: shorter is smaller.
		if len(aRun) != len(bRun) {
			if len(aRun) < len(bRun) {
				return -1
			}
			return 1
		}
		if c := strings.Compare(aRun, bRun); c != 0 {
			return c
		}
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
