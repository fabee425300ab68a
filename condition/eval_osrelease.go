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

func isEnvNameValid(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		alpha := c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_'
		digit := c >= '0' && c <= '9'
		if i == 0 {
			if !alpha {
				return false
			}
			continue
		}
		if !alpha && !digit {
			return false
		}
	}
	return true
}

// evalOSRelease evaluates a sequence of whitespace-separated
// KEY<op>VALUE items with no whitespace allowed between the operator
// and the value. All items must match.
func evalOSRelease(c *Condition, _ []string, facts Facts) (bool, error) {
	for _, item := range strings.Fields(c.Parameter) {
		rest := item
		key, op, val, ok := splitOSReleaseItem(rest)
		if !ok {
			return false, ErrUnparsable
		}

		actual, _ := facts.ParseOSRelease(key)

		var matches bool
		switch op {
		case orderEqual:
			matches = actual == val
		case orderUnequal:
			matches = actual != val
		default:
			matches = testOrder(verscmp(actual, val), op)
		}
		if !matches {
			return false, nil
		}
	}
	return true, nil
}

// splitOSReleaseItem splits "KEY<op>VALUE" into its three parts. The
// key must be a valid environment-variable-style name, and the
// operator must directly touch the value (no whitespace), matching
// the narrower os-release item grammar.
func splitOSReleaseItem(item string) (key string, op order, val string, ok bool) {
	cut := strings.IndexAny(item, "!<=>")
	if cut < 0 {
		return "", orderInvalid, "", false
	}
	key = item[:cut]
	if !isEnvNameValid(key) {
		return "", orderInvalid, "", false
	}
	rest := item[cut:]
	o := parseOrder(&rest, false)
	if o == orderInvalid || rest == "" {
		return "", orderInvalid, "", false
	}
	return key, o, rest, true
}
