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
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// splitCmdline tokenizes a kernel command line the way the kernel
// itself does: whitespace-separated words, with single or double
// quotes allowed to embed whitespace in a value.
func splitCmdline(s string) []string {
	var words []string
	var b strings.Builder
	var quote byte
	inWord := false
	flush := func() {
		if inWord {
			words = append(words, b.String())
			b.Reset()
			inWord = false
		}
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				b.WriteByte(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			inWord = true
		case ch == ' ' || ch == '\t' || ch == '\n':
			flush()
		default:
			inWord = true
			b.WriteByte(ch)
		}
	}
	flush()
	return words
}

// matchWordList implements the shared KernelCommandLine/Environment
// rule: if parameter has a "=", the word must match it exactly;
// otherwise a bare word equal to parameter, or one that starts with
// "parameter=", matches.
func matchWordList(words []string, parameter string) bool {
	if strings.Contains(parameter, "=") {
		for _, w := range words {
			if w == parameter {
				return true
			}
		}
		return false
	}
	prefix := parameter + "="
	for _, w := range words {
		if w == parameter || strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}

func evalKernelCommandLine(c *Condition, _ []string, facts Facts) (bool, error) {
	cmdline, err := facts.ProcCmdline()
	if err != nil {
		return false, err
	}
	return matchWordList(splitCmdline(cmdline), c.Parameter), nil
}

func evalEnvironment(c *Condition, env []string, _ Facts) (bool, error) {
	return matchWordList(env, c.Parameter), nil
}

// evalKernelVersion evaluates a whitespace-separated list of
// sub-expressions, ANDing them together. Each sub-expression is either
// a comparator+value, version-compared against uname release, or a
// bare glob matched against it. Only the first sub-expression may use
// the legacy "comparator SPACE value" form (e.g. ">= 5.10"); later
// ones must have no space between operator and value.
func evalKernelVersion(c *Condition, _ []string, facts Facts) (bool, error) {
	release, err := facts.UnameRelease()
	if err != nil {
		return false, err
	}

	fields := strings.Fields(c.Parameter)
	if len(fields) == 0 {
		return false, ErrUnparsable
	}

	for i := 0; i < len(fields); i++ {
		expr := fields[i]
		rest := expr
		op := parseOrder(&rest, false)
		if op == orderInvalid {
			// Bare glob sub-expression.
			ok, err := doublestar.Match(expr, release)
			if err != nil {
				return false, ErrUnparsable
			}
			if !ok {
				return false, nil
			}
			continue
		}
		if rest == "" {
			// Legacy "OP value" form, only valid for the first clause.
			if i != 0 || i+1 >= len(fields) {
				return false, ErrUnparsable
			}
			i++
			rest = fields[i]
		}
		if !testOrder(verscmp(release, rest), op) {
			return false, nil
		}
	}
	return true, nil
}
