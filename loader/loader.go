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

// Package loader turns a systemd-unit-shaped configuration file into a
// condition.List. spec.md explicitly keeps "configuration file parsing
// / unit loading" out of the condition engine's core; this package is
// the external collaborator the core expects to be handed an
// already-parsed list by. It is layered strictly on top of
// github.com/snapcore/unitcond/condition and never reaches into its
// unexported internals.
package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/coreos/go-systemd/unit"

	"github.com/snapcore/unitcond/condition"
)

// FromReader parses a unit file from r and returns every
// Condition*=/Assert*= directive found in its [Unit] section, in
// file order, as a condition.List. Directives outside [Unit], and
// directives whose name isn't a known condition kind, are ignored --
// this package only ever looks at the handful of keys it understands,
// the same way systemd's unit file parser dispatches unrecognized
// keys to other subsystems instead of erroring out.
func FromReader(r io.Reader) (*condition.List, error) {
	opts, err := unit.Deserialize(r)
	if err != nil {
		return nil, fmt.Errorf("loader: cannot parse unit file: %w", err)
	}

	list := condition.NewList()
	for _, opt := range opts {
		if opt.Section != "Unit" {
			continue
		}
		kind, ok := condition.KindFromDirectiveName(opt.Name)
		if !ok {
			continue
		}
		cond, err := parseDirective(kind, opt.Value)
		if err != nil {
			return nil, fmt.Errorf("loader: %s=%s: %w", opt.Name, opt.Value, err)
		}
		if cond != nil {
			list.Add(cond)
		}
	}
	return list, nil
}

// parseDirective splits a directive value's "[|][!]parameter" prefix
// syntax (spec.md §1) into the trigger/negate flags condition.New
// wants. An empty value is the systemd convention for "clear every
// condition of this kind seen so far in this section" -- this loader
// has no mutable accumulator to clear, so it's simply skipped.
func parseDirective(kind condition.Kind, value string) (*condition.Condition, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	trigger := strings.HasPrefix(value, "|")
	if trigger {
		value = value[1:]
	}
	negate := strings.HasPrefix(value, "!")
	if negate {
		value = value[1:]
	}
	if value == "" {
		return nil, fmt.Errorf("empty parameter")
	}
	return condition.New(kind, value, trigger, negate), nil
}
