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

package main

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/snapcore/unitcond/condition"
)

func dumpText(path string, list *condition.List) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s:\n", path)
	if err := list.Dump(&buf, "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// yamlDump is the structured shape cmd/unitcond -format=yaml prints,
// one document per evaluated unit file.
type yamlDump struct {
	Unit       string          `yaml:"unit"`
	Verdict    bool            `yaml:"verdict"`
	Conditions []yamlCondition `yaml:"conditions"`
}

type yamlCondition struct {
	Kind      string `yaml:"kind"`
	Parameter string `yaml:"parameter"`
	Trigger   bool   `yaml:"trigger,omitempty"`
	Negate    bool   `yaml:"negate,omitempty"`
	Result    string `yaml:"result"`
}

func dumpYAML(path string, verdict bool, list *condition.List) (string, error) {
	d := yamlDump{Unit: path, Verdict: verdict}
	for _, c := range list.Conditions() {
		d.Conditions = append(d.Conditions, yamlCondition{
			Kind:      condition.KindToConditionString(c.Kind),
			Parameter: c.Parameter,
			Trigger:   c.Trigger,
			Negate:    c.Negate,
			Result:    condition.ResultToString(c.Result()),
		})
	}
	out, err := yaml.Marshal(&d)
	if err != nil {
		return "", fmt.Errorf("cannot marshal yaml dump: %w", err)
	}
	return string(out), nil
}
