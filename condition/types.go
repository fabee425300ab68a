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

// Package condition evaluates lists of unit-activation predicates
// ("conditions") against the current host environment and reports
// whether a higher level object -- a unit, a job, a config block --
// should proceed.
package condition

import (
	"errors"
	"fmt"
)

// Kind identifies which evaluator a Condition routes to.
type Kind int

// The closed enumeration of condition kinds. Order matches the stable
// textual name tables in format.go.
const (
	Architecture Kind = iota
	Firmware
	Virtualization
	Host
	KernelCommandLine
	KernelVersion
	Credential
	Security
	Capability
	ACPower
	NeedsUpdate
	FirstBoot
	PathExists
	PathExistsGlob
	PathIsDirectory
	PathIsSymbolicLink
	PathIsMountPoint
	PathIsReadWrite
	PathIsEncrypted
	DirectoryNotEmpty
	FileNotEmpty
	FileIsExecutable
	User
	Group
	ControlGroupController
	CPUs
	Memory
	Environment
	CPUFeature
	OSRelease
	MemoryPressure
	CPUPressure
	IOPressure

	numKinds
)

// Result is the outcome recorded on a Condition: Untested until
// Evaluate is called on it, then Succeeded, Failed or Error.
type Result int

const (
	Untested Result = iota
	Succeeded
	Failed
	Error
)

var ErrUnknownKind = errors.New("condition: unknown kind")

// ErrUnparsable is returned, unwrapped, by evaluators that reject a
// malformed parameter.
var ErrUnparsable = errors.New("condition: unparsable parameter")

// Condition is a single predicate record: an immutable kind/parameter
// pair plus the trigger/negate participation flags, and a mutable
// result slot set by Evaluate.
type Condition struct {
	Kind      Kind
	Parameter string
	Trigger   bool
	Negate    bool

	result Result
}

// New constructs a Condition. It panics if parameter is empty or kind
// is outside the closed enumeration, mirroring the asserts in the
// original condition_new().
func New(kind Kind, parameter string, trigger, negate bool) *Condition {
	if kind < 0 || kind >= numKinds {
		panic(fmt.Sprintf("condition: invalid kind %d", kind))
	}
	if parameter == "" {
		panic("condition: parameter must not be empty")
	}
	return &Condition{Kind: kind, Parameter: parameter, Trigger: trigger, Negate: negate}
}

// Result returns the condition's current result. It is Untested until
// Evaluate (directly, or via List.Evaluate) has run.
func (c *Condition) Result() Result {
	return c.result
}
