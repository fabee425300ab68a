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
	"fmt"
	"io"
)

// conditionNames and assertNames mirror each other entry-for-entry;
// the two flavors only differ in the user-visible prefix, the engine
// treats "Condition*" and "Assert*" identically.
var conditionNames = [numKinds]string{
	Architecture:            "ConditionArchitecture",
	Firmware:                "ConditionFirmware",
	Virtualization:          "ConditionVirtualization",
	Host:                    "ConditionHost",
	KernelCommandLine:       "ConditionKernelCommandLine",
	KernelVersion:           "ConditionKernelVersion",
	Credential:              "ConditionCredential",
	Security:                "ConditionSecurity",
	Capability:              "ConditionCapability",
	ACPower:                 "ConditionACPower",
	NeedsUpdate:             "ConditionNeedsUpdate",
	FirstBoot:               "ConditionFirstBoot",
	PathExists:              "ConditionPathExists",
	PathExistsGlob:          "ConditionPathExistsGlob",
	PathIsDirectory:         "ConditionPathIsDirectory",
	PathIsSymbolicLink:      "ConditionPathIsSymbolicLink",
	PathIsMountPoint:        "ConditionPathIsMountPoint",
	PathIsReadWrite:         "ConditionPathIsReadWrite",
	PathIsEncrypted:         "ConditionPathIsEncrypted",
	DirectoryNotEmpty:       "ConditionDirectoryNotEmpty",
	FileNotEmpty:            "ConditionFileNotEmpty",
	FileIsExecutable:        "ConditionFileIsExecutable",
	User:                    "ConditionUser",
	Group:                   "ConditionGroup",
	ControlGroupController:  "ConditionControlGroupController",
	CPUs:                    "ConditionCPUs",
	Memory:                  "ConditionMemory",
	Environment:             "ConditionEnvironment",
	CPUFeature:              "ConditionCPUFeature",
	OSRelease:               "ConditionOSRelease",
	MemoryPressure:          "ConditionMemoryPressure",
	CPUPressure:             "ConditionCPUPressure",
	IOPressure:              "ConditionIOPressure",
}

var assertNames = [numKinds]string{
	Architecture:            "AssertArchitecture",
	Firmware:                "AssertFirmware",
	Virtualization:          "AssertVirtualization",
	Host:                    "AssertHost",
	KernelCommandLine:       "AssertKernelCommandLine",
	KernelVersion:           "AssertKernelVersion",
	Credential:              "AssertCredential",
	Security:                "AssertSecurity",
	Capability:              "AssertCapability",
	ACPower:                 "AssertACPower",
	NeedsUpdate:             "AssertNeedsUpdate",
	FirstBoot:               "AssertFirstBoot",
	PathExists:              "AssertPathExists",
	PathExistsGlob:          "AssertPathExistsGlob",
	PathIsDirectory:         "AssertPathIsDirectory",
	PathIsSymbolicLink:      "AssertPathIsSymbolicLink",
	PathIsMountPoint:        "AssertPathIsMountPoint",
	PathIsReadWrite:         "AssertPathIsReadWrite",
	PathIsEncrypted:         "AssertPathIsEncrypted",
	DirectoryNotEmpty:       "AssertDirectoryNotEmpty",
	FileNotEmpty:            "AssertFileNotEmpty",
	FileIsExecutable:        "AssertFileIsExecutable",
	User:                    "AssertUser",
	Group:                   "AssertGroup",
	ControlGroupController:  "AssertControlGroupController",
	CPUs:                    "AssertCPUs",
	Memory:                  "AssertMemory",
	Environment:             "AssertEnvironment",
	CPUFeature:              "AssertCPUFeature",
	OSRelease:               "AssertOSRelease",
	MemoryPressure:          "AssertMemoryPressure",
	CPUPressure:             "AssertCPUPressure",
	IOPressure:              "AssertIOPressure",
}

var resultNames = [...]string{
	Untested:  "untested",
	Succeeded: "succeeded",
	Failed:    "failed",
	Error:     "error",
}

func kindToConditionString(k Kind) string { return conditionNames[k] }

// KindToConditionString returns the "Condition<Name>" textual form of
// k, e.g. Kind Architecture -> "ConditionArchitecture".
func KindToConditionString(k Kind) string { return conditionNames[k] }

var kindByName map[string]Kind

func init() {
	kindByName = make(map[string]Kind, 2*len(conditionNames))
	for k, name := range conditionNames {
		kindByName[name] = Kind(k)
	}
	for k, name := range assertNames {
		kindByName[name] = Kind(k)
	}
}

// KindFromDirectiveName maps a unit-file directive name, in either its
// "Condition*" or "Assert*" flavor, back to the Kind it routes to.
// Both flavors resolve to the same Kind -- the engine treats them
// identically; the split only matters to the directive's caller
// (Assert failures abort the unit outright, Condition failures merely
// skip it), which is outside the core's scope.
func KindFromDirectiveName(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// KindToAssertString returns the "Assert<Name>" textual form of k.
func KindToAssertString(k Kind) string { return assertNames[k] }

// ResultToString returns the result's textual name.
func ResultToString(r Result) string { return resultNames[r] }

// Dump writes one line per condition to w, in the form:
//
//	<prefix>\t<kind>: [|][!]parameter <result>
//
// using the "Condition*" name flavor.
func (l *List) Dump(w io.Writer, prefix string) error {
	for _, c := range l.conditions {
		_, err := fmt.Fprintf(w, "%s\t%s: %s%s %s\n",
			prefix, kindToConditionString(c.Kind), prefixString(c), c.Parameter, ResultToString(c.result))
		if err != nil {
			return err
		}
	}
	return nil
}
