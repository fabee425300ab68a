// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2017-2018 Canonical Ltd
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

package osutil

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
)

// MountInfoEntry is one parsed row of /proc/self/mountinfo. Only the
// fields callers actually need are kept; see proc(5) for the rest.
type MountInfoEntry struct {
	MountDir       string
	MountSource    string
	FsType         string
	SuperOptions   []string
	OptionalFields []string
}

// mountInfoPath is a var so MockMountInfo can redirect it to a scratch
// file instead of the real procfs entry.
var mountInfoPath = "/proc/self/mountinfo"

// LoadMountInfo reads and parses /proc/self/mountinfo (or whatever
// MockMountInfo last set up).
func LoadMountInfo() ([]*MountInfoEntry, error) {
	f, err := os.Open(mountInfoPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []*MountInfoEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseMountInfoLine(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// parseMountInfoLine parses one mountinfo row:
//
//	36 35 98:0 /mnt1 /mnt2 rw,noatime master:1 - ext3 /dev/root rw,errors=continue
//
// fields up to the literal "-" separator are optional fields, the three
// after it are fstype, mount source and super options.
func parseMountInfoLine(line string) (*MountInfoEntry, error) {
	fields := strings.Fields(line)
	if len(fields) < 10 {
		return nil, fmt.Errorf("osutil: malformed mountinfo line: %q", line)
	}

	sep := -1
	for i := 6; i < len(fields); i++ {
		if fields[i] == "-" {
			sep = i
			break
		}
	}
	if sep < 0 || len(fields) < sep+4 {
		return nil, fmt.Errorf("osutil: malformed mountinfo line: %q", line)
	}

	entry := &MountInfoEntry{
		MountDir:       fields[4],
		OptionalFields: fields[6:sep],
		FsType:         fields[sep+1],
		MountSource:    fields[sep+2],
		SuperOptions:   strings.Split(fields[sep+3], ","),
	}
	return entry, nil
}

// MockMountInfo replaces the contents of /proc/self/mountinfo (as seen
// by LoadMountInfo) with the given text, for use in tests.
func MockMountInfo(content string) (restore func()) {
	f, err := ioutil.TempFile("", "mountinfo")
	if err != nil {
		panic(err)
	}
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	f.Close()

	old := mountInfoPath
	mountInfoPath = f.Name()
	return func() {
		os.Remove(f.Name())
		mountInfoPath = old
	}
}
