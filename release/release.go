// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2016 Canonical Ltd
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

// Package release exposes facts about the operating system release and
// the virtualized/containerized environment snapd (and, here,
// unitcond) is running under.
package release

import (
	"bufio"
	"os"
	"strings"

	"github.com/snapcore/unitcond/dirs"
)

// OS holds the fields of /etc/os-release this module cares about.
type OS struct {
	ID        string
	IDLike    []string
	VersionID string
}

var osReleasePath = "/etc/os-release"

// ReleaseInfo is the parsed content of /etc/os-release, keyed exactly
// as found in the file (no case-folding).
type ReleaseInfo map[string]string

// Lookup returns the raw (still-quoted-stripped) value for key, and
// whether the key was present.
func (r ReleaseInfo) Lookup(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

var osReleaseInfo ReleaseInfo

func init() {
	osReleaseInfo, _ = readOSRelease(osReleasePath)
}

func readOSRelease(path string) (ReleaseInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReleaseInfo{}, err
	}
	defer f.Close()

	info := ReleaseInfo{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		info[k] = unquote(v)
	}
	return info, scanner.Err()
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// ParseOSRelease returns the value of key in /etc/os-release (rooted
// under dirs.GlobalRootDir), reading fresh every call so tests that
// call dirs.SetRootDir see their fixture.
func ParseOSRelease(key string) (string, bool) {
	info, err := readOSRelease(dirs.PathTo("/etc/os-release"))
	if err != nil {
		return "", false
	}
	return info.Lookup(key)
}

// MockOSReleaseInfo overrides the package-level cached os-release
// info, for code paths that read the package var directly.
func MockOSReleaseInfo(info ReleaseInfo) (restore func()) {
	old := osReleaseInfo
	osReleaseInfo = info
	return func() { osReleaseInfo = old }
}

// OnClassic is true when running on a traditional (non-Ubuntu-Core)
// distribution, determined by the absence of a "core"-family os-release.
func OnClassic() bool {
	id, _ := osReleaseInfo.Lookup("ID")
	return id != "ubuntu-core"
}
