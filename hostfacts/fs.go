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

package hostfacts

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/snapcore/unitcond/dirs"
	"github.com/snapcore/unitcond/osutil"
	"github.com/snapcore/unitcond/release"
)

func releaseLookup(key string) (string, bool) {
	return release.ParseOSRelease(key)
}

func statPath(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (Host) StatPath(path string) (os.FileInfo, error) {
	return os.Stat(dirs.PathTo(path))
}

func (Host) IsDir(path string) (bool, error) {
	info, err := os.Stat(dirs.PathTo(path))
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (Host) IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(dirs.PathTo(path))
	if err != nil {
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

func (Host) GlobExists(pattern string) (bool, error) {
	return globMatch(pattern)
}

func (Host) DirIsEmpty(path string) (bool, error) {
	entries, err := ioutil.ReadDir(dirs.PathTo(path))
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// PathIsMountPoint reports whether path is a mount point, by comparing
// its device number against its parent directory's.
func (Host) PathIsMountPoint(path string) (bool, error) {
	full := dirs.PathTo(path)
	var st, parentSt unix.Stat_t
	if err := unix.Lstat(full, &st); err != nil {
		return false, err
	}
	if err := unix.Lstat(filepath.Dir(full), &parentSt); err != nil {
		return false, err
	}
	return st.Dev != parentSt.Dev, nil
}

const statRdonly = 0x1 // ST_RDONLY, matches unix.ST_RDONLY

func (Host) PathIsReadOnlyFS(path string) (bool, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dirs.PathTo(path), &st); err != nil {
		return false, err
	}
	return uint64(st.Flags)&statRdonly != 0, nil
}

// PathIsEncrypted makes a best-effort guess at whether path sits on an
// encrypted block device, by looking at the mount entry's source and
// superblock options; it cannot see fscrypt per-directory encryption,
// which has no stable userspace-visible marker short of the ioctl API.
func (Host) PathIsEncrypted(path string) (bool, error) {
	full := dirs.PathTo(path)
	entries, err := osutil.LoadMountInfo()
	if err != nil {
		return false, err
	}
	bestLen := -1
	var bestEntry *osutil.MountInfoEntry
	for _, e := range entries {
		if (full == e.MountDir || strings.HasPrefix(full, strings.TrimSuffix(e.MountDir, "/")+"/")) && len(e.MountDir) > bestLen {
			bestLen = len(e.MountDir)
			bestEntry = e
		}
	}
	if bestEntry == nil {
		return false, nil
	}
	if bestEntry.FsType == "crypto_LUKS" {
		return true, nil
	}
	if strings.Contains(bestEntry.MountSource, "dm-crypt") || strings.HasPrefix(bestEntry.MountSource, "/dev/mapper/") {
		return true, nil
	}
	for _, opt := range bestEntry.SuperOptions {
		if strings.HasPrefix(opt, "encryption=") {
			return true, nil
		}
	}
	return false, nil
}
