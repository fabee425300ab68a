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

import "os"

func evalPathExists(c *Condition, _ []string, facts Facts) (bool, error) {
	_, err := facts.StatPath(c.Parameter)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func evalPathExistsGlob(c *Condition, _ []string, facts Facts) (bool, error) {
	return facts.GlobExists(c.Parameter)
}

func evalPathIsDirectory(c *Condition, _ []string, facts Facts) (bool, error) {
	return facts.IsDir(c.Parameter)
}

func evalPathIsSymbolicLink(c *Condition, _ []string, facts Facts) (bool, error) {
	return facts.IsSymlink(c.Parameter)
}

func evalPathIsMountPoint(c *Condition, _ []string, facts Facts) (bool, error) {
	return facts.PathIsMountPoint(c.Parameter)
}

// evalPathIsReadWrite is true iff the containing filesystem is not
// read-only. A missing path counts as read-write: there's no
// filesystem to be read-only about, so don't block on it.
func evalPathIsReadWrite(c *Condition, _ []string, facts Facts) (bool, error) {
	ro, err := facts.PathIsReadOnlyFS(c.Parameter)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return !ro, nil
}

func evalPathIsEncrypted(c *Condition, _ []string, facts Facts) (bool, error) {
	enc, err := facts.PathIsEncrypted(c.Parameter)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return enc, nil
}

func evalDirectoryNotEmpty(c *Condition, _ []string, facts Facts) (bool, error) {
	empty, err := facts.DirIsEmpty(c.Parameter)
	if err != nil {
		return false, nil
	}
	return !empty, nil
}

func evalFileNotEmpty(c *Condition, _ []string, facts Facts) (bool, error) {
	info, err := facts.StatPath(c.Parameter)
	if err != nil {
		return false, nil
	}
	return info.Mode().IsRegular() && info.Size() > 0, nil
}

func evalFileIsExecutable(c *Condition, _ []string, facts Facts) (bool, error) {
	info, err := facts.StatPath(c.Parameter)
	if err != nil {
		return false, nil
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0, nil
}
