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
	"os"
	"path/filepath"
	"strconv"
)

// systemUIDThreshold is the default policy boundary for "@system":
// anything below it is considered a system account.
const systemUIDThreshold = 1000

func evalUser(c *Condition, _ []string, facts Facts) (bool, error) {
	if id, err := strconv.ParseUint(c.Parameter, 10, 32); err == nil {
		uid := uint32(id)
		return uid == facts.CurrentUID() || uid == facts.CurrentEUID(), nil
	}

	if c.Parameter == "@system" {
		return facts.CurrentUID() < systemUIDThreshold || facts.CurrentEUID() < systemUIDThreshold, nil
	}

	username, err := facts.Username()
	if err != nil {
		return false, err
	}
	if username == c.Parameter {
		return true, nil
	}

	// Avoid NSS lookups from PID 1: only the literal name "root" can match.
	if facts.Getpid() == 1 {
		return c.Parameter == "root", nil
	}

	uid, ok := facts.LookupUID(c.Parameter)
	if !ok {
		return false, nil
	}
	return uid == facts.CurrentUID() || uid == facts.CurrentEUID(), nil
}

func evalGroup(c *Condition, _ []string, facts Facts) (bool, error) {
	if id, err := strconv.ParseUint(c.Parameter, 10, 32); err == nil {
		return facts.InGID(uint32(id))
	}

	if facts.Getpid() == 1 {
		return c.Parameter == "root", nil
	}

	return facts.InGroupName(c.Parameter)
}

// credentialNameValid mirrors systemd's filename_is_valid-based check:
// non-empty, no path separators, not "." or "..".
func credentialNameValid(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return name == filepath.Base(name)
}

func evalCredential(c *Condition, _ []string, facts Facts) (bool, error) {
	if !credentialNameValid(c.Parameter) {
		return false, nil
	}

	for _, dir := range []struct {
		get func() (string, bool)
	}{
		{facts.CredentialsDir},
		{facts.EncryptedCredentialsDir},
	} {
		base, ok := dir.get()
		if !ok {
			continue
		}
		if _, err := facts.StatPath(filepath.Join(base, c.Parameter)); err == nil {
			return true, nil
		} else if !os.IsNotExist(err) {
			return false, err
		}
	}
	return false, nil
}
