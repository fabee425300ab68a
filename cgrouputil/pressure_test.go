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

package cgrouputil_test

import (
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"

	"github.com/snapcore/unitcond/cgrouputil"
)

func (s *cgrouputilSuite) TestReadPressureFallsBackToSomeLine(c *C) {
	path := filepath.Join(c.MkDir(), "io.pressure")
	c.Assert(os.WriteFile(path, []byte("some avg10=1.50 avg60=2.00 avg300=0.00 total=123\n"), 0644), IsNil)

	p, err := cgrouputil.ReadPressure(path, true)
	c.Assert(err, IsNil)
	c.Check(p.Avg10, Equals, uint32(150))
	c.Check(p.Avg60, Equals, uint32(200))
	c.Check(p.Avg300, Equals, uint32(0))
}

func (s *cgrouputilSuite) TestReadPressurePrefersFullLineWhenRequested(c *C) {
	path := filepath.Join(c.MkDir(), "memory.pressure")
	c.Assert(os.WriteFile(path,
		[]byte("some avg10=9.99 avg60=9.99 avg300=9.99 total=1\nfull avg10=0.01 avg60=0.02 avg300=0.03 total=1\n"), 0644), IsNil)

	p, err := cgrouputil.ReadPressure(path, true)
	c.Assert(err, IsNil)
	c.Check(p.Avg10, Equals, uint32(1))
	c.Check(p.Avg60, Equals, uint32(2))
	c.Check(p.Avg300, Equals, uint32(3))
}

func (s *cgrouputilSuite) TestReadPressureNotFoundPropagatesError(c *C) {
	_, err := cgrouputil.ReadPressure(filepath.Join(c.MkDir(), "missing"), false)
	c.Check(err, NotNil)
}
