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
	. "gopkg.in/check.v1"
)

type TypesTestSuite struct{}

var _ = Suite(&TypesTestSuite{})

func (s *TypesTestSuite) TestNewInitialResultIsUntested(c *C) {
	cond := New(PathExists, "/bin/sh", false, false)
	c.Check(cond.Result(), Equals, Untested)
	c.Check(cond.Kind, Equals, PathExists)
	c.Check(cond.Parameter, Equals, "/bin/sh")
}

func (s *TypesTestSuite) TestNewPanicsOnEmptyParameter(c *C) {
	c.Check(func() { New(PathExists, "", false, false) }, Panics, "condition: parameter must not be empty")
}

func (s *TypesTestSuite) TestNewPanicsOnInvalidKind(c *C) {
	c.Check(func() { New(numKinds, "x", false, false) }, PanicMatches, "condition: invalid kind.*")
	c.Check(func() { New(Kind(-1), "x", false, false) }, PanicMatches, "condition: invalid kind.*")
}
