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

type ComparatorTestSuite struct{}

var _ = Suite(&ComparatorTestSuite{})

func (s *ComparatorTestSuite) TestParseOrderLongestPrefixFirst(c *C) {
	cases := []struct {
		input     string
		allowGlob bool
		op        order
		rest      string
	}{
		{"<=5", true, orderLowerOrEqual, "5"},
		{"<5", true, orderLower, "5"},
		{">=5", true, orderGreaterOrEqual, "5"},
		{">5", true, orderGreater, "5"},
		{"=5", true, orderEqual, "5"},
		{"!=5", true, orderUnequal, "5"},
		{"=$*foo*", true, orderFnmatchEqual, "*foo*"},
		{"!=$*foo*", true, orderFnmatchUnequal, "*foo*"},
		// Without allowGlob, glob operators are not recognized at all.
		{"=$*foo*", false, orderInvalid, "=$*foo*"},
		{"!=$*foo*", false, orderInvalid, "!=$*foo*"},
		// "=" must not shadow "=$" when glob is allowed.
		{"=$x", true, orderFnmatchEqual, "x"},
	}
	for _, tc := range cases {
		s := tc.input
		op := parseOrder(&s, tc.allowGlob)
		c.Check(op, Equals, tc.op, Commentf("input=%q allowGlob=%v", tc.input, tc.allowGlob))
		c.Check(s, Equals, tc.rest, Commentf("input=%q allowGlob=%v", tc.input, tc.allowGlob))
	}
}

func (s *ComparatorTestSuite) TestParseOrderNoMatch(c *C) {
	str := "banana"
	op := parseOrder(&str, true)
	c.Check(op, Equals, orderInvalid)
	c.Check(str, Equals, "banana")
}

func (s *ComparatorTestSuite) TestTestOrder(c *C) {
	c.Check(testOrder(-1, orderLower), Equals, true)
	c.Check(testOrder(0, orderLower), Equals, false)
	c.Check(testOrder(0, orderLowerOrEqual), Equals, true)
	c.Check(testOrder(0, orderEqual), Equals, true)
	c.Check(testOrder(1, orderUnequal), Equals, true)
	c.Check(testOrder(1, orderGreaterOrEqual), Equals, true)
	c.Check(testOrder(1, orderGreater), Equals, true)
	c.Check(testOrder(-1, orderGreater), Equals, false)
}

// TestVerscmpLeadingZeroFraction is the vector called out in spec.md
// §9: runs beginning with '0' sort as decimal fractions, so
// "1.001" < "1.01" < "1.1" even though plain numeric-length ordering
// would disagree.
func (s *ComparatorTestSuite) TestVerscmpLeadingZeroFraction(c *C) {
	c.Check(verscmp("1.001", "1.01") < 0, Equals, true)
	c.Check(verscmp("1.01", "1.1") < 0, Equals, true)
	c.Check(verscmp("1.001", "1.1") < 0, Equals, true)
}

func (s *ComparatorTestSuite) TestVerscmpPlainIntegers(c *C) {
	c.Check(verscmp("5.9", "5.10") < 0, Equals, true)
	c.Check(verscmp("5.10", "5.9") > 0, Equals, true)
	c.Check(verscmp("5.10.0", "5.10.0") == 0, Equals, true)
}

func (s *ComparatorTestSuite) TestVerscmpLetterVsNumber(c *C) {
	// A shorter string that simply ends earlier sorts below one with
	// trailing text at the same position.
	c.Check(verscmp("1.0", "1.0a") < 0, Equals, true)
	c.Check(verscmp("1.0a", "1.0") > 0, Equals, true)
	// A digit run outranks a letter run at the same position.
	c.Check(verscmp("1.2", "1.a") < 0, Equals, true)
}

func (s *ComparatorTestSuite) TestVerscmpEquality(c *C) {
	c.Check(verscmp("5.15.0-42-generic", "5.15.0-42-generic"), Equals, 0)
}
