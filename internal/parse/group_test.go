// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package parse

import (
	. "gopkg.in/check.v1"
)

type GroupSuite struct{}

var _ = Suite(&GroupSuite{})

var matchGroupTests = []struct {
	summary  string
	input    string
	expected string
	consumed int
}{{
	"simple group",
	"(a,b)",
	"a,b",
	5,
}, {
	"nested group",
	"(a,(b,c),d)",
	"a,(b,c),d",
	11,
}, {
	"close paren inside single quotes",
	"(a,'b)c')",
	"a,'b)c'",
	9,
}, {
	"close paren inside double quotes",
	`(a,"b)c")`,
	`a,"b)c"`,
	9,
}, {
	"escaped close paren",
	`(a,b\)c)`,
	`a,b\)c`,
	8,
}, {
	"trailing text is not consumed",
	"(a,b),eq(c,d)",
	"a,b",
	5,
}}

func (s *GroupSuite) TestMatchGroup(c *C) {
	for _, t := range matchGroupTests {
		inner, n, err := matchGroup(t.input)
		c.Assert(err, IsNil, Commentf("test %q failed (input %q)", t.summary, t.input))
		c.Check(inner, Equals, t.expected, Commentf("test %q failed (input %q)", t.summary, t.input))
		c.Check(n, Equals, t.consumed, Commentf("test %q failed (input %q)", t.summary, t.input))
	}
}

func (s *GroupSuite) TestMatchGroupErrors(c *C) {
	_, _, err := matchGroup("(a,b")
	c.Assert(err, ErrorMatches, `unterminated group "\(a,b"`)

	_, _, err = matchGroup("a,b)")
	c.Assert(err, ErrorMatches, "expected a group")
}

var splitTests = []struct {
	summary  string
	input    string
	expected []string
}{{
	"simple arguments",
	"a,b,c",
	[]string{"a", "b", "c"},
}, {
	"nested call stays together",
	"eq(a,1),eq(b,2)",
	[]string{"eq(a,1)", "eq(b,2)"},
}, {
	"array argument stays together",
	"status,(active,pending)",
	[]string{"status", "(active,pending)"},
}, {
	"comma inside quotes does not split",
	"a,'b,c',d",
	[]string{"a", "b,c", "d"},
}, {
	"escaped comma does not split",
	`a,b\,c`,
	[]string{"a", `b\,c`},
}, {
	"leading spaces are skipped",
	"a, b,  c",
	[]string{"a", "b", "c"},
}, {
	"trailing whitespace is trimmed",
	"a ,b\t,c",
	[]string{"a", "b", "c"},
}, {
	"surrounding quotes are stripped",
	`'a b',"c d"`,
	[]string{"a b", "c d"},
}, {
	"interior quotes are kept",
	`a'b c'`,
	[]string{`a'b c'`},
}, {
	"empty argument",
	"a,,b",
	[]string{"a", "", "b"},
}}

func (s *GroupSuite) TestSplitTopLevelArgs(c *C) {
	for _, t := range splitTests {
		args, err := splitTopLevelArgs(t.input)
		c.Assert(err, IsNil, Commentf("test %q failed (input %q)", t.summary, t.input))
		c.Check(args, DeepEquals, t.expected, Commentf("test %q failed (input %q)", t.summary, t.input))
	}
}
