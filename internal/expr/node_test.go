// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"regexp"
	"time"

	. "gopkg.in/check.v1"
)

type NodeSuite struct{}

var _ = Suite(&NodeSuite{})

var encodeLiteralTests = []struct {
	summary  string
	input    any
	expected string
}{{
	"plain string",
	"fred",
	"fred",
}, {
	"empty string",
	"",
	"''",
}, {
	"nil",
	nil,
	"null",
}, {
	"boolean",
	true,
	"true",
}, {
	"integer",
	int64(42),
	"42",
}, {
	"float",
	float64(2.5),
	"2.5",
}, {
	"numeric string needs a tag",
	"3",
	"string:3",
}, {
	"boolean string needs a tag",
	"true",
	"string:true",
}, {
	"string with a tag prefix shape needs a tag",
	"foo:bar",
	"string:foo:bar",
}, {
	"string with separators is quoted",
	"a,b",
	"'a,b'",
}, {
	"string with comparator characters is quoted",
	"a<b",
	"'a<b'",
}, {
	"string with a quote has it percent-encoded",
	"it's",
	"it%27s",
}, {
	"quote wrapped string needs a tag",
	"'fred'",
	"string:%27fred%27",
}, {
	"date",
	time.Date(2023, 1, 2, 10, 30, 0, 0, time.UTC),
	"date:2023-01-02T10:30:00Z",
}, {
	"case insensitive regular expression",
	regexp.MustCompile("(?i)^fred"),
	"re:^fred",
}, {
	"case sensitive regular expression",
	regexp.MustCompile("^Fred"),
	"RE:^Fred",
}, {
	"json value",
	map[string]any{"a": float64(1)},
	`'json:{"a":1}'`,
}}

func (s *NodeSuite) TestEncodeLiteral(c *C) {
	for _, t := range encodeLiteralTests {
		c.Check(EncodeLiteral(t.input), Equals, t.expected,
			Commentf("test %q failed (input %#v)", t.summary, t.input))
	}
}

// Encoded literals must decode back to the value they were produced from.
func (s *NodeSuite) TestEncodeLiteralRoundTrip(c *C) {
	for _, t := range encodeLiteralTests {
		encoded := EncodeLiteral(t.input)
		// The tokenizer strips a surrounding quote pair before the literal
		// converter runs.
		if len(encoded) >= 2 && encoded[0] == '\'' && encoded[len(encoded)-1] == '\'' {
			encoded = encoded[1 : len(encoded)-1]
		}
		v, err := ConvertLiteral(encoded)
		c.Assert(err, IsNil, Commentf("test %q failed (encoded %q)", t.summary, encoded))
		c.Check(equalArg(v, t.input), Equals, true,
			Commentf("test %q: got %#v, want %#v", t.summary, v, t.input))
	}
}

func (s *NodeSuite) TestNodeString(c *C) {
	node := &Node{Name: "and", Args: []any{
		&Node{Name: "eq", Args: []any{"status", "active"}},
		&Node{Name: "in", Args: []any{"tier", []any{int64(1), int64(2)}}},
		&Node{Name: "sort", Args: []any{"-age"}},
	}}
	c.Assert(node.String(), Equals, "and(eq(status,active),in(tier,(1,2)),sort(-age))")
}

func (s *NodeSuite) TestNodeEqual(c *C) {
	a := &Node{Name: "and", Args: []any{
		&Node{Name: "gt", Args: []any{"age", int64(30)}},
		&Node{Name: "eq", Args: []any{"when", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)}},
	}}
	b := &Node{Name: "and", Args: []any{
		&Node{Name: "gt", Args: []any{"age", int64(30)}},
		&Node{Name: "eq", Args: []any{"when", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)}},
	}}
	c.Assert(a.Equal(b), Equals, true)

	b.Args[0].(*Node).Args[1] = int64(31)
	c.Assert(a.Equal(b), Equals, false)

	c.Assert(a.Equal(nil), Equals, false)
	c.Assert((*Node)(nil).Equal(nil), Equals, true)
}

func (s *NodeSuite) TestAppend(c *C) {
	node := &Node{Name: "eq", Args: []any{"a", int64(1)}}
	paged := &Node{Name: "and", Args: []any{node}}
	paged.Append(&Node{Name: "limit", Args: []any{int64(10), int64(2)}})
	c.Assert(paged.String(), Equals, "and(eq(a,1),limit(10,2))")
}
