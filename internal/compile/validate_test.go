// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package compile

import (
	. "gopkg.in/check.v1"

	"github.com/canonical/rql/internal/expr"
	"github.com/canonical/rql/internal/parse"
)

type ValidateSuite struct{}

var _ = Suite(&ValidateSuite{})

// Valid trees validate to themselves, unchanged.
var validTests = []string{
	"eq(foo,3)",
	"ne(foo,bar)",
	"in(status,(active,pending))",
	"out(status,gone)",
	"and(eq(a,1),or(eq(b,2),eq(c,3)))",
	"sort(+a,-b)",
	"select(+name,-_id)",
	"limit(10)",
	"limit(10,2)",
	"after(opaque)",
	"before(opaque)",
}

func (s *ValidateSuite) TestValidateIsNoOpOnValidTrees(c *C) {
	for _, input := range validTests {
		node, err := parse.Parse(input)
		c.Assert(err, IsNil, Commentf("input %q", input))
		validated, err := Validate(node)
		c.Assert(err, IsNil, Commentf("input %q", input))
		c.Check(validated, Equals, node, Commentf("input %q", input))
		c.Check(validated.Equal(node), Equals, true, Commentf("input %q", input))
	}
}

var invalidTests = []struct {
	summary  string
	node     *expr.Node
	expected string
}{{
	"nil node",
	nil,
	"not a valid query object",
}, {
	"node with no name",
	&expr.Node{Args: []any{"a"}},
	"not a valid query object",
}, {
	"unknown operator",
	&expr.Node{Name: "frob", Args: []any{"a"}},
	`operator "frob" is not allowed`,
}, {
	"comparison with operator argument",
	&expr.Node{Name: "eq", Args: []any{"a", &expr.Node{Name: "eq", Args: []any{"b", int64(1)}}}},
	`eq: arguments must be scalar, got operator "eq"`,
}, {
	"comparison with operator inside array argument",
	&expr.Node{Name: "in", Args: []any{"a", []any{&expr.Node{Name: "eq"}}}},
	`in: arguments must be scalar, got operator "eq"`,
}, {
	"logical operator with literal argument",
	&expr.Node{Name: "and", Args: []any{"a"}},
	"and: every argument must be an operator, got a",
}, {
	"logical operator with invalid child",
	&expr.Node{Name: "or", Args: []any{&expr.Node{Name: "frob"}}},
	`operator "frob" is not allowed`,
}, {
	"sort with non-string argument",
	&expr.Node{Name: "sort", Args: []any{int64(1)}},
	"sort: every argument must be a string, got 1",
}, {
	"limit with no arguments",
	&expr.Node{Name: "limit"},
	"limit: first argument must be a number",
}, {
	"limit with non-numeric count",
	&expr.Node{Name: "limit", Args: []any{"ten"}},
	"limit: first argument must be a number",
}, {
	"limit with non-numeric skip",
	&expr.Node{Name: "limit", Args: []any{int64(10), "two"}},
	"limit: second argument must be a number",
}, {
	"after with no cursor",
	&expr.Node{Name: "after"},
	"after: missing cursor argument",
}, {
	"before with numeric cursor",
	&expr.Node{Name: "before", Args: []any{int64(3)}},
	"before: cursor must be a string, got 3",
}}

func (s *ValidateSuite) TestValidateErrors(c *C) {
	for _, t := range invalidTests {
		_, err := Validate(t.node)
		c.Assert(err, NotNil, Commentf("test %q failed", t.summary))
		c.Check(err.Error(), Equals, t.expected, Commentf("test %q failed", t.summary))
		_, ok := err.(*ValidationError)
		c.Check(ok, Equals, true, Commentf("test %q failed", t.summary))
	}
}

// Uppercase names are accepted; the grammar is keyed on the lowercase name.
func (s *ValidateSuite) TestValidateFoldsCase(c *C) {
	node := &expr.Node{Name: "EQ", Args: []any{"a", int64(1)}}
	validated, err := Validate(node)
	c.Assert(err, IsNil)
	c.Assert(validated, Equals, node)
}
