// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package rql

import (
	"github.com/canonical/rql/internal/compile"
	"github.com/canonical/rql/internal/expr"
	"github.com/canonical/rql/internal/parse"
)

// Node is a single operator call in a parsed query. Trees may also be built
// directly and passed to [Validate] or [Compile], and a parsed tree may have
// further arguments appended before compilation, for example to inject
// paging operators.
type Node = expr.Node

// Query is the descriptor compiled from an operator tree, holding the
// criteria, sort order, projection, result window and pagination cursors for
// a document store query layer.
type Query = compile.Query

// SortOrder is one entry of a Query's sort sequence.
type SortOrder = compile.SortOrder

// ParseError reports malformed query text.
type ParseError = parse.ParseError

// ValidationError reports a tree that breaks the operator grammar.
type ValidationError = compile.ValidationError

// ConflictError reports constraints that cannot be combined on one field.
type ConflictError = compile.ConflictError

// Parse parses an RQL query string into an operator tree. It returns a
// *ParseError if the text is malformed.
func Parse(query string) (*Node, error) {
	return parse.Parse(query)
}

// MustParse is the same as [Parse] except that it panics on error.
func MustParse(query string) *Node {
	node, err := parse.Parse(query)
	if err != nil {
		panic(err)
	}
	return node
}

// Validate checks an operator tree against the grammar and returns it
// unchanged. Validating an already valid tree is a no-op, so Validate is
// idempotent. It returns a *ValidationError on failure.
func Validate(node *Node) (*Node, error) {
	return compile.Validate(node)
}

// Compile validates an operator tree and lowers it into a [Query]. It
// returns a *ValidationError or *ConflictError on failure; no partial Query
// is ever returned.
func Compile(node *Node) (*Query, error) {
	return compile.Compile(node)
}

// Convert parses, validates and compiles a query string in one call.
func Convert(query string) (*Query, error) {
	node, err := parse.Parse(query)
	if err != nil {
		return nil, err
	}
	return compile.Compile(node)
}
