// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package compile checks an RQL operator tree against the grammar and lowers
// it into a query descriptor for a document store.
package compile

import (
	"fmt"
)

// SortOrder is one entry of a query's sort sequence.
type SortOrder struct {
	// Field is the dotted field path to order by.
	Field string
	// Direction is 1 for ascending, -1 for descending.
	Direction int
}

// Query is the descriptor compiled from an operator tree. It is consumed by
// a document store query layer and never partially exposed: Compile either
// returns a fully built Query or an error.
type Query struct {
	// Criteria maps dotted field paths to either a literal value (an exact
	// match) or a map of comparison operator tags to values. Disjunctions
	// are collected under the "$or" key.
	Criteria map[string]any
	// Sort lists the sort fields in priority order.
	Sort []SortOrder
	// Projection maps field paths to an inclusion flag: 1 keeps the field,
	// 0 drops it. Inclusion and exclusion may not be mixed, except to drop
	// the identifier field from an inclusion projection.
	Projection map[string]int
	// Limit bounds the result set size; zero means unbounded. Skip is the
	// number of leading results to pass over.
	Limit int64
	Skip  int64
	// After and Before carry opaque pagination cursors, verbatim from the
	// query. They are not interpreted or reconciled here.
	After  string
	Before string
}

// ValidationError reports a well formed tree that breaks the grammar: an
// unknown operator, a wrong argument type or arity, or an illegal projection
// mix.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a grammatically valid tree whose constraints
// conflict: the same field received both an exact match and a range or set
// constraint.
type ConflictError struct {
	// Field is the field path with the conflicting constraints.
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting constraints for field %q: eq is exclusive with range and set operators", e.Field)
}
