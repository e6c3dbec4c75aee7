// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package compile

import (
	"strings"

	"github.com/canonical/rql/internal/expr"
)

// Validate checks the tree rooted at node against the per-operator grammar
// rules and returns it unchanged. Validation recurses through and/or but not
// into comparison arguments, which must be scalar by rule.
func Validate(node *expr.Node) (*expr.Node, error) {
	if node == nil || node.Name == "" {
		return nil, validationErrorf("not a valid query object")
	}
	name := strings.ToLower(node.Name)
	switch name {
	case "eq", "ne", "in", "out", "le", "lt", "gt", "ge":
		if err := validateScalarArgs(name, node.Args); err != nil {
			return nil, err
		}
	case "and", "or":
		for _, arg := range node.Args {
			child, ok := arg.(*expr.Node)
			if !ok {
				return nil, validationErrorf("%s: every argument must be an operator, got %v", name, arg)
			}
			if _, err := Validate(child); err != nil {
				return nil, err
			}
		}
	case "sort", "select":
		for _, arg := range node.Args {
			if _, ok := arg.(string); !ok {
				return nil, validationErrorf("%s: every argument must be a string, got %v", name, arg)
			}
		}
	case "limit":
		if len(node.Args) == 0 || !isNumber(node.Args[0]) {
			return nil, validationErrorf("limit: first argument must be a number")
		}
		if len(node.Args) > 1 && !isNumber(node.Args[1]) {
			return nil, validationErrorf("limit: second argument must be a number")
		}
	case "after", "before":
		if len(node.Args) == 0 {
			return nil, validationErrorf("%s: missing cursor argument", name)
		}
		if _, ok := node.Args[0].(string); !ok {
			return nil, validationErrorf("%s: cursor must be a string, got %v", name, node.Args[0])
		}
	default:
		return nil, validationErrorf("operator %q is not allowed", node.Name)
	}
	return node, nil
}

// validateScalarArgs rejects operator nodes among the arguments of a
// comparison, including inside array arguments.
func validateScalarArgs(name string, args []any) error {
	for _, arg := range args {
		switch a := arg.(type) {
		case *expr.Node:
			return validationErrorf("%s: arguments must be scalar, got operator %q", name, a.Name)
		case []any:
			if err := validateScalarArgs(name, a); err != nil {
				return err
			}
		}
	}
	return nil
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	}
	return false
}
