// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package parse turns RQL query text into an operator tree. Parsing first
// rewrites comparator shorthand into canonical call form, then scans the text
// for operator calls, inserting implicit and/or nodes for the separator
// characters between them.
package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/canonical/rql/internal/expr"
)

// ParseError reports malformed query text: an unterminated group or quote, an
// unmapped shorthand operator, or an argument that cannot be decoded.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string {
	return e.msg
}

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

// Parse parses an RQL query string into an operator tree.
func Parse(text string) (node *expr.Node, err error) {
	defer func() {
		if err != nil {
			err = parseErrorf("cannot parse %q: %s", text, err)
		}
	}()

	if text == "" {
		return nil, parseErrorf("empty query")
	}
	if strings.HasPrefix(text, "?") {
		return nil, parseErrorf("query must not start with ?")
	}
	normalized, err := normalizeShorthand(text)
	if err != nil {
		return nil, err
	}
	return parseAggregate(normalized, "", nil)
}

// parseAggregate scans text assembling one operator node at a time and
// collecting the nodes separated by , & or | into an aggregate and/or node.
// When recursing after a precedence clash op names the aggregate operator of
// the new level and seed is its first argument.
//
// The and operator binds tighter than or. The parser has no binding power
// table: when the separator just read disagrees with the aggregate operator
// already chosen for this level it recurses over the remainder of the text.
// An and level that reads | pushes the accumulated and node down as the first
// argument of a fresh or level; an or level that reads , or & pushes only the
// current node down into a fresh and level and keeps collecting.
func parseAggregate(text string, op string, seed *expr.Node) (*expr.Node, error) {
	var agg *expr.Node
	if op != "" {
		agg = &expr.Node{Name: op, Args: []any{seed}}
	}
	current := &expr.Node{}
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			if current.Args != nil {
				return nil, parseErrorf("unexpected group after %q", current.Name)
			}
			inner, n, err := matchGroup(text[i:])
			if err != nil {
				return nil, err
			}
			args, err := decodeArgs(inner)
			if err != nil {
				return nil, err
			}
			current.Args = args
			i += n
		case c == ',' || c == '&' || c == '|':
			sep := "and"
			if c == '|' {
				sep = "or"
			}
			node, err := finishNode(current)
			if err != nil {
				return nil, err
			}
			switch {
			case agg == nil:
				agg = &expr.Node{Name: sep, Args: []any{node}}
			case agg.Name == sep:
				agg.Args = append(agg.Args, node)
			case sep == "or":
				// This and level becomes the first alternative of an or
				// spanning the rest of the text.
				agg.Args = append(agg.Args, node)
				return parseAggregate(text[i+1:], "or", agg)
			default:
				// The or level continues; only the node just read binds
				// tighter, into a nested and over the rest of the text.
				sub, err := parseAggregate(text[i+1:], "and", node)
				if err != nil {
					return nil, err
				}
				agg.Args = append(agg.Args, sub)
				return agg, nil
			}
			current = &expr.Node{}
			i++
		default:
			if current.Args != nil {
				return nil, parseErrorf("unexpected character %q after group", c)
			}
			current.Name += string(c)
			i++
		}
	}
	if agg == nil {
		return finishNode(current)
	}
	// Flush a trailing partial node into the aggregate.
	if current.Name != "" || current.Args != nil {
		node, err := finishNode(current)
		if err != nil {
			return nil, err
		}
		agg.Args = append(agg.Args, node)
	}
	return agg, nil
}

// finishNode normalizes an assembled node. Operator names read lowercase, and
// a bare parenthesised group around a single nested call unwraps to the call
// itself.
func finishNode(n *expr.Node) (*expr.Node, error) {
	if n.Name == "" && n.Args == nil {
		return nil, parseErrorf("missing expression")
	}
	n.Name = strings.ToLower(n.Name)
	if n.Name == "" && len(n.Args) == 1 {
		if inner, ok := n.Args[0].(*expr.Node); ok {
			return inner, nil
		}
	}
	return n, nil
}

// callPattern matches an operator call at the start of an argument.
var callPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*\(`)

// decodeArgs splits the interior of a group and decodes each top level
// argument.
func decodeArgs(inner string) ([]any, error) {
	if strings.TrimSpace(inner) == "" {
		return []any{}, nil
	}
	parts, err := splitTopLevelArgs(inner)
	if err != nil {
		return nil, err
	}
	args := make([]any, 0, len(parts))
	for _, part := range parts {
		arg, err := decodeArg(part)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// decodeArg decodes one argument: a parenthesised array into a sequence, a
// nested call (or a group of calls) back through the parser, and anything
// else through the literal converter.
func decodeArg(arg string) (any, error) {
	if strings.HasPrefix(arg, "(") {
		inner, n, err := matchGroup(arg)
		if err != nil {
			return nil, err
		}
		if n != len(arg) {
			return nil, parseErrorf("unexpected text after array %q", arg)
		}
		return decodeArgs(inner)
	}
	if callPattern.MatchString(arg) {
		return parseAggregate(arg, "", nil)
	}
	v, err := expr.ConvertLiteral(arg)
	if err != nil {
		return nil, parseErrorf("%s", err)
	}
	return v, nil
}
