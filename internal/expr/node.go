// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"bytes"
	"reflect"
	"regexp"
	"time"
)

// A Node is a single operator call in an RQL operator tree, for example
// eq(name,Fred) or and(gt(age,30),lt(age,40)). The tree is produced by the
// parser or constructed directly by the caller.
type Node struct {
	// Name is the lowercase operator identifier, e.g. "eq", "and", "sort".
	Name string
	// Args holds the arguments in call order. Each element is a nested
	// *Node, a decoded literal value, or a []any holding the elements of a
	// parenthesised array argument. For comparison operators the first
	// argument is the field path and the second the comparison value.
	Args []any
}

// Append adds further arguments to the node. It is a convenience for callers
// that inject paging operators into a parsed tree before compiling it.
func (n *Node) Append(args ...any) *Node {
	n.Args = append(n.Args, args...)
	return n
}

// String returns the canonical RQL text of the tree rooted at n. Values whose
// textual form would not decode back to the same value are printed with an
// explicit type tag, so Parse(n.String()) yields a tree structurally equal
// to n.
func (n *Node) String() string {
	var out bytes.Buffer
	writeNode(&out, n)
	return out.String()
}

func writeNode(out *bytes.Buffer, n *Node) {
	out.WriteString(n.Name)
	out.WriteString("(")
	writeArgs(out, n.Args)
	out.WriteString(")")
}

func writeArgs(out *bytes.Buffer, args []any) {
	for i, arg := range args {
		if i > 0 {
			out.WriteString(",")
		}
		switch a := arg.(type) {
		case *Node:
			writeNode(out, a)
		case []any:
			out.WriteString("(")
			writeArgs(out, a)
			out.WriteString(")")
		default:
			out.WriteString(EncodeLiteral(a))
		}
	}
}

// Equal reports whether two trees are structurally equal: same operator names
// and equal arguments, recursively. Literal arguments are compared by value,
// with times compared on the instant and regular expressions on their source
// text.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Name != other.Name {
		return false
	}
	return equalArgs(n.Args, other.Args)
}

func equalArgs(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalArg(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalArg(a, b any) bool {
	switch av := a.(type) {
	case *Node:
		bv, ok := b.(*Node)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		return ok && equalArgs(av, bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case *regexp.Regexp:
		bv, ok := b.(*regexp.Regexp)
		return ok && av.String() == bv.String()
	default:
		return reflect.DeepEqual(a, b)
	}
}
