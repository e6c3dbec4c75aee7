// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package parse

import (
	"strings"
)

// matchGroup returns the text strictly between the opening parenthesis at the
// start of text and its matching close, along with the number of bytes
// consumed including both parentheses. Nested groups, single and double
// quoted spans and backslash escapes are respected, so delimiters inside a
// quoted or escaped region do not count.
func matchGroup(text string) (inner string, n int, err error) {
	if len(text) == 0 || text[0] != '(' {
		return "", 0, parseErrorf("expected a group")
	}
	depth := 0
	var quote byte
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return text[1:i], i + 1, nil
			}
		}
	}
	return "", 0, parseErrorf("unterminated group %q", text)
}

// splitTopLevelArgs splits the interior of a group into its top level
// arguments at commas, honouring the same quote, escape and nesting rules as
// matchGroup. Leading spaces before an argument are skipped, trailing
// whitespace is trimmed, and a matching pair of quotes surrounding a whole
// argument is stripped.
func splitTopLevelArgs(text string) ([]string, error) {
	var args []string
	depth := 0
	var quote byte
	escaped := false
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return nil, parseErrorf("unbalanced parentheses in %q", text)
			}
		case c == ',' && depth == 0:
			args = append(args, trimArg(text[start:i]))
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, parseErrorf("unterminated quote in %q", text)
	}
	if depth != 0 {
		return nil, parseErrorf("unbalanced parentheses in %q", text)
	}
	args = append(args, trimArg(text[start:]))
	return args, nil
}

// trimArg removes the surrounding space of an argument and strips one
// matching pair of surrounding quotes.
func trimArg(arg string) string {
	arg = strings.TrimLeft(arg, " ")
	arg = strings.TrimRight(arg, " \t")
	if len(arg) >= 2 {
		if first, last := arg[0], arg[len(arg)-1]; first == last && (first == '\'' || first == '"') {
			return arg[1 : len(arg)-1]
		}
	}
	return arg
}
