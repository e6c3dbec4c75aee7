// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package parse

import (
	"strings"
)

// shorthandOps maps comparator shorthand to the canonical operator name. The
// percent-escaped bracket forms are folded onto < and > before lookup.
var shorthandOps = map[string]string{
	"=":  "eq",
	"==": "eq",
	"!=": "ne",
	"<":  "lt",
	"<=": "le",
	">":  "gt",
	">=": "ge",
}

// normalizeShorthand rewrites comparator shorthand of the form field<op>value
// into canonical call form, e.g. price>=10 becomes ge(price,10). The scan is
// quote and escape aware so operator characters inside quoted spans are left
// alone. An operator symbol with no mapping, such as =<, is an error.
func normalizeShorthand(text string) (string, error) {
	var out strings.Builder
	// boundary is the offset in out after the last separator; the field of a
	// shorthand comparison stretches from there to the operator.
	boundary := 0
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '\'' || c == '"' {
			end, err := skipQuoted(text, i)
			if err != nil {
				return "", err
			}
			out.WriteString(text[i:end])
			i = end
			// A quoted span cannot be part of a field name.
			boundary = out.Len()
			continue
		}
		if c == '\\' && i+1 < len(text) {
			out.WriteString(text[i : i+2])
			i += 2
			continue
		}
		if symbol, size := scanOpSymbol(text[i:]); size > 0 {
			name, ok := shorthandOps[symbol]
			if !ok {
				return "", parseErrorf("illegal shorthand operator %q", symbol)
			}
			field := out.String()[boundary:]
			if strings.TrimSpace(field) == "" {
				return "", parseErrorf("shorthand operator %q with no field", symbol)
			}
			value, valueEnd, err := scanOpValue(text, i+size)
			if err != nil {
				return "", err
			}
			truncate(&out, boundary)
			out.WriteString(name)
			out.WriteString("(")
			out.WriteString(strings.TrimSpace(field))
			out.WriteString(",")
			out.WriteString(value)
			out.WriteString(")")
			boundary = out.Len()
			i = valueEnd
			continue
		}
		out.WriteByte(c)
		i++
		if isSeparator(c) {
			boundary = out.Len()
		}
	}
	return out.String(), nil
}

func isSeparator(c byte) bool {
	return c == '(' || c == ')' || c == ',' || c == '&' || c == '|'
}

// scanOpSymbol reads a run of comparator characters at the start of text and
// returns its canonical form along with the number of bytes consumed. The
// percent-escaped forms %3C and %3E read as < and >, case-insensitively.
func scanOpSymbol(text string) (string, int) {
	var symbol strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '%' && i+2 < len(text) && text[i+1] == '3' && (text[i+2] == 'C' || text[i+2] == 'c'):
			symbol.WriteByte('<')
			i += 3
		case c == '%' && i+2 < len(text) && text[i+1] == '3' && (text[i+2] == 'E' || text[i+2] == 'e'):
			symbol.WriteByte('>')
			i += 3
		case c == '=' || c == '<' || c == '>' || c == '!':
			symbol.WriteByte(c)
			i++
		default:
			return symbol.String(), i
		}
	}
	return symbol.String(), i
}

// scanOpValue reads the value following a shorthand operator: a quoted span,
// a parenthesised array, or a run of characters up to the next separator.
func scanOpValue(text string, start int) (string, int, error) {
	if start < len(text) {
		switch c := text[start]; {
		case c == '\'' || c == '"':
			end, err := skipQuoted(text, start)
			if err != nil {
				return "", 0, err
			}
			return text[start:end], end, nil
		case c == '(':
			_, n, err := matchGroup(text[start:])
			if err != nil {
				return "", 0, err
			}
			return text[start : start+n], start + n, nil
		}
	}
	i := start
	for i < len(text) {
		c := text[i]
		if c == '\\' && i+1 < len(text) {
			i += 2
			continue
		}
		if isSeparator(c) {
			break
		}
		i++
	}
	return text[start:i], i, nil
}

// skipQuoted returns the offset just past the quoted span opening at i.
func skipQuoted(text string, i int) (int, error) {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j + 1, nil
		}
	}
	return 0, parseErrorf("unterminated quote in %q", text[i:])
}

// truncate resets b to its first n bytes.
func truncate(b *strings.Builder, n int) {
	s := b.String()[:n]
	b.Reset()
	b.WriteString(s)
}
