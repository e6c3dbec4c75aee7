// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EncodeLiteral renders a typed value as RQL argument text that decodes back
// to an equal value. Values whose plain form would be auto-decoded to a
// different type are printed with an explicit type tag, and values containing
// characters meaningful to the tokenizer are quoted with the unsafe
// characters percent-encoded.
func EncodeLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return encodeFloat(val)
	case time.Time:
		return "date:" + val.UTC().Format(time.RFC3339Nano)
	case *regexp.Regexp:
		return encodeRegexp(val)
	case string:
		return encodeString(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return encodeString(fmt.Sprint(val))
		}
		return quoteIfUnsafe("json:" + encodeBody(string(b)))
	}
}

func encodeFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func encodeRegexp(re *regexp.Regexp) string {
	src := re.String()
	if rest := strings.TrimPrefix(src, "(?i)"); rest != src {
		return quoteIfUnsafe("re:" + encodeBody(rest))
	}
	return quoteIfUnsafe("RE:" + encodeBody(src))
}

// unsafe characters split or group arguments, or trigger the shorthand
// normalizer, and cannot appear bare in a value outside a quoted span.
const unsafeChars = "()&|,=<>!\" "

func encodeString(s string) string {
	if s == "" {
		return "''"
	}
	body := encodeBody(s)
	if decodesToNonString(s) {
		body = "string:" + body
	}
	return quoteIfUnsafe(body)
}

// decodesToNonString reports whether the plain text of s would auto-decode to
// something other than s itself, requiring a string: tag.
func decodesToNonString(s string) bool {
	if _, ok := autoConstants[s]; ok {
		return true
	}
	if _, err := parseNumber(s); err == nil {
		return true
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return true
	}
	// A bare word followed by a colon would be read as a type prefix.
	return tagPattern.MatchString(s)
}

// quoteIfUnsafe wraps the encoded body in single quotes when it contains
// characters the tokenizer or the shorthand normalizer would act on.
func quoteIfUnsafe(body string) string {
	if strings.ContainsAny(body, unsafeChars) {
		return "'" + body + "'"
	}
	return body
}

// encodeBody percent-encodes the characters that cannot appear bare even
// inside a quoted span: the percent itself, quotes, backslashes and control
// characters.
func encodeBody(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' || c == '\'' || c == '\\' || c < 0x20 || c == 0x7f {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
