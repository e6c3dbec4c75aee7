// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ConversionError is returned when an argument substring cannot be decoded
// into a typed value. It carries the offending raw value.
type ConversionError struct {
	Value  string
	reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q: %s", e.Value, e.reason)
}

func conversionErrorf(value string, format string, args ...any) *ConversionError {
	return &ConversionError{Value: value, reason: fmt.Sprintf(format, args...)}
}

// tagPattern matches an explicit type prefix of the form tag:value. The tag
// is a bare word and the separating colon must not be escaped.
var tagPattern = regexp.MustCompile(`^([A-Za-z]+):`)

// ConvertLiteral decodes a raw argument substring into a typed value. A
// substring with an explicit type prefix, e.g. number:10 or date:2023-01-02,
// is dispatched to the named converter; an unrecognised tag is an error.
// Anything else goes through the auto rule, which never fails: it decodes the
// well known constants, then attempts a numeric parse, and finally falls back
// to a percent-decoded string.
func ConvertLiteral(raw string) (any, error) {
	if m := tagPattern.FindStringSubmatch(raw); m != nil {
		tag, value := m[1], raw[len(m[0]):]
		convert, ok := converters[tag]
		if !ok {
			return nil, conversionErrorf(raw, "unknown type prefix %q", tag)
		}
		v, err := convert(unescapeBackslashes(value))
		if err != nil {
			return nil, conversionErrorf(value, "invalid %s literal: %s", tag, err)
		}
		return v, nil
	}
	return convertAuto(unescapeBackslashes(raw)), nil
}

// unescapeBackslashes resolves the tokenizer's backslash escapes, yielding
// the escaped character literally. The escape stops a delimiter or quote from
// acting during scanning, and a colon from being read as a type prefix
// separator. A literal backslash is written percent encoded.
func unescapeBackslashes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var converters = map[string]func(string) (any, error){
	"number":  convertNumber,
	"string":  convertString,
	"boolean": convertBoolean,
	"date":    convertDate,
	"epoch":   convertEpoch,
	"isodate": convertISODate,
	"re":      convertRegexpFold,
	"RE":      convertRegexp,
	"json":    convertJSON,
}

func convertNumber(s string) (any, error) {
	if v, err := parseNumber(s); err == nil {
		return v, nil
	}
	return nil, fmt.Errorf("not a number")
}

// parseNumber parses integers to int64 and everything else to float64.
func parseNumber(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func convertString(s string) (any, error) {
	return percentDecode(s)
}

func convertBoolean(s string) (any, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, fmt.Errorf("not a boolean")
}

// dateFormats are tried in order by the date converter.
var dateFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func convertDate(s string) (any, error) {
	s, err := percentDecode(s)
	if err != nil {
		return nil, err
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}
	return nil, fmt.Errorf("not a date")
}

// convertEpoch reads milliseconds since the Unix epoch.
func convertEpoch(s string) (any, error) {
	v, err := parseNumber(s)
	if err != nil {
		return nil, fmt.Errorf("not an epoch offset")
	}
	var ms int64
	switch n := v.(type) {
	case int64:
		ms = n
	case float64:
		ms = int64(n)
	}
	return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond)).UTC(), nil
}

// isoDateTemplate fills in the parts of a partial ISO date that were not
// given, defaulting them to the start of the period.
const isoDateTemplate = "0000-01-01T00:00:00Z"

func convertISODate(s string) (any, error) {
	s, err := percentDecode(s)
	if err != nil {
		return nil, err
	}
	if len(s) < 4 {
		s = "0000"[:4-len(s)] + s
	}
	if len(s) < len(isoDateTemplate) {
		s += isoDateTemplate[len(s):]
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("not an ISO date")
	}
	return t.UTC(), nil
}

func convertRegexpFold(s string) (any, error) {
	s, err := percentDecode(s)
	if err != nil {
		return nil, err
	}
	return regexp.Compile("(?i)" + s)
}

func convertRegexp(s string) (any, error) {
	s, err := percentDecode(s)
	if err != nil {
		return nil, err
	}
	return regexp.Compile(s)
}

func convertJSON(s string) (any, error) {
	s, err := percentDecode(s)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON")
	}
	return v, nil
}

// autoConstants are the literals recognised before a numeric parse is tried.
var autoConstants = map[string]any{
	"true":      true,
	"false":     false,
	"null":      nil,
	"undefined": nil,
	"Infinity":  math.Inf(1),
	"-Infinity": math.Inf(-1),
}

// convertAuto decodes a literal with no explicit type prefix. It cannot fail:
// a value that is not a constant or a number is a string.
func convertAuto(s string) any {
	if v, ok := autoConstants[s]; ok {
		return v
	}
	if v, err := parseNumber(s); err == nil {
		return v
	}
	decoded, err := percentDecode(s)
	if err != nil {
		decoded = s
	}
	// A decoded value still wrapped in a single-quote pair holds a quoted
	// literal that must not be auto-numbered. Its interior is decoded as a
	// JSON string.
	if len(decoded) >= 2 && decoded[0] == '\'' && decoded[len(decoded)-1] == '\'' {
		interior := decoded[1 : len(decoded)-1]
		var v string
		if err := json.Unmarshal([]byte(`"`+interior+`"`), &v); err == nil {
			return v
		}
		return interior
	}
	return decoded
}

// percentDecode reverses percent-encoding. Unlike query unescaping it leaves
// the plus sign alone.
func percentDecode(s string) (string, error) {
	return url.PathUnescape(s)
}
