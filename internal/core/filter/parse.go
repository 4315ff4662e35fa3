package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/colonyops/ballotview/internal/core/record"
)

// parseRegex accepts "/pattern/flags" or a bare pattern. Supported flags are
// i, m and s; g, u and y are accepted and ignored.
func parseRegex(raw string) (*regexp.Regexp, error) {
	pattern := raw
	if strings.HasPrefix(raw, "/") {
		end := strings.LastIndex(raw, "/")
		if end > 0 {
			pattern = raw[1:end]
			var inline strings.Builder
			for _, f := range raw[end+1:] {
				switch f {
				case 'i', 'm', 's':
					if !strings.ContainsRune(inline.String(), f) {
						inline.WriteRune(f)
					}
				case 'g', 'u', 'y':
				default:
					return nil, fmt.Errorf("invalid regex flag %q", f)
				}
			}
			if inline.Len() > 0 {
				pattern = "(?" + inline.String() + ")" + pattern
			}
		}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}
	return re, nil
}

// parseRange reads an optional comparison operator prefix followed by a
// number. Without an operator the value must match exactly.
func parseRange(raw string) (Matcher, error) {
	text := strings.TrimSpace(raw)
	op := ""
	for _, candidate := range []string{"<=", ">=", "<", ">", "="} {
		if strings.HasPrefix(text, candidate) {
			op = candidate
			text = text[len(candidate):]
			break
		}
	}

	want, ok := record.ParseNumber(text)
	if !ok {
		return nil, fmt.Errorf("not a number")
	}

	test := func(n float64) bool { return n == want }
	switch op {
	case "<":
		test = func(n float64) bool { return n < want }
	case "<=":
		test = func(n float64) bool { return n <= want }
	case ">":
		test = func(n float64) bool { return n > want }
	case ">=":
		test = func(n float64) bool { return n >= want }
	}

	return func(v any) bool {
		n, ok := record.Number(v)
		return ok && test(n)
	}, nil
}

// ParseRaw converts a textual filter input into the value an Exact filter
// should compare against for a field of type t.
func ParseRaw(raw string, t record.FieldType) any {
	switch t {
	case record.TypeNumeric:
		if raw == "" {
			return raw
		}
		if n, ok := record.ParseNumber(raw); ok {
			return n
		}
	}
	return raw
}
