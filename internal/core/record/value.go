package record

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// String renders a value the way the filters and the lexical comparator see it.
func String(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}

// float returns the numeric value of native number types.
func float(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ParseNumber strips every character outside [0-9-.] and then reads the
// longest leading decimal number, so "$1,200.50" is 1200.5 and "4.3.1" is 4.3.
func ParseNumber(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	return parseLeadingFloat(b.String())
}

func parseLeadingFloat(s string) (float64, bool) {
	end := 0
	if end < len(s) && s[end] == '-' {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		frac := end + 1
		for frac < len(s) && s[frac] >= '0' && s[frac] <= '9' {
			frac++
			digits++
		}
		if frac > end+1 {
			end = frac
		}
	}
	if digits == 0 {
		return math.NaN(), false
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN(), false
	}
	return f, true
}

// Number coerces a value to a float. Native numbers pass through; everything
// else goes through ParseNumber on its string form.
func Number(v any) (float64, bool) {
	if f, ok := float(v); ok {
		return f, !math.IsNaN(f)
	}
	if b, ok := v.(bool); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	if v == nil {
		return math.NaN(), false
	}
	return ParseNumber(String(v))
}

// Time coerces a value to a timestamp. Accepts time.Time, RFC 3339 / date-only
// strings and numbers of milliseconds since the epoch.
func Time(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", time.DateOnly} {
			if t, err := time.Parse(layout, strings.TrimSpace(val)); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	if f, ok := float(v); ok {
		return time.UnixMilli(int64(f)), true
	}
	return time.Time{}, false
}

// Truthy reports whether v is a non-empty value. nil, "", 0, NaN and false are
// falsy.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	}
	if f, ok := float(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// Equal is strict structural equality. Numbers of different Go types compare
// by value, times compare by instant, maps and slices compare element-wise.
// A string never equals a number.
func Equal(a, b any) bool {
	if fa, ok := float(a); ok {
		fb, ok := float(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		return mapsEqual(av, b)
	case Record:
		return mapsEqual(map[string]any(av), b)
	}
	return reflect.DeepEqual(a, b)
}

func mapsEqual(a map[string]any, other any) bool {
	var b map[string]any
	switch bv := other.(type) {
	case map[string]any:
		b = bv
	case Record:
		b = bv
	default:
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}
