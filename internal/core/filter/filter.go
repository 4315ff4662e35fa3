// Package filter compiles per-field filter input into predicates and applies
// them to a dataset. Values for one field are OR-combined; distinct fields are
// AND-combined. Bad input never fails: it yields a Value marked invalid which
// is left out of matching.
package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/colonyops/ballotview/internal/core/record"
)

// Kind selects how a raw filter value is interpreted.
type Kind string

const (
	Exact        Kind = "exact"
	Contains     Kind = "contains"
	Regex        Kind = "regex"
	NumericExact Kind = "numeric_exact"
	NumericRange Kind = "numeric_range"
	ClausePrefix Kind = "clause_prefix"
	Page         Kind = "page"
)

// Kinds lists every supported kind.
var Kinds = []Kind{Exact, Contains, Regex, NumericExact, NumericRange, ClausePrefix, Page}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown filter kind %q", s)
}

// DefaultKind returns the kind used for a field of type t when the table
// configuration does not name one.
func DefaultKind(t record.FieldType) Kind {
	switch t {
	case record.TypeNumeric:
		return NumericRange
	case record.TypeClause:
		return ClausePrefix
	default:
		return Contains
	}
}

// Matcher tests a stored field value.
type Matcher func(v any) bool

// Value is one compiled filter input.
type Value struct {
	Raw   any
	Valid bool
	// Reason explains why an invalid value was rejected, for display.
	Reason string

	match Matcher
}

// Match reports whether v satisfies this value. Invalid values never match.
func (fv Value) Match(v any) bool {
	if !fv.Valid || fv.match == nil {
		return false
	}
	return fv.match(v)
}

// Field is the filter state of one field.
type Field struct {
	Kind   Kind
	Values []Value
}

// Match evaluates the OR-group. A field with no valid values is satisfied by
// everything.
func (f Field) Match(v any) bool {
	active := false
	for _, fv := range f.Values {
		if !fv.Valid {
			continue
		}
		active = true
		if fv.Match(v) {
			return true
		}
	}
	return !active
}

// Active reports whether the field constrains anything.
func (f Field) Active() bool {
	for _, fv := range f.Values {
		if fv.Valid {
			return true
		}
	}
	return false
}

// Raws returns the raw inputs of the field in order.
func (f Field) Raws() []string {
	out := make([]string, len(f.Values))
	for i, fv := range f.Values {
		out[i] = record.String(fv.Raw)
	}
	return out
}

// State maps field keys to their filters. Fields absent from the map impose
// no constraint.
type State map[string]Field

// Clone copies the map; compiled values are immutable and shared.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, f := range s {
		vals := make([]Value, len(f.Values))
		copy(vals, f.Values)
		out[k] = Field{Kind: f.Kind, Values: vals}
	}
	return out
}

// Match reports whether r satisfies every field filter.
func (s State) Match(r record.Record) bool {
	for field, f := range s {
		if !f.Match(r.Get(field)) {
			return false
		}
	}
	return true
}

// Dataset returns the indices of records that satisfy every field filter, in
// dataset order.
func Dataset(ds record.Dataset, s State) []int {
	active := make(State, len(s))
	for field, f := range s {
		if f.Active() {
			active[field] = f
		}
	}

	out := make([]int, 0, len(ds))
	for i, r := range ds {
		if active.Match(r) {
			out = append(out, i)
		}
	}
	return out
}

// Compile turns a raw input into a Value for the given kind. The field key is
// only used in the reason of invalid values.
func Compile(field string, raw any, kind Kind) Value {
	fv := Value{Raw: raw, Valid: true}
	text := record.String(raw)

	switch kind {
	case Exact:
		if !record.Truthy(raw) {
			fv.match = func(v any) bool { return !record.Truthy(v) }
		} else {
			fv.match = func(v any) bool { return record.Equal(raw, v) }
		}

	case Contains:
		needle := strings.ToLower(text)
		fv.match = func(v any) bool {
			return strings.Contains(strings.ToLower(record.String(v)), needle)
		}

	case Regex:
		re, err := parseRegex(text)
		if err != nil {
			return invalid(fv, field, err.Error())
		}
		fv.match = func(v any) bool { return re.MatchString(record.String(v)) }

	case NumericExact:
		want, ok := record.ParseNumber(text)
		if !ok {
			return invalid(fv, field, "not a number")
		}
		fv.match = func(v any) bool {
			n, ok := record.Number(v)
			return ok && n == want
		}

	case NumericRange:
		cmp, err := parseRange(text)
		if err != nil {
			return invalid(fv, field, err.Error())
		}
		fv.match = cmp

	case ClausePrefix:
		fv.match = func(v any) bool { return record.HasClausePrefix(record.String(v), text) }

	case Page:
		want, ok := record.ParseNumber(text)
		if !ok {
			return invalid(fv, field, "not a page number")
		}
		if strings.Contains(text, ".") {
			fv.match = func(v any) bool {
				n, ok := record.Number(v)
				return ok && n == want
			}
		} else {
			page := math.Round(want)
			fv.match = func(v any) bool {
				n, ok := record.Number(v)
				return ok && math.Round(n) == page
			}
		}

	default:
		return invalid(fv, field, fmt.Sprintf("unknown filter kind %q", kind))
	}

	return fv
}

func invalid(fv Value, field, reason string) Value {
	fv.Valid = false
	fv.Reason = fmt.Sprintf("%s: %s", field, reason)
	fv.match = nil
	return fv
}
