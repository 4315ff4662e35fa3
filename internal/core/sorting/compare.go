package sorting

import (
	"cmp"
	"strings"

	"github.com/colonyops/ballotview/internal/core/record"
)

// Comparator composes the per-type comparators of the spec. Keys apply in
// order; descending keys flip the sign of their comparison only, so ties keep
// their incoming order under a stable sort. Keys for untyped fields are skipped.
func Comparator(s Spec, types record.TypeMap) func(a, b record.Record) int {
	keys := Normalize(s, types)
	return func(a, b record.Record) int {
		for _, k := range keys {
			c := CompareValues(types[k.Field], a.Get(k.Field), b.Get(k.Field))
			if c == 0 {
				continue
			}
			if k.Dir == Desc {
				return -c
			}
			return c
		}
		return 0
	}
}

// CompareValues compares two stored values as type t.
func CompareValues(t record.FieldType, a, b any) int {
	switch t {
	case record.TypeNumeric:
		return cmp.Compare(numeric(a), numeric(b))
	case record.TypeClause:
		return record.CompareClause(record.String(a), record.String(b))
	case record.TypeDate:
		return cmp.Compare(timestamp(a), timestamp(b))
	default:
		return strings.Compare(strings.ToLower(record.String(a)), strings.ToLower(record.String(b)))
	}
}

// numeric coerces like the numeric filters; anything non-numeric is 0.
func numeric(v any) float64 {
	if n, ok := record.Number(v); ok {
		return n
	}
	return 0
}

func timestamp(v any) int64 {
	if t, ok := record.Time(v); ok {
		return t.UnixMilli()
	}
	return 0
}
