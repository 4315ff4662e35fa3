// Package merge presents several records as one editable record and turns the
// edits made to it back into minimal per-record patches.
package merge

import (
	"time"

	"github.com/colonyops/ballotview/internal/core/record"
)

// Sentinel is the type of Multiple.
type Sentinel struct{}

func (Sentinel) String() string { return "<multiple>" }

// Multiple marks a field on which the merged records disagree.
var Multiple = Sentinel{}

// IsMultiple reports whether v is the Multiple sentinel.
func IsMultiple(v any) bool {
	_, ok := v.(Sentinel)
	return ok
}

// Merge folds records into one. Fields on which every record agrees keep
// their value; fields that differ become Multiple. Arrays merge element-wise
// when their lengths match and become Multiple otherwise; nested objects merge
// key by key, and keys present on one side only carry over unchanged. Merging
// a single record returns a deep copy of it.
func Merge(records []record.Record) record.Record {
	if len(records) == 0 {
		return record.Record{}
	}
	out := records[0].Clone()
	for _, r := range records[1:] {
		out = record.Record(mergeMaps(out, r))
	}
	return out
}

func mergeValue(a, b any) any {
	if IsMultiple(a) || IsMultiple(b) {
		return Multiple
	}

	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok && av.Equal(bv) {
			return av
		}
		return Multiple

	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return Multiple
		}
		out := make([]any, len(av))
		for i := range av {
			out[i] = mergeValue(av[i], bv[i])
		}
		return out

	case map[string]any, record.Record:
		bm, ok := asMap(b)
		if !ok {
			return Multiple
		}
		am, _ := asMap(av)
		return mergeMaps(am, bm)
	}

	if _, ok := asMap(b); ok {
		return Multiple
	}
	if _, ok := b.([]any); ok {
		return Multiple
	}
	if record.Equal(a, b) {
		return record.CloneValue(a)
	}
	return Multiple
}

func mergeMaps(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a))
	for k, av := range a {
		if bv, ok := b[k]; ok {
			out[k] = mergeValue(av, bv)
			continue
		}
		out[k] = record.CloneValue(av)
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			out[k] = record.CloneValue(bv)
		}
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case record.Record:
		return m, true
	}
	return nil, false
}
