// Package record defines the opaque records that make up a dataset, the
// identity rules that tell them apart, and the value coercions shared by the
// filter and sort engines.
package record

import (
	"errors"
	"time"
)

// ErrMissingIdentity is returned when a record has no value for its identity key.
var ErrMissingIdentity = errors.New("record has no identity")

// ErrAmbiguousIdentity is returned when a composite record without a sub id
// shares its parent with other records.
var ErrAmbiguousIdentity = errors.New("record has no sub id but its parent has siblings")

// Record is a single structured row. Values are JSON-shaped (string, float64,
// bool, nil, []any, map[string]any) plus time.Time for dates.
type Record map[string]any

// Dataset is an ordered sequence of records. Order carries no meaning; the
// displayed order is always derived through a view index.
type Dataset []Record

// Get returns the value stored under field, or nil.
func (r Record) Get(field string) any {
	if r == nil {
		return nil
	}
	return r[field]
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies maps and slices; scalars and times are returned as-is.
func CloneValue(v any) any {
	switch val := v.(type) {
	case Record:
		return val.Clone()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case time.Time:
		return val
	default:
		return v
	}
}

// Clone returns a copy of the dataset slice. Records are shared, not copied.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}
