// Package sorting maintains an ordered multi-key sort specification and turns
// it into comparators over records.
package sorting

import (
	"fmt"
	"strings"

	"github.com/colonyops/ballotview/internal/core/record"
)

// Direction is the order of one sort key.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Key is one entry of a sort specification.
type Key struct {
	Field string    `json:"field"`
	Dir   Direction `json:"dir"`
}

// Spec is an ordered list of sort keys; the first key is primary. A field
// appears at most once.
type Spec []Key

// Index returns the position of field in the spec, or -1.
func (s Spec) Index(field string) int {
	for i, k := range s {
		if k.Field == field {
			return i
		}
	}
	return -1
}

// Direction returns the direction of field and whether it is sorted at all.
func (s Spec) Direction(field string) (Direction, bool) {
	if i := s.Index(field); i >= 0 {
		return s[i].Dir, true
	}
	return "", false
}

// Equal reports whether two specs hold the same keys in the same order.
func (s Spec) Equal(other Spec) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Spec) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = k.Field + ":" + string(k.Dir)
	}
	return strings.Join(parts, ",")
}

// ParseKey reads "Field" or "Field:asc|desc".
func ParseKey(s string) (Key, error) {
	field, dir, found := strings.Cut(strings.TrimSpace(s), ":")
	if field == "" {
		return Key{}, fmt.Errorf("empty sort field in %q", s)
	}
	k := Key{Field: field, Dir: Asc}
	if found {
		switch Direction(strings.ToLower(dir)) {
		case Asc:
		case Desc:
			k.Dir = Desc
		default:
			return Key{}, fmt.Errorf("invalid sort direction %q", dir)
		}
	}
	return k, nil
}

// Normalize drops keys for fields missing from types and later duplicates of a
// field, so restored or hand-written specs keep the one-entry-per-field rule.
func Normalize(s Spec, types record.TypeMap) Spec {
	out := make(Spec, 0, len(s))
	for _, k := range s {
		if _, ok := types[k.Field]; !ok || out.Index(k.Field) >= 0 {
			continue
		}
		if k.Dir != Desc {
			k.Dir = Asc
		}
		out = append(out, k)
	}
	return out
}
