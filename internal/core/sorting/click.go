package sorting

import "github.com/colonyops/ballotview/internal/core/record"

// Modifier is the set of keyboard modifiers held during a header click.
type Modifier uint8

const (
	Shift Modifier = 1 << iota
	Ctrl
	Meta
)

// Has reports whether m includes flag.
func (m Modifier) Has(flag Modifier) bool {
	return m&flag != 0
}

// Click returns the spec that results from clicking the header of field. The
// input spec is never modified. Fields missing from types leave the spec
// unchanged.
//
//   - plain: a new field replaces the whole spec as ascending; the sole
//     ascending field flips to descending; the sole descending field is removed.
//   - shift: appends the field ascending, flips ascending to descending, and
//     removes a descending field while keeping the other keys.
//   - ctrl/meta: removes the field if present.
func Click(s Spec, field string, mods Modifier, types record.TypeMap) Spec {
	if _, ok := types[field]; !ok {
		return clone(s)
	}

	idx := s.Index(field)

	switch {
	case mods.Has(Ctrl) || mods.Has(Meta):
		if idx < 0 {
			return clone(s)
		}
		return remove(s, idx)

	case mods.Has(Shift):
		if idx < 0 {
			return append(clone(s), Key{Field: field, Dir: Asc})
		}
		if s[idx].Dir == Asc {
			out := clone(s)
			out[idx].Dir = Desc
			return out
		}
		return remove(s, idx)
	}

	if idx < 0 || len(s) > 1 {
		return Spec{{Field: field, Dir: Asc}}
	}
	if s[0].Dir == Asc {
		return Spec{{Field: field, Dir: Desc}}
	}
	return Spec{}
}

func clone(s Spec) Spec {
	out := make(Spec, len(s))
	copy(out, s)
	return out
}

func remove(s Spec, idx int) Spec {
	out := make(Spec, 0, len(s)-1)
	out = append(out, s[:idx]...)
	return append(out, s[idx+1:]...)
}
