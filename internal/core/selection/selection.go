// Package selection keeps selection and expansion id-sets consistent while
// the dataset underneath them is replaced.
package selection

import (
	"maps"
	"slices"

	"github.com/colonyops/ballotview/internal/core/record"
)

// Set is a set of display identities.
type Set map[string]struct{}

// NewSet builds a set from ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// Remove deletes id.
func (s Set) Remove(id string) {
	delete(s, id)
}

// Toggle flips membership of id and returns the new state.
func (s Set) Toggle(id string) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// Len returns the number of ids.
func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	return maps.Clone(s)
}

// Sorted returns the ids in lexical order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Equal reports whether both sets hold the same ids.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Reconcile returns the selection that survives replacing the dataset with
// ds. The input set is not modified.
//
// For simple identities an id is kept only if a record still carries it. For
// composite identities an id that is exactly a parent id expands to every
// current identity of that parent and an id equal to a current identity is
// kept. An id that is the row key of a current record follows that record to
// its current identity, so a record whose siblings vanished stays selected.
// Anything else is dropped. Reconcile is idempotent.
func Reconcile(sel Set, ds record.Dataset, schema record.Schema) Set {
	out := make(Set, len(sel))
	if len(sel) == 0 {
		return out
	}

	ids := schema.Identities(ds)
	present := NewSet(ids...)

	if !schema.IsComposite() {
		for id := range sel {
			if present.Has(id) {
				out.Add(id)
			}
		}
		return out
	}

	byParent := make(map[string][]string)
	byRowKey := make(map[string]string, len(ds))
	for i, r := range ds {
		parent := schema.ParentID(r)
		byParent[parent] = append(byParent[parent], ids[i])
		byRowKey[schema.RowKey(r)] = ids[i]
	}

	for id := range sel {
		if subs, ok := byParent[id]; ok {
			for _, sub := range subs {
				out.Add(sub)
			}
			continue
		}
		if present.Has(id) {
			out.Add(id)
			continue
		}
		if cur, ok := byRowKey[id]; ok {
			out.Add(cur)
		}
	}
	return out
}
