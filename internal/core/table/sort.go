package table

import "github.com/colonyops/ballotview/internal/core/sorting"

// ClickSort applies a header click on field. Fields that cannot be sorted
// leave the spec unchanged.
func (t *Table) ClickSort(field string, mods sorting.Modifier) {
	if !t.schema.CanSort(field) {
		return
	}
	t.setSort(sorting.Click(t.sort, field, mods, t.schema.Types))
}

// SetSort replaces the sort spec. Unknown fields and duplicates are dropped.
func (t *Table) SetSort(spec sorting.Spec) {
	t.setSort(sorting.Normalize(spec, t.schema.Types))
}

func (t *Table) setSort(spec sorting.Spec) {
	if t.sort.Equal(spec) {
		return
	}
	t.sort = spec
	t.gen.Sort++
}

// Sort returns a copy of the sort spec.
func (t *Table) Sort() sorting.Spec {
	out := make(sorting.Spec, len(t.sort))
	copy(out, t.sort)
	return out
}
