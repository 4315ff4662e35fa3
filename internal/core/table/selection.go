package table

import (
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/selection"
)

// SetSelection replaces the selection, keeping only ids valid for the current
// dataset.
func (t *Table) SetSelection(ids ...string) {
	t.selected = selection.Reconcile(selection.NewSet(ids...), t.dataset, t.schema)
}

// ToggleSelected flips the selection of id and returns the new state. Unknown
// ids are ignored.
func (t *Table) ToggleSelected(id string) bool {
	if _, ok := t.byIdentity[id]; !ok {
		return false
	}
	next := t.selected.Clone()
	on := next.Toggle(id)
	t.selected = next
	return on
}

// SelectAll selects every record in the current view.
func (t *Table) SelectAll() {
	next := t.selected.Clone()
	for _, i := range t.View() {
		next.Add(t.identities[i])
	}
	t.selected = next
}

// ClearSelection empties the selection.
func (t *Table) ClearSelection() {
	t.selected = selection.NewSet()
}

// IsSelected reports whether id is selected.
func (t *Table) IsSelected(id string) bool {
	return t.selected.Has(id)
}

// Selection returns a copy of the selected ids.
func (t *Table) Selection() selection.Set {
	return t.selected.Clone()
}

// SelectedRecords returns the selected records in dataset order.
func (t *Table) SelectedRecords() []record.Record {
	var out []record.Record
	for i, id := range t.identities {
		if t.selected.Has(id) {
			out = append(out, t.dataset[i])
		}
	}
	return out
}

// ToggleExpanded flips the expansion of id and returns the new state.
func (t *Table) ToggleExpanded(id string) bool {
	if _, ok := t.byIdentity[id]; !ok {
		return false
	}
	next := t.expanded.Clone()
	on := next.Toggle(id)
	t.expanded = next
	return on
}

// IsExpanded reports whether id is expanded.
func (t *Table) IsExpanded(id string) bool {
	return t.expanded.Has(id)
}

// Expansion returns a copy of the expanded ids.
func (t *Table) Expansion() selection.Set {
	return t.expanded.Clone()
}
