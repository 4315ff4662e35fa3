package table

import (
	"github.com/colonyops/ballotview/internal/core/filter"
	"github.com/colonyops/ballotview/internal/core/sorting"
)

// FilterInput is the raw, uncompiled form of one field filter.
type FilterInput struct {
	Kind filter.Kind `json:"kind"`
	Raw  []string    `json:"raw"`
}

// ViewState is the persistable part of a table: what the user sorted and
// filtered by. Selection is deliberately excluded; it belongs to one dataset.
type ViewState struct {
	Sort    sorting.Spec           `json:"sort,omitempty"`
	Filters map[string]FilterInput `json:"filters,omitempty"`
}

// Snapshot captures the sort and filter inputs.
func (t *Table) Snapshot() ViewState {
	vs := ViewState{Sort: t.Sort()}
	if len(t.filters) > 0 {
		vs.Filters = make(map[string]FilterInput, len(t.filters))
		for field, f := range t.filters {
			vs.Filters[field] = FilterInput{Kind: f.Kind, Raw: f.Raws()}
		}
	}
	return vs
}

// Restore replays a snapshot. Fields the schema no longer allows are skipped.
func (t *Table) Restore(vs ViewState) {
	t.SetSort(vs.Sort)
	t.ClearFilters()
	for field, in := range vs.Filters {
		kind := in.Kind
		if _, err := filter.ParseKind(string(kind)); err != nil {
			kind = t.FilterKind(field)
		}
		if err := t.SetFilter(field, kind, in.Raw...); err != nil {
			t.log.Debug().Err(err).Str("field", field).Msg("skipping restored filter")
		}
	}
}
