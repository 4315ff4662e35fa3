package table

import (
	"fmt"

	"github.com/colonyops/ballotview/internal/core/filter"
	"github.com/colonyops/ballotview/internal/core/record"
)

// FilterKind returns the kind used for new filter values on field.
func (t *Table) FilterKind(field string) filter.Kind {
	if k, ok := t.kinds[field]; ok {
		return k
	}
	return filter.DefaultKind(t.schema.Types[field])
}

// SetFilter replaces the filter of field with the given raw inputs compiled
// as kind. No inputs clears the field.
func (t *Table) SetFilter(field string, kind filter.Kind, raws ...string) error {
	if !t.schema.CanFilter(field) {
		return fmt.Errorf("%s: %w", field, ErrNotFilterable)
	}
	if len(raws) == 0 {
		t.ClearFilter(field)
		return nil
	}

	f := filter.Field{Kind: kind, Values: make([]filter.Value, 0, len(raws))}
	for _, raw := range raws {
		f.Values = append(f.Values, t.compile(field, kind, raw))
	}

	next := t.filters.Clone()
	next[field] = f
	t.filters = next
	t.gen.Filters++
	return nil
}

// AddFilterValue ORs one more input onto the filter of field, using the
// field's configured kind.
func (t *Table) AddFilterValue(field, raw string) error {
	if !t.schema.CanFilter(field) {
		return fmt.Errorf("%s: %w", field, ErrNotFilterable)
	}
	cur, ok := t.filters[field]
	if !ok {
		cur = filter.Field{Kind: t.FilterKind(field)}
	}

	next := t.filters.Clone()
	vals := append(next[field].Values, t.compile(field, cur.Kind, raw))
	next[field] = filter.Field{Kind: cur.Kind, Values: vals}
	t.filters = next
	t.gen.Filters++
	return nil
}

func (t *Table) compile(field string, kind filter.Kind, raw string) filter.Value {
	var value any = raw
	if kind == filter.Exact {
		value = filter.ParseRaw(raw, t.schema.Types[field])
	}
	fv := filter.Compile(field, value, kind)
	if !fv.Valid {
		t.log.Debug().Str("field", field).Str("raw", raw).Str("reason", fv.Reason).Msg("invalid filter value")
	}
	return fv
}

// ClearFilter removes the filter of field.
func (t *Table) ClearFilter(field string) {
	if _, ok := t.filters[field]; !ok {
		return
	}
	next := t.filters.Clone()
	delete(next, field)
	t.filters = next
	t.gen.Filters++
}

// ClearFilters removes every filter.
func (t *Table) ClearFilters() {
	if len(t.filters) == 0 {
		return
	}
	t.filters = filter.State{}
	t.gen.Filters++
}

// Filters returns a copy of the filter state.
func (t *Table) Filters() filter.State {
	return t.filters.Clone()
}

// Filter returns the filter of field.
func (t *Table) Filter(field string) (filter.Field, bool) {
	f, ok := t.filters[field]
	return f, ok
}

// InvalidFilters returns the rejected filter values of every field, for the
// host to flag.
func (t *Table) InvalidFilters() []filter.Value {
	var out []filter.Value
	for _, f := range t.filters {
		for _, fv := range f.Values {
			if !fv.Valid {
				out = append(out, fv)
			}
		}
	}
	return out
}

// FieldType returns the type of field, defaulting to string.
func (t *Table) FieldType(field string) record.FieldType {
	if ft, ok := t.schema.Types[field]; ok {
		return ft
	}
	return record.TypeString
}
