package record

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// FieldType selects the comparator used to order a field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumeric FieldType = "numeric"
	TypeClause  FieldType = "clause"
	TypeDate    FieldType = "date"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case TypeString, TypeNumeric, TypeClause, TypeDate:
		return true
	}
	return false
}

// TypeMap maps a field key to its type. Fields missing from the map cannot be
// sorted.
type TypeMap map[string]FieldType

// Composite names the two fields of a two-level identity: one logical entity
// (a comment) may own several subordinate records (resolutions).
type Composite struct {
	ParentField string
	SubField    string
}

// Schema is the per-table dataset configuration: how records are identified
// and which fields may be sorted or filtered.
type Schema struct {
	Name        string
	IdentityKey string
	Composite   *Composite
	Types       TypeMap
	// Filterable and Sortable hold doublestar patterns over field keys. An
	// empty list allows every field.
	Filterable []string
	Sortable   []string
}

// CanFilter reports whether field matches one of the filterable patterns.
func (s Schema) CanFilter(field string) bool {
	return matchAny(s.Filterable, field)
}

// CanSort reports whether field is typed and matches a sortable pattern.
func (s Schema) CanSort(field string) bool {
	if _, ok := s.Types[field]; !ok {
		return false
	}
	return matchAny(s.Sortable, field)
}

func matchAny(patterns []string, field string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, field); err == nil && ok {
			return true
		}
	}
	return false
}

// IsComposite reports whether the schema uses a parent/sub identity.
func (s Schema) IsComposite() bool {
	return s.Composite != nil
}

// ParentID returns the composite parent id of r, or its plain identity.
func (s Schema) ParentID(r Record) string {
	if s.Composite == nil {
		return String(r.Get(s.IdentityKey))
	}
	return String(r.Get(s.Composite.ParentField))
}

// RowKey returns the stable storage key of r: the identity value for simple
// schemas, and "parent" or "parent.sub" for composite ones regardless of how
// many siblings exist.
func (s Schema) RowKey(r Record) string {
	if s.Composite == nil {
		return String(r.Get(s.IdentityKey))
	}
	parent := String(r.Get(s.Composite.ParentField))
	sub := String(r.Get(s.Composite.SubField))
	if sub == "" {
		return parent
	}
	return parent + "." + sub
}

// Identities returns the display identity of every record in ds, index for
// index. A composite record shows as "parent" while it is the only record of
// its parent and as its row key once siblings exist.
func (s Schema) Identities(ds Dataset) []string {
	ids := make([]string, len(ds))
	if s.Composite == nil {
		for i, r := range ds {
			ids[i] = String(r.Get(s.IdentityKey))
		}
		return ids
	}

	counts := make(map[string]int, len(ds))
	for _, r := range ds {
		counts[s.ParentID(r)]++
	}
	for i, r := range ds {
		parent := s.ParentID(r)
		if counts[parent] <= 1 {
			ids[i] = parent
			continue
		}
		ids[i] = s.RowKey(r)
	}
	return ids
}

// Check verifies every record carries an identity value and, for composite
// schemas, that a record sharing its parent with others has a sub id.
func (s Schema) Check(ds Dataset) error {
	counts := make(map[string]int, len(ds))
	for i, r := range ds {
		parent := s.ParentID(r)
		if parent == "" {
			return fmt.Errorf("record %d: %w", i, ErrMissingIdentity)
		}
		counts[parent]++
	}
	if s.Composite == nil {
		return nil
	}
	for i, r := range ds {
		if counts[s.ParentID(r)] > 1 && String(r.Get(s.Composite.SubField)) == "" {
			return fmt.Errorf("record %d: %w", i, ErrAmbiguousIdentity)
		}
	}
	return nil
}
