package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/colonyops/ballotview/internal/core/filter"
	"github.com/colonyops/ballotview/internal/core/record"
)

// TableConfig describes one entity table: how its records are identified and
// how each field sorts, filters and renders.
type TableConfig struct {
	IdentityKey       string                 `yaml:"identity_key"`
	CompositeIdentity *CompositeConfig       `yaml:"composite_identity"`
	Fields            map[string]FieldConfig `yaml:"fields"`
	Filterable        []string               `yaml:"filterable"` // doublestar patterns, empty allows all
	Sortable          []string               `yaml:"sortable"`   // doublestar patterns, empty allows all typed fields
	Columns           []string               `yaml:"columns"`    // display order
}

// CompositeConfig names the parent and subordinate id fields of a composite
// identity.
type CompositeConfig struct {
	ParentField string `yaml:"parent_field"`
	SubField    string `yaml:"sub_field"`
}

// FieldConfig configures a single field.
type FieldConfig struct {
	Type   record.FieldType `yaml:"type"`
	Filter filter.Kind      `yaml:"filter"` // empty uses the default kind for Type
	Width  int              `yaml:"width"`
}

// Table returns the named table configuration.
func (c *Config) Table(name string) (TableConfig, error) {
	tc, ok := c.Tables[name]
	if !ok {
		return TableConfig{}, fmt.Errorf("unknown table %q (known: %v)", name, c.TableNames())
	}
	return tc, nil
}

// TableNames returns the configured table names in sorted order.
func (c *Config) TableNames() []string {
	return slices.Sorted(maps.Keys(c.Tables))
}

// Schema converts the table configuration into the record schema used by the
// engines.
func (tc TableConfig) Schema(name string) record.Schema {
	s := record.Schema{
		Name:        name,
		IdentityKey: tc.IdentityKey,
		Types:       make(record.TypeMap, len(tc.Fields)),
		Filterable:  slices.Clone(tc.Filterable),
		Sortable:    slices.Clone(tc.Sortable),
	}
	if tc.CompositeIdentity != nil {
		s.Composite = &record.Composite{
			ParentField: tc.CompositeIdentity.ParentField,
			SubField:    tc.CompositeIdentity.SubField,
		}
		if s.IdentityKey == "" {
			s.IdentityKey = tc.CompositeIdentity.ParentField
		}
	}
	for field, fc := range tc.Fields {
		if fc.Type != "" {
			s.Types[field] = fc.Type
		}
	}
	return s
}

// Kinds returns the explicit filter kind of every field that names one.
func (tc TableConfig) Kinds() map[string]filter.Kind {
	kinds := make(map[string]filter.Kind)
	for field, fc := range tc.Fields {
		if fc.Filter != "" {
			kinds[field] = fc.Filter
		}
	}
	return kinds
}

// Widths returns the configured column widths.
func (tc TableConfig) Widths() map[string]int {
	widths := make(map[string]int)
	for field, fc := range tc.Fields {
		if fc.Width > 0 {
			widths[field] = fc.Width
		}
	}
	return widths
}

// ColumnOrder returns the display columns: the configured order when set,
// otherwise every configured field sorted by name.
func (tc TableConfig) ColumnOrder() []string {
	if len(tc.Columns) > 0 {
		return slices.Clone(tc.Columns)
	}
	return slices.Sorted(maps.Keys(tc.Fields))
}

// overlay returns tc with every value set in user applied on top. Fields are
// merged by name.
func (tc TableConfig) overlay(user TableConfig) TableConfig {
	out := tc
	if user.IdentityKey != "" {
		out.IdentityKey = user.IdentityKey
	}
	if user.CompositeIdentity != nil {
		c := *user.CompositeIdentity
		out.CompositeIdentity = &c
	}
	if len(user.Fields) > 0 {
		out.Fields = make(map[string]FieldConfig, len(tc.Fields)+len(user.Fields))
		maps.Copy(out.Fields, tc.Fields)
		for name, fc := range user.Fields {
			base := out.Fields[name]
			if fc.Type != "" {
				base.Type = fc.Type
			}
			if fc.Filter != "" {
				base.Filter = fc.Filter
			}
			if fc.Width != 0 {
				base.Width = fc.Width
			}
			out.Fields[name] = base
		}
	}
	if user.Filterable != nil {
		out.Filterable = user.Filterable
	}
	if user.Sortable != nil {
		out.Sortable = user.Sortable
	}
	if user.Columns != nil {
		out.Columns = user.Columns
	}
	return out
}

func builtinTables() map[string]TableConfig {
	return map[string]TableConfig{
		"ballots": {
			IdentityKey: "id",
			Fields: map[string]FieldConfig{
				"id":       {Type: record.TypeNumeric, Filter: filter.NumericExact, Width: 6},
				"BallotID": {Type: record.TypeString, Width: 12},
				"Project":  {Type: record.TypeString, Width: 16},
				"Type":     {Type: record.TypeString, Filter: filter.Exact, Width: 10},
				"Document": {Type: record.TypeString, Width: 20},
				"Topic":    {Type: record.TypeString, Width: 30},
				"Start":    {Type: record.TypeDate, Width: 12},
				"End":      {Type: record.TypeDate, Width: 12},
				"Comments": {Type: record.TypeNumeric, Filter: filter.NumericRange, Width: 8},
			},
			Columns: []string{"id", "BallotID", "Project", "Type", "Document", "Topic", "Start", "End", "Comments"},
		},
		"comments": {
			CompositeIdentity: &CompositeConfig{ParentField: "CID", SubField: "ResnID"},
			Fields: map[string]FieldConfig{
				"CID":              {Type: record.TypeNumeric, Filter: filter.NumericExact, Width: 8},
				"ResnID":           {Type: record.TypeNumeric, Width: 4},
				"CommenterName":    {Type: record.TypeString, Width: 16},
				"Category":         {Type: record.TypeString, Filter: filter.Exact, Width: 4},
				"Clause":           {Type: record.TypeClause, Filter: filter.ClausePrefix, Width: 10},
				"Page":             {Type: record.TypeNumeric, Filter: filter.Page, Width: 6},
				"Comment":          {Type: record.TypeString, Width: 40},
				"ProposedChange":   {Type: record.TypeString, Width: 40},
				"AdHoc":            {Type: record.TypeString, Filter: filter.Exact, Width: 10},
				"CommentGroup":     {Type: record.TypeString, Width: 12},
				"AssigneeName":     {Type: record.TypeString, Filter: filter.Exact, Width: 16},
				"Submission":       {Type: record.TypeString, Width: 12},
				"ResnStatus":       {Type: record.TypeString, Filter: filter.Exact, Width: 4},
				"Resolution":       {Type: record.TypeString, Width: 40},
				"EditStatus":       {Type: record.TypeString, Filter: filter.Exact, Width: 4},
				"ApprovedByMotion": {Type: record.TypeString, Width: 8},
				"LastModifiedTime": {Type: record.TypeDate, Width: 12},
			},
			Filterable: []string{"*"},
			Sortable:   []string{"*"},
			Columns: []string{
				"CID", "CommenterName", "Category", "Clause", "Page", "Comment", "ProposedChange",
				"AdHoc", "CommentGroup", "AssigneeName", "Submission", "ResnStatus", "Resolution", "EditStatus",
			},
		},
		"voters": {
			IdentityKey: "SAPIN",
			Fields: map[string]FieldConfig{
				"SAPIN":       {Type: record.TypeNumeric, Filter: filter.NumericExact, Width: 8},
				"Name":        {Type: record.TypeString, Width: 24},
				"Email":       {Type: record.TypeString, Width: 28},
				"Status":      {Type: record.TypeString, Filter: filter.Exact, Width: 10},
				"Excused":     {Type: record.TypeString, Filter: filter.Exact, Width: 8},
				"Affiliation": {Type: record.TypeString, Width: 24},
			},
			Columns: []string{"SAPIN", "Name", "Email", "Status", "Excused", "Affiliation"},
		},
		"users": {
			IdentityKey: "SAPIN",
			Fields: map[string]FieldConfig{
				"SAPIN":       {Type: record.TypeNumeric, Filter: filter.NumericExact, Width: 8},
				"Name":        {Type: record.TypeString, Width: 24},
				"Email":       {Type: record.TypeString, Width: 28},
				"Permissions": {Type: record.TypeString, Filter: filter.Exact, Width: 12},
				"Status":      {Type: record.TypeString, Filter: filter.Exact, Width: 10},
				"Access":      {Type: record.TypeNumeric, Filter: filter.NumericRange, Width: 6},
			},
			Columns: []string{"SAPIN", "Name", "Email", "Permissions", "Status", "Access"},
		},
		"results": {
			IdentityKey: "id",
			Fields: map[string]FieldConfig{
				"id":           {Type: record.TypeNumeric, Filter: filter.NumericExact, Width: 6},
				"SAPIN":        {Type: record.TypeNumeric, Filter: filter.NumericExact, Width: 8},
				"Name":         {Type: record.TypeString, Width: 24},
				"Affiliation":  {Type: record.TypeString, Width: 24},
				"Vote":         {Type: record.TypeString, Filter: filter.Exact, Width: 10},
				"CommentCount": {Type: record.TypeNumeric, Filter: filter.NumericRange, Width: 8},
				"Notes":        {Type: record.TypeString, Width: 30},
			},
			Columns: []string{"SAPIN", "Name", "Affiliation", "Vote", "CommentCount", "Notes"},
		},
	}
}
