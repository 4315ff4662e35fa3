// Package render exports the current view of a table as a standalone HTML
// document.
package render

import (
	"embed"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/safehtml/template"

	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/sorting"
	"github.com/colonyops/ballotview/internal/core/table"
)

//go:embed templates/*
var templateFS embed.FS

// Column is one header cell.
type Column struct {
	Name     string
	Sort     string // "asc 1", "desc 2", or empty
	Filtered bool
}

// Row is one rendered record.
type Row struct {
	ID       string
	Selected bool
	Cells    []string
}

// ViewModel is everything the table template shows.
type ViewModel struct {
	Title     string
	Shown     int
	Total     int
	Sort      string
	Filters   []string
	Invalid   []string
	Generated string
	Columns   []Column
	Rows      []Row
}

// FromTable builds the view model of the filtered, sorted view of t.
func FromTable(t *table.Table, columns []string, now time.Time) ViewModel {
	spec := t.Sort()
	vm := ViewModel{
		Title:     t.Schema().Name,
		Total:     t.Len(),
		Sort:      spec.String(),
		Generated: now.Format(time.RFC3339),
	}
	if t.Key() != "" {
		vm.Title += " " + t.Key()
	}

	for _, c := range columns {
		col := Column{Name: c}
		if dir, ok := spec.Direction(c); ok {
			col.Sort = sortLabel(dir, spec.Index(c), len(spec))
		}
		if f, ok := t.Filter(c); ok && f.Active() {
			col.Filtered = true
		}
		vm.Columns = append(vm.Columns, col)
	}

	snap := t.Snapshot()
	for _, field := range slices.Sorted(maps.Keys(snap.Filters)) {
		in := snap.Filters[field]
		vm.Filters = append(vm.Filters, fmt.Sprintf("%s %s %s", field, in.Kind, strings.Join(in.Raw, " | ")))
	}
	for _, fv := range t.InvalidFilters() {
		vm.Invalid = append(vm.Invalid, fv.Reason)
	}
	slices.Sort(vm.Invalid)

	for _, i := range t.View() {
		r := t.Record(i)
		id := t.Identity(i)
		row := Row{ID: id, Selected: t.IsSelected(id), Cells: make([]string, len(columns))}
		for j, c := range columns {
			row.Cells[j] = record.String(r.Get(c))
		}
		vm.Rows = append(vm.Rows, row)
	}
	vm.Shown = len(vm.Rows)
	return vm
}

func sortLabel(dir sorting.Direction, idx, keys int) string {
	if keys > 1 {
		return fmt.Sprintf("%s %d", dir, idx+1)
	}
	return string(dir)
}

// Renderer writes view models as HTML. Values are escaped by the template
// engine, so record content can never inject markup.
type Renderer struct {
	table *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)
	tmpl, err := template.New("table.html").ParseFS(trustedFS, "templates/table.html")
	if err != nil {
		return nil, fmt.Errorf("parse table template: %w", err)
	}
	return &Renderer{table: tmpl}, nil
}

// Render writes vm to w.
func (r *Renderer) Render(w io.Writer, vm ViewModel) error {
	return r.table.Execute(w, vm)
}
