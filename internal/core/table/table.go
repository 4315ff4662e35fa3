// Package table owns the state of one entity table: its dataset, filters,
// sort, selection and expansion. Every mutation goes through a typed method
// that runs the pure engines, so the view index, selection and merged edit
// record always agree with the dataset they were derived from.
//
// A Table is confined to a single event loop. Work that blocks (fetching a
// dataset, submitting patches) is split into Begin/Complete pairs so the
// blocking part can run elsewhere while state changes stay on the loop.
package table

import (
	"errors"
	"slices"

	"github.com/rs/zerolog"

	"github.com/colonyops/ballotview/internal/core/filter"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/selection"
	"github.com/colonyops/ballotview/internal/core/sorting"
	"github.com/colonyops/ballotview/internal/core/view"
)

var (
	// ErrNotLoaded is returned when an operation needs a dataset and none is loaded.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrEmptySelection is returned when an edit is started with nothing selected.
	ErrEmptySelection = errors.New("no records selected")
	// ErrEditPending is returned while a patch submission is outstanding.
	ErrEditPending = errors.New("patch submission pending")
	// ErrNotFilterable is returned for filters on fields the schema excludes.
	ErrNotFilterable = errors.New("field is not filterable")
)

// Reporter receives user-visible failures. The notification bus satisfies it.
type Reporter interface {
	Errorf(format string, args ...any)
}

type nopReporter struct{}

func (nopReporter) Errorf(string, ...any) {}

// Table is the state owner of one table slot.
type Table struct {
	schema   record.Schema
	kinds    map[string]filter.Kind
	source   Source
	reporter Reporter
	log      zerolog.Logger

	key        string
	loaded     bool
	dataset    record.Dataset
	identities []string
	byIdentity map[string]int

	filters  filter.State
	sort     sorting.Spec
	selected selection.Set
	expanded selection.Set

	gen  view.Generation
	memo view.Memo

	seq      uint64
	inflight Request
	pending  bool
}

// Options configures a Table.
type Options struct {
	Schema record.Schema
	// Kinds overrides the filter kind of individual fields; others use
	// filter.DefaultKind of their type.
	Kinds    map[string]filter.Kind
	Source   Source
	Reporter Reporter
	Logger   zerolog.Logger
}

// New creates an empty, unloaded table.
func New(opts Options) *Table {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}
	kinds := make(map[string]filter.Kind, len(opts.Kinds))
	for k, v := range opts.Kinds {
		kinds[k] = v
	}
	return &Table{
		schema:     opts.Schema,
		kinds:      kinds,
		source:     opts.Source,
		reporter:   reporter,
		log:        opts.Logger.With().Str("table", opts.Schema.Name).Logger(),
		filters:    filter.State{},
		selected:   selection.NewSet(),
		expanded:   selection.NewSet(),
		byIdentity: map[string]int{},
	}
}

// Schema returns the dataset configuration.
func (t *Table) Schema() record.Schema {
	return t.schema
}

// Key returns the owning key of the active dataset (e.g. a ballot id).
func (t *Table) Key() string {
	return t.key
}

// Loaded reports whether a dataset is present for the current key.
func (t *Table) Loaded() bool {
	return t.loaded
}

// Dataset returns the current dataset. Callers must treat it as read-only.
func (t *Table) Dataset() record.Dataset {
	return t.dataset
}

// Len returns the number of records in the dataset.
func (t *Table) Len() int {
	return len(t.dataset)
}

// Record returns the record at dataset index i.
func (t *Table) Record(i int) record.Record {
	if i < 0 || i >= len(t.dataset) {
		return nil
	}
	return t.dataset[i]
}

// Identity returns the display identity of the record at dataset index i.
func (t *Table) Identity(i int) string {
	if i < 0 || i >= len(t.identities) {
		return ""
	}
	return t.identities[i]
}

// Lookup returns the dataset index of a display identity.
func (t *Table) Lookup(id string) (int, bool) {
	i, ok := t.byIdentity[id]
	return i, ok
}

// View returns the filtered and sorted dataset indices. The same slice is
// returned until the dataset, a filter or the sort changes.
func (t *Table) View() []int {
	return t.memo.Get(t.gen, func() []int {
		return view.Compute(t.dataset, t.filters, t.sort, t.schema.Types)
	})
}

// Generation identifies the inputs of the current view.
func (t *Table) Generation() view.Generation {
	return t.gen
}

// ReplaceDataset swaps in a new dataset for the current key and reconciles
// selection and expansion against it.
func (t *Table) ReplaceDataset(records []record.Record) {
	t.dataset = record.Dataset(slices.Clone(records))
	t.identities = t.schema.Identities(t.dataset)
	t.byIdentity = make(map[string]int, len(t.identities))
	for i, id := range t.identities {
		t.byIdentity[id] = i
	}
	t.selected = selection.Reconcile(t.selected, t.dataset, t.schema)
	t.expanded = selection.Reconcile(t.expanded, t.dataset, t.schema)
	t.loaded = true
	t.gen.Dataset++
}

// Upsert replaces records whose row key matches one of records and appends
// the rest, producing a new dataset.
func (t *Table) Upsert(records []record.Record) {
	next := t.dataset.Clone()
	pos := make(map[string]int, len(next))
	for i, r := range next {
		pos[t.schema.RowKey(r)] = i
	}
	for _, r := range records {
		if i, ok := pos[t.schema.RowKey(r)]; ok {
			next[i] = r
			continue
		}
		pos[t.schema.RowKey(r)] = len(next)
		next = append(next, r)
	}
	t.ReplaceDataset(next)
}

func (t *Table) reset(key string) {
	t.key = key
	t.loaded = false
	t.dataset = nil
	t.identities = nil
	t.byIdentity = map[string]int{}
	t.selected = selection.NewSet()
	t.expanded = selection.NewSet()
	t.gen.Dataset++
}
