// Package view computes the view index: the filtered and sorted list of
// dataset indices a table actually shows.
package view

import (
	"slices"

	"github.com/colonyops/ballotview/internal/core/filter"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/sorting"
)

// Compute filters ds and orders the survivors by spec. Filtering always runs
// first; the sort only orders the candidate set. The result is a fresh slice
// and identical inputs give element-for-element identical output.
func Compute(ds record.Dataset, filters filter.State, spec sorting.Spec, types record.TypeMap) []int {
	idx := filter.Dataset(ds, filters)
	return sorting.SortIndices(ds, idx, spec, types)
}

// Generation identifies one combination of inputs. Each counter is bumped by
// the owner whenever the matching input is replaced.
type Generation struct {
	Dataset uint64
	Filters uint64
	Sort    uint64
}

// Memo caches the last computed index for a generation so consumers can rely
// on referential equality while nothing changed.
type Memo struct {
	gen   Generation
	valid bool
	index []int
}

// Get returns the cached index for gen, computing it when the generation moved.
func (m *Memo) Get(gen Generation, compute func() []int) []int {
	if m.valid && m.gen == gen {
		return m.index
	}
	m.index = compute()
	m.gen = gen
	m.valid = true
	return m.index
}

// Reset drops the cached index.
func (m *Memo) Reset() {
	m.valid = false
	m.index = nil
}

// Equal reports whether two view indices hold the same elements in order.
func Equal(a, b []int) bool {
	return slices.Equal(a, b)
}
