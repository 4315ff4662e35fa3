package sorting

import (
	"cmp"
	"slices"
	"strings"

	"github.com/colonyops/ballotview/internal/core/record"
)

// column holds the pre-coerced sort keys of one field for every record, so a
// sort of n records coerces each value once instead of O(n log n) times.
type column struct {
	typ    record.FieldType
	desc   bool
	strs   []string
	nums   []float64
	stamps []int64
}

func newColumn(ds record.Dataset, idx []int, k Key, t record.FieldType) column {
	c := column{typ: t, desc: k.Dir == Desc}
	switch t {
	case record.TypeNumeric:
		c.nums = make([]float64, len(ds))
		for _, i := range idx {
			c.nums[i] = numeric(ds[i].Get(k.Field))
		}
	case record.TypeDate:
		c.stamps = make([]int64, len(ds))
		for _, i := range idx {
			c.stamps[i] = timestamp(ds[i].Get(k.Field))
		}
	case record.TypeClause:
		c.strs = make([]string, len(ds))
		for _, i := range idx {
			c.strs[i] = record.String(ds[i].Get(k.Field))
		}
	default:
		c.strs = make([]string, len(ds))
		for _, i := range idx {
			c.strs[i] = strings.ToLower(record.String(ds[i].Get(k.Field)))
		}
	}
	return c
}

func (c column) compare(i, j int) int {
	var r int
	switch c.typ {
	case record.TypeNumeric:
		r = cmp.Compare(c.nums[i], c.nums[j])
	case record.TypeDate:
		r = cmp.Compare(c.stamps[i], c.stamps[j])
	case record.TypeClause:
		r = record.CompareClause(c.strs[i], c.strs[j])
	default:
		r = strings.Compare(c.strs[i], c.strs[j])
	}
	if c.desc {
		return -r
	}
	return r
}

// SortIndices stably orders idx, a list of dataset indices, by the spec. The
// slice is sorted in place and returned.
func SortIndices(ds record.Dataset, idx []int, s Spec, types record.TypeMap) []int {
	keys := Normalize(s, types)
	if len(keys) == 0 || len(idx) < 2 {
		return idx
	}

	cols := make([]column, len(keys))
	for i, k := range keys {
		cols[i] = newColumn(ds, idx, k, types[k.Field])
	}

	slices.SortStableFunc(idx, func(a, b int) int {
		for _, c := range cols {
			if r := c.compare(a, b); r != 0 {
				return r
			}
		}
		return 0
	})
	return idx
}
