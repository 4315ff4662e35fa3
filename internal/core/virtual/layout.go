// Package virtual implements windowed rendering support: which rows of a view
// intersect the viewport, where each row starts, and a sparse cache of
// measured row heights whose updates are applied in batches.
package virtual

import "sort"

// Range is the window of rows to render. Start is inclusive and End is
// exclusive; both include overscan.
type Range struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	return max(r.End-r.Start, 0)
}

// Contains reports whether row lies inside the range.
func (r Range) Contains(row int) bool {
	return row >= r.Start && row < r.End
}

// Layout tracks row geometry for one table. Heights are measured in the host's
// units (terminal lines, pixels). Rows that were never measured use the
// estimated height.
//
// Layout is not safe for concurrent use; it belongs to the event loop that
// renders the table.
type Layout struct {
	estimate int
	overscan int
	rows     int

	heights map[int]int
	// offsets[i] is the top of row i; entries up to valid are current.
	offsets []int
	valid   int

	pending map[int]int
	reflows int

	scrollTop int
}

// NewLayout creates a layout with an estimated row height and the number of
// extra rows rendered above and below the viewport.
func NewLayout(estimate, overscan int) *Layout {
	return &Layout{
		estimate: max(estimate, 1),
		overscan: max(overscan, 0),
		heights:  make(map[int]int),
		pending:  make(map[int]int),
		offsets:  []int{0},
	}
}

// SetRowCount sets the number of rows in the view.
func (l *Layout) SetRowCount(n int) {
	n = max(n, 0)
	if n == l.rows {
		return
	}
	l.invalidate(min(n, l.rows))
	l.rows = n
	l.clampScroll(0)
}

// Rows returns the number of rows.
func (l *Layout) Rows() int {
	return l.rows
}

// Estimate returns the height used for unmeasured rows.
func (l *Layout) Estimate() int {
	return l.estimate
}

// RowHeight returns the measured height of row, or the estimate.
func (l *Layout) RowHeight(row int) int {
	if h, ok := l.heights[row]; ok {
		return h
	}
	return l.estimate
}

// Measured reports whether row has a cached height.
func (l *Layout) Measured(row int) bool {
	_, ok := l.heights[row]
	return ok
}

// RowOffset returns the top position of row.
func (l *Layout) RowOffset(row int) int {
	row = min(max(row, 0), l.rows)
	l.ensure(row)
	return l.offsets[row]
}

// TotalHeight returns the height of all rows.
func (l *Layout) TotalHeight() int {
	return l.RowOffset(l.rows)
}

// Reflows returns how many layout recomputations have been applied.
func (l *Layout) Reflows() int {
	return l.reflows
}

func (l *Layout) ensure(row int) {
	if len(l.offsets) < l.rows+1 {
		grown := make([]int, l.rows+1)
		copy(grown, l.offsets)
		l.offsets = grown
	}
	for i := l.valid; i < row; i++ {
		l.offsets[i+1] = l.offsets[i] + l.RowHeight(i)
	}
	if row > l.valid {
		l.valid = row
	}
}

// invalidate marks offsets of rows after row as stale. Rows at or above row
// keep their position.
func (l *Layout) invalidate(row int) {
	if row < l.valid {
		l.valid = max(row, 0)
	}
}

// RowAt returns the row covering position y.
func (l *Layout) RowAt(y int) int {
	if l.rows == 0 {
		return 0
	}
	l.ensure(l.rows)
	// first row whose bottom is below y
	i := sort.Search(l.rows, func(i int) bool {
		return l.offsets[i+1] > y
	})
	return min(i, l.rows-1)
}

// Window returns the rows intersecting [scrollTop, scrollTop+viewport) plus
// overscan on both sides.
func (l *Layout) Window(scrollTop, viewport int) Range {
	if l.rows == 0 || viewport <= 0 {
		return Range{}
	}
	first := l.RowAt(scrollTop)
	last := l.RowAt(scrollTop + viewport - 1)
	return Range{
		Start: max(first-l.overscan, 0),
		End:   min(last+1+l.overscan, l.rows),
	}
}

// Visible returns the window for the current scroll position.
func (l *Layout) Visible(viewport int) Range {
	return l.Window(l.scrollTop, viewport)
}
