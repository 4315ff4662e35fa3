package virtual

// OnRowHeightChange records a measured height for row. Measurements are held
// until Flush so a burst of them costs a single reflow. It returns true when
// the measurement opened a new batch, telling the host to schedule one Flush
// after its debounce delay.
func (l *Layout) OnRowHeightChange(row, height int) bool {
	if row < 0 || height < 0 {
		return false
	}
	opened := len(l.pending) == 0
	l.pending[row] = height
	return opened
}

// Pending reports whether measurements are waiting for a Flush.
func (l *Layout) Pending() bool {
	return len(l.pending) > 0
}

// Flush applies every pending measurement in one reflow anchored at the lowest
// changed row; offsets of rows above it are untouched. It returns the anchor
// and whether anything changed.
func (l *Layout) Flush() (anchor int, changed bool) {
	if len(l.pending) == 0 {
		return 0, false
	}

	anchor = -1
	for row, h := range l.pending {
		if cur, ok := l.heights[row]; ok && cur == h {
			continue
		}
		l.heights[row] = h
		if anchor < 0 || row < anchor {
			anchor = row
		}
	}
	clear(l.pending)

	if anchor < 0 {
		return 0, false
	}
	l.invalidate(anchor)
	l.reflows++
	l.clampScroll(0)
	return anchor, true
}

// ClearRowHeight forgets the measurement of row, e.g. after it was expanded
// or collapsed.
func (l *Layout) ClearRowHeight(row int) {
	delete(l.pending, row)
	if _, ok := l.heights[row]; !ok {
		return
	}
	delete(l.heights, row)
	l.invalidate(row)
}

// ClearAllRowHeights forgets every measurement, e.g. after switching between
// stacked and flat column layouts.
func (l *Layout) ClearAllRowHeights() {
	clear(l.heights)
	clear(l.pending)
	l.invalidate(0)
}
