package virtual

// ScrollTop returns the current scroll offset.
func (l *Layout) ScrollTop() int {
	return l.scrollTop
}

// SetScrollTop moves the scroll offset, clamped for a viewport of the given
// height.
func (l *Layout) SetScrollTop(y, viewport int) {
	l.scrollTop = y
	l.clampScroll(viewport)
}

// ScrollBy moves the scroll offset by delta.
func (l *Layout) ScrollBy(delta, viewport int) {
	l.SetScrollTop(l.scrollTop+delta, viewport)
}

// EnsureVisible scrolls the minimum amount needed to show row entirely in a
// viewport of the given height.
func (l *Layout) EnsureVisible(row, viewport int) {
	if l.rows == 0 {
		l.scrollTop = 0
		return
	}
	row = min(max(row, 0), l.rows-1)
	top := l.RowOffset(row)
	bottom := top + l.RowHeight(row)

	switch {
	case top < l.scrollTop:
		l.scrollTop = top
	case bottom > l.scrollTop+viewport:
		l.scrollTop = bottom - viewport
	}
	l.clampScroll(viewport)
}

// clampScroll keeps the offset inside [0, total-viewport]. A zero viewport
// only clamps against the total height.
func (l *Layout) clampScroll(viewport int) {
	maxTop := max(l.TotalHeight()-viewport, 0)
	l.scrollTop = min(max(l.scrollTop, 0), maxTop)
}
