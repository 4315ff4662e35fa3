package virtual

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout_Estimates(t *testing.T) {
	l := NewLayout(2, 1)
	l.SetRowCount(10)

	assert.Equal(t, 20, l.TotalHeight())
	assert.Equal(t, 6, l.RowOffset(3))
	assert.Equal(t, 0, l.RowAt(0))
	assert.Equal(t, 0, l.RowAt(1))
	assert.Equal(t, 1, l.RowAt(2))
	assert.Equal(t, 9, l.RowAt(100))
}

func TestLayout_Window(t *testing.T) {
	l := NewLayout(1, 2)
	l.SetRowCount(100)

	t.Run("top", func(t *testing.T) {
		assert.Equal(t, Range{Start: 0, End: 12}, l.Window(0, 10))
	})

	t.Run("middle", func(t *testing.T) {
		assert.Equal(t, Range{Start: 48, End: 62}, l.Window(50, 10))
	})

	t.Run("bottom", func(t *testing.T) {
		assert.Equal(t, Range{Start: 88, End: 100}, l.Window(90, 10))
	})

	t.Run("empty", func(t *testing.T) {
		empty := NewLayout(1, 2)
		assert.Equal(t, 0, empty.Window(0, 10).Len())
		assert.Equal(t, 0, l.Window(0, 0).Len())
	})
}

func TestLayout_BatchedMeasurement(t *testing.T) {
	l := NewLayout(1, 0)
	l.SetRowCount(50)
	before := l.RowOffset(5)

	assert.True(t, l.OnRowHeightChange(30, 3))
	assert.False(t, l.OnRowHeightChange(10, 2))
	assert.False(t, l.OnRowHeightChange(20, 4))
	assert.True(t, l.Pending())

	// not applied until flushed
	assert.Equal(t, 50, l.TotalHeight())
	assert.Equal(t, 0, l.Reflows())

	anchor, changed := l.Flush()
	assert.True(t, changed)
	assert.Equal(t, 10, anchor)
	assert.Equal(t, 1, l.Reflows())
	assert.False(t, l.Pending())

	assert.Equal(t, before, l.RowOffset(5))
	assert.Equal(t, 10, l.RowOffset(10))
	assert.Equal(t, 12, l.RowOffset(11))
	assert.Equal(t, 50+1+3+2, l.TotalHeight())

	t.Run("same heights do not reflow", func(t *testing.T) {
		assert.True(t, l.OnRowHeightChange(10, 2))
		_, changed := l.Flush()
		assert.False(t, changed)
		assert.Equal(t, 1, l.Reflows())
	})

	t.Run("flush without pending", func(t *testing.T) {
		_, changed := l.Flush()
		assert.False(t, changed)
	})

	t.Run("invalid measurements are ignored", func(t *testing.T) {
		assert.False(t, l.OnRowHeightChange(-1, 3))
		assert.False(t, l.Pending())
	})
}

func TestLayout_ClearHeights(t *testing.T) {
	l := NewLayout(1, 0)
	l.SetRowCount(5)
	l.OnRowHeightChange(1, 4)
	l.OnRowHeightChange(3, 2)
	l.Flush()
	assert.Equal(t, 9, l.TotalHeight())

	l.ClearRowHeight(1)
	assert.False(t, l.Measured(1))
	assert.True(t, l.Measured(3))
	assert.Equal(t, 6, l.TotalHeight())

	l.OnRowHeightChange(0, 3)
	l.ClearAllRowHeights()
	assert.False(t, l.Pending())
	assert.False(t, l.Measured(3))
	assert.Equal(t, 5, l.TotalHeight())
}

func TestLayout_Scroll(t *testing.T) {
	l := NewLayout(1, 0)
	l.SetRowCount(20)

	l.SetScrollTop(100, 5)
	assert.Equal(t, 15, l.ScrollTop())

	l.SetScrollTop(-3, 5)
	assert.Equal(t, 0, l.ScrollTop())

	l.EnsureVisible(8, 5)
	assert.Equal(t, 4, l.ScrollTop())

	l.EnsureVisible(2, 5)
	assert.Equal(t, 2, l.ScrollTop())

	l.ScrollBy(3, 5)
	assert.Equal(t, 5, l.ScrollTop())
	assert.Equal(t, Range{Start: 5, End: 10}, l.Visible(5))

	t.Run("shrinking clamps", func(t *testing.T) {
		l.SetRowCount(3)
		assert.LessOrEqual(t, l.ScrollTop(), 3)
	})
}

func TestColumns_ResizeKeepsLayout(t *testing.T) {
	l := NewLayout(1, 0)
	l.SetRowCount(20)
	l.OnRowHeightChange(4, 3)
	l.Flush()
	l.SetScrollTop(7, 5)

	cols := NewColumns(10, 4)
	assert.Equal(t, 10, cols.Width("Comment"))
	assert.Equal(t, 25, cols.Resize("Comment", 15))
	assert.Equal(t, 4, cols.Resize("Page", -20))

	assert.Equal(t, 7, l.ScrollTop())
	assert.True(t, l.Measured(4))
	assert.Equal(t, map[string]int{"Comment": 25, "Page": 4}, cols.Widths())

	cols.Restore(map[string]int{"CID": 2})
	assert.Equal(t, map[string]int{"CID": 4}, cols.Widths())
	assert.Equal(t, 10, cols.Width("Comment"))
}
