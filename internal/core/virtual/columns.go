package virtual

// Columns holds the width of each field's column. Resizing a column never
// touches scroll position or measured row heights.
type Columns struct {
	def    int
	min    int
	widths map[string]int
}

// NewColumns creates a width map with a default width for unknown fields and
// a minimum any resize is clamped to.
func NewColumns(defaultWidth, minWidth int) *Columns {
	return &Columns{
		def:    max(defaultWidth, 1),
		min:    max(minWidth, 1),
		widths: make(map[string]int),
	}
}

// Width returns the width of field.
func (c *Columns) Width(field string) int {
	if w, ok := c.widths[field]; ok {
		return w
	}
	return c.def
}

// SetWidth sets the width of field.
func (c *Columns) SetWidth(field string, width int) {
	c.widths[field] = max(width, c.min)
}

// Resize changes the width of field by delta and returns the new width.
func (c *Columns) Resize(field string, delta int) int {
	c.SetWidth(field, c.Width(field)+delta)
	return c.widths[field]
}

// Widths returns a copy of the explicitly set widths.
func (c *Columns) Widths() map[string]int {
	out := make(map[string]int, len(c.widths))
	for k, v := range c.widths {
		out[k] = v
	}
	return out
}

// Restore replaces all widths.
func (c *Columns) Restore(widths map[string]int) {
	clear(c.widths)
	for k, v := range widths {
		c.SetWidth(k, v)
	}
}
