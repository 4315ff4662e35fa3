package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/sorting"
	"github.com/colonyops/ballotview/internal/core/styles"
)

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderTitle()}
	if !m.stacked {
		sections = append(sections, m.renderHeader())
	}
	sections = append(sections, m.renderBody(), m.renderStatus(), m.renderFooter())
	if m.toasts.Len() > 0 {
		sections = append(sections, m.toasts.View(m.width))
	}
	return strings.Join(sections, "\n")
}

// viewport returns the number of lines available for rows.
func (m Model) viewport() int {
	chrome := 3 // title, status, footer
	if !m.stacked {
		chrome++
	}
	if m.help.ShowAll && m.mode == modeNormal {
		chrome += lipgloss.Height(m.help.View(m.keys)) - 1
	}
	chrome += m.toasts.Len()
	return max(m.height-chrome, 1)
}

// measure renders the rows in the window that have no cached height and
// reports their heights to the layout. When that opens a batch, it returns
// the command that flushes it after the debounce delay.
func (m Model) measure() tea.Cmd {
	if m.height == 0 || m.layout.Rows() == 0 {
		return nil
	}
	rng := m.layout.Visible(m.viewport())
	opened := false
	for row := rng.Start; row < rng.End; row++ {
		if m.layout.Measured(row) {
			continue
		}
		h := lipgloss.Height(m.renderRow(row))
		if m.layout.OnRowHeightChange(row, h) {
			opened = true
		}
	}
	if !opened {
		return nil
	}
	return tea.Tick(m.debounce, func(_ time.Time) tea.Msg { return reflowMsg{} })
}

func (m Model) renderTitle() string {
	name := m.table.Schema().Name
	title := name
	if m.key != "" {
		title = fmt.Sprintf("%s · %s", name, m.key)
	}
	return styles.HeaderStyle.Render(title)
}

// visibleColumns returns the columns that fit the terminal starting at the
// column offset. At least one column is always shown.
func (m Model) visibleColumns() []string {
	if m.width <= 0 {
		return m.columns[m.colOffset:]
	}
	used := markerWidth
	var out []string
	for _, c := range m.columns[m.colOffset:] {
		w := m.cols.Width(c) + 1
		if len(out) > 0 && used+w > m.width {
			break
		}
		out = append(out, c)
		used += w
	}
	return out
}

func (m Model) renderHeader() string {
	sort := m.table.Sort()
	current := m.currentColumn()

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", markerWidth))
	for i, c := range m.visibleColumns() {
		if i > 0 {
			b.WriteString(" ")
		}
		label := c
		if dir, ok := sort.Direction(c); ok {
			icon := styles.IconSortAsc
			if dir == sorting.Desc {
				icon = styles.IconSortDesc
			}
			label += icon
			if len(sort) > 1 {
				label += strconv.Itoa(sort.Index(c) + 1)
			}
		}
		if f, ok := m.table.Filter(c); ok && f.Active() {
			label += styles.IconFiltered
		}

		style := styles.ColumnHeaderStyle.UnsetPaddingRight()
		if c == current {
			style = styles.ColumnHeaderActiveStyle.UnsetPaddingRight()
		}
		b.WriteString(style.Render(fit(label, m.cols.Width(c))))
	}
	return b.String()
}

func (m Model) renderBody() string {
	vp := m.viewport()
	rows := m.table.View()

	if len(rows) == 0 {
		msg := "No records"
		switch {
		case m.table.Loading() && !m.table.Loaded():
			msg = "Loading " + styles.IconPending
		case m.table.Len() > 0:
			msg = "No records match the filters"
		}
		return padLines(styles.MutedStyle.Render(msg), vp)
	}

	rng := m.layout.Visible(vp)
	lines := make([]string, 0, vp+rng.Len())
	for row := rng.Start; row < rng.End; row++ {
		lines = append(lines, strings.Split(m.renderRow(row), "\n")...)
	}

	skip := min(max(m.layout.ScrollTop()-m.layout.RowOffset(rng.Start), 0), len(lines))
	lines = lines[skip:]
	if len(lines) > vp {
		lines = lines[:vp]
	}
	return padLines(strings.Join(lines, "\n"), vp)
}

// renderRow renders the row at view position pos, including its expansion.
func (m Model) renderRow(pos int) string {
	rows := m.table.View()
	if pos < 0 || pos >= len(rows) {
		return ""
	}
	idx := rows[pos]
	r := m.table.Record(idx)
	id := m.table.Identity(idx)
	selected := m.table.IsSelected(id)
	expanded := m.table.IsExpanded(id)

	prefix := m.markers(pos == m.cursor, selected, expanded)

	var out string
	if m.stacked {
		out = m.renderStacked(prefix, id, r)
	} else {
		cells := make([]string, 0, len(m.columns))
		for _, c := range m.visibleColumns() {
			cells = append(cells, fit(cellText(r.Get(c)), m.cols.Width(c)))
		}
		out = prefix + strings.Join(cells, " ")
	}

	switch {
	case pos == m.cursor:
		out = styles.CursorRowStyle.Render(out)
	case selected:
		out = styles.SelectedRowStyle.Render(out)
	}

	if expanded {
		out += "\n" + m.renderDetail(id, r, max(m.width, 40))
	}
	return out
}

// renderStacked renders a row as one labelled line per column.
func (m Model) renderStacked(prefix, id string, r record.Record) string {
	labelWidth := 0
	for _, c := range m.columns {
		labelWidth = max(labelWidth, lipgloss.Width(c))
	}
	valueWidth := max(m.width-markerWidth-labelWidth-2, 10)

	lines := []string{prefix + id}
	indent := strings.Repeat(" ", markerWidth)
	for _, c := range m.columns {
		v := strings.TrimSpace(record.String(r.Get(c)))
		if v == "" {
			continue
		}
		label := styles.MutedStyle.Width(labelWidth + 2).Render(c + ":")
		value := lipgloss.NewStyle().Width(valueWidth).Render(v)
		lines = append(lines, indent+lipgloss.JoinHorizontal(lipgloss.Top, label, value))
	}
	return strings.Join(lines, "\n")
}

func (m Model) markers(cursor, selected, expanded bool) string {
	var b strings.Builder
	if cursor {
		b.WriteString(">")
	} else {
		b.WriteString(" ")
	}
	if selected {
		b.WriteString(styles.IconSelected)
	} else {
		b.WriteString(" ")
	}
	if expanded {
		b.WriteString(styles.IconExpanded)
	} else {
		b.WriteString(styles.IconCollapsed)
	}
	b.WriteString(" ")
	return b.String()
}

func (m Model) renderStatus() string {
	rows := len(m.table.View())
	parts := []string{fmt.Sprintf("%d of %d", rows, m.table.Len())}
	if n := len(m.table.Selection()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if sort := m.table.Sort(); len(sort) > 0 {
		parts = append(parts, "sort "+sort.String())
	}
	if m.table.Loading() {
		parts = append(parts, "loading "+styles.IconPending)
	}
	if m.table.Pending() {
		parts = append(parts, "saving "+styles.IconPending)
	}
	status := styles.StatusBarStyle.Render(strings.Join(parts, " · "))

	invalid := m.table.InvalidFilters()
	if len(invalid) > 0 {
		reasons := make([]string, len(invalid))
		for i, fv := range invalid {
			reasons[i] = fv.Reason
		}
		status += "  " + styles.FilterInvalidStyle.Render(strings.Join(reasons, "; "))
	}
	if m.width > 0 {
		status = ansi.Truncate(status, m.width, "…")
	}
	return status
}

func (m Model) renderFooter() string {
	switch m.mode {
	case modeFilter:
		kind := m.table.FilterKind(m.inputField)
		if f, ok := m.table.Filter(m.inputField); ok {
			kind = f.Kind
		}
		prompt := fmt.Sprintf("filter %s (%s): ", m.inputField, kind)
		return styles.FilterPromptStyle.Render(prompt) + m.input.View()
	case modeEdit:
		n := 0
		if m.edit != nil {
			n = len(m.edit.Records())
		}
		prompt := fmt.Sprintf("set %s on %d record(s): ", m.inputField, n)
		return styles.FilterPromptStyle.Render(prompt) + m.input.View()
	}
	return m.help.View(m.keys)
}

// cellText flattens a value onto one line.
func cellText(v any) string {
	s := record.String(v)
	if strings.ContainsAny(s, "\r\n\t") {
		s = strings.Join(strings.Fields(s), " ")
	}
	return s
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// padLines pads s with empty lines to n lines.
func padLines(s string, n int) string {
	have := lipgloss.Height(s)
	if s == "" {
		have = 0
	}
	if have >= n {
		return s
	}
	if s == "" {
		return strings.Repeat("\n", n-1)
	}
	return s + strings.Repeat("\n", n-have)
}
