package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/ballotview/internal/core/filter"
	"github.com/colonyops/ballotview/internal/core/merge"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/sorting"
	"github.com/colonyops/ballotview/internal/core/table"
)

// filterSeparator joins the OR-combined values of one field in the filter
// prompt.
const filterSeparator = " | "

// handleKey processes keys in normal mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.savePrefs()
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, k.Up):
		m.setCursor(m.cursor - 1)
	case key.Matches(msg, k.Down):
		m.setCursor(m.cursor + 1)
	case key.Matches(msg, k.PageUp):
		m.page(-1)
	case key.Matches(msg, k.PageDown):
		m.page(1)
	case key.Matches(msg, k.Top):
		m.setCursor(0)
	case key.Matches(msg, k.Bottom):
		m.setCursor(len(m.table.View()) - 1)
	case key.Matches(msg, k.Left):
		m.moveColumn(-1)
	case key.Matches(msg, k.Right):
		m.moveColumn(1)

	case key.Matches(msg, k.Sort):
		m.table.ClickSort(m.currentColumn(), 0)
		m.sync()
	case key.Matches(msg, k.SortAdd):
		m.table.ClickSort(m.currentColumn(), sorting.Shift)
		m.sync()
	case key.Matches(msg, k.SortRemove):
		m.table.ClickSort(m.currentColumn(), sorting.Ctrl)
		m.sync()

	case key.Matches(msg, k.Filter):
		return m.openFilter()
	case key.Matches(msg, k.ClearField):
		m.table.ClearFilter(m.currentColumn())
		m.sync()
	case key.Matches(msg, k.ClearAll):
		m.table.ClearFilters()
		m.sync()

	case key.Matches(msg, k.Select):
		if m.cursorID != "" {
			m.table.ToggleSelected(m.cursorID)
		}
	case key.Matches(msg, k.SelectAll):
		m.table.SelectAll()
	case key.Matches(msg, k.Deselect):
		m.table.ClearSelection()

	case key.Matches(msg, k.Expand):
		if m.cursorID != "" {
			m.table.ToggleExpanded(m.cursorID)
			m.layout.ClearRowHeight(m.cursor)
		}

	case key.Matches(msg, k.Stacked):
		m.stacked = !m.stacked
		m.layout.ClearAllRowHeights()
		m.colOffset = 0

	case key.Matches(msg, k.Widen):
		m.resizeColumn(1)
	case key.Matches(msg, k.Narrow):
		m.resizeColumn(-1)

	case key.Matches(msg, k.Edit):
		return m.openEdit()

	case key.Matches(msg, k.Reload):
		return m, m.load()

	case key.Matches(msg, k.Dismiss):
		m.toasts.Dismiss()
		return m, nil

	default:
		return m, nil
	}

	return m, tea.Batch(m.measure(), m.ensureToastTick())
}

// handleInputKey processes keys while the filter or edit prompt is open.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc, keyCtrlC:
		if m.mode == modeEdit && m.edit != nil {
			m.edit.Cancel()
			m.edit = nil
		}
		m.closeInput()
		return m, nil
	case keyEnter:
		field, value, mode := m.inputField, m.input.Value(), m.mode
		m.closeInput()
		if mode == modeFilter {
			m.applyFilter(field, value)
			return m, tea.Batch(m.measure(), m.ensureToastTick())
		}
		return m.applyEdit(field, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeNormal
	m.inputField = ""
	m.input.Blur()
	m.input.Reset()
}

// openFilter prompts for the filter of the current column, prefilled with its
// current values.
func (m Model) openFilter() (tea.Model, tea.Cmd) {
	field := m.currentColumn()
	if field == "" {
		return m, nil
	}
	if !m.table.Schema().CanFilter(field) {
		m.warnf("%s cannot be filtered", field)
		return m, m.ensureToastTick()
	}

	var raws []string
	if f, ok := m.table.Filter(field); ok {
		raws = f.Raws()
	}
	m.mode = modeFilter
	m.inputField = field
	m.input.SetValue(strings.Join(raws, filterSeparator))
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// applyFilter replaces the filter of field with the values typed into the
// prompt. Regex input is kept whole since the separator may be part of the
// pattern.
func (m *Model) applyFilter(field, input string) {
	kind := m.table.FilterKind(field)
	if f, ok := m.table.Filter(field); ok {
		kind = f.Kind
	}

	var raws []string
	if kind == filter.Regex {
		if s := strings.TrimSpace(input); s != "" {
			raws = []string{s}
		}
	} else {
		for _, part := range strings.Split(input, strings.TrimSpace(filterSeparator)) {
			if s := strings.TrimSpace(part); s != "" {
				raws = append(raws, s)
			}
		}
	}

	if err := m.table.SetFilter(field, kind, raws...); err != nil {
		m.warnf("filter %s: %v", field, err)
		return
	}
	m.sync()

	for _, fv := range m.table.InvalidFilters() {
		m.log.Debug().Str("field", field).Str("reason", fv.Reason).Msg("filter value rejected")
	}
}

// openEdit merges the selection and prompts for the current column.
func (m Model) openEdit() (tea.Model, tea.Cmd) {
	field := m.currentColumn()
	if field == "" {
		return m, nil
	}
	if m.table.Len() > 0 && len(m.table.Selection()) == 0 && m.cursorID != "" {
		m.table.ToggleSelected(m.cursorID)
	}

	session, err := m.table.BeginEdit()
	if err != nil {
		switch {
		case errors.Is(err, table.ErrEmptySelection):
			m.warnf("select records to edit")
		case errors.Is(err, table.ErrEditPending):
			m.warnf("a save is still in progress")
		default:
			m.warnf("edit: %v", err)
		}
		return m, m.ensureToastTick()
	}

	m.edit = session
	m.mode = modeEdit
	m.inputField = field
	value := session.Value(field)
	if merge.IsMultiple(value) {
		m.input.SetValue("")
		m.input.Placeholder = merge.Multiple.String()
	} else {
		m.input.SetValue(record.String(value))
		m.input.Placeholder = ""
	}
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// applyEdit stages the typed value on every selected record and submits the
// resulting patches.
func (m Model) applyEdit(field, input string) (tea.Model, tea.Cmd) {
	session := m.edit
	if session == nil {
		return m, nil
	}
	session.Set(field, filter.ParseRaw(input, m.table.FieldType(field)))

	sub, err := session.BeginCommit()
	if err != nil {
		m.warnf("save: %v", err)
		m.edit = nil
		return m, m.ensureToastTick()
	}
	if len(sub.Patches) == 0 {
		m.edit = nil
		return m, nil
	}
	m.log.Info().Str("batch", sub.ID).Str("field", field).Int("patches", len(sub.Patches)).Msg("submitting edit")
	return m, m.submit(sub)
}

// handleSaved applies the result of a patch submission.
func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	session := m.edit
	m.edit = nil
	if session == nil {
		m.log.Warn().Str("batch", msg.sub.ID).Msg("patch response without an edit session")
		return m, nil
	}
	if err := session.CompleteCommit(msg.sub, msg.records, msg.err); err != nil {
		return m, m.ensureToastTick()
	}
	m.sync()
	m.layout.ClearAllRowHeights()
	m.details.Clear()
	return m, m.measure()
}

func (m *Model) page(dir int) {
	rows := m.layout.Rows()
	if rows == 0 {
		return
	}
	vp := m.viewport()
	m.layout.ScrollBy(dir*vp, vp)
	target := m.layout.RowAt(m.layout.ScrollTop())
	if dir > 0 {
		target = max(target, m.cursor+1)
	} else {
		target = min(target, m.cursor-1)
	}
	m.setCursor(target)
}

func (m *Model) moveColumn(delta int) {
	if len(m.columns) == 0 {
		return
	}
	m.colCursor = min(max(m.colCursor+delta, 0), len(m.columns)-1)
	m.fitColumns()
}

func (m *Model) resizeColumn(delta int) {
	field := m.currentColumn()
	if field == "" {
		return
	}
	m.cols.Resize(field, delta)
	if m.stacked {
		m.layout.ClearAllRowHeights()
	}
	m.fitColumns()
}

// fitColumns scrolls the column window so the current column is shown.
func (m *Model) fitColumns() {
	if m.colCursor < m.colOffset {
		m.colOffset = m.colCursor
		return
	}
	if m.width <= 0 {
		return
	}
	for m.colOffset < m.colCursor {
		used := markerWidth
		for i := m.colOffset; i <= m.colCursor; i++ {
			used += m.cols.Width(m.columns[i]) + 1
		}
		if used <= m.width {
			return
		}
		m.colOffset++
	}
}

func (m Model) currentColumn() string {
	if m.colCursor < 0 || m.colCursor >= len(m.columns) {
		return ""
	}
	return m.columns[m.colCursor]
}

func (m Model) warnf(format string, args ...any) {
	if m.bus != nil {
		m.bus.Warnf(format, args...)
	}
}

func (m Model) savePrefs() {
	if m.save == nil {
		return
	}
	if err := m.save(m.prefs()); err != nil {
		m.log.Error().Err(err).Msg("failed to save view preferences")
	}
}
