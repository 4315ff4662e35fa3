// Package tui implements the terminal table browser: a windowed view over one
// table slot with sorting, filtering, selection, expansion and bulk edits.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/core/config"
	"github.com/colonyops/ballotview/internal/core/logging"
	"github.com/colonyops/ballotview/internal/core/notify"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/table"
	"github.com/colonyops/ballotview/internal/core/view"
	"github.com/colonyops/ballotview/internal/core/virtual"
	notifybus "github.com/colonyops/ballotview/internal/notify"
	"github.com/colonyops/ballotview/pkg/kv"
)

const (
	defaultColumnWidth = 12
	minColumnWidth     = 3
	detailCacheSize    = 256
	// markerWidth is the width of the cursor, selection and expansion
	// markers in front of every row.
	markerWidth = 4
)

// Key constants for input handling.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeFilter
	modeEdit
)

// Options configures the browser.
type Options struct {
	Table  *table.Table
	Source table.Source
	Config config.TableConfig
	View   config.ViewConfig
	Key    string
	Prefs  app.Prefs
	// Save persists the view preferences on quit. Optional.
	Save func(app.Prefs) error
	// Bus receives the table's failures; its notices are shown as toasts.
	Bus *notifybus.Bus
}

// loadedMsg carries a dataset response back into the update loop.
type loadedMsg struct {
	req     table.Request
	records []record.Record
	err     error
}

// savedMsg carries a patch submission result back into the update loop.
type savedMsg struct {
	sub     table.Submission
	records []record.Record
	err     error
}

// reflowMsg applies the measured row heights collected since the last flush.
type reflowMsg struct{}

// Model is the Bubble Tea model of the table browser.
type Model struct {
	table   *table.Table
	source  table.Source
	key     string
	columns []string

	layout  *virtual.Layout
	cols    *virtual.Columns
	details *kv.Store[string, string]
	toasts  *ToastController
	bus     *notifybus.Bus
	save    func(app.Prefs) error
	log     zerolog.Logger

	keys       keyMap
	help       help.Model
	input      textinput.Model
	mode       inputMode
	inputField string
	edit       *table.EditSession

	debounce  time.Duration
	stacked   bool
	width     int
	height    int
	cursor    int
	cursorID  string
	colCursor int
	colOffset int
	gen       view.Generation
	quitting  bool
}

// New creates the browser for one table and dataset key.
func New(opts Options) Model {
	cols := virtual.NewColumns(defaultColumnWidth, minColumnWidth)
	widths := opts.Config.Widths()
	for field, w := range opts.Prefs.Widths {
		widths[field] = w
	}
	cols.Restore(widths)

	stacked := opts.View.Stacked
	if opts.Prefs.Stacked != nil {
		stacked = *opts.Prefs.Stacked
	}

	input := textinput.New()
	input.Prompt = ""

	toasts := NewToastController()
	if opts.Bus != nil {
		opts.Bus.Subscribe(func(n notify.Notification) {
			toasts.Push(n)
		})
	}

	return Model{
		table:    opts.Table,
		source:   opts.Source,
		key:      opts.Key,
		columns:  opts.Config.ColumnOrder(),
		layout:   virtual.NewLayout(opts.View.RowHeight, opts.View.Overscan),
		cols:     cols,
		details:  kv.NewBounded[string, string](detailCacheSize),
		toasts:   toasts,
		bus:      opts.Bus,
		save:     opts.Save,
		log:      logging.Component("tui"),
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    input,
		debounce: opts.View.ReflowDebounce,
		stacked:  stacked,
	}
}

// Init starts loading the dataset.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update handles incoming events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-40, 10)
		m.details.Clear()
		m.layout.ClearAllRowHeights()
		m.fitColumns()
		return m, m.measure()

	case loadedMsg:
		m.table.CompleteLoad(msg.req, msg.records, msg.err)
		m.sync()
		return m, tea.Batch(m.measure(), m.ensureToastTick())

	case savedMsg:
		return m.handleSaved(msg)

	case reflowMsg:
		m.layout.Flush()
		m.layout.EnsureVisible(m.cursor, m.viewport())
		return m, m.measure()

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.Len() == 0 {
			m.toasts.ticking = false
			return m, nil
		}
		return m, scheduleToastTick()

	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// load starts a fetch for the current key and returns the command that
// performs it off the update loop.
func (m Model) load() tea.Cmd {
	if m.source == nil {
		return nil
	}
	req := m.table.BeginLoad(m.key)
	src := m.source
	return func() tea.Msg {
		records, err := src.FetchDataset(context.Background(), req.Key)
		return loadedMsg{req: req, records: records, err: err}
	}
}

func (m Model) submit(sub table.Submission) tea.Cmd {
	src := m.source
	return func() tea.Msg {
		records, err := src.SubmitPatch(context.Background(), sub.Key, sub.Patches)
		return savedMsg{sub: sub, records: records, err: err}
	}
}

func (m *Model) ensureToastTick() tea.Cmd {
	if m.toasts.Len() == 0 || m.toasts.ticking {
		return nil
	}
	m.toasts.ticking = true
	return scheduleToastTick()
}

// sync follows the table after a change that may have replaced the view.
// Measured heights belong to view positions, so a new view starts over.
func (m *Model) sync() {
	gen := m.table.Generation()
	if gen == m.gen {
		return
	}
	if gen.Dataset != m.gen.Dataset {
		m.details.Clear()
	}
	m.gen = gen

	rows := m.table.View()
	m.layout.SetRowCount(len(rows))
	m.layout.ClearAllRowHeights()

	m.cursor = min(m.cursor, max(len(rows)-1, 0))
	if m.cursorID != "" {
		for pos, idx := range rows {
			if m.table.Identity(idx) == m.cursorID {
				m.cursor = pos
				break
			}
		}
	}
	m.setCursor(m.cursor)
}

// setCursor moves the row cursor and scrolls it into view.
func (m *Model) setCursor(row int) {
	rows := m.table.View()
	if len(rows) == 0 {
		m.cursor, m.cursorID = 0, ""
		return
	}
	m.cursor = min(max(row, 0), len(rows)-1)
	m.cursorID = m.table.Identity(rows[m.cursor])
	m.layout.EnsureVisible(m.cursor, m.viewport())
}

// prefs captures the state worth restoring next time.
func (m Model) prefs() app.Prefs {
	stacked := m.stacked
	return app.Prefs{
		View:    m.table.Snapshot(),
		Widths:  m.cols.Widths(),
		Stacked: &stacked,
	}
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}
