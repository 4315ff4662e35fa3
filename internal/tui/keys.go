package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the table browser bindings.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Left       key.Binding
	Right      key.Binding
	Sort       key.Binding
	SortAdd    key.Binding
	SortRemove key.Binding
	Filter     key.Binding
	ClearField key.Binding
	ClearAll   key.Binding
	Select     key.Binding
	SelectAll  key.Binding
	Deselect   key.Binding
	Expand     key.Binding
	Stacked    key.Binding
	Widen      key.Binding
	Narrow     key.Binding
	Edit       key.Binding
	Reload     key.Binding
	Dismiss    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by column")),
		SortAdd:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "add sort key")),
		SortRemove: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "remove sort key")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter column")),
		ClearField: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear column filter")),
		ClearAll:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all filters")),
		Select:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		SelectAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select shown")),
		Deselect:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "clear selection")),
		Expand:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
		Stacked:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stacked layout")),
		Widen:      key.NewBinding(key.WithKeys("+", ">"), key.WithHelp("+", "widen column")),
		Narrow:     key.NewBinding(key.WithKeys("-", "<"), key.WithHelp("-", "narrow column")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit selection")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Dismiss:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "dismiss notice")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sort, k.Filter, k.Select, k.Expand, k.Edit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom, k.Left, k.Right},
		{k.Sort, k.SortAdd, k.SortRemove, k.Filter, k.ClearField, k.ClearAll},
		{k.Select, k.SelectAll, k.Deselect, k.Expand, k.Edit},
		{k.Stacked, k.Widen, k.Narrow, k.Reload, k.Dismiss, k.Help, k.Quit},
	}
}
