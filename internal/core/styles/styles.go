// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	HeaderStyle  lipgloss.Style
	DividerStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarnStyle    lipgloss.Style
	InfoStyle    lipgloss.Style
	SuccessStyle lipgloss.Style

	// Table styles.
	ColumnHeaderStyle       lipgloss.Style
	ColumnHeaderActiveStyle lipgloss.Style
	CellStyle               lipgloss.Style
	CursorRowStyle          lipgloss.Style
	SelectedRowStyle        lipgloss.Style
	MutedStyle              lipgloss.Style
	StatusBarStyle          lipgloss.Style
	FilterPromptStyle       lipgloss.Style
	FilterInvalidStyle      lipgloss.Style
	DetailStyle             lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	WarnStyle = lipgloss.NewStyle().Foreground(p.Warning)
	InfoStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)

	ColumnHeaderStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Bold(true).
		PaddingRight(1)
	ColumnHeaderActiveStyle = ColumnHeaderStyle.
		Foreground(p.Primary).
		Underline(true)
	CellStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		PaddingRight(1)
	CursorRowStyle = lipgloss.NewStyle().
		Background(p.Surface)
	SelectedRowStyle = lipgloss.NewStyle().
		Foreground(p.Primary)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		PaddingLeft(1)
	FilterPromptStyle = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)
	FilterInvalidStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Italic(true)
	DetailStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Muted).
		PaddingLeft(1).
		MarginLeft(2)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorPtr(CurrentPalette.Foreground)
	primary := colorPtr(CurrentPalette.Primary)
	secondary := colorPtr(CurrentPalette.Secondary)
	muted := colorPtr(CurrentPalette.Muted)

	var margin uint
	cfg.Document.Margin = &margin
	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.Strong.Color = secondary
	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted
	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	return cfg
}
