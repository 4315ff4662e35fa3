package styles

// Table glyphs.
var (
	IconSortAsc   = "▲"
	IconSortDesc  = "▼"
	IconSelected  = "●"
	IconExpanded  = "▾"
	IconCollapsed = "▸"
	IconFiltered  = "⚲"
	IconPending   = "…"
)
