package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/styles"
)

// detailMarkdown lays out every field of r as a markdown definition list.
// Fields are listed in column order first, then the rest by name.
func detailMarkdown(r record.Record, columns []string) string {
	seen := make(map[string]bool, len(columns))
	order := make([]string, 0, len(r))
	for _, c := range columns {
		if _, ok := r[c]; ok {
			order = append(order, c)
			seen[c] = true
		}
	}
	for _, f := range slices.Sorted(maps.Keys(r)) {
		if !seen[f] {
			order = append(order, f)
		}
	}

	var b strings.Builder
	for _, f := range order {
		v := strings.TrimSpace(record.String(r[f]))
		if v == "" {
			continue
		}
		if strings.Contains(v, "\n") {
			fmt.Fprintf(&b, "**%s**\n\n%s\n\n", f, v)
			continue
		}
		fmt.Fprintf(&b, "**%s**: %s\n\n", f, v)
	}
	return b.String()
}

// detailFrame is the horizontal space taken by the detail block's margin and
// border.
const detailFrame = 3

// renderDetail renders the expansion block of a record, cached per identity
// and width.
func (m Model) renderDetail(id string, r record.Record, width int) string {
	cacheKey := fmt.Sprintf("%s@%d", id, width)
	return m.details.GetOrCompute(cacheKey, func() string {
		inner := max(width-detailFrame, 10)
		md := detailMarkdown(r, m.columns)
		return styles.DetailStyle.Width(inner).Render(renderMarkdown(md, inner-1))
	})
}

func renderMarkdown(md string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(max(width, 10)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return md
	}
	return strings.Trim(rendered, "\n")
}
