package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/printer"
	"github.com/colonyops/ballotview/internal/render"
	"github.com/colonyops/ballotview/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *app.App

	// flags
	filters    []string
	sorts      []string
	fresh      bool
	jsonOutput bool
	htmlOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, a *app.App) *LsCmd {
	return &LsCmd{flags: flags, app: a}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List the records of a dataset",
		UsageText: "ballotview ls <table> [key] [--filter Field=value]... [--sort Field[:desc]]... [--json|--html]",
		Description: `Prints the filtered, sorted view of a dataset.

The saved sort and filters of the table apply unless --fresh is given.
Repeating --filter for a field ORs the values; different fields AND.
Each --sort adds a key after the previous ones.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "filter",
				Usage:       "filter as Field=value (repeatable)",
				Destination: &cmd.filters,
			},
			&cli.StringSliceFlag{
				Name:        "sort",
				Usage:       "sort key as Field or Field:desc (repeatable)",
				Destination: &cmd.sorts,
			},
			&cli.BoolFlag{
				Name:        "fresh",
				Usage:       "ignore the saved sort and filters",
				Destination: &cmd.fresh,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the records as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "html",
				Usage:       "output the view as an HTML document",
				Destination: &cmd.htmlOutput,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.jsonOutput && cmd.htmlOutput {
		return errors.New("--json and --html are mutually exclusive")
	}

	name, key, err := tableArgs(ctx, c, cmd.app, true)
	if err != nil {
		return err
	}

	filters, err := parseAssignments(cmd.filters)
	if err != nil {
		return err
	}
	spec, err := parseSort(cmd.sorts)
	if err != nil {
		return err
	}

	h, _, err := cmd.app.OpenView(ctx, name, key)
	if err != nil {
		return err
	}
	t := h.Table

	if cmd.fresh {
		t.ClearFilters()
		t.SetSort(nil)
	}
	if len(filters) > 0 {
		t.ClearFilters()
		for _, f := range filters {
			if err := t.AddFilterValue(f.Field, f.Value); err != nil {
				return fmt.Errorf("filter: %w", err)
			}
		}
	}
	if len(spec) > 0 {
		t.SetSort(spec)
		if dropped := len(spec) - len(t.Sort()); dropped > 0 {
			p.Warnf("ignored %d sort key(s) on fields that cannot be sorted", dropped)
		}
	}
	for _, fv := range t.InvalidFilters() {
		p.Warnf("ignored filter %s", fv.Reason)
	}

	out := c.Root().Writer
	columns := h.Config.ColumnOrder()

	switch {
	case cmd.jsonOutput:
		records := make([]record.Record, 0, len(t.View()))
		for _, i := range t.View() {
			records = append(records, t.Record(i))
		}
		return iojson.Write(out, c.Root().ErrWriter, records)

	case cmd.htmlOutput:
		r, err := render.New()
		if err != nil {
			return err
		}
		return r.Render(out, render.FromTable(t, columns, time.Now()))
	}

	if len(t.View()) == 0 {
		p.Infof("No records")
		return nil
	}

	// the ID column already carries the identity
	columns = slices.DeleteFunc(slices.Clone(columns), func(col string) bool {
		return col == h.Schema.IdentityKey
	})

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(columns)+1)
	header = append(header, "ID")
	for _, col := range columns {
		header = append(header, strings.ToUpper(col))
	}
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))

	widths := h.Config.Widths()
	for _, i := range t.View() {
		r := t.Record(i)
		cells := make([]string, 0, len(columns)+1)
		cells = append(cells, t.Identity(i))
		for _, col := range columns {
			cells = append(cells, cell(r.Get(col), widths[col]))
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()

	if len(t.View()) < t.Len() {
		p.Infof("%d of %d records shown", len(t.View()), t.Len())
	}
	return nil
}

// cell flattens a value onto one line and cuts it to width when set.
func cell(v any, width int) string {
	s := strings.Join(strings.Fields(record.String(v)), " ")
	if width > 0 {
		s = ansi.Truncate(s, width, "…")
	}
	return s
}
