package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/core/filter"
	"github.com/colonyops/ballotview/internal/core/merge"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/styles"
	"github.com/colonyops/ballotview/internal/core/table"
	"github.com/colonyops/ballotview/internal/printer"
	"github.com/colonyops/ballotview/pkg/iojson"
)

type EditCmd struct {
	flags *Flags
	app   *app.App

	// flags
	selectIDs   []string
	where       []string
	set         []string
	interactive bool
	dryRun      bool
	input       iojson.FileReader[map[string]any]
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags, a *app.App) *EditCmd {
	return &EditCmd{
		flags: flags,
		app:   a,
		input: iojson.FileReader[map[string]any]{
			Usage: "path to a JSON or YAML object of field changes",
		},
	}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Bulk edit records of a dataset",
		UsageText: "ballotview edit <table> [key] (--select ID... | --where Field=value...) (--set Field=value... | --file changes.json | -i)",
		Description: `Edits the selected records as one merged record and saves per-record patches.

Records are selected by identity with --select or by filter with --where,
which selects every record the filters match. Changes come from --set, a
--file object or an interactive form. Only fields that change are written,
and a nested value is merged into each record's own value.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "select",
				Usage:       "identity of a record to edit (repeatable)",
				Destination: &cmd.selectIDs,
			},
			&cli.StringSliceFlag{
				Name:        "where",
				Usage:       "select the records matching Field=value (repeatable)",
				Destination: &cmd.where,
			},
			&cli.StringSliceFlag{
				Name:        "set",
				Usage:       "change to apply as Field=value (repeatable)",
				Destination: &cmd.set,
			},
			cmd.input.Flag(),
			&cli.BoolFlag{
				Name:        "interactive",
				Aliases:     []string{"i"},
				Usage:       "edit the merged record in a form",
				Destination: &cmd.interactive,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "print the patches without saving them",
				Destination: &cmd.dryRun,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if len(cmd.selectIDs) == 0 && len(cmd.where) == 0 {
		return errors.New("nothing to edit: use --select or --where")
	}
	sources := 0
	for _, on := range []bool{len(cmd.set) > 0, cmd.input.Provided(), cmd.interactive} {
		if on {
			sources++
		}
	}
	if sources != 1 {
		return errors.New("exactly one of --set, --file or --interactive is required")
	}

	name, key, err := tableArgs(ctx, c, cmd.app, true)
	if err != nil {
		return err
	}

	where, err := parseAssignments(cmd.where)
	if err != nil {
		return err
	}
	sets, err := parseAssignments(cmd.set)
	if err != nil {
		return err
	}

	h, _, err := cmd.app.OpenView(ctx, name, key)
	if err != nil {
		return err
	}
	t := h.Table

	if err := cmd.selectRecords(p, t, where); err != nil {
		return err
	}

	session, err := t.BeginEdit()
	if err != nil {
		return err
	}
	defer session.Cancel()

	switch {
	case len(sets) > 0:
		for _, a := range sets {
			session.Set(a.Field, filter.ParseRaw(a.Value, t.FieldType(a.Field)))
		}
	case cmd.input.Provided():
		changes, err := cmd.input.Read()
		if err != nil {
			return err
		}
		for field, v := range changes {
			session.Set(field, v)
		}
	case cmd.interactive:
		if err := cmd.runForm(t, session, h.Config.ColumnOrder()); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if cmd.dryRun {
		return iojson.Write(c.Root().Writer, c.Root().ErrWriter, session.Patches())
	}

	patches, err := session.Commit(ctx)
	if err != nil {
		return err
	}
	if len(patches) == 0 {
		p.Infof("No changes")
		return nil
	}

	p.Successf("Saved %d %s record(s)", len(patches), name)
	for _, patch := range patches {
		p.Printf("  %s: %s", patch.ID, changedFields(patch))
	}
	return nil
}

func (cmd *EditCmd) selectRecords(p *printer.Printer, t *table.Table, where []assignment) error {
	if len(cmd.selectIDs) > 0 {
		t.SetSelection(cmd.selectIDs...)
		for _, id := range cmd.selectIDs {
			if _, ok := t.Lookup(id); !ok {
				p.Warnf("no record %s", id)
			}
		}
	}

	if len(where) > 0 {
		t.ClearFilters()
		for _, a := range where {
			if err := t.AddFilterValue(a.Field, a.Value); err != nil {
				return fmt.Errorf("where: %w", err)
			}
		}
		if invalid := t.InvalidFilters(); len(invalid) > 0 {
			return fmt.Errorf("where: %s", invalid[0].Reason)
		}
		t.SelectAll()
	}

	if t.Selection().Len() == 0 {
		return table.ErrEmptySelection
	}
	return nil
}

// runForm shows one input per column, prefilled with the merged value.
// Fields left untouched are not changed.
func (cmd *EditCmd) runForm(t *table.Table, session *table.EditSession, columns []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("interactive edit requires a terminal")
	}

	initial := make(map[string]string, len(columns))
	values := make(map[string]*string, len(columns))
	fields := make([]huh.Field, 0, len(columns))
	for _, col := range columns {
		v := session.Value(col)
		text := record.String(v)
		if merge.IsMultiple(v) {
			text = ""
		}
		initial[col] = text
		values[col] = &text

		input := huh.NewInput().Title(col).Value(values[col])
		if merge.IsMultiple(v) {
			input = input.Placeholder(merge.Multiple.String()).
				Description(fmt.Sprintf("differs across %d records", len(session.Records())))
		}
		fields = append(fields, input)
	}

	err := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(styles.FormTheme()).
		Run()
	if err != nil {
		return err
	}

	for _, col := range columns {
		if *values[col] != initial[col] {
			session.Set(col, filter.ParseRaw(*values[col], t.FieldType(col)))
		}
	}
	return nil
}

func changedFields(patch merge.Patch) string {
	fields := make([]string, 0, len(patch.Changes))
	for f := range patch.Changes {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fmt.Sprint(fields)
}
