package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/printer"
	"github.com/colonyops/ballotview/pkg/iojson"
)

type ImportCmd struct {
	flags *Flags
	app   *app.App

	// flags
	replace bool
	input   iojson.FileReader[[]record.Record]
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, a *app.App) *ImportCmd {
	return &ImportCmd{
		flags: flags,
		app:   a,
		input: iojson.FileReader[[]record.Record]{
			Usage: "path to a JSON or YAML array of records (reads JSON from stdin if not provided)",
		},
	}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Load records into a dataset",
		UsageText: "ballotview import <table> <key> [file] [--replace]",
		Description: `Upserts records into the dataset of a table by row key.

Records are read from the file argument, the --file flag or stdin. Existing
records keep their position; new records are appended. With --replace the
dataset is emptied first.`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.BoolFlag{
				Name:        "replace",
				Usage:       "remove records missing from the input",
				Destination: &cmd.replace,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	name, key, err := tableArgs(ctx, c, cmd.app, false)
	if err != nil {
		return err
	}
	if path := c.Args().Get(2); path != "" && !cmd.input.Provided() {
		cmd.input.Set(path)
	}

	records, err := cmd.input.Read()
	if err != nil {
		return err
	}

	store, _, err := cmd.app.Records(name)
	if err != nil {
		return err
	}

	res, err := store.Import(ctx, key, records, cmd.replace)
	if err != nil {
		return fmt.Errorf("import %s %s: %w", name, key, err)
	}
	cmd.app.Remember(ctx, name, key)

	p.Successf("Imported %d record(s) into %s %s", len(records), name, key)
	p.Printf("  inserted: %d  updated: %d  removed: %d", res.Inserted, res.Updated, res.Removed)
	return nil
}
