package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/printer"
	"github.com/colonyops/ballotview/pkg/iojson"
)

type DatasetsCmd struct {
	flags *Flags
	app   *app.App

	jsonOutput bool
}

// NewDatasetsCmd creates a new datasets command
func NewDatasetsCmd(flags *Flags, a *app.App) *DatasetsCmd {
	return &DatasetsCmd{flags: flags, app: a}
}

// Register adds the datasets command to the application
func (cmd *DatasetsCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "datasets",
		Usage:     "List the stored datasets of a table",
		UsageText: "ballotview datasets [table]",
		Description: `Lists every dataset key stored for a table with its record count.

Without a table name every configured table is listed.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return root
}

type datasetJSON struct {
	Table     string    `json:"table"`
	Key       string    `json:"key"`
	Records   int64     `json:"records"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (cmd *DatasetsCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	names := cmd.app.Config.TableNames()
	if name := c.Args().First(); name != "" {
		names = []string{name}
	}

	var rows []datasetJSON
	for _, name := range names {
		store, _, err := cmd.app.Records(name)
		if err != nil {
			return err
		}
		infos, err := store.Datasets(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		for _, info := range infos {
			rows = append(rows, datasetJSON{
				Table:     name,
				Key:       info.Key,
				Records:   info.Records,
				UpdatedAt: info.UpdatedAt,
			})
		}
	}

	if cmd.jsonOutput {
		if rows == nil {
			rows = []datasetJSON{}
		}
		return iojson.Write(c.Root().Writer, c.Root().ErrWriter, rows)
	}

	if len(rows) == 0 {
		p.Infof("No datasets")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TABLE\tKEY\tRECORDS\tUPDATED")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Table, r.Key, r.Records, r.UpdatedAt.Format(time.DateTime))
	}
	return w.Flush()
}
