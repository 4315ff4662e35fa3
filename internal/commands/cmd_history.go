package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/core/merge"
	"github.com/colonyops/ballotview/internal/printer"
	"github.com/colonyops/ballotview/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags
	app   *app.App

	limit      int
	jsonOutput bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags, a *app.App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: a}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Show the saved edits of a dataset",
		UsageText: "ballotview history <table> [key] [--limit N]",
		Description: `Lists the patches written to a dataset, newest first.

Patches saved together share a batch id.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of patches to show",
				Value:       50,
				Destination: &cmd.limit,
			},
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

type historyJSON struct {
	Batch     string         `json:"batch"`
	ID        string         `json:"id"`
	Changes   map[string]any `json:"changes"`
	CreatedAt time.Time      `json:"created_at"`
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.limit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}

	name, key, err := tableArgs(ctx, c, cmd.app, true)
	if err != nil {
		return err
	}
	store, _, err := cmd.app.Records(name)
	if err != nil {
		return err
	}

	entries, err := store.History(ctx, key, cmd.limit)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		out := make([]historyJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, historyJSON{
				Batch:     e.BatchID,
				ID:        e.RowKey,
				Changes:   e.Changes,
				CreatedAt: e.CreatedAt,
			})
		}
		return iojson.Write(c.Root().Writer, c.Root().ErrWriter, out)
	}

	if len(entries) == 0 {
		p.Infof("No edits saved for %s %s", name, key)
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tBATCH\tID\tFIELDS")
	for _, e := range entries {
		batch := e.BatchID
		if len(batch) > 8 {
			batch = batch[:8]
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format(time.DateTime),
			batch,
			e.RowKey,
			changedFields(merge.Patch{ID: e.RowKey, Changes: e.Changes}),
		)
	}
	return w.Flush()
}
