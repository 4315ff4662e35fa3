package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/data/db"
	"github.com/colonyops/ballotview/internal/printer"
)

type DBCmd struct {
	flags *Flags
	app   *app.App

	steps int
}

// NewDBCmd creates a new db command
func NewDBCmd(flags *Flags, a *app.App) *DBCmd {
	return &DBCmd{flags: flags, app: a}
}

// Register adds the db command to the application
func (cmd *DBCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:  "db",
		Usage: "Database maintenance commands",
		Commands: []*cli.Command{
			{
				Name:      "status",
				Usage:     "Show applied schema migrations",
				UsageText: "ballotview db status",
				Action:    cmd.runStatus,
			},
			{
				Name:      "rollback",
				Usage:     "Revert the latest schema migrations",
				UsageText: "ballotview db rollback [--steps N]",
				Description: `Reverts applied migrations, newest first.

Reverted tables lose their data. Migrations are applied again on the next run.`,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "steps",
						Usage:       "number of migrations to revert",
						Value:       1,
						Destination: &cmd.steps,
					},
				},
				Action: cmd.runRollback,
			},
		},
	})

	return root
}

func (cmd *DBCmd) runStatus(ctx context.Context, c *cli.Command) error {
	statuses, err := db.Status(ctx, cmd.app.DB.Conn())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
	for _, s := range statuses {
		applied := "pending"
		if s.Applied {
			applied = s.AppliedAt.Format(time.DateTime)
		}
		_, _ = fmt.Fprintf(w, "%04d\t%s\t%s\n", s.Version, s.Name, applied)
	}
	return w.Flush()
}

func (cmd *DBCmd) runRollback(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if err := db.MigrateDown(ctx, cmd.app.DB.Conn(), cmd.steps); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	p.Successf("Reverted %d migration(s)", cmd.steps)
	return nil
}
