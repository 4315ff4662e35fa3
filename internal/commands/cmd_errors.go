package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/core/notify"
	"github.com/colonyops/ballotview/internal/printer"
	"github.com/colonyops/ballotview/pkg/iojson"
)

type ErrorsCmd struct {
	flags *Flags
	app   *app.App

	clear      bool
	jsonOutput bool
}

// NewErrorsCmd creates a new errors command
func NewErrorsCmd(flags *Flags, a *app.App) *ErrorsCmd {
	return &ErrorsCmd{flags: flags, app: a}
}

// Register adds the errors command to the application
func (cmd *ErrorsCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "errors",
		Usage:     "Show past load and save failures",
		UsageText: "ballotview errors [--clear]",
		Description: `Lists the notifications raised by failed loads and saves, newest first.

Notifications are kept between runs until cleared.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "delete all notifications",
				Destination: &cmd.clear,
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

func (cmd *ErrorsCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.clear {
		if err := cmd.app.Bus.Clear(); err != nil {
			return fmt.Errorf("clear notifications: %w", err)
		}
		p.Successf("Notifications cleared")
		return nil
	}

	history, err := cmd.app.Bus.History()
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	if cmd.jsonOutput {
		if history == nil {
			history = []notify.Notification{}
		}
		return iojson.Write(c.Root().Writer, c.Root().ErrWriter, history)
	}

	if len(history) == 0 {
		p.Infof("No notifications")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tLEVEL\tSOURCE\tMESSAGE")
	for _, n := range history {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.CreatedAt.Format(time.DateTime), n.Level, n.Source, n.Message)
	}
	return w.Flush()
}
