package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/tui"
	"github.com/colonyops/ballotview/pkg/profiler"
)

type TuiCmd struct {
	flags *Flags
	app   *app.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, a *app.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: a}
}

// Flags returns the TUI-specific flags for registration on the root command.
// Subcommands inherit them.
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("BALLOTVIEW_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Browse a table interactively",
		UsageText: "ballotview tui <table> [key]",
		Description: `Opens the terminal browser on one dataset of a table.

Without a key the dataset opened last for the table is used. Sort, filters,
column widths and layout are saved on exit and restored next time.`,
		Action: cmd.run,
	})
	return root
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, c *cli.Command) error {
	name, key, err := tableArgs(ctx, c, cmd.app, true)
	if err != nil {
		return err
	}

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	h, err := cmd.app.OpenTable(name)
	if err != nil {
		return err
	}
	prefs, err := cmd.app.LoadPrefs(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("table", name).Msg("failed to load view preferences")
	}
	h.Table.Restore(prefs.View)
	cmd.app.Remember(ctx, name, key)

	m := tui.New(tui.Options{
		Table:  h.Table,
		Source: h.Store,
		Config: h.Config,
		View:   cmd.app.Config.View,
		Key:    key,
		Prefs:  prefs,
		Bus:    cmd.app.Bus,
		Save: func(p app.Prefs) error {
			return cmd.app.SavePrefs(context.Background(), name, p)
		},
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
