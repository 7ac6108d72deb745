package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/brewfocus/internal/domain"
)

type brewOptions struct {
	sessionOptions
	roast     domain.Roast
	autostart bool
}

func newBrewCmd(app *App) *cobra.Command {
	opts := brewOptions{roast: app.Config.Roast}

	cmd := &cobra.Command{
		Use:   "brew",
		Short: "Open the brewing timer",
		Long: `Open the full-screen timer.

Keys: space starts or pauses, r resets, 1-4 pick the phase, c edits the
custom time, b changes the roast, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrew(cmd, app, opts)
		},
	}

	addSessionFlags(cmd, &opts.sessionOptions)
	cmd.Flags().Var(newRoastValue(&opts.roast), "roast", "colour theme (light, medium, dark)")
	cmd.Flags().BoolVar(&opts.autostart, "autostart", false, "start brewing immediately")
	return cmd
}

func runBrew(cmd *cobra.Command, app *App, opts brewOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess := app.newSession(cmd, opts.sessionOptions)
	stop := startSession(ctx, sess)
	defer stop()

	roast := opts.roast
	if roast == "" {
		roast = domain.RoastLight
	}
	m := newAppModel(app, sess, roast, opts.autostart)

	run := app.RunProgram
	if run == nil {
		run = func(ctx context.Context, m tea.Model) error {
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		}
	}

	err := run(ctx, m)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
