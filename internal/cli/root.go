package cli

import (
	"context"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/brewfocus/internal/barista"
	"github.com/alexanderramin/brewfocus/internal/clock"
	"github.com/alexanderramin/brewfocus/internal/config"
	"github.com/alexanderramin/brewfocus/internal/domain"
	"github.com/alexanderramin/brewfocus/internal/logging"
	"github.com/alexanderramin/brewfocus/internal/timer"
)

// App holds the dependencies shared by all commands.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Barista barista.Suggester

	// Clock drives every session; nil uses the system clock.
	Clock clock.Clock

	// Bell receives the BEL byte when a phase completes and Config.Bell is
	// set. Nil disables it.
	Bell io.Writer

	IsInteractive func() bool

	// RunProgram runs the TUI model until it quits.
	RunProgram func(ctx context.Context, m tea.Model) error
}

// NewRootCmd creates the top-level "brewfocus" command. Without a
// subcommand it opens the TUI on a terminal and runs headless otherwise.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "brewfocus",
		Short:         "A pomodoro timer that brews while you focus",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runBrew(cmd, app, brewOptions{roast: app.Config.Roast})
			}
			return runTimer(cmd, app, timerOptions{})
		},
	}

	root.AddCommand(
		newBrewCmd(app),
		newTimerCmd(app),
		newPhasesCmd(app),
		newSuggestCmd(app),
	)
	return root
}

func (app *App) logger() *slog.Logger {
	if app.Logger == nil {
		return logging.Discard()
	}
	return app.Logger
}

// sessionOptions are the flags shared by brew and timer.
type sessionOptions struct {
	phase   domain.Phase
	hours   int
	minutes int
}

func addSessionFlags(cmd *cobra.Command, o *sessionOptions) {
	cmd.Flags().Var(newPhaseValue(&o.phase), "phase", "phase to start on (focus, short, long, custom)")
	cmd.Flags().IntVar(&o.hours, "hours", 0, "custom brew hours (0-23)")
	cmd.Flags().IntVar(&o.minutes, "minutes", 0, "custom brew minutes (0-59)")
}

// customSeconds merges --hours/--minutes over the configured custom length.
// A flag that was not given keeps its part of the configured value.
func customSeconds(cmd *cobra.Command, base int, o sessionOptions) int {
	h, m := base/3600, (base%3600)/60
	if cmd.Flags().Changed("hours") {
		h = domain.ClampHours(o.hours)
	}
	if cmd.Flags().Changed("minutes") {
		m = domain.ClampMinutes(o.minutes)
	}
	return h*3600 + m*60
}

func (app *App) newSession(cmd *cobra.Command, o sessionOptions) *timer.Session {
	var notifier timer.Notifier = timer.NoopNotifier{}
	if app.Config.Bell && app.Bell != nil {
		notifier = timer.NewBellNotifier(app.Bell)
	}
	return timer.NewSession(timer.Config{
		Clock:         app.Clock,
		TickInterval:  app.Config.TickInterval,
		CustomSeconds: customSeconds(cmd, app.Config.CustomSeconds, o),
		Phase:         o.phase,
		Notifier:      notifier,
		Logger:        app.logger(),
	})
}

// startSession runs sess until the returned stop function is called.
func startSession(ctx context.Context, sess *timer.Session) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	go sess.Run(ctx)
	return func() {
		cancel()
		<-sess.Done()
	}
}
