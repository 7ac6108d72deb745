package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/brewfocus/internal/cli/formatter"
	"github.com/alexanderramin/brewfocus/internal/present"
	"github.com/alexanderramin/brewfocus/internal/timer"
)

type timerOptions struct {
	sessionOptions
	stopAfter int
}

func newTimerCmd(app *App) *cobra.Command {
	var opts timerOptions

	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run the timer without the full-screen UI",
		Long: `Run the timer and print one line per second.

Focus and break phases chain into each other until interrupted or until
--stop-after phases have completed. A custom brew stops when it finishes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimer(cmd, app, opts)
		},
	}

	addSessionFlags(cmd, &opts.sessionOptions)
	cmd.Flags().IntVar(&opts.stopAfter, "stop-after", 0, "exit after this many completed phases (0 runs until interrupted)")
	return cmd
}

// lineSink prints a frame when the clock or caption changes.
type lineSink struct {
	w       io.Writer
	palette formatter.Palette
	last    present.Frame
	printed bool
}

func (s *lineSink) Render(f present.Frame) {
	if s.printed && f.Clock == s.last.Clock && f.Caption == s.last.Caption && f.Phase == s.last.Phase {
		return
	}
	s.last, s.printed = f, true
	fmt.Fprintf(s.w, "%s  %s  %-13s %s\n",
		f.Clock,
		formatter.RenderProgress(f.Progress, 20, s.palette.Liquid),
		f.Label,
		formatter.Dim(f.Caption),
	)
}

func runTimer(cmd *cobra.Command, app *App, opts timerOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	out := cmd.OutOrStdout()
	logger := app.logger()

	sess := app.newSession(cmd, opts.sessionOptions)
	sub := sess.Subscribe(64)
	stop := startSession(ctx, sess)
	defer stop()

	started, err := sess.Do(ctx, timer.Start())
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("starting timer: %w", err)
	}
	if !started.Running {
		return fmt.Errorf("nothing to brew: %s is set to %s", started.Label, formatter.FormatClock(started.Remaining))
	}

	roast := app.Config.Roast
	var sink present.Sink = &lineSink{w: out, palette: formatter.PaletteFor(roast)}

	var (
		tracker     suggestionTracker
		suggestions = make(chan suggestionMsg, 1)
		completed   int
		lastEpoch   uint64
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case msg := <-suggestions:
			if tracker.Current(msg.seq) && msg.text != "" {
				fmt.Fprintln(out, formatter.StyleRose.Render("☕ "+msg.text))
			}

		case snap, ok := <-sub:
			if !ok {
				return nil
			}
			sink.Render(present.FrameFor(snap, roast))

			if fetch, seq := tracker.Observe(snap); fetch {
				go func(isBreak bool) {
					msg := fetchSuggestion(app.Barista, seq, isBreak)().(suggestionMsg)
					select {
					case suggestions <- msg:
					case <-ctx.Done():
					}
				}(snap.IsBreak())
			}

			if !snap.Complete || snap.Epoch == lastEpoch {
				continue
			}
			lastEpoch = snap.Epoch
			completed++
			logger.Info("phase complete", "phase", snap.Phase, "completed", completed)

			if opts.stopAfter > 0 && completed >= opts.stopAfter {
				fmt.Fprintf(out, "%d brewed today · %d total\n", snap.CompletedToday, snap.TotalCompleted)
				return nil
			}
			if !snap.ChainPending {
				return nil
			}
		}
	}
}
