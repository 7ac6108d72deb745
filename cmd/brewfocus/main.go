package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/brewfocus/internal/barista"
	"github.com/alexanderramin/brewfocus/internal/cli"
	"github.com/alexanderramin/brewfocus/internal/clock"
	"github.com/alexanderramin/brewfocus/internal/config"
	"github.com/alexanderramin/brewfocus/internal/llm"
	"github.com/alexanderramin/brewfocus/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// The TUI owns the terminal, so logs only go to a file when one is set.
	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closer.Close()
	logger.Debug("settings loaded", "path", cfg.Path, "roast", cfg.Roast, "llm", cfg.LLM.Enabled)

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(logger)
	}
	client := llm.NewClient(cfg.LLM, observer)

	app := &cli.App{
		Config:  cfg,
		Logger:  logger,
		Barista: barista.New(client, logger),
		Clock:   clock.Real{},
		Bell:    os.Stdout,
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		in, out := os.Stdin.Fd(), os.Stdout.Fd()
		return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
			(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
