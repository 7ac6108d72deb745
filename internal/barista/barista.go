// Package barista produces the one-line flavour messages shown next to the
// mug. Failures never surface: every path ends in a printable string.
package barista

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/alexanderramin/brewfocus/internal/llm"
)

const (
	BreakPrompt = "Give me a very short, cozy, whimsical, 1-sentence suggestion for a 5-minute coffee break activity. Be cute and friendly."
	FocusPrompt = "Give me a very short, motivating, coffee-themed 1-sentence quote to help me focus on work. Use puns if possible."

	DisabledMessage = "Don't forget to enable the Barista Bot (BREWFOCUS_LLM_ENABLED=true)!"
	ErrorMessage    = "Time to recharge your beans!"
	EmptyMessage    = "Enjoy your coffee!"
)

// Suggester returns a message for the current flavour of the timer.
type Suggester interface {
	Suggest(ctx context.Context, isBreak bool) string
}

// SuggesterFunc adapts a function to Suggester.
type SuggesterFunc func(ctx context.Context, isBreak bool) string

func (f SuggesterFunc) Suggest(ctx context.Context, isBreak bool) string { return f(ctx, isBreak) }

// Barista asks an llm.Client for suggestions.
type Barista struct {
	client llm.Client
	logger *slog.Logger
}

func New(client llm.Client, logger *slog.Logger) *Barista {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Barista{client: client, logger: logger.With("component", "barista")}
}

func (b *Barista) Suggest(ctx context.Context, isBreak bool) string {
	req := llm.Request{Task: llm.TaskFocusQuote, Prompt: FocusPrompt}
	if isBreak {
		req = llm.Request{Task: llm.TaskBreakIdea, Prompt: BreakPrompt}
	}

	resp, err := b.client.Generate(ctx, req)
	switch {
	case errors.Is(err, llm.ErrDisabled):
		return DisabledMessage
	case err != nil:
		b.logger.Warn("suggestion failed", "task", req.Task, "error", err)
		return ErrorMessage
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return EmptyMessage
	}
	return text
}
