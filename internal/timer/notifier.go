package timer

import (
	"context"
	"io"
	"sync"

	"github.com/alexanderramin/brewfocus/internal/domain"
)

// Notifier signals that a phase finished. Calls are best effort: errors are
// logged by the caller and never affect the timer.
type Notifier interface {
	Notify(ctx context.Context, phase domain.Phase) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, phase domain.Phase) error

func (f NotifierFunc) Notify(ctx context.Context, phase domain.Phase) error {
	return f(ctx, phase)
}

// NoopNotifier discards notifications.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, domain.Phase) error { return nil }

// BellNotifier rings the terminal bell.
type BellNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBellNotifier(w io.Writer) *BellNotifier {
	return &BellNotifier{w: w}
}

func (b *BellNotifier) Notify(ctx context.Context, _ domain.Phase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.w, "\a")
	return err
}
