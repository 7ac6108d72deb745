package llm

import (
	"log/slog"
	"time"
)

// CallEvent records metadata about a single generation call.
type CallEvent struct {
	Task      TaskType
	Model     string
	Latency   time.Duration
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about LLM calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(CallEvent)

func (f ObserverFunc) OnCallComplete(e CallEvent) { f(e) }

// LogObserver reports calls through slog.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With("component", "llm")}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	attrs := []any{
		"task", e.Task,
		"model", e.Model,
		"latency_ms", e.Latency.Milliseconds(),
		"attempts", e.Attempts,
	}
	if e.Success {
		o.logger.Info("llm call", attrs...)
		return
	}
	o.logger.Warn("llm call failed", append(attrs, "error_code", e.ErrorCode)...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
