package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

func withTimeout(cfg Config, task TaskType, d time.Duration) Config {
	tasks := make(map[TaskType]TaskConfig, len(cfg.Tasks))
	for k, v := range cfg.Tasks {
		tasks[k] = v
	}
	tc := tasks[task]
	tc.Timeout = d
	tasks[task] = tc
	cfg.Tasks = tasks
	return cfg
}

func replyWith(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(generateReply{Model: "llama3.2", Response: text})
	}
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body generateBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3.2", body.Model)
		assert.False(t, body.Stream)
		assert.Equal(t, "be brief", body.System)
		assert.Equal(t, "a focus quote please", body.Prompt)
		assert.InDelta(t, 0.9, body.Options.Temperature, 1e-9)
		assert.Equal(t, 64, body.Options.NumPredict)

		replyWith("  Espresso yourself!\n")(w, r)
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), Request{
		Task:         TaskFocusQuote,
		SystemPrompt: "be brief",
		Prompt:       "a focus quote please",
	})

	require.NoError(t, err)
	assert.Equal(t, "Espresso yourself!", resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.GreaterOrEqual(t, resp.Latency, time.Duration(0))
}

func TestOllamaClient_Generate_RequestOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body generateBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.InDelta(t, 0.1, body.Options.Temperature, 1e-9)
		assert.Equal(t, 10, body.Options.NumPredict)
		replyWith("ok")(w, r)
	}))
	defer srv.Close()

	temp, maxTok := 0.1, 10
	_, err := NewOllamaClient(testConfig(srv.URL), nil).Generate(context.Background(), Request{
		Task:        TaskBreakIdea,
		Prompt:      "x",
		Temperature: &temp,
		MaxTokens:   &maxTok,
	})
	require.NoError(t, err)
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := withTimeout(testConfig(srv.URL), TaskBreakIdea, 50*time.Millisecond)
	cfg.MaxRetries = 0

	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), Request{
		Task:   TaskBreakIdea,
		Prompt: "test",
	})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening
	cfg.MaxRetries = 0

	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), Request{
		Task:   TaskFocusQuote,
		Prompt: "test",
	})
	assert.ErrorIs(t, err, ErrOllamaUnavailable)
}

func TestOllamaClient_Generate_RetryOnServerError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("model loading"))
			return
		}
		replyWith("ok")(w, r)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	resp, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), Request{
		Task:   TaskFocusQuote,
		Prompt: "test",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestOllamaClient_Generate_RetryAfterTimeout(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			time.Sleep(150 * time.Millisecond)
		}
		replyWith("ok")(w, r)
	}))
	defer srv.Close()

	cfg := withTimeout(testConfig(srv.URL), TaskFocusQuote, 50*time.Millisecond)
	cfg.MaxRetries = 1

	resp, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), Request{
		Task:   TaskFocusQuote,
		Prompt: "test",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestOllamaClient_Generate_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("model not found"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3

	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), Request{
		Task:   TaskFocusQuote,
		Prompt: "test",
	})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "model not found")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestOllamaClient_Generate_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewOllamaClient(testConfig(srv.URL), NoopObserver{}).Generate(context.Background(), Request{
		Task:   TaskBreakIdea,
		Prompt: "test",
	})
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(testConfig(srv.URL), nil).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), nil).Available(context.Background()))
}

func TestNewClient_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	client := NewClient(cfg, nil)

	_, err := client.Generate(context.Background(), Request{Task: TaskFocusQuote})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.False(t, client.Available(context.Background()))
}

func TestOllamaClient_ObserverCalled(t *testing.T) {
	srv := httptest.NewServer(replyWith("ok"))
	defer srv.Close()

	var captured CallEvent
	obs := ObserverFunc(func(e CallEvent) { captured = e })

	_, err := NewOllamaClient(testConfig(srv.URL), obs).Generate(context.Background(), Request{
		Task:   TaskBreakIdea,
		Prompt: "test",
	})
	require.NoError(t, err)
	assert.Equal(t, TaskBreakIdea, captured.Task)
	assert.Equal(t, "llama3.2", captured.Model)
	assert.True(t, captured.Success)
	assert.Equal(t, 1, captured.Attempts)
}

func TestOllamaClient_ObserverTimeoutErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := withTimeout(testConfig(srv.URL), TaskFocusQuote, 50*time.Millisecond)
	cfg.MaxRetries = 0

	var captured CallEvent
	client := NewOllamaClient(cfg, ObserverFunc(func(e CallEvent) { captured = e }))
	_, err := client.Generate(context.Background(), Request{Task: TaskFocusQuote, Prompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, captured.Success)
	assert.Equal(t, "TIMEOUT", captured.ErrorCode)
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.OnCallComplete(CallEvent{Task: TaskFocusQuote, Model: "m", Latency: 12 * time.Millisecond, Attempts: 1, Success: true})
	obs.OnCallComplete(CallEvent{Task: TaskBreakIdea, Model: "m", Attempts: 2, ErrorCode: "UNAVAILABLE"})

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=\"llm call\"")
	assert.Contains(t, out, "task=focus_quote")
	assert.Contains(t, out, "latency_ms=12")
	assert.Contains(t, out, "level=WARN msg=\"llm call failed\"")
	assert.Contains(t, out, "error_code=UNAVAILABLE")
	assert.Contains(t, out, "component=llm")
}
