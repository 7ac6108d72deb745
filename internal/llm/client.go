package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/brewfocus/internal/domain"
)

// Request holds the parameters for one generation call.
type Request struct {
	Task         TaskType
	SystemPrompt string
	Prompt       string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// Response holds the generated text.
type Response struct {
	Text    string
	Model   string
	Latency time.Duration
}

// Client generates short texts from a prompt.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Available checks whether the backend is reachable.
	Available(ctx context.Context) bool
}

// NewClient returns an Ollama client, or a client that always fails with
// ErrDisabled when cfg.Enabled is false.
func NewClient(cfg Config, observer Observer) Client {
	if !cfg.Enabled {
		return disabledClient{}
	}
	return NewOllamaClient(cfg, observer)
}

type disabledClient struct{}

func (disabledClient) Generate(context.Context, Request) (*Response, error) {
	return nil, ErrDisabled
}

func (disabledClient) Available(context.Context) bool { return false }

type ollamaClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates a Client for the Ollama HTTP API at cfg.Endpoint.
func NewOllamaClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
		observer: observer,
	}
}

// generateBody is the JSON body of POST /api/generate.
type generateBody struct {
	Model   string          `json:"model"`
	System  string          `json:"system,omitempty"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// generateReply is the non-streaming reply of POST /api/generate.
type generateReply struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// statusError is a non-200 reply.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ollama returned status %d: %s", e.code, e.body)
}

func (c *ollamaClient) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	task := c.cfg.Tasks[req.Task]
	body := generateBody{
		Model:  c.cfg.Model,
		System: req.SystemPrompt,
		Prompt: req.Prompt,
		Options: generateOptions{
			Temperature: domain.Deref(task.Temperature, req.Temperature),
			NumPredict:  domain.Deref(task.MaxTokens, req.MaxTokens),
		},
	}

	timeout := c.cfg.TaskTimeout(req.Task)
	attempts := 1 + c.cfg.MaxRetries
	var (
		reply   *generateReply
		lastErr error
		tried   int
	)
	for tried < attempts {
		tried++
		// Each attempt gets its own timeout.
		reply, lastErr = c.attempt(ctx, body, timeout)
		if lastErr == nil {
			break
		}
		if ctx.Err() != nil || !retryable(lastErr) {
			break
		}
	}

	event := CallEvent{
		Task:     req.Task,
		Model:    c.cfg.Model,
		Latency:  time.Since(start),
		Attempts: tried,
		Success:  lastErr == nil,
	}
	if lastErr != nil {
		lastErr = classify(ctx, lastErr)
		event.ErrorCode = errorCode(lastErr)
	}
	c.observer.OnCallComplete(event)
	if lastErr != nil {
		return nil, lastErr
	}

	return &Response{
		Text:    strings.TrimSpace(reply.Response),
		Model:   reply.Model,
		Latency: event.Latency,
	}, nil
}

func (c *ollamaClient) attempt(ctx context.Context, body generateBody, timeout time.Duration) (*generateReply, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &statusError{code: httpResp.StatusCode, body: strings.TrimSpace(string(raw))}
	}

	var reply generateReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return &reply, nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// retryable reports whether another attempt could succeed. Client errors
// (4xx) and undecodable bodies will not improve on retry.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	return !errors.Is(err, ErrInvalidOutput)
}

// classify maps a transport error onto the package sentinels.
func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case isConnectionError(err):
		return ErrOllamaUnavailable
	case errors.Is(err, ErrInvalidOutput):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
