package llm

import (
	"os"
	"strconv"
	"time"
)

// TaskType identifies the kind of text being generated.
type TaskType string

const (
	TaskFocusQuote TaskType = "focus_quote"
	TaskBreakIdea  TaskType = "break_idea"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // overrides Config.Timeout if > 0
}

// Config holds all configuration for the suggestion backend.
type Config struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with the LLM switched off. One-line
// suggestions are short, so token budgets are small and the playful
// quote runs hotter than the break idea.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		Timeout:    8 * time.Second,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskFocusQuote: {Temperature: 0.9, MaxTokens: 64},
			TaskBreakIdea:  {Temperature: 0.8, MaxTokens: 64},
		},
	}
}

// LoadConfig reads BREWFOCUS_LLM_* environment variables over the defaults.
// Unparseable values are ignored.
func LoadConfig() Config {
	return ApplyEnv(DefaultConfig())
}

// ApplyEnv overrides fields of cfg from the environment.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("BREWFOCUS_LLM_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = b
		}
	}
	if v := os.Getenv("BREWFOCUS_LLM_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCalls = b
		}
	}
	if v := os.Getenv("BREWFOCUS_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("BREWFOCUS_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if d, ok := envMillis("BREWFOCUS_LLM_TIMEOUT_MS"); ok {
		cfg.Timeout = d
	}
	if v := os.Getenv("BREWFOCUS_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	cfg.setTaskTimeout(TaskFocusQuote, "BREWFOCUS_LLM_QUOTE_TIMEOUT_MS")
	cfg.setTaskTimeout(TaskBreakIdea, "BREWFOCUS_LLM_IDEA_TIMEOUT_MS")
	return cfg
}

// TaskTimeout returns the effective timeout for a task.
func (c Config) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.Timeout > 0 {
		return tc.Timeout
	}
	return c.Timeout
}

func (c *Config) setTaskTimeout(task TaskType, env string) {
	d, ok := envMillis(env)
	if !ok {
		return
	}
	if c.Tasks == nil {
		c.Tasks = map[TaskType]TaskConfig{}
	}
	tc := c.Tasks[task]
	tc.Timeout = d
	c.Tasks[task] = tc
}

func envMillis(name string) (time.Duration, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return time.Duration(n) * time.Millisecond, true
}
