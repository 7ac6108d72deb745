// Package config resolves brewfocus settings: built-in defaults, then the
// optional YAML settings file, then BREWFOCUS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/brewfocus/internal/clock"
	"github.com/alexanderramin/brewfocus/internal/domain"
	"github.com/alexanderramin/brewfocus/internal/llm"
	"github.com/alexanderramin/brewfocus/internal/logging"
)

const (
	appName          = "brewfocus"
	settingsFileName = "settings.yaml"

	maxCustomMinutes = domain.MaxCustomHours*60 + domain.MaxCustomMinutes
)

// ErrInvalidSetting is returned for an environment value that cannot be used.
var ErrInvalidSetting = errors.New("invalid setting")

// Config is the resolved configuration.
type Config struct {
	Roast         domain.Roast
	CustomSeconds int
	TickInterval  time.Duration
	Bell          bool
	LogLevel      string
	LogFile       string
	LLM           llm.Config

	// Path is the settings file that was consulted, whether or not it existed.
	Path string
}

func Default() Config {
	return Config{
		Roast:         domain.RoastLight,
		CustomSeconds: domain.DefaultCustomSeconds,
		TickInterval:  clock.DefaultInterval,
		Bell:          true,
		LogLevel:      logging.LevelInfo,
		LLM:           llm.DefaultConfig(),
	}
}

type yamlSettings struct {
	Roast         string  `yaml:"roast"`
	CustomMinutes int     `yaml:"custom_minutes"`
	TickMs        int     `yaml:"tick_ms"`
	Bell          *bool   `yaml:"bell"`
	LogLevel      string  `yaml:"log_level"`
	LogFile       string  `yaml:"log_file"`
	LLM           yamlLLM `yaml:"llm"`
}

type yamlLLM struct {
	Enabled   *bool  `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Load reads the settings file at $BREWFOCUS_CONFIG, or
// <user config dir>/brewfocus/settings.yaml, and applies the environment.
func Load() (Config, error) {
	path := os.Getenv("BREWFOCUS_CONFIG")
	if path == "" {
		dir, err := os.UserConfigDir()
		if err == nil {
			path = filepath.Join(dir, appName, settingsFileName)
		}
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit settings path. A missing file is not an
// error; an empty path skips the file.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	cfg.Path = path

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.LLM = llm.ApplyEnv(cfg.LLM)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read settings file: %w", err)
	}

	var file yamlSettings
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse settings yaml %s: %w", path, err)
	}

	// Out-of-range values keep the default.
	if r, err := domain.ParseRoast(file.Roast); err == nil {
		cfg.Roast = r
	}
	if file.CustomMinutes > 0 && file.CustomMinutes <= maxCustomMinutes {
		cfg.CustomSeconds = file.CustomMinutes * 60
	}
	if file.TickMs > 0 {
		cfg.TickInterval = time.Duration(file.TickMs) * time.Millisecond
	}
	cfg.Bell = domain.Deref(cfg.Bell, file.Bell)
	if _, err := logging.ParseLevel(file.LogLevel); err == nil && file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	cfg.LogFile = domain.Coalesce(file.LogFile, cfg.LogFile)

	cfg.LLM.Enabled = domain.Deref(cfg.LLM.Enabled, file.LLM.Enabled)
	cfg.LLM.Endpoint = domain.Coalesce(file.LLM.Endpoint, cfg.LLM.Endpoint)
	cfg.LLM.Model = domain.Coalesce(file.LLM.Model, cfg.LLM.Model)
	if file.LLM.TimeoutMs > 0 {
		cfg.LLM.Timeout = time.Duration(file.LLM.TimeoutMs) * time.Millisecond
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("BREWFOCUS_ROAST"); v != "" {
		r, err := domain.ParseRoast(v)
		if err != nil {
			return fmt.Errorf("%w: BREWFOCUS_ROAST: %w", ErrInvalidSetting, err)
		}
		cfg.Roast = r
	}
	if v := os.Getenv("BREWFOCUS_CUSTOM_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxCustomMinutes {
			return fmt.Errorf("%w: BREWFOCUS_CUSTOM_MINUTES=%q (want 1-%d)", ErrInvalidSetting, v, maxCustomMinutes)
		}
		cfg.CustomSeconds = n * 60
	}
	if v := os.Getenv("BREWFOCUS_TICK_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: BREWFOCUS_TICK_MS=%q", ErrInvalidSetting, v)
		}
		cfg.TickInterval = time.Duration(n) * time.Millisecond
	}
	if v := os.Getenv("BREWFOCUS_BELL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: BREWFOCUS_BELL=%q", ErrInvalidSetting, v)
		}
		cfg.Bell = b
	}
	if v := os.Getenv("BREWFOCUS_LOG_LEVEL"); v != "" {
		if _, err := logging.ParseLevel(v); err != nil {
			return fmt.Errorf("%w: BREWFOCUS_LOG_LEVEL: %w", ErrInvalidSetting, err)
		}
		cfg.LogLevel = v
	}
	if v := os.Getenv("BREWFOCUS_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return nil
}
