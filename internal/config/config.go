package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the damview settings.
type Config struct {
	APIBase  string
	APIToken string
	LogFile  string
	LogLevel string
	Polling  Polling
}

// Polling tunes the reconciliation controllers.
type Polling struct {
	RecordInterval     time.Duration
	BatchEnabled       bool
	RefreshInterval    time.Duration
	RefreshMaxAttempts int
	RevealBatch        int
}

const (
	defaultConfigPath = "~/.config/damview/config.toml"
	defaultLogFile    = "~/.local/share/damview/damview.log"
	defaultAPIBase    = "http://127.0.0.1:8080"
	defaultLogLevel   = "info"

	defaultRecordInterval     = 3 * time.Second
	defaultRefreshInterval    = 6 * time.Second
	defaultRefreshMaxAttempts = 8
	defaultRevealBatch        = 24
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:  defaultAPIBase,
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: defaultLogLevel,
		Polling: Polling{
			RecordInterval:     defaultRecordInterval,
			RefreshInterval:    defaultRefreshInterval,
			RefreshMaxAttempts: defaultRefreshMaxAttempts,
			RevealBatch:        defaultRevealBatch,
		},
	}
}

// Load locates and parses the damview config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase  string `toml:"api_base"`
		APIToken string `toml:"api_token"`
		LogFile  string `toml:"log_file"`
		LogLevel string `toml:"log_level"`
		Polling  struct {
			RecordIntervalSeconds  float64 `toml:"record_interval_seconds"`
			BatchEnabled           bool    `toml:"batch_enabled"`
			RefreshIntervalSeconds float64 `toml:"refresh_interval_seconds"`
			RefreshMaxAttempts     int     `toml:"refresh_max_attempts"`
			RevealBatch            int     `toml:"reveal_batch"`
		} `toml:"polling"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	cfg.APIToken = strings.TrimSpace(raw.APIToken)
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	p := raw.Polling
	if p.RecordIntervalSeconds > 0 {
		cfg.Polling.RecordInterval = seconds(p.RecordIntervalSeconds)
	}
	cfg.Polling.BatchEnabled = p.BatchEnabled
	if p.RefreshIntervalSeconds > 0 {
		cfg.Polling.RefreshInterval = seconds(p.RefreshIntervalSeconds)
	}
	if p.RefreshMaxAttempts > 0 {
		cfg.Polling.RefreshMaxAttempts = p.RefreshMaxAttempts
	}
	if p.RevealBatch > 0 {
		cfg.Polling.RevealBatch = p.RevealBatch
	}

	return cfg, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
