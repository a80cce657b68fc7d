package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/damview/internal/config"
	"github.com/five82/damview/internal/dam"
	"github.com/five82/damview/internal/logging"
	"github.com/five82/damview/internal/prefs"
	"github.com/five82/damview/internal/state"
	"github.com/five82/damview/internal/ui"
)

// Options configure the damview application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/damview/prefs.toml
	ForceBatch bool   // enable the batch poller regardless of config
}

// Run boots the damview TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ForceBatch {
		cfg.Polling.BatchEnabled = true
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := dam.NewClient(cfg.APIBase, cfg.APIToken)
	if err != nil {
		return fmt.Errorf("init dam client: %w", err)
	}

	logger.Info("starting",
		zap.String("api_base", cfg.APIBase),
		zap.Bool("batch_enabled", cfg.Polling.BatchEnabled),
		zap.String("category", userPrefs.Category),
	)

	session := NewSession(ctx, SessionOptions{
		Client:  client,
		Store:   &state.Store{},
		Polling: cfg.Polling,
		Query:   state.Query{CategoryID: userPrefs.Category},
		Logger:  logger,
	})
	defer session.Close()

	// Populate the store before the UI starts; failures show in the header.
	if err := session.Load(ctx); err != nil {
		logger.Warn("initial load failed", zap.Error(err))
	}

	return ui.Run(ui.Options{
		Context:     ctx,
		Session:     session,
		RevealBatch: cfg.Polling.RevealBatch,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
	})
}
