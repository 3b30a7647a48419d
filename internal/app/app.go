package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/toparvion/analogtail/internal/analog"
	"github.com/toparvion/analogtail/internal/config"
	"github.com/toparvion/analogtail/internal/prefs"
	"github.com/toparvion/analogtail/internal/session"
	"github.com/toparvion/analogtail/internal/state"
	"github.com/toparvion/analogtail/internal/ui"
)

// Options configure the analogtail application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/analogtail/prefs.toml
	Server     string // overrides the configured server when set
	PeriodMs   int    // overrides the renderer period when positive
	Path       string // log to open; empty lets the server pick
}

// LoadConfig reads the configuration and applies command line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if s := strings.TrimSpace(opts.Server); s != "" {
		cfg.Server = s
	}
	if opts.PeriodMs > 0 {
		cfg.Rendering.PeriodMs = opts.PeriodMs
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

// Run boots the analogtail TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := NewFileLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)

	s, err := newSession(ctx, cfg, opts.Path, false, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	s.Start()

	uiOpts := ui.Options{
		Context:   ctx,
		Session:   s,
		Store:     &state.Store{},
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogFile:   cfg.Logging.File,
		Logger:    logger,
	}
	if err := ui.Run(uiOpts); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// Choices prints the logs the server offers, as a table or as yaml/json.
func Choices(ctx context.Context, opts Options, w io.Writer, format string) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	client, err := analog.NewClient(cfg.Server)
	if err != nil {
		return fmt.Errorf("init analog client: %w", err)
	}
	choices, err := client.FetchChoices(ctx)
	if err != nil {
		return fmt.Errorf("fetch choices: %s", analog.Describe(err))
	}
	return WriteChoices(w, choices, format)
}

func newSession(ctx context.Context, cfg config.Config, path string, noTail bool, logger *slog.Logger) (*session.Session, error) {
	client, err := analog.NewClient(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("init analog client: %w", err)
	}
	s, err := session.New(ctx, session.Options{
		Transport: cfg.TransportConfig(),
		Render:    cfg.RenderConfig(),
		Fetcher:   client,
		Paths:     session.NewMemoryPaths(path),
		NoTail:    noTail,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init session: %w", err)
	}
	return s, nil
}
