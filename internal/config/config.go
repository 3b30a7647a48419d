package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/toparvion/analogtail/internal/analog"
	"github.com/toparvion/analogtail/internal/render"
	"github.com/toparvion/analogtail/internal/transport"
)

// Config captures everything analogtail reads from its configuration file.
type Config struct {
	Server    string    `toml:"server" yaml:"server"`
	Rendering Rendering `toml:"rendering" yaml:"rendering"`
	WebSocket WebSocket `toml:"websocket" yaml:"websocket"`
	Logging   Logging   `toml:"logging" yaml:"logging"`
}

// Rendering paces and bounds the console output.
type Rendering struct {
	PeriodMs int            `toml:"period_ms" yaml:"period_ms"`
	Eviction EvictionConfig `toml:"eviction" yaml:"eviction"`
}

// EvictionConfig holds the per-kind eviction bounds.
type EvictionConfig struct {
	Composite Eviction `toml:"composite" yaml:"composite"`
	Plain     Eviction `toml:"plain" yaml:"plain"`
}

// Eviction removes Depth records of a kind once more than Threshold are shown.
type Eviction struct {
	Threshold int `toml:"threshold" yaml:"threshold"`
	Depth     int `toml:"depth" yaml:"depth"`
}

// WebSocket describes the STOMP endpoint of the server.
type WebSocket struct {
	TopicPrefix      string `toml:"topic_prefix" yaml:"topic_prefix"`
	WatchEndpoint    string `toml:"watch_endpoint" yaml:"watch_endpoint"`
	ReconnectDelayMs int    `toml:"reconnect_delay_ms" yaml:"reconnect_delay_ms"`
	SockJS           bool   `toml:"sockjs" yaml:"sockjs"`
}

// Logging sets where the diagnostic log goes.
type Logging struct {
	File  string `toml:"file" yaml:"file"`
	Level string `toml:"level" yaml:"level"`
}

const (
	defaultConfigPath = "~/.config/analogtail/config.toml"
	defaultServer     = "http://127.0.0.1:8083"
	defaultLogFile    = "~/.local/state/analogtail/analogtail.log"
)

// Default returns the stock configuration of an AnaLog server.
func Default() Config {
	return Config{
		Server: defaultServer,
		Rendering: Rendering{
			PeriodMs: 1000,
			Eviction: EvictionConfig{
				Composite: Eviction{Threshold: 2200, Depth: 200},
				Plain:     Eviction{Threshold: 1000, Depth: 100},
			},
		},
		WebSocket: WebSocket{
			TopicPrefix:      "/topic/",
			WatchEndpoint:    "/watch-endpoint",
			ReconnectDelayMs: 5000,
			SockJS:           true,
		},
		Logging: Logging{
			File:  defaultLogFile,
			Level: "info",
		},
	}
}

// Load reads the config at path (the default location when empty), falling back to
// defaults when the file does not exist. Files ending in .yaml or .yml are parsed as
// YAML, everything else as TOML.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.Logging.File = mustExpand(cfg.Logging.File)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Server = strings.TrimSpace(c.Server)
	if c.Server == "" {
		c.Server = defaultServer
	}
	c.WebSocket.TopicPrefix = strings.TrimSpace(c.WebSocket.TopicPrefix)
	c.WebSocket.WatchEndpoint = strings.TrimSpace(c.WebSocket.WatchEndpoint)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File == "" {
		c.Logging.File = defaultLogFile
	}
	c.Logging.File = mustExpand(c.Logging.File)
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	if _, err := analog.ParseBaseURL(c.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if c.Rendering.PeriodMs <= 0 {
		return fmt.Errorf("rendering.period_ms must be positive, got %d", c.Rendering.PeriodMs)
	}
	for name, ev := range map[string]Eviction{
		"composite": c.Rendering.Eviction.Composite,
		"plain":     c.Rendering.Eviction.Plain,
	} {
		if ev.Threshold <= 0 {
			return fmt.Errorf("rendering.eviction.%s.threshold must be positive, got %d", name, ev.Threshold)
		}
		if ev.Depth <= 0 || ev.Depth > ev.Threshold {
			return fmt.Errorf("rendering.eviction.%s.depth must be in (0, %d], got %d", name, ev.Threshold, ev.Depth)
		}
	}
	if c.WebSocket.ReconnectDelayMs <= 0 {
		return fmt.Errorf("websocket.reconnect_delay_ms must be positive, got %d", c.WebSocket.ReconnectDelayMs)
	}
	if c.WebSocket.TopicPrefix == "" {
		return fmt.Errorf("websocket.topic_prefix is empty")
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Period is the renderer tick interval.
func (c Config) Period() time.Duration {
	return time.Duration(c.Rendering.PeriodMs) * time.Millisecond
}

// RenderConfig converts the rendering section for the renderer.
func (c Config) RenderConfig() render.Config {
	return render.Config{
		Period:    c.Period(),
		Composite: render.Eviction(c.Rendering.Eviction.Composite),
		Plain:     render.Eviction(c.Rendering.Eviction.Plain),
	}
}

// TransportConfig converts the websocket section for the transport.
func (c Config) TransportConfig() transport.Config {
	return transport.Config{
		Server:         c.Server,
		WatchEndpoint:  c.WebSocket.WatchEndpoint,
		TopicPrefix:    c.WebSocket.TopicPrefix,
		ReconnectDelay: time.Duration(c.WebSocket.ReconnectDelayMs) * time.Millisecond,
		SockJS:         c.WebSocket.SockJS,
	}
}

// ParseLevel maps a level name onto slog's levels.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", name)
	}
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

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
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
