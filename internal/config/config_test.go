package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != defaultServer {
		t.Fatalf("Server = %q, want %q", cfg.Server, defaultServer)
	}
	if cfg.Period() != time.Second {
		t.Fatalf("Period = %v, want 1s", cfg.Period())
	}
	if cfg.Rendering.Eviction.Composite != (Eviction{Threshold: 2200, Depth: 200}) {
		t.Fatalf("composite eviction = %#v", cfg.Rendering.Eviction.Composite)
	}
	if cfg.Rendering.Eviction.Plain != (Eviction{Threshold: 1000, Depth: 100}) {
		t.Fatalf("plain eviction = %#v", cfg.Rendering.Eviction.Plain)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if cfg.Logging.File != wantLog {
		t.Fatalf("Logging.File = %q, want %q", cfg.Logging.File, wantLog)
	}
}

func TestLoad_ParsesTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeFile(t, "config.toml", `
server = "  https://logs.example.com  "

[rendering]
period_ms = 250

[rendering.eviction.plain]
threshold = 50
depth = 10

[websocket]
reconnect_delay_ms = 1500
sockjs = false

[logging]
file = "~/tmp/analogtail.log"
level = "DEBUG"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != "https://logs.example.com" {
		t.Fatalf("Server = %q, want https://logs.example.com", cfg.Server)
	}
	if cfg.Period() != 250*time.Millisecond {
		t.Fatalf("Period = %v, want 250ms", cfg.Period())
	}
	if cfg.Rendering.Eviction.Plain != (Eviction{Threshold: 50, Depth: 10}) {
		t.Fatalf("plain eviction = %#v", cfg.Rendering.Eviction.Plain)
	}
	if cfg.Rendering.Eviction.Composite != (Eviction{Threshold: 2200, Depth: 200}) {
		t.Fatalf("composite eviction lost its default: %#v", cfg.Rendering.Eviction.Composite)
	}
	if cfg.WebSocket.TopicPrefix != "/topic/" {
		t.Fatalf("TopicPrefix = %q, want /topic/", cfg.WebSocket.TopicPrefix)
	}
	if cfg.WebSocket.SockJS {
		t.Fatalf("SockJS = true, want false")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !strings.HasPrefix(cfg.Logging.File, home) {
		t.Fatalf("Logging.File = %q, want it under HOME %q", cfg.Logging.File, home)
	}

	tc := cfg.TransportConfig()
	if tc.ReconnectDelay != 1500*time.Millisecond || tc.WatchEndpoint != "/watch-endpoint" {
		t.Fatalf("TransportConfig = %#v", tc)
	}
	rc := cfg.RenderConfig()
	if rc.Plain.Threshold != 50 || rc.Period != 250*time.Millisecond {
		t.Fatalf("RenderConfig = %#v", rc)
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeFile(t, "config.yaml", `
server: http://10.0.0.5:8083
websocket:
  topic_prefix: /queue/
rendering:
  eviction:
    composite:
      threshold: 300
      depth: 30
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != "http://10.0.0.5:8083" {
		t.Fatalf("Server = %q", cfg.Server)
	}
	if cfg.WebSocket.TopicPrefix != "/queue/" {
		t.Fatalf("TopicPrefix = %q, want /queue/", cfg.WebSocket.TopicPrefix)
	}
	if cfg.Rendering.Eviction.Composite != (Eviction{Threshold: 300, Depth: 30}) {
		t.Fatalf("composite eviction = %#v", cfg.Rendering.Eviction.Composite)
	}
	if cfg.WebSocket.ReconnectDelayMs != 5000 {
		t.Fatalf("ReconnectDelayMs = %d, want 5000", cfg.WebSocket.ReconnectDelayMs)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"period", "[rendering]\nperiod_ms = 0\n", "period_ms"},
		{"depth", "[rendering.eviction.plain]\nthreshold = 10\ndepth = 20\n", "depth"},
		{"delay", "[websocket]\nreconnect_delay_ms = -1\n", "reconnect_delay_ms"},
		{"level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"syntax", "server = \n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.toml", tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
		if _, err := ParseLevel(name); err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", name, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("ParseLevel(verbose) returned nil error")
	}
}
