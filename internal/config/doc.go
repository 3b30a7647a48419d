// Package config loads analogtail's configuration file.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/analogtail/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. Keys missing from the file keep their defaults
//
// Paths ending in .yaml or .yml are read as YAML; anything else is TOML.
//
// # Default Values
//
//   - Server: http://127.0.0.1:8083
//   - Render period: 1000 ms
//   - Eviction: composite 2200/200, plain 1000/100 (threshold/depth)
//   - Topic prefix: /topic/
//   - Watch endpoint: /watch-endpoint (SockJS raw WebSocket transport)
//   - Reconnect delay: 5000 ms
//   - Diagnostic log: ~/.local/state/analogtail/analogtail.log at info level
//
// # TOML Format
//
//	server = "http://127.0.0.1:8083"
//
//	[rendering]
//	period_ms = 1000
//
//	[rendering.eviction.plain]
//	threshold = 1000
//	depth = 100
//
//	[websocket]
//	topic_prefix = "/topic/"
//	watch_endpoint = "/watch-endpoint"
//	reconnect_delay_ms = 5000
//	sockjs = true
//
//	[logging]
//	file = "~/.local/state/analogtail/analogtail.log"
//	level = "info"
//
// Validate rejects non-positive periods, thresholds and delays, eviction depths
// outside (0, threshold], unknown log levels and unparseable server addresses. The
// returned Config is never mutated afterwards.
package config
