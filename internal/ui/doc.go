// Package ui implements the interactive console of analogtail on Bubble Tea.
//
// The Model owns one session.Session and drives it from the Bubble Tea event loop:
// a command blocks on the session's event bus and hands every event back to Update,
// where it is folded into the state store and dispatched through the session router.
// A tea.Tick at the renderer period runs one pacing step against the console, which
// implements render.Surface on top of a bubbles viewport.
//
// Screen layout, top to bottom:
//
//   - header: connection state, streaming state, watched log, record count
//   - banner: the current notification, or the watched path and topic
//   - console: the revealed records, colorized by logtail.FormatBatch
//   - status bar: scroll position, layout toggles, search state, key hints
//
// Overlays replace the console while open: help, the log picker (bubbles list), the
// path prompt (bubbles textinput) and the diagnostics view showing analogtail's own
// log file.
//
// Theme, text wrap and the composite source column are persisted through
// internal/prefs whenever they are toggled.
package ui
