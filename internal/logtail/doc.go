// Package logtail formats log records for the terminal and reads the tail of local
// log files.
//
// # Formatting
//
// FormatBatch turns a record batch into display lines. Each line is styled by its
// severity (TRACE, DEBUG, INFO, WARN, ERROR, FATAL, PLAIN); XML lines become an
// indented block with a bar on the left. Composite records start with a marker in the
// member's highlight color and, when asked, a "[node] file" source tag. Long lines
// are either folded (reflow wordwrap + wrap) or truncated with an ellipsis.
//
// The same function serves the console view, where the palette comes from the active
// theme, and the headless tail mode, which uses DefaultPalette.
//
// # Reading Log Files
//
// Read returns the last N lines of a file using a ring buffer, so memory stays
// O(N) whatever the file size. It is used to show analogtail's own diagnostic log.
//
//	lines, err := logtail.Read(cfg.Logging.File, 200)
//
// Read returns nil, nil for non-existent files. Other errors are returned wrapped.
package logtail
