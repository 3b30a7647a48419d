package ui

import "time"

// Terminal width below which the header drops secondary fields.
const LayoutCompactWidth = 100

// Rows taken by the header, the banner line and the status bar.
const chromeRows = 3

const (
	// DiagnosticsLines is how much of analogtail's own log the diagnostics view reads.
	DiagnosticsLines = 500

	// slideHold keeps the "new records" marker visible after a slide.
	slideHold = 1500 * time.Millisecond
)
