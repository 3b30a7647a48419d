package notify

import (
	"strings"
	"time"

	"github.com/toparvion/analogtail/internal/events"
)

// DefaultHideAfter keeps a banner visible longer than the default reconnect delay.
const DefaultHideAfter = 10 * time.Second

// Level drives the banner color.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

type template struct {
	level Level
	title string
	text  string
}

var templates = map[events.Kind]template{
	events.ServerConnected: {LevelSuccess, "Server Is Available",
		"Connection restored, we can go on working."},
	events.ServerDisconnected: {LevelWarning, "No Connection With Server",
		"Log tracking will continue (if necessary) after connection restore."},
	events.LogNotFound: {LevelInfo, "Log Not Found",
		"Log {logPath} not found. Waiting for it to appear..."},
	events.LogAppeared: {LevelSuccess, "Log Detected",
		"Log {logPath} has appeared. Following it..."},
	events.LogRotated: {LevelInfo, "Log Rotation",
		"Log {logPath} started to write from scratch. Perhaps previous records have been moved to another file."},
	events.LogDisappeared: {LevelInfo, "Log Lost",
		"Log {logPath} has disappeared. The tracking will continue automatically when the log is back."},
	events.LogTruncated: {LevelDanger, "Log Reduced",
		"Log {logPath} has become shorter. Current tracking can become incorrect. Restart it if necessary."},
	events.Unrecognized: {LevelWarning, "Tracking Notification",
		"Log {logPath} produced a message: {message}"},
	events.ServerFailure: {LevelDanger, "Server Message",
		"Tracking has been stopped because of error: {message}"},
	events.ChoicesNotFound: {LevelDanger, "Server Failure",
		"Couldn't fetch log choices because of error: {message}"},
}

// Notification is a banner ready to display.
type Notification struct {
	Kind    events.Kind
	Level   Level
	Title   string
	Text    string
	Shown   time.Time
	Expires time.Time
}

// Notifier turns session events into banners. Only the latest banner is kept and it
// hides itself after a fixed delay. It is used from the event loop only.
type Notifier struct {
	hideAfter        time.Duration
	current          *Notification
	onceDisconnected bool
}

// New returns a notifier hiding banners after hideAfter (DefaultHideAfter when zero).
func New(hideAfter time.Duration) *Notifier {
	if hideAfter <= 0 {
		hideAfter = DefaultHideAfter
	}
	return &Notifier{hideAfter: hideAfter}
}

// Observe builds the banner for e, if e deserves one, and makes it current. The
// "connection restored" banner appears only after an outage has been seen.
func (n *Notifier) Observe(e events.Event) (Notification, bool) {
	switch e.Kind {
	case events.ServerDisconnected:
		n.onceDisconnected = true
	case events.ServerConnected:
		if !n.onceDisconnected {
			return Notification{}, false
		}
	}
	tpl, ok := templates[e.Kind]
	if !ok {
		return Notification{}, false
	}

	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	note := Notification{
		Kind:    e.Kind,
		Level:   tpl.level,
		Title:   tpl.title,
		Text:    format(tpl.text, e),
		Shown:   at,
		Expires: at.Add(n.hideAfter),
	}
	n.current = &note
	return note, true
}

// Current returns the banner visible at now.
func (n *Notifier) Current(now time.Time) (Notification, bool) {
	if n.current == nil {
		return Notification{}, false
	}
	if !now.Before(n.current.Expires) {
		n.current = nil
		return Notification{}, false
	}
	return *n.current, true
}

// Dismiss hides the current banner.
func (n *Notifier) Dismiss() {
	n.current = nil
}

func format(text string, e events.Event) string {
	var logPath, node string
	if e.Metadata != nil {
		logPath = e.Metadata.LogPath
		node = e.Metadata.NodeName
	}
	if node != "" {
		logPath = node + ":" + logPath
	}
	message := e.Message
	if message == "" && e.Err != nil {
		message = e.Err.Error()
	}
	r := strings.NewReplacer("{logPath}", logPath, "{message}", message)
	return r.Replace(text)
}
