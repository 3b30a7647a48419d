package app

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/toparvion/analogtail/internal/events"
	"github.com/toparvion/analogtail/internal/logtail"
	"github.com/toparvion/analogtail/internal/notify"
	"github.com/toparvion/analogtail/internal/render"
	"github.com/toparvion/analogtail/internal/session"
)

// TailOptions configure the headless streaming mode.
type TailOptions struct {
	Options
	NoTail      bool
	ShowSources bool
	// Out receives the records, Err the notifications and the diagnostic log.
	Out io.Writer
	Err io.Writer
}

// Tail streams one log to Out until ctx ends or the server stops the tracking.
func Tail(ctx context.Context, opts TailOptions) error {
	cfg, err := LoadConfig(opts.Options)
	if err != nil {
		return err
	}
	logger, err := NewStreamLogger(cfg.Logging, opts.Err)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	s, err := newSession(ctx, cfg, opts.Path, opts.NoTail, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	t := newTailer(s, opts.Out, opts.Err, logtail.Options{ShowSources: opts.ShowSources}, logger)
	s.Start()
	return t.run(ctx)
}

// tailer is the event loop of the headless mode: the same session pipeline as the
// console, printed to a stream that always follows its end.
type tailer struct {
	session *session.Session
	out     io.Writer
	errOut  io.Writer
	palette logtail.Palette
	opts    logtail.Options
	logger  *slog.Logger

	printed   int
	lastShown time.Time
	failure   string
}

func newTailer(s *session.Session, out, errOut io.Writer, opts logtail.Options, logger *slog.Logger) *tailer {
	return &tailer{
		session: s,
		out:     out,
		errOut:  errOut,
		palette: logtail.DefaultPalette(),
		opts:    opts,
		logger:  logger,
	}
}

func (t *tailer) run(ctx context.Context) error {
	ticker := time.NewTicker(t.session.Period())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.tick()
			return nil
		case <-t.session.Done():
			return nil
		case e := <-t.session.Events():
			t.handle(e)
			if t.failure != "" {
				t.tick()
				return fmt.Errorf("tracking stopped: %s", t.failure)
			}
		case <-ticker.C:
			t.tick()
		}
	}
}

func (t *tailer) handle(e events.Event) {
	t.session.Handle(e)
	if e.Kind == events.ServerFailure {
		t.failure = e.Message
	}
	if n, ok := t.session.Banner(time.Now()); ok && n.Shown.After(t.lastShown) {
		t.lastShown = n.Shown
		t.announce(n)
	}
}

func (t *tailer) announce(n notify.Notification) {
	if t.errOut == nil {
		return
	}
	fmt.Fprintf(t.errOut, "[%s] %s: %s\n", n.Level, n.Title, n.Text)
}

// tick reveals whatever is pending and prints it. A stream cannot insert above what
// it already printed, so composite records are ordered within the tick only.
func (t *tailer) tick() {
	frame := t.session.Tick(t)
	slices.SortStableFunc(frame.Revealed, func(a, b *render.Record) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	for _, rec := range frame.Revealed {
		for _, line := range logtail.FormatBatch(rec.Batch, t.palette, t.opts) {
			if _, err := fmt.Fprintln(t.out, line); err != nil {
				t.logger.Warn("write record failed", "error", err)
				return
			}
			t.printed++
		}
	}
}

// A stream has no viewport; it is always at its end.

func (t *tailer) ContentHeight() int  { return t.printed }
func (t *tailer) ViewportHeight() int { return t.printed }
func (t *tailer) AtBottom() bool      { return true }
