package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/toparvion/analogtail/internal/analog"
	"github.com/toparvion/analogtail/internal/events"
	"github.com/toparvion/analogtail/internal/notify"
	"github.com/toparvion/analogtail/internal/render"
	"github.com/toparvion/analogtail/internal/transport"
)

// Options configure a view session.
type Options struct {
	Transport transport.Config
	Render    render.Config
	Fetcher   analog.ChoicesFetcher
	Paths     PathStore
	BusSize   int
	HideAfter time.Duration
	// NoTail never asks the server for the existing end of the log.
	NoTail bool
	Logger *slog.Logger
}

const defaultBusSize = 256

// Session is one view of one log: it owns the connection, the subscription, the
// render queue, the renderer and the controller, and routes events between them.
// Apart from Events, every method must be called from the event loop.
type Session struct {
	bus        *events.Bus
	router     *events.Router
	conn       *transport.Connection
	sub        *transport.TopicSubscription
	queue      *render.Queue
	renderer   *render.Renderer
	controller *Controller
	notifier   *notify.Notifier
	paths      PathStore
	logger     *slog.Logger
	closed     bool
}

// New assembles a session. Nothing connects until Start.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("choices fetcher is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := opts.BusSize
	if size <= 0 {
		size = defaultBusSize
	}
	paths := opts.Paths
	if paths == nil {
		paths = NewMemoryPaths("")
	}

	bus := events.NewBus(size)
	conn, err := transport.NewConnection(opts.Transport, bus, logger)
	if err != nil {
		return nil, fmt.Errorf("init transport: %w", err)
	}
	queue := render.NewQueue()
	renderer := render.NewRenderer(opts.Render, queue, logger)
	sub := transport.NewTopicSubscription(conn)
	var console Console = queue
	if opts.NoTail {
		console = liveOnly{queue}
	}

	s := &Session{
		bus:      bus,
		router:   events.NewRouter(),
		conn:     conn,
		sub:      sub,
		queue:    queue,
		renderer: renderer,
		notifier: notify.New(opts.HideAfter),
		paths:    paths,
		logger:   logger.With("component", "session"),
	}
	s.controller = NewController(ControllerDeps{
		Watcher:   sub,
		Transport: conn,
		Loader:    NewLoader(ctx, opts.Fetcher, bus, logger),
		Paths:     paths,
		Console:   console,
		Timer:     renderer,
		Logger:    logger,
	})
	s.controller.Register(s.router)
	s.router.On(events.RecordReceived, s.onRecord)
	s.router.OnAny(s.observe)
	return s, nil
}

// Start connects and requests the first choices.
func (s *Session) Start() {
	s.logger.Info("session starting", "url", s.conn.URL(), "path", s.paths.Path())
	s.controller.Init()
}

// Events is the channel the event loop drains. It is safe to read from any goroutine.
func (s *Session) Events() <-chan events.Event {
	return s.bus.C()
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.bus.Done()
}

// Handle dispatches one event drained from Events.
func (s *Session) Handle(e events.Event) {
	if s.closed {
		return
	}
	s.router.Dispatch(e)
}

// Router exposes the event router so callers can observe events too.
func (s *Session) Router() *events.Router {
	return s.router
}

// Tick runs one pacing step of the renderer against surface.
func (s *Session) Tick(surface render.Surface) render.Frame {
	return s.renderer.Tick(surface)
}

// Period is the renderer tick interval.
func (s *Session) Period() time.Duration {
	return s.renderer.Period()
}

// Controller exposes the selection controller for user actions.
func (s *Session) Controller() *Controller {
	return s.controller
}

// Queue exposes the render queue.
func (s *Session) Queue() *render.Queue {
	return s.queue
}

// Status reports the transport status.
func (s *Session) Status() transport.Status {
	return s.conn.Status()
}

// Banner returns the notification visible at now.
func (s *Session) Banner(now time.Time) (notify.Notification, bool) {
	return s.notifier.Current(now)
}

// DismissBanner hides the current notification.
func (s *Session) DismissBanner() {
	s.notifier.Dismiss()
}

// Path returns the current log path as kept by the path store.
func (s *Session) Path() string {
	return s.paths.Path()
}

// Topic returns the subscribed topic, if any.
func (s *Session) Topic() string {
	if active, ok := s.sub.Active(); ok {
		return active.Topic
	}
	return ""
}

// Close tears the view down: streaming off, renderer idle, transport disconnected.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.controller.Teardown()
	s.bus.Close()
	s.logger.Info("session closed")
}

// liveOnly reports a console that is never empty, so no tail is requested.
type liveOnly struct {
	*render.Queue
}

func (liveOnly) Empty() bool { return false }

func (s *Session) onRecord(e events.Event) {
	if e.Batch == nil {
		return
	}
	if !s.controller.Accepts(e.Source) {
		s.logger.Debug("record from stale subscription dropped", "subscription", e.Source)
		return
	}
	s.queue.Push(*e.Batch)
}

func (s *Session) observe(e events.Event) {
	if e.Kind == events.RecordReceived {
		return
	}
	attrs := []any{"event", e.Kind.String()}
	if e.Message != "" {
		attrs = append(attrs, "message", e.Message)
	}
	if e.Metadata != nil {
		attrs = append(attrs, "log_path", e.Metadata.LogPath, "node", e.Metadata.NodeName)
	}
	s.logger.Info("session event", attrs...)
	s.notifier.Observe(e)
}
