package render

import (
	"log/slog"
	"time"
)

// State is the renderer life-cycle stage.
type State int

const (
	StateRunning State = iota
	StateIdle
)

func (s State) String() string {
	if s == StateIdle {
		return "idle"
	}
	return "running"
}

// Eviction bounds the number of records of one kind.
type Eviction struct {
	Threshold int
	Depth     int
}

// Config holds the pacing period and the per-kind eviction bounds.
type Config struct {
	Period    time.Duration
	Composite Eviction
	Plain     Eviction
}

// DefaultConfig mirrors the server's stock rendering settings.
func DefaultConfig() Config {
	return Config{
		Period:    time.Second,
		Composite: Eviction{Threshold: 2200, Depth: 200},
		Plain:     Eviction{Threshold: 1000, Depth: 100},
	}
}

// Surface is the scrollable area records are revealed into. Measurements are taken
// before the tick's records become visible.
type Surface interface {
	ContentHeight() int
	ViewportHeight() int
	AtBottom() bool
}

// Frame is the outcome of one tick.
type Frame struct {
	Revealed []*Record
	Evicted  int
	// Slide is set when records appear in a surface that does not scroll yet.
	Slide          bool
	ScrollToBottom bool
}

// Changed reports whether the surface content must be redrawn.
func (f Frame) Changed() bool {
	return len(f.Revealed) > 0 || f.Evicted > 0
}

// Renderer paces the queue into the surface: every tick it evicts old records and then
// reveals everything pending at once. It keeps the user's scroll position unless they
// were already following the bottom.
type Renderer struct {
	cfg       Config
	queue     *Queue
	logger    *slog.Logger
	state     State
	animating bool
}

// NewRenderer returns a running renderer over queue.
func NewRenderer(cfg Config, queue *Queue, logger *slog.Logger) *Renderer {
	def := DefaultConfig()
	if cfg.Period <= 0 {
		cfg.Period = def.Period
	}
	if cfg.Composite.Threshold <= 0 {
		cfg.Composite = def.Composite
	}
	if cfg.Plain.Threshold <= 0 {
		cfg.Plain = def.Plain
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		cfg:    cfg,
		queue:  queue,
		logger: logger.With("component", "renderer"),
		state:  StateRunning,
	}
}

// Period is the interval between ticks.
func (r *Renderer) Period() time.Duration {
	return r.cfg.Period
}

// State reports whether ticks still have an effect.
func (r *Renderer) State() State {
	return r.state
}

// StopTimer moves the renderer to IDLE for good; later ticks do nothing.
func (r *Renderer) StopTimer() {
	r.state = StateIdle
	r.animating = false
}

// Tick runs one pacing step against s.
func (r *Renderer) Tick(s Surface) Frame {
	var f Frame
	if r.state != StateRunning {
		return f
	}

	f.Evicted += r.queue.Evict(KindComposite, r.cfg.Composite.Threshold, r.cfg.Composite.Depth)
	f.Evicted += r.queue.Evict(KindPlain, r.cfg.Plain.Threshold, r.cfg.Plain.Depth)
	if f.Evicted > 0 {
		r.logger.Debug("evicted records", "count", f.Evicted, "remaining", r.queue.Len())
	}

	if r.queue.Pending() == 0 {
		r.animating = false
		return f
	}

	scrollable := s.ContentHeight() >= s.ViewportHeight()
	atBottom := s.AtBottom()

	f.Revealed = r.queue.reveal()
	switch {
	case !scrollable:
		f.Slide = true
		f.ScrollToBottom = true
		r.animating = true
	case atBottom || r.animating:
		f.ScrollToBottom = true
		r.animating = false
	default:
		r.animating = false
	}
	return f
}
