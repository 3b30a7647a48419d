package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/toparvion/analogtail/internal/analog"
	"github.com/toparvion/analogtail/internal/events"
)

const choicesTimeout = 10 * time.Second

// Loader fetches choices off the event loop and publishes the outcome. Only the most
// recent request is reported; older responses are discarded.
type Loader struct {
	ctx     context.Context
	fetcher analog.ChoicesFetcher
	bus     events.Publisher
	logger  *slog.Logger

	mu  sync.Mutex
	seq uint64
}

var _ ChoicesLoader = (*Loader)(nil)

// NewLoader returns a loader whose requests are bound to ctx.
func NewLoader(ctx context.Context, fetcher analog.ChoicesFetcher, bus events.Publisher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		ctx:     ctx,
		fetcher: fetcher,
		bus:     bus,
		logger:  logger.With("component", "choices"),
	}
}

// RequestChoices starts a fetch in the background.
func (l *Loader) RequestChoices() {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(l.ctx, choicesTimeout)
		defer cancel()
		choices, err := l.fetcher.FetchChoices(ctx)

		l.mu.Lock()
		stale := seq != l.seq
		l.mu.Unlock()
		if stale || l.ctx.Err() != nil {
			return
		}

		if err != nil {
			l.logger.Warn("fetch choices failed", "error", err)
			e := events.New(events.ChoicesNotFound)
			e.Err = err
			e.Message = analog.Describe(err)
			l.bus.Publish(e)
			return
		}
		l.logger.Debug("choices fetched", "count", len(choices))
		e := events.New(events.ChoicesReady)
		e.Choices = choices
		l.bus.Publish(e)
	}()
}
