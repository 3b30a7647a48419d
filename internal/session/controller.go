package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/toparvion/analogtail/internal/analog"
	"github.com/toparvion/analogtail/internal/events"
	"github.com/toparvion/analogtail/internal/transport"
)

// ErrNoSelection is returned when live mode is requested before any log is selected.
var ErrNoSelection = errors.New("no log selected")

// Watcher starts and stops the topic subscription of the selected log.
type Watcher interface {
	Start(sel analog.Choice, tailRequested bool) (transport.Subscription, error)
	Stop()
}

// Transport is the connection the controller keeps alive.
type Transport interface {
	Connect()
	Disconnect()
}

// ChoicesLoader fetches the server's choices in the background; the outcome comes back
// as a ChoicesReady or ChoicesNotFound event.
type ChoicesLoader interface {
	RequestChoices()
}

// PathStore holds the path of the log being viewed, the terminal counterpart of the
// browser location.
type PathStore interface {
	Path() string
	SetPath(string)
}

// Console is the output the controller clears and checks for emptiness.
type Console interface {
	Clear()
	Empty() bool
}

// Timer is stopped for good when the view is torn down.
type Timer interface {
	StopTimer()
}

// Controller decides when to subscribe, resubscribe or unsubscribe in response to
// user actions and session events. All methods run on the event loop.
type Controller struct {
	watcher   Watcher
	transport Transport
	loader    ChoicesLoader
	paths     PathStore
	console   Console
	timer     Timer
	logger    *slog.Logger

	choices   []analog.Choice
	selected  *analog.Choice
	live      bool
	launching bool
	resume    bool
	subID     string
}

// ControllerDeps are the collaborators of a Controller.
type ControllerDeps struct {
	Watcher   Watcher
	Transport Transport
	Loader    ChoicesLoader
	Paths     PathStore
	Console   Console
	Timer     Timer
	Logger    *slog.Logger
}

// NewController returns a controller in the launching state: the first successful
// choice resolution turns live mode on by itself.
func NewController(deps ControllerDeps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		watcher:   deps.Watcher,
		transport: deps.Transport,
		loader:    deps.Loader,
		paths:     deps.Paths,
		console:   deps.Console,
		timer:     deps.Timer,
		logger:    logger.With("component", "controller"),
		launching: true,
	}
}

// Register binds the controller's handlers to r.
func (c *Controller) Register(r *events.Router) {
	r.On(events.ServerConnected, func(events.Event) { c.OnServerConnected() })
	r.On(events.ServerDisconnected, func(events.Event) { c.OnServerDisconnected() })
	r.On(events.ServerFailure, func(e events.Event) { c.OnServerFailure(e.Message) })
	r.On(events.ChoicesReady, func(e events.Event) { c.OnChoicesReady(e.Choices) })
	r.On(events.ChoicesNotFound, func(e events.Event) { c.OnChoicesNotFound(e.Message) })
	r.On(events.ClientError, func(e events.Event) {
		c.logger.Warn("client error", "error", e.Message)
	})
}

// Init connects the transport and asks for choices.
func (c *Controller) Init() {
	c.transport.Connect()
	c.loader.RequestChoices()
}

// Live reports whether records are being streamed.
func (c *Controller) Live() bool { return c.live }

// Launching reports whether the one-time automatic start is still pending.
func (c *Controller) Launching() bool { return c.launching }

// Selected returns the log being viewed.
func (c *Controller) Selected() (analog.Choice, bool) {
	if c.selected == nil {
		return analog.Choice{}, false
	}
	return *c.selected, true
}

// Choices returns the last resolved list of choices.
func (c *Controller) Choices() []analog.Choice {
	return c.choices
}

// SubscriptionID identifies the subscription records are accepted from.
func (c *Controller) SubscriptionID() string {
	return c.subID
}

// Accepts reports whether a record delivered on subscription id belongs to the view.
func (c *Controller) Accepts(id string) bool {
	return c.live && id != "" && id == c.subID
}

// SetLive turns streaming on or off. Turning it on asks for the tail of the log only
// when the console is empty.
func (c *Controller) SetLive(on bool) error {
	if !on {
		c.watcher.Stop()
		c.live = false
		c.resume = false
		c.subID = ""
		return nil
	}
	if c.selected == nil {
		return ErrNoSelection
	}
	return c.start()
}

func (c *Controller) start() error {
	sub, err := c.watcher.Start(*c.selected, c.console.Empty())
	if err != nil {
		c.live = false
		c.subID = ""
		if errors.Is(err, transport.ErrNotConnected) {
			// picked up again by OnServerConnected
			c.resume = true
		}
		return fmt.Errorf("start watching %s: %w", c.selected.ID(), err)
	}
	c.live = true
	c.resume = false
	c.subID = sub.ID
	return nil
}

// ChangePath reacts to a new log path (picker or path prompt): the console is cleared,
// the current subscription stopped and choices requested again. Streaming resumes
// once they are resolved.
func (c *Controller) ChangePath(path string) {
	c.paths.SetPath(path)
	c.console.Clear()
	c.watcher.Stop()
	c.subID = ""
	if c.live {
		c.resume = true
	}
	c.loader.RequestChoices()
}

// Select switches to choice directly.
func (c *Controller) Select(choice analog.Choice) {
	c.ChangePath(analog.AddLeadingSlash(choice.ID()))
}

// Clear empties the console.
func (c *Controller) Clear() {
	c.console.Clear()
}

// OnChoicesReady resolves the current path against choices and restarts streaming
// when it was on, or starts it once when the view is launching.
func (c *Controller) OnChoicesReady(choices []analog.Choice) {
	res := analog.Resolve(choices, c.paths.Path())
	c.choices = res.Choices
	if res.Path != "" {
		c.paths.SetPath(res.Path)
	}
	if res.Selected == nil {
		c.logger.Warn("no log to select", "path", c.paths.Path(), "choices", len(choices))
		return
	}

	prev := c.selected
	sel := *res.Selected
	c.selected = &sel
	c.logger.Info("log selected", "id", sel.ID(), "title", sel.Title)

	switch {
	case c.launching:
		c.launching = false
		if err := c.start(); err != nil {
			c.logger.Warn("automatic start deferred", "error", err)
		}
	case c.live && prev != nil && prev.Same(sel) && c.subID != "":
		// already streaming this log
	case c.live || c.resume:
		if err := c.start(); err != nil {
			c.logger.Warn("restart failed", "error", err)
		}
	}
}

// OnChoicesNotFound keeps the current selection. A path change that was waiting for
// the choices is abandoned and streaming of the selected log picks up again.
func (c *Controller) OnChoicesNotFound(message string) {
	c.logger.Warn("choices not loaded, selection kept", "error", message)
	if !c.live || c.subID != "" {
		return
	}
	if c.selected == nil {
		c.live = false
		c.resume = false
		return
	}
	c.paths.SetPath(analog.AddLeadingSlash(c.selected.ID()))
	if err := c.start(); err != nil {
		c.logger.Warn("restart of previous selection failed", "error", err)
	}
}

// OnServerConnected refreshes choices and resumes streaming interrupted by an outage.
func (c *Controller) OnServerConnected() {
	if c.resume && c.selected != nil {
		if err := c.start(); err != nil {
			c.logger.Warn("resume failed", "error", err)
		}
	}
	c.loader.RequestChoices()
}

// OnServerDisconnected turns streaming off and remembers to resume it.
func (c *Controller) OnServerDisconnected() {
	if c.live {
		c.resume = true
	}
	c.live = false
	c.subID = ""
}

// OnServerFailure turns streaming off; the user has to resume it by hand.
func (c *Controller) OnServerFailure(message string) {
	c.logger.Error("tracking stopped by server", "message", message)
	c.watcher.Stop()
	c.live = false
	c.resume = false
	c.subID = ""
}

// Teardown stops everything the view owns.
func (c *Controller) Teardown() {
	_ = c.SetLive(false)
	if c.timer != nil {
		c.timer.StopTimer()
	}
	c.transport.Disconnect()
}
