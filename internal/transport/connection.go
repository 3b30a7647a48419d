package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/gorilla/websocket"

	"github.com/toparvion/analogtail/internal/analog"
	"github.com/toparvion/analogtail/internal/events"
)

// ErrNotConnected is returned when a subscription is requested without an
// established connection.
var ErrNotConnected = errors.New("transport not connected")

// Status is the connection life-cycle stage.
type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "idle"
	}
}

// Config describes where and how to reach the server's STOMP endpoint.
type Config struct {
	Server           string
	WatchEndpoint    string
	TopicPrefix      string
	ReconnectDelay   time.Duration
	HandshakeTimeout time.Duration
	// SockJS targets the raw WebSocket transport of a SockJS endpoint.
	SockJS bool
}

const (
	defaultReconnectDelay   = 5 * time.Second
	defaultHandshakeTimeout = 10 * time.Second
)

// Connection keeps one STOMP session over a WebSocket alive. Every transition is
// published on the event bus; failures are never returned to the caller but retried
// after the reconnect delay until Disconnect.
type Connection struct {
	cfg    Config
	url    string
	host   string
	bus    events.Publisher
	logger *slog.Logger
	dialer *websocket.Dialer

	mu     sync.Mutex
	status Status
	conn   *websocket.Conn
	cancel context.CancelFunc
	outage bool
	sub    *Subscription

	writeMu sync.Mutex
}

// NewConnection validates cfg and prepares a connection. Nothing is dialed until Connect.
func NewConnection(cfg Config, bus events.Publisher, logger *slog.Logger) (*Connection, error) {
	if bus == nil {
		return nil, fmt.Errorf("event bus is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	u, err := endpointURL(cfg)
	if err != nil {
		return nil, err
	}
	return &Connection{
		cfg:    cfg,
		url:    u.String(),
		host:   u.Hostname(),
		bus:    bus,
		logger: logger.With("component", "transport"),
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}, nil
}

func endpointURL(cfg Config) (*url.URL, error) {
	base, err := analog.ParseBaseURL(cfg.Server)
	if err != nil {
		return nil, err
	}
	switch base.Scheme {
	case "http", "ws":
		base.Scheme = "ws"
	case "https", "wss":
		base.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported server scheme %q", base.Scheme)
	}
	path := "/" + strings.Trim(cfg.WatchEndpoint, "/")
	if cfg.SockJS {
		path = strings.TrimSuffix(path, "/") + "/websocket"
	}
	base.Path = path
	return base, nil
}

// URL returns the WebSocket address being dialed.
func (c *Connection) URL() string {
	return c.url
}

// Status reports the current life-cycle stage.
func (c *Connection) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Connect starts connecting in the background. It is a no-op while connecting or
// connected, so repeated calls open at most one socket.
func (c *Connection) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusIdle {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.status = StatusConnecting
	c.cancel = cancel
	go c.run(ctx)
}

// Disconnect stops the active subscription, says goodbye to the broker without waiting
// for a receipt and stops reconnecting. A later Connect starts over.
func (c *Connection) Disconnect() {
	c.unsubscribe()

	c.mu.Lock()
	if c.status == StatusIdle {
		c.mu.Unlock()
		return
	}
	ws := c.conn
	c.cancel()
	c.status = StatusIdle
	c.conn = nil
	c.cancel = nil
	c.outage = false
	c.mu.Unlock()

	if ws == nil {
		return
	}
	if err := c.write(ws, frame.New(frame.DISCONNECT)); err != nil {
		c.logger.Debug("disconnect frame not sent", "error", err)
	}
	c.writeMu.Lock()
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	_ = ws.Close()
	c.logger.Info("disconnected", "url", c.url)
}

func (c *Connection) run(ctx context.Context) {
	for {
		ws, err := c.dial(ctx)
		if err == nil {
			err = c.serve(ctx, ws)
		}
		if ctx.Err() != nil {
			return
		}
		c.reportOutage(err)

		timer := time.NewTimer(c.cfg.ReconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (c *Connection) dial(ctx context.Context) (*websocket.Conn, error) {
	dctx, cancel := context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
	defer cancel()

	c.logger.Debug("dialing", "url", c.url)
	ws, _, err := c.dialer.DialContext(dctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}
	ws.SetReadLimit(maxMessageSize)

	connect := frame.New(frame.CONNECT,
		frame.AcceptVersion, stompVersions,
		frame.Host, c.host,
		frame.HeartBeat, noHeartBeat,
	)
	if err := writeFrame(ws, connect); err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("stomp handshake: %w", err)
	}

	_ = ws.SetReadDeadline(time.Now().Add(c.cfg.HandshakeTimeout))
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			_ = ws.Close()
			return nil, fmt.Errorf("stomp handshake: %w", err)
		}
		frames, err := decodeFrames(data)
		if err != nil {
			_ = ws.Close()
			return nil, fmt.Errorf("stomp handshake: %w", err)
		}
		for _, f := range frames {
			switch f.Command {
			case frame.CONNECTED:
				_ = ws.SetReadDeadline(time.Time{})
				return ws, nil
			case frame.ERROR:
				_ = ws.Close()
				return nil, fmt.Errorf("stomp handshake rejected: %s", f.Header.Get(headerMessage))
			}
		}
	}
}

// serve publishes the socket, announces the connection and blocks reading until the
// socket breaks.
func (c *Connection) serve(ctx context.Context, ws *websocket.Conn) error {
	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		_ = ws.Close()
		return ctx.Err()
	}
	c.conn = ws
	c.status = StatusConnected
	c.outage = false
	c.mu.Unlock()

	c.logger.Info("connected", "url", c.url)
	c.bus.Publish(events.New(events.ServerConnected))

	err := c.readLoop(ws)

	c.mu.Lock()
	if c.conn == ws {
		c.conn = nil
		// the broker forgets subscriptions with the socket
		c.sub = nil
		c.status = StatusConnecting
	}
	c.mu.Unlock()
	_ = ws.Close()
	return err
}

func (c *Connection) reportOutage(err error) {
	c.mu.Lock()
	first := !c.outage
	c.outage = true
	c.mu.Unlock()

	if !first {
		c.logger.Debug("still disconnected", "error", err, "retry_in", c.cfg.ReconnectDelay)
		return
	}
	c.logger.Warn("connection lost", "error", err, "retry_in", c.cfg.ReconnectDelay)
	e := events.New(events.ServerDisconnected)
	e.Err = err
	if err != nil {
		e.Message = err.Error()
	}
	c.bus.Publish(e)
}

func (c *Connection) readLoop(ws *websocket.Conn) error {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		frames, err := decodeFrames(data)
		for _, f := range frames {
			c.handleFrame(f)
		}
		if err != nil {
			c.logger.Warn("undecodable frame dropped", "error", err)
			e := events.New(events.ClientError)
			e.Err = err
			e.Message = err.Error()
			c.bus.Publish(e)
		}
	}
}

func (c *Connection) handleFrame(f *frame.Frame) {
	switch f.Command {
	case frame.MESSAGE:
		subID := f.Header.Get(frame.Subscription)
		c.mu.Lock()
		active := c.sub != nil && c.sub.ID == subID
		c.mu.Unlock()
		if !active {
			c.logger.Debug("message for inactive subscription dropped", "subscription", subID)
			return
		}
		decoded := analog.Decode(analog.Message{Headers: headerMap(f.Header), Body: f.Body})
		if decoded.Err != nil {
			c.logger.Warn("message dropped", "error", decoded.Err, "subscription", subID)
		}
		e := events.FromDecoded(decoded)
		e.Source = subID
		c.bus.Publish(e)
	case frame.ERROR:
		msg := f.Header.Get(headerMessage)
		c.logger.Error("broker error", "message", msg, "body", string(f.Body))
		e := events.New(events.ClientError)
		e.Message = "broker error: " + msg
		c.bus.Publish(e)
	default:
		c.logger.Debug("frame ignored", "command", f.Command)
	}
}

func (c *Connection) write(ws *websocket.Conn, f *frame.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return writeFrame(ws, f)
}
