package transport

import (
	"fmt"
	"strconv"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/google/uuid"

	"github.com/toparvion/analogtail/internal/analog"
)

// Subscription describes the topic currently subscribed to.
type Subscription struct {
	ID            string
	Topic         string
	TailRequested bool
	Choice        analog.Choice
}

// TopicSubscription manages the single live subscription of a view.
type TopicSubscription struct {
	conn *Connection
}

// NewTopicSubscription binds a subscription manager to conn.
func NewTopicSubscription(conn *Connection) *TopicSubscription {
	return &TopicSubscription{conn: conn}
}

// Start subscribes to the topic of sel, stopping any previous subscription first.
// It fails with ErrNotConnected when no connection is established.
func (s *TopicSubscription) Start(sel analog.Choice, tailRequested bool) (Subscription, error) {
	s.conn.unsubscribe()
	return s.conn.subscribe(sel, tailRequested)
}

// Stop ends the active subscription. It is a no-op when nothing is active, and a
// severed connection counts as already stopped.
func (s *TopicSubscription) Stop() {
	s.conn.unsubscribe()
}

// Active returns the live subscription, if any.
func (s *TopicSubscription) Active() (Subscription, bool) {
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()
	if s.conn.sub == nil {
		return Subscription{}, false
	}
	return *s.conn.sub, true
}

func (c *Connection) subscribe(sel analog.Choice, tailRequested bool) (Subscription, error) {
	c.mu.Lock()
	ws := c.conn
	if ws == nil || c.status != StatusConnected {
		c.mu.Unlock()
		return Subscription{}, ErrNotConnected
	}
	sub := &Subscription{
		ID:            uuid.NewString(),
		Topic:         c.cfg.TopicPrefix + sel.ID(),
		TailRequested: tailRequested,
		Choice:        sel,
	}
	c.sub = sub
	c.mu.Unlock()

	f := frame.New(frame.SUBSCRIBE,
		frame.Id, sub.ID,
		frame.Destination, sub.Topic,
		analog.HeaderIsPlain, strconv.FormatBool(sel.IsPlain()),
		analog.HeaderIsTailNeeded, strconv.FormatBool(tailRequested),
	)
	if err := c.write(ws, f); err != nil {
		c.mu.Lock()
		if c.sub == sub {
			c.sub = nil
		}
		c.mu.Unlock()
		return Subscription{}, fmt.Errorf("subscribe %s: %w", sub.Topic, err)
	}
	c.logger.Info("subscribed", "topic", sub.Topic, "tail", tailRequested, "subscription", sub.ID)
	return *sub, nil
}

func (c *Connection) unsubscribe() {
	c.mu.Lock()
	sub, ws := c.sub, c.conn
	c.sub = nil
	c.mu.Unlock()
	if sub == nil || ws == nil {
		return
	}
	if err := c.write(ws, frame.New(frame.UNSUBSCRIBE, frame.Id, sub.ID)); err != nil {
		c.logger.Debug("unsubscribe on severed channel", "topic", sub.Topic, "error", err)
		return
	}
	c.logger.Info("unsubscribed", "topic", sub.Topic)
}
