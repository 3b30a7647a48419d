package transport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/gorilla/websocket"

	"github.com/toparvion/analogtail/internal/events"
)

// fakeBroker is a minimal STOMP broker behind a SockJS-style WebSocket endpoint.
type fakeBroker struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu        sync.Mutex
	connects  int
	received  []*frame.Frame
	dropFirst bool
	// onSubscribe returns the frames pushed right after a SUBSCRIBE.
	onSubscribe func(sub *frame.Frame) []*frame.Frame
}

func newFakeBroker(t *testing.T) *fakeBroker {
	t.Helper()
	b := &fakeBroker{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/watch-endpoint/websocket", b.handle)
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBroker) handle(w http.ResponseWriter, r *http.Request) {
	ws, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	b.mu.Lock()
	b.connects++
	n := b.connects
	b.mu.Unlock()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		frames, err := decodeFrames(data)
		if err != nil {
			return
		}
		for _, f := range frames {
			b.mu.Lock()
			b.received = append(b.received, f)
			onSubscribe := b.onSubscribe
			dropFirst := b.dropFirst
			b.mu.Unlock()

			switch f.Command {
			case frame.CONNECT:
				if err := writeFrame(ws, frame.New(frame.CONNECTED, "version", "1.2")); err != nil {
					return
				}
				if dropFirst && n == 1 {
					return
				}
			case frame.SUBSCRIBE:
				if onSubscribe == nil {
					continue
				}
				for _, out := range onSubscribe(f) {
					if err := writeFrame(ws, out); err != nil {
						return
					}
				}
			case frame.DISCONNECT:
				return
			}
		}
	}
}

func (b *fakeBroker) connectCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connects
}

// commands lists the received client commands except the handshake, with the
// subscription id (or destination for SUBSCRIBE) attached.
func (b *fakeBroker) commands() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, f := range b.received {
		switch f.Command {
		case frame.SUBSCRIBE:
			out = append(out, "SUBSCRIBE "+f.Header.Get(frame.Destination))
		case frame.UNSUBSCRIBE:
			out = append(out, "UNSUBSCRIBE")
		case frame.DISCONNECT:
			out = append(out, "DISCONNECT")
		}
	}
	return out
}

func (b *fakeBroker) lastSubscribe() *frame.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.received) - 1; i >= 0; i-- {
		if b.received[i].Command == frame.SUBSCRIBE {
			return b.received[i]
		}
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(server string) Config {
	return Config{
		Server:           server,
		WatchEndpoint:    "/watch-endpoint",
		TopicPrefix:      "/topic/",
		ReconnectDelay:   30 * time.Millisecond,
		HandshakeTimeout: time.Second,
		SockJS:           true,
	}
}

// nextEvent waits for the next event of kind, skipping others.
func nextEvent(t *testing.T, bus *events.Bus, kind events.Kind) events.Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case e := <-bus.C():
			if e.Kind == kind {
				return e
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %v", kind)
		}
	}
}

// countEvents drains the bus for d and counts events of kind.
func countEvents(bus *events.Bus, kind events.Kind, d time.Duration) int {
	deadline := time.After(d)
	n := 0
	for {
		select {
		case e := <-bus.C():
			if e.Kind == kind {
				n++
			}
		case <-deadline:
			return n
		}
	}
}
