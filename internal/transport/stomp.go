package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/gorilla/websocket"
)

const (
	stompVersions  = "1.1,1.2"
	noHeartBeat    = "0,0"
	headerMessage  = "message"
	writeTimeout   = 5 * time.Second
	maxMessageSize = 8 << 20
)

// encodeFrame renders f in STOMP wire format, NUL terminator included.
func encodeFrame(f *frame.Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := frame.NewWriter(&buf).Write(f); err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", f.Command, err)
	}
	return buf.Bytes(), nil
}

// decodeFrames splits one WebSocket message into STOMP frames. Heart-beats are skipped.
func decodeFrames(data []byte) ([]*frame.Frame, error) {
	r := frame.NewReader(bytes.NewReader(data))
	var out []*frame.Frame
	for {
		f, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("decode frame: %w", err)
		}
		if f == nil {
			continue
		}
		out = append(out, f)
	}
}

// headerMap flattens STOMP headers; the first occurrence of a repeated key wins.
func headerMap(h *frame.Header) map[string]string {
	if h == nil {
		return nil
	}
	m := make(map[string]string, h.Len())
	for i := 0; i < h.Len(); i++ {
		k, v := h.GetAt(i)
		if _, seen := m[k]; !seen {
			m[k] = v
		}
	}
	return m
}

func writeFrame(ws *websocket.Conn, f *frame.Frame) error {
	data, err := encodeFrame(f)
	if err != nil {
		return err
	}
	_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s frame: %w", f.Command, err)
	}
	return nil
}
