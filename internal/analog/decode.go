package analog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// MessageType is the value of the "type" header of an inbound message.
type MessageType string

const (
	TypeRecord   MessageType = "RECORD"
	TypeMetadata MessageType = "METADATA"
	TypeFailure  MessageType = "FAILURE"
)

// Header names used on the watch topic.
const (
	HeaderType         = "type"
	HeaderIsTailNeeded = "isTailNeeded"
	HeaderIsPlain      = "isPlain"
)

// Tailing event types carried by METADATA messages.
const (
	EventLogNotFound    = "logNotFound"
	EventLogAppeared    = "logAppeared"
	EventLogRotated     = "logRotated"
	EventLogDisappeared = "logDisappeared"
	EventLogTruncated   = "logTruncated"
	EventUnrecognized   = "unrecognized"
)

var (
	// ErrUnknownType is reported for messages whose type header is not recognized.
	ErrUnknownType = errors.New("unknown message type")
	// ErrMalformedPayload is reported when a message body cannot be decoded.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Message is a raw inbound message: transport headers plus a JSON body.
type Message struct {
	Headers map[string]string
	Body    []byte
}

// Type returns the message type header.
func (m Message) Type() MessageType {
	return MessageType(strings.TrimSpace(m.Headers[HeaderType]))
}

// Decoded is the classification of one inbound message. Exactly one of Batch,
// Metadata, Failure or Err is set.
type Decoded struct {
	Type     MessageType
	Batch    *Batch
	Metadata *Metadata
	Failure  *Failure
	Err      error
}

type rawBatch struct {
	Timestamp      *json.Number `json:"timestamp"`
	SourceNode     string       `json:"sourceNode"`
	SourcePath     string       `json:"sourcePath"`
	HighlightColor string       `json:"highlightColor"`
	Lines          []LogLine    `json:"lines"`
}

// Decode classifies msg and normalizes its payload. It never renders anything.
func Decode(msg Message) Decoded {
	typ := msg.Type()
	out := Decoded{Type: typ}

	switch typ {
	case TypeRecord:
		batch, err := decodeBatch(msg.Body)
		if err != nil {
			out.Err = err
			return out
		}
		out.Batch = &batch
	case TypeMetadata:
		var meta Metadata
		if err := unmarshalStrict(msg.Body, &meta); err != nil {
			out.Err = err
			return out
		}
		meta.EventType = NormalizeEventType(meta.EventType)
		out.Metadata = &meta
	case TypeFailure:
		var failure Failure
		if err := unmarshalStrict(msg.Body, &failure); err != nil {
			out.Err = err
			return out
		}
		out.Failure = &failure
	default:
		out.Err = fmt.Errorf("%w %q: %s", ErrUnknownType, string(typ), truncateBody(msg.Body))
	}
	return out
}

func decodeBatch(body []byte) (Batch, error) {
	var raw rawBatch
	if err := unmarshalStrict(body, &raw); err != nil {
		return Batch{}, err
	}
	batch := Batch{
		SourceNode:     raw.SourceNode,
		SourcePath:     raw.SourcePath,
		HighlightColor: raw.HighlightColor,
		Lines:          raw.Lines,
	}
	if raw.Timestamp != nil {
		ts, err := parseTimestamp(*raw.Timestamp)
		if err != nil {
			return Batch{}, fmt.Errorf("%w: timestamp %q: %v", ErrMalformedPayload, raw.Timestamp.String(), err)
		}
		batch.Timestamp = &ts
	}
	for i := range batch.Lines {
		batch.Lines[i].Style = batch.Lines[i].Style.Normalize()
	}
	return batch, nil
}

func parseTimestamp(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite")
	}
	return int64(f), nil
}

func unmarshalStrict(body []byte, dest any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

// NormalizeEventType maps the server's tailing event names onto the client's ones.
// Unknown names become EventUnrecognized.
func NormalizeEventType(eventType string) string {
	switch strings.TrimSpace(eventType) {
	case EventLogNotFound, "fileNotFound":
		return EventLogNotFound
	case EventLogAppeared, "fileAppeared":
		return EventLogAppeared
	case EventLogRotated, "fileRotated":
		return EventLogRotated
	case EventLogDisappeared, "fileDisappeared":
		return EventLogDisappeared
	case EventLogTruncated, "fileTruncated":
		return EventLogTruncated
	default:
		return EventUnrecognized
	}
}

func truncateBody(body []byte) string {
	const limit = 120
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
