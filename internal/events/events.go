package events

import (
	"fmt"
	"time"

	"github.com/toparvion/analogtail/internal/analog"
)

// Kind enumerates everything that can happen to a view session. The set is closed:
// consumers switch over it exhaustively.
type Kind int

const (
	ServerConnected Kind = iota + 1
	ServerDisconnected
	ServerFailure
	ClientError
	ChoicesReady
	ChoicesNotFound
	RecordReceived
	LogNotFound
	LogAppeared
	LogRotated
	LogDisappeared
	LogTruncated
	Unrecognized
)

var kindNames = map[Kind]string{
	ServerConnected:    "serverConnected",
	ServerDisconnected: "serverDisconnected",
	ServerFailure:      "serverFailure",
	ClientError:        "clientError",
	ChoicesReady:       "choicesReady",
	ChoicesNotFound:    "choicesNotFound",
	RecordReceived:     "recordReceived",
	LogNotFound:        analog.EventLogNotFound,
	LogAppeared:        analog.EventLogAppeared,
	LogRotated:         analog.EventLogRotated,
	LogDisappeared:     analog.EventLogDisappeared,
	LogTruncated:       analog.EventLogTruncated,
	Unrecognized:       analog.EventUnrecognized,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// FromEventType maps a normalized METADATA event type onto its Kind.
func FromEventType(eventType string) Kind {
	switch analog.NormalizeEventType(eventType) {
	case analog.EventLogNotFound:
		return LogNotFound
	case analog.EventLogAppeared:
		return LogAppeared
	case analog.EventLogRotated:
		return LogRotated
	case analog.EventLogDisappeared:
		return LogDisappeared
	case analog.EventLogTruncated:
		return LogTruncated
	default:
		return Unrecognized
	}
}

// Event is one published occurrence. Only the fields relevant to Kind are set.
type Event struct {
	Kind     Kind
	At       time.Time
	Batch    *analog.Batch
	Metadata *analog.Metadata
	Choices  []analog.Choice
	// Source is the subscription a topic message arrived on.
	Source string
	// Message carries the human readable part of failures and client errors.
	Message string
	Err     error
}

// New stamps an event of the given kind with the current time.
func New(kind Kind) Event {
	return Event{Kind: kind, At: time.Now()}
}

// FromDecoded turns a decoded topic message into the event the loop should handle.
func FromDecoded(d analog.Decoded) Event {
	switch {
	case d.Err != nil:
		e := New(ClientError)
		e.Err = d.Err
		e.Message = d.Err.Error()
		return e
	case d.Batch != nil:
		e := New(RecordReceived)
		e.Batch = d.Batch
		return e
	case d.Metadata != nil:
		e := New(FromEventType(d.Metadata.EventType))
		e.Metadata = d.Metadata
		e.Message = d.Metadata.Message
		return e
	case d.Failure != nil:
		e := New(ServerFailure)
		e.Message = d.Failure.Message
		return e
	default:
		e := New(ClientError)
		e.Message = "empty message"
		return e
	}
}
