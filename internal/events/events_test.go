package events

import (
	"errors"
	"testing"
	"time"

	"github.com/toparvion/analogtail/internal/analog"
)

func TestFromEventType(t *testing.T) {
	tests := map[string]Kind{
		"logNotFound":      LogNotFound,
		"fileNotFound":     LogNotFound,
		"logAppeared":      LogAppeared,
		"fileRotated":      LogRotated,
		"logDisappeared":   LogDisappeared,
		"logTruncated":     LogTruncated,
		"somethingStrange": Unrecognized,
	}
	for in, want := range tests {
		if got := FromEventType(in); got != want {
			t.Fatalf("FromEventType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromDecoded(t *testing.T) {
	ts := int64(5)
	tests := []struct {
		name string
		in   analog.Decoded
		want Kind
	}{
		{"record", analog.Decoded{Batch: &analog.Batch{Timestamp: &ts}}, RecordReceived},
		{"metadata", analog.Decoded{Metadata: &analog.Metadata{EventType: analog.EventLogRotated}}, LogRotated},
		{"failure", analog.Decoded{Failure: &analog.Failure{Message: "denied"}}, ServerFailure},
		{"error", analog.Decoded{Err: errors.New("bad")}, ClientError},
		{"empty", analog.Decoded{}, ClientError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDecoded(tt.in)
			if got.Kind != tt.want {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.want)
			}
			if got.At.IsZero() {
				t.Fatalf("At is zero")
			}
		})
	}

	failure := FromDecoded(analog.Decoded{Failure: &analog.Failure{Message: "denied"}})
	if failure.Message != "denied" {
		t.Fatalf("Message = %q, want denied", failure.Message)
	}
}

func TestKindString(t *testing.T) {
	if got := ServerConnected.String(); got != "serverConnected" {
		t.Fatalf("String = %q, want serverConnected", got)
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Fatalf("String = %q, want Kind(99)", got)
	}
}

func TestBus_PublishAndClose(t *testing.T) {
	bus := NewBus(2)
	if !bus.Publish(New(ServerConnected)) {
		t.Fatalf("Publish returned false on open bus")
	}
	select {
	case e := <-bus.C():
		if e.Kind != ServerConnected {
			t.Fatalf("Kind = %v, want ServerConnected", e.Kind)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}

	bus.Close()
	bus.Close()
	if bus.Publish(New(ServerDisconnected)) {
		t.Fatalf("Publish returned true on closed bus")
	}
}

func TestBus_CloseReleasesBlockedPublisher(t *testing.T) {
	bus := NewBus(1)
	bus.Publish(New(RecordReceived))

	result := make(chan bool, 1)
	go func() { result <- bus.Publish(New(RecordReceived)) }()

	time.Sleep(20 * time.Millisecond)
	bus.Close()

	select {
	case ok := <-result:
		if ok {
			t.Fatalf("blocked Publish returned true after Close")
		}
	case <-time.After(time.Second):
		t.Fatalf("Publish still blocked after Close")
	}
}

func TestRouter_Dispatch(t *testing.T) {
	r := NewRouter()
	var order []string
	r.On(ServerFailure, func(Event) { order = append(order, "first") })
	r.On(ServerFailure, func(Event) { order = append(order, "second") })
	r.OnAny(func(e Event) { order = append(order, "any:"+e.Kind.String()) })

	if !r.Dispatch(New(ServerFailure)) {
		t.Fatalf("Dispatch returned false for handled kind")
	}
	if r.Dispatch(New(LogRotated)) {
		t.Fatalf("Dispatch returned true for unhandled kind")
	}
	want := []string{"first", "second", "any:serverFailure", "any:logRotated"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
