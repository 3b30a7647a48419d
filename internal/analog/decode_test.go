package analog

import (
	"errors"
	"reflect"
	"testing"
)

func record(body string) Message {
	return Message{Headers: map[string]string{HeaderType: "RECORD"}, Body: []byte(body)}
}

func TestDecode_CompositeRecordPreservesLines(t *testing.T) {
	got := Decode(record(`{
		"timestamp": 1700000000123,
		"sourceNode": "app1",
		"sourcePath": "/var/log/app.log",
		"highlightColor": "violet",
		"lines": [
			{"style": "ERROR", "text": "boom"},
			{"style": "XML", "text": "<a>1</a>"},
			{"style": "PLAIN", "text": "\tat Foo.bar()"}
		]
	}`))
	if got.Err != nil {
		t.Fatalf("Decode error = %v", got.Err)
	}
	if got.Batch == nil || !got.Batch.Composite() {
		t.Fatalf("Decode batch = %#v, want composite batch", got.Batch)
	}
	if got.Batch.At() != 1700000000123 {
		t.Fatalf("timestamp = %d, want 1700000000123", got.Batch.At())
	}
	if got.Batch.SourceNode != "app1" || got.Batch.SourcePath != "/var/log/app.log" || got.Batch.HighlightColor != "violet" {
		t.Fatalf("source fields = %#v", got.Batch)
	}
	want := []LogLine{
		{Style: StyleError, Text: "boom"},
		{Style: StyleXML, Text: "<a>1</a>"},
		{Style: StylePlain, Text: "\tat Foo.bar()"},
	}
	if !reflect.DeepEqual(got.Batch.Lines, want) {
		t.Fatalf("lines = %#v, want %#v", got.Batch.Lines, want)
	}
}

func TestDecode_PlainRecordPreservesLines(t *testing.T) {
	got := Decode(record(`{"lines":[{"style":"WARN","text":"careful"},{"style":"DEBUG","text":"x=1"}]}`))
	if got.Err != nil {
		t.Fatalf("Decode error = %v", got.Err)
	}
	if got.Batch == nil || got.Batch.Composite() {
		t.Fatalf("Decode batch = %#v, want plain batch", got.Batch)
	}
	want := []LogLine{{Style: StyleWarn, Text: "careful"}, {Style: StyleDebug, Text: "x=1"}}
	if !reflect.DeepEqual(got.Batch.Lines, want) {
		t.Fatalf("lines = %#v, want %#v", got.Batch.Lines, want)
	}
}

func TestDecode_NullTimestampIsPlain(t *testing.T) {
	got := Decode(record(`{"timestamp":null,"lines":[]}`))
	if got.Err != nil || got.Batch == nil || got.Batch.Composite() {
		t.Fatalf("Decode = %#v, want plain batch", got)
	}
}

func TestDecode_FractionalTimestamp(t *testing.T) {
	got := Decode(record(`{"timestamp":1.5e3,"lines":[]}`))
	if got.Err != nil || got.Batch == nil || got.Batch.At() != 1500 {
		t.Fatalf("Decode = %#v, want composite batch at 1500", got)
	}
}

func TestDecode_UnknownStyleBecomesPlain(t *testing.T) {
	got := Decode(record(`{"lines":[{"style":"fancy","text":"t"},{"style":"info","text":"u"}]}`))
	if got.Err != nil {
		t.Fatalf("Decode error = %v", got.Err)
	}
	if got.Batch.Lines[0].Style != StylePlain || got.Batch.Lines[1].Style != StyleInfo {
		t.Fatalf("styles = %q/%q, want PLAIN/INFO", got.Batch.Lines[0].Style, got.Batch.Lines[1].Style)
	}
}

func TestDecode_Metadata(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		want      string
	}{
		{"client name", "logRotated", EventLogRotated},
		{"server alias", "fileNotFound", EventLogNotFound},
		{"server truncated", "fileTruncated", EventLogTruncated},
		{"unknown", "somethingElse", EventUnrecognized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(Message{
				Headers: map[string]string{HeaderType: "METADATA"},
				Body:    []byte(`{"eventType":"` + tt.eventType + `","logPath":"/a.log","nodeName":"n1","message":"m"}`),
			})
			if got.Err != nil || got.Metadata == nil {
				t.Fatalf("Decode = %#v, want metadata", got)
			}
			if got.Metadata.EventType != tt.want {
				t.Fatalf("EventType = %q, want %q", got.Metadata.EventType, tt.want)
			}
			if got.Metadata.LogPath != "/a.log" || got.Metadata.NodeName != "n1" || got.Metadata.Message != "m" {
				t.Fatalf("metadata = %#v", got.Metadata)
			}
		})
	}
}

func TestDecode_Failure(t *testing.T) {
	got := Decode(Message{Headers: map[string]string{HeaderType: "FAILURE"}, Body: []byte(`{"message":"no access"}`)})
	if got.Err != nil || got.Failure == nil || got.Failure.Message != "no access" {
		t.Fatalf("Decode = %#v, want failure", got)
	}
}

func TestDecode_UnknownTypeAndMalformedPayload(t *testing.T) {
	got := Decode(Message{Headers: map[string]string{HeaderType: "BOGUS"}, Body: []byte(`{}`)})
	if !errors.Is(got.Err, ErrUnknownType) {
		t.Fatalf("Decode error = %v, want ErrUnknownType", got.Err)
	}
	if got.Batch != nil || got.Metadata != nil || got.Failure != nil {
		t.Fatalf("Decode = %#v, want only an error", got)
	}

	got = Decode(Message{Headers: nil, Body: []byte(`{}`)})
	if !errors.Is(got.Err, ErrUnknownType) {
		t.Fatalf("Decode without headers error = %v, want ErrUnknownType", got.Err)
	}

	for _, body := range []string{`{"lines":`, ``, `{"lines":"nope"}`, `{"timestamp":"abc","lines":[]}`} {
		got = Decode(record(body))
		if !errors.Is(got.Err, ErrMalformedPayload) {
			t.Fatalf("Decode(%q) error = %v, want ErrMalformedPayload", body, got.Err)
		}
		if got.Batch != nil {
			t.Fatalf("Decode(%q) batch = %#v, want nil", body, got.Batch)
		}
	}
}
