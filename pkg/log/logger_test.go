package log

import (
	"testing"
	"time"
)

type recordingLogger struct {
	events []Event
}

func (r *recordingLogger) Log(e Event) {
	r.events = append(r.events, e)
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Log(Event{ConnectionID: "ignored"})
}

func TestEmitStampsTimestamp(t *testing.T) {
	r := &recordingLogger{}
	Emit(r, Event{ConnectionID: "conn-1"})

	if len(r.events) != 1 {
		t.Fatalf("got %d events, want 1", len(r.events))
	}
	if r.events[0].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestEmitKeepsTimestamp(t *testing.T) {
	r := &recordingLogger{}
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	Emit(r, Event{Timestamp: ts})

	if !r.events[0].Timestamp.Equal(ts) {
		t.Errorf("timestamp: got %v, want %v", r.events[0].Timestamp, ts)
	}
}

func TestEmitNilLogger(t *testing.T) {
	Emit(nil, Event{ConnectionID: "conn-1"})
}
