package commands

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mash-protocol/mash-channel/pkg/log"
)

func TestStatsCountsByLayer(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerTransport},
		{Timestamp: ts, Layer: log.LayerTransport},
		{Timestamp: ts, Layer: log.LayerHandshake},
		{Timestamp: ts, Layer: log.LayerAuth},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		fmt.Sprintf("  %-12s %d", "TRANSPORT:", 2),
		fmt.Sprintf("  %-12s %d", "HANDSHAKE:", 1),
		fmt.Sprintf("  %-12s %d", "AUTH:", 1),
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "CHANNEL:") {
		t.Error("layers without events should be omitted")
	}
}

func TestStatsCountsByCategory(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryData},
		{Timestamp: ts, Category: log.CategoryInterest},
		{Timestamp: ts, Category: log.CategoryState},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "test"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"DATA:", "INTEREST:", "STATE:", "ERROR:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output", want)
		}
	}
}

func TestStatsConnections(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, ConnectionID: "conn-aaaa-1", Protocol: "NOISE"},
		{Timestamp: ts.Add(time.Second), ConnectionID: "conn-aaaa-1", Protocol: "NOISE", Principal: "evse-7",
			Direction: log.DirectionOut, Frame: &log.FrameEvent{Size: 10}},
		{Timestamp: ts.Add(2 * time.Second), ConnectionID: "conn-aaaa-1", Protocol: "NOISE", Principal: "evse-7",
			Direction: log.DirectionIn, Frame: &log.FrameEvent{Size: 7}},
		{Timestamp: ts, ConnectionID: "conn-bbbb-2", Protocol: "PLAINTEXT"},
	}

	path := createTestLogFile(t, events)

	stats, err := collectStats(path)
	if err != nil {
		t.Fatalf("collectStats failed: %v", err)
	}
	if len(stats.Connections) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(stats.Connections))
	}
	cs := stats.Connections["conn-aaaa-1"]
	if cs.Events != 3 || cs.Principal != "evse-7" || cs.Protocol != "NOISE" {
		t.Errorf("unexpected connection stats: %+v", cs)
	}
	if cs.BytesIn != 7 || cs.BytesOut != 10 {
		t.Errorf("expected 7 in / 10 out, got %d / %d", cs.BytesIn, cs.BytesOut)
	}

	var buf bytes.Buffer
	printStats(&buf, stats)
	output := buf.String()
	for _, want := range []string{"Connections: 2", "[conn-aaa]", "Principal: evse-7", "Bytes: 7 in, 10 out"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestStatsTimeRange(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: start.Add(time.Minute)},
		{Timestamp: start},
		{Timestamp: start.Add(5 * time.Minute)},
	}

	path := createTestLogFile(t, events)

	stats, err := collectStats(path)
	if err != nil {
		t.Fatalf("collectStats failed: %v", err)
	}
	if !stats.TimeRange.Start.Equal(start) {
		t.Errorf("expected start %v, got %v", start, stats.TimeRange.Start)
	}
	if !stats.TimeRange.End.Equal(start.Add(5 * time.Minute)) {
		t.Errorf("expected end %v, got %v", start.Add(5*time.Minute), stats.TimeRange.End)
	}
	if stats.TotalEvents != 3 {
		t.Errorf("expected 3 events, got %d", stats.TotalEvents)
	}
}

func TestStatsErrorCount(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "a"}},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "b"}},
		{Timestamp: ts, Category: log.CategoryData},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Errors: 2") {
		t.Errorf("expected error count in output:\n%s", buf.String())
	}
}
