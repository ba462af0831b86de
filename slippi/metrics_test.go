package slippi

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStreamMetricsCollector(t *testing.T) {
	m := &StreamMetrics{}
	m.IncFrames()
	m.IncFrames()
	m.IncKeepAlive()
	m.IncEvent(EventPostFrame)
	m.IncEvent(EventPostFrame)
	m.IncEvent(EventFrameStart)

	expected := `
# HELP slippstream_frames_total Game-state frames handed to the caller
# TYPE slippstream_frames_total counter
slippstream_frames_total 2
# HELP slippstream_events_total Replay events walked, by event type
# TYPE slippstream_events_total counter
slippstream_events_total{event="FrameStart"} 1
slippstream_events_total{event="PostFrame"} 2
`
	if err := testutil.CollectAndCompare(m, strings.NewReader(expected),
		"slippstream_frames_total", "slippstream_events_total"); err != nil {
		t.Error(err)
	}
	if n := testutil.CollectAndCount(m, "slippstream_messages_total"); n != 3 {
		t.Errorf("messages_total series = %d, want 3", n)
	}

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(m); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
}

func TestStreamMetricsSnapshot(t *testing.T) {
	m := &StreamMetrics{}
	m.IncMalformed()
	m.IncAborted()
	m.IncEvent(EventGameStart)

	s := m.Snapshot()
	if s["malformed_messages"] != int64(1) || s["event_walks_aborted"] != int64(1) {
		t.Errorf("Snapshot() = %v", s)
	}
	events, ok := s["events"].(map[string]int64)
	if !ok || events["GameStart"] != 1 || len(events) != 1 {
		t.Errorf("events = %v", s["events"])
	}
}
