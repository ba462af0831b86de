package slippi

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// StreamMetrics 记录连接运行期的关键指标（用于监控与调试）
type StreamMetrics struct {
	MessagesRead      int64 // 成功解码的顶层消息数
	ReplayMessages    int64 // REPLAY 消息数
	KeepAlives        int64 // KEEPALIVE 消息数
	Handshakes        int64 // 主机端回送的 HANDSHAKE 数
	MalformedMessages int64 // 结构损坏被丢弃的消息数
	FramesEmitted     int64 // 交给调用方的帧数
	EventWalksAborted int64 // 因长度不足/未知操作码中止的遍历次数

	events [256]int64 // 按操作码统计的事件数
}

func (m *StreamMetrics) IncMessages() { atomic.AddInt64(&m.MessagesRead, 1) }
func (m *StreamMetrics) IncReplay() { atomic.AddInt64(&m.ReplayMessages, 1) }
func (m *StreamMetrics) IncKeepAlive() { atomic.AddInt64(&m.KeepAlives, 1) }
func (m *StreamMetrics) IncHandshake() { atomic.AddInt64(&m.Handshakes, 1) }
func (m *StreamMetrics) IncMalformed() { atomic.AddInt64(&m.MalformedMessages, 1) }
func (m *StreamMetrics) IncFrames() { atomic.AddInt64(&m.FramesEmitted, 1) }
func (m *StreamMetrics) IncAborted() { atomic.AddInt64(&m.EventWalksAborted, 1) }
func (m *StreamMetrics) IncEvent(c EventType) { atomic.AddInt64(&m.events[c], 1) }
func (m *StreamMetrics) Events(c EventType) int64 { return atomic.LoadInt64(&m.events[c]) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *StreamMetrics) Snapshot() map[string]any {
	events := make(map[string]int64)
	for i := range m.events {
		if n := atomic.LoadInt64(&m.events[i]); n > 0 {
			events[EventType(i).String()] = n
		}
	}
	return map[string]any{
		"messages_read":       atomic.LoadInt64(&m.MessagesRead),
		"replay_messages":     atomic.LoadInt64(&m.ReplayMessages),
		"keepalives":          atomic.LoadInt64(&m.KeepAlives),
		"handshakes":          atomic.LoadInt64(&m.Handshakes),
		"malformed_messages":  atomic.LoadInt64(&m.MalformedMessages),
		"frames_emitted":      atomic.LoadInt64(&m.FramesEmitted),
		"event_walks_aborted": atomic.LoadInt64(&m.EventWalksAborted),
		"events":              events,
	}
}

var (
	descMessages = prometheus.NewDesc("slippstream_messages_total",
		"Decoded top-level messages by type", []string{"type"}, nil)
	descMalformed = prometheus.NewDesc("slippstream_malformed_messages_total",
		"Messages dropped because their structure could not be decoded", nil, nil)
	descFrames = prometheus.NewDesc("slippstream_frames_total",
		"Game-state frames handed to the caller", nil, nil)
	descAborted = prometheus.NewDesc("slippstream_event_walks_aborted_total",
		"Event buffers whose walk stopped on an undersized or unknown record", nil, nil)
	descEvents = prometheus.NewDesc("slippstream_events_total",
		"Replay events walked, by event type", []string{"event"}, nil)
)

// Describe 实现 prometheus.Collector
func (m *StreamMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- descMessages
	ch <- descMalformed
	ch <- descFrames
	ch <- descAborted
	ch <- descEvents
}

// Collect 实现 prometheus.Collector，直接读取原子计数
func (m *StreamMetrics) Collect(ch chan<- prometheus.Metric) {
	counter := func(d *prometheus.Desc, v int64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	counter(descMessages, atomic.LoadInt64(&m.ReplayMessages), CommReplay.String())
	counter(descMessages, atomic.LoadInt64(&m.KeepAlives), CommKeepAlive.String())
	counter(descMessages, atomic.LoadInt64(&m.Handshakes), CommHandshake.String())
	counter(descMalformed, atomic.LoadInt64(&m.MalformedMessages))
	counter(descFrames, atomic.LoadInt64(&m.FramesEmitted))
	counter(descAborted, atomic.LoadInt64(&m.EventWalksAborted))
	for i := range m.events {
		if n := atomic.LoadInt64(&m.events[i]); n > 0 {
			counter(descEvents, n, EventType(i).String())
		}
	}
}
