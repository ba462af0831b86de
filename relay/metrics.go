package relay

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HubMetrics 记录广播房间运行期的关键指标
type HubMetrics struct {
	TickCount          int64 // 统计的 Tick 次数
	FramesPublished    int64 // 会话循环投递的帧数
	FramesCoalesced    int64 // 同一 Tick 内被更新帧覆盖的帧数
	Broadcasts         int64 // 实际广播的帧数（帧号变化才广播）
	SpectatorsJoined   int64 // 加入的观战连接数
	SpectatorsRejected int64 // 因人数上限被拒绝的连接数
	SendQueueFull      int64 // 因发送队列满被丢弃的消息数
	TotalTickNs        int64 // Tick 累计耗时（纳秒）
	Spectators         int64 // 当前观战连接数
}

func (m *HubMetrics) IncPublished() { atomic.AddInt64(&m.FramesPublished, 1) }
func (m *HubMetrics) IncCoalesced() { atomic.AddInt64(&m.FramesCoalesced, 1) }
func (m *HubMetrics) IncBroadcast() { atomic.AddInt64(&m.Broadcasts, 1) }
func (m *HubMetrics) IncJoined() { atomic.AddInt64(&m.SpectatorsJoined, 1) }
func (m *HubMetrics) IncRejected() { atomic.AddInt64(&m.SpectatorsRejected, 1) }
func (m *HubMetrics) IncQueueFull() { atomic.AddInt64(&m.SendQueueFull, 1) }
func (m *HubMetrics) AddSpectators(n int64) { atomic.AddInt64(&m.Spectators, n) }
func (m *HubMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *HubMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"frames_published":    atomic.LoadInt64(&m.FramesPublished),
		"frames_coalesced":    atomic.LoadInt64(&m.FramesCoalesced),
		"broadcasts":          atomic.LoadInt64(&m.Broadcasts),
		"spectators":          atomic.LoadInt64(&m.Spectators),
		"spectators_joined":   atomic.LoadInt64(&m.SpectatorsJoined),
		"spectators_rejected": atomic.LoadInt64(&m.SpectatorsRejected),
		"send_queue_full":     atomic.LoadInt64(&m.SendQueueFull),
		"avg_tick_ms":         avgMs,
	}
}

// Register 把房间指标以 Func 形式注册到 Prometheus
func (m *HubMetrics) Register(reg prometheus.Registerer) {
	factory := promauto.With(reg)
	load := func(p *int64) func() float64 {
		return func() float64 { return float64(atomic.LoadInt64(p)) }
	}
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "slippstream", Subsystem: "relay", Name: "spectators",
		Help: "Connected websocket spectators",
	}, load(&m.Spectators))
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "slippstream", Subsystem: "relay", Name: "frames_published_total",
		Help: "Frames handed to the relay by the session loop",
	}, load(&m.FramesPublished))
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "slippstream", Subsystem: "relay", Name: "broadcasts_total",
		Help: "Frames broadcast to spectators",
	}, load(&m.Broadcasts))
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "slippstream", Subsystem: "relay", Name: "send_queue_full_total",
		Help: "Messages dropped because a spectator send queue was full",
	}, load(&m.SendQueueFull))
}
