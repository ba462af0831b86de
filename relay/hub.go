package relay

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"slippstream/logging"
	"slippstream/slippi"
)

// Config 广播房间配置，可通过 /admin/config 热更新
type Config struct {
	BroadcastInterval time.Duration // 广播 Tick 间隔
	MaxSpectators     int           // 观战连接上限，0 表示不限
}

// DefaultConfig 默认约 60 次/秒广播，最多 64 个观战连接
func DefaultConfig() Config {
	return Config{
		BroadcastInterval: 16 * time.Millisecond,
		MaxSpectators:     64,
	}
}

// Hub 观战广播房间：会话循环投递最新帧，单线程 Tick 负责入离场与广播
type Hub struct {
	spectators map[SpectatorID]*Spectator // 只在 Tick 协程中读写

	joinChan   chan *Spectator
	leaveChan  chan SpectatorID
	filterChan chan filterRequest
	frameChan  chan *slippi.GameState // 容量 1，只保留最新一帧

	mu  sync.RWMutex
	cfg Config

	metrics   *HubMetrics
	admitted  atomic.Int64 // 已放行（含尚未入场）的连接数，用于上限判断
	lastFrame int32
	hasLast   bool

	tickerStarted atomic.Bool
	stop          chan struct{}
	stopOnce      sync.Once
	done          chan struct{}
}

// NewHub 创建房间，初始化数据结构；Tick 需另行 StartTicker
func NewHub(cfg Config) *Hub {
	if cfg.BroadcastInterval <= 0 {
		cfg.BroadcastInterval = DefaultConfig().BroadcastInterval
	}
	return &Hub{
		spectators: make(map[SpectatorID]*Spectator),
		joinChan:   make(chan *Spectator, 64),
		leaveChan:  make(chan SpectatorID, 64),
		filterChan: make(chan filterRequest, 256),
		frameChan:  make(chan *slippi.GameState, 1),
		cfg:        cfg,
		metrics:    &HubMetrics{},
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Metrics 返回房间指标
func (h *Hub) Metrics() *HubMetrics { return h.metrics }

// Config 返回当前配置副本
func (h *Hub) Config() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// SetConfig 更新配置；新的广播间隔在下一次 Tick 后生效
func (h *Hub) SetConfig(cfg Config) {
	if cfg.BroadcastInterval <= 0 {
		cfg.BroadcastInterval = DefaultConfig().BroadcastInterval
	}
	if cfg.MaxSpectators < 0 {
		cfg.MaxSpectators = 0
	}
	h.mu.Lock()
	h.cfg = cfg
	h.mu.Unlock()
}

// Publish 投递最新一帧（不阻塞）：通道已满时用新帧替换旧帧
func (h *Hub) Publish(gs *slippi.GameState) {
	if gs == nil {
		return
	}
	h.metrics.IncPublished()
	for {
		select {
		case h.frameChan <- gs:
			return
		default:
		}
		select {
		case <-h.frameChan:
			h.metrics.IncCoalesced()
		default:
		}
	}
}

// admit 按上限占位；成功后必须以 Join 或 release 收尾
func (h *Hub) admit() bool {
	limit := int64(h.Config().MaxSpectators)
	for {
		cur := h.admitted.Load()
		if limit > 0 && cur >= limit {
			h.metrics.IncRejected()
			return false
		}
		if h.admitted.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

func (h *Hub) release() { h.admitted.Add(-1) }

// Join 请求在 Tick 线程中加入观战者；房间已停止时关闭连接并返回 false
func (h *Hub) Join(s *Spectator) bool {
	select {
	case <-h.stop:
	default:
		select {
		case h.joinChan <- s:
			// 发送与停止同时就绪时 select 可能选中发送，此时 Tick 协程可能已退出
			select {
			case <-h.stop:
				h.drainJoins()
				return false
			default:
				return true
			}
		case <-h.stop:
		}
	}
	h.reject(s)
	return false
}

// drainJoins 在房间停止后回收滞留在 joinChan 中的观战者
func (h *Hub) drainJoins() {
	for {
		select {
		case s := <-h.joinChan:
			h.reject(s)
		default:
			return
		}
	}
}

func (h *Hub) reject(s *Spectator) {
	h.release()
	if s.Conn != nil {
		s.Conn.Close()
	}
}

// RequestLeave 请求在 Tick 线程中移除观战者，避免并发改动房间状态
func (h *Hub) RequestLeave(id SpectatorID) {
	select {
	case h.leaveChan <- id:
	case <-h.stop:
	}
}

// SetFilter 请求更新观战者的端口过滤（不阻塞，拥塞时丢弃）
func (h *Hub) SetFilter(id SpectatorID, ports map[int]bool) {
	select {
	case h.filterChan <- filterRequest{ID: id, Ports: ports}:
	default:
	}
}

// processPending 处理本 Tick 前积压的入场、离场与过滤请求（非阻塞 drain）
func (h *Hub) processPending() {
	for {
		select {
		case s := <-h.joinChan:
			if old, ok := h.spectators[s.ID]; ok {
				h.drop(old)
			}
			h.spectators[s.ID] = s
			h.metrics.IncJoined()
			h.metrics.AddSpectators(1)
			logging.Log.Infof("spectator joined: id=%s ports=%v", s.ID, portList(s.Ports))
		case id := <-h.leaveChan:
			if s, ok := h.spectators[id]; ok {
				h.drop(s)
				logging.Log.Infof("spectator left: id=%s", id)
			}
		case req := <-h.filterChan:
			if s, ok := h.spectators[req.ID]; ok {
				s.Ports = req.Ports
				logging.Log.Debugf("spectator filter: id=%s ports=%v", req.ID, portList(req.Ports))
			}
		default:
			return
		}
	}
}

// drop 移出观战者并关闭其连接
func (h *Hub) drop(s *Spectator) {
	if s.Conn != nil {
		s.Conn.Close()
	}
	delete(h.spectators, s.ID)
	h.metrics.AddSpectators(-1)
	h.release()
}

// broadcastDelta 取出最新帧广播；帧号未变化则跳过
func (h *Hub) broadcastDelta() {
	var gs *slippi.GameState
	select {
	case gs = <-h.frameChan:
	default:
		return
	}
	if h.hasLast && gs.Frame == h.lastFrame {
		return
	}
	h.lastFrame, h.hasLast = gs.Frame, true
	h.metrics.IncBroadcast()

	// 未过滤的观战者共享同一份编码结果
	var full []byte
	for _, s := range h.spectators {
		if s.Conn == nil {
			continue
		}
		var b []byte
		if len(s.Ports) == 0 {
			if full == nil {
				full = encodeFrame(gs, nil)
			}
			b = full
		} else {
			b = encodeFrame(gs, s)
		}
		if b == nil {
			continue
		}
		if !s.Conn.Enqueue(b) {
			h.metrics.IncQueueFull()
		}
	}
}

// encodeFrame 按观战者的端口过滤编码一帧；s 为 nil 表示全部端口
func encodeFrame(gs *slippi.GameState, s *Spectator) []byte {
	msg := FrameMessage{Type: "frame", Frame: gs.Frame, Players: gs.Players}
	if s != nil {
		msg.Players = make(map[int]*slippi.PlayerState, len(s.Ports))
		for port, p := range gs.Players {
			if s.wants(port) {
				msg.Players[port] = p
			}
		}
	}
	b, err := json.Marshal(msg)
	if err != nil {
		logging.Log.Warnf("encode frame %d: %v", gs.Frame, err)
		return nil
	}
	return b
}

// tick 一次完整的推进：处理请求 → 广播
func (h *Hub) tick() {
	start := time.Now()
	h.processPending()
	h.broadcastDelta()
	h.metrics.AddTick(time.Since(start).Nanoseconds())
}

// Stop 停止 Tick 并关闭全部观战连接；可重复调用
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	if h.tickerStarted.Load() {
		<-h.done
	}
	h.drainJoins()
}

// closeAll 在 Tick 协程退出时清场
func (h *Hub) closeAll() {
	h.processPending()
	for _, s := range h.spectators {
		h.drop(s)
	}
}

func portList(ports map[int]bool) []int {
	out := make([]int, 0, len(ports))
	for p := slippi.MinPort; p <= slippi.MaxPort; p++ {
		if ports[p] {
			out = append(out, p)
		}
	}
	return out
}
