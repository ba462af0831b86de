package relay

import "time"

// StartTicker 启动房间的 Tick 循环（单线程推进）；重复调用无效
func (h *Hub) StartTicker() {
	if !h.tickerStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(h.done)
		defer h.closeAll()

		interval := h.Config().BroadcastInterval
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
			}
			// 核心循环：处理入离场 → 广播最新帧
			h.tick()
			if next := h.Config().BroadcastInterval; next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}()
}
