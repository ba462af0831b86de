package relay

import (
	"encoding/json"
	"net/http"
	"time"

	"slippstream/logging"
	"slippstream/slippi"
)

// StreamSource 主机连接的只读视图，*slippi.Client 即满足
type StreamSource interface {
	Status() slippi.ConnectionStatus
	Details() slippi.ConnectionDetails
	Metrics() *slippi.StreamMetrics
}

// HandleAdminConfig 提供广播配置的读取与更新（热更新）
// GET /admin/config  返回当前配置
// POST /admin/config 以 JSON 载荷更新部分字段
func (h *Hub) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	type cfg struct {
		BroadcastIntervalMs *int `json:"broadcastIntervalMs,omitempty"`
		MaxSpectators       *int `json:"maxSpectators,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		c := h.Config()
		ms := int(c.BroadcastInterval / time.Millisecond)
		writeJSON(w, http.StatusOK, cfg{BroadcastIntervalMs: &ms, MaxSpectators: &c.MaxSpectators})
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		c := h.Config()
		if body.BroadcastIntervalMs != nil {
			if *body.BroadcastIntervalMs <= 0 {
				http.Error(w, "broadcastIntervalMs must be positive", http.StatusBadRequest)
				return
			}
			c.BroadcastInterval = time.Duration(*body.BroadcastIntervalMs) * time.Millisecond
		}
		if body.MaxSpectators != nil {
			if *body.MaxSpectators < 0 {
				http.Error(w, "maxSpectators must not be negative", http.StatusBadRequest)
				return
			}
			c.MaxSpectators = *body.MaxSpectators
		}
		h.SetConfig(c)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		logging.Log.Infof("config updated: broadcastInterval=%s maxSpectators=%d", c.BroadcastInterval, c.MaxSpectators)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleStats 输出房间与主机连接的运行指标
// GET /admin/stats
func HandleStats(h *Hub, src StreamSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"relay": h.Metrics().Snapshot(),
		}
		if src != nil {
			payload["status"] = src.Status().String()
			payload["console"] = src.Details()
			payload["stream"] = src.Metrics().Snapshot()
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
