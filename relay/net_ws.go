package relay

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"slippstream/logging"
	"slippstream/slippi"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendQueue  = 64
)

// ClientConn 负责发送（写）数据到观战端的轻量包装
type ClientConn struct {
	ws     *websocket.Conn
	send   chan []byte
	closed bool // 只在持有者协程（入场前为 HTTP 协程，之后为 Tick 协程）中读写
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, sendQueue),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃并返回 false）
func (c *ClientConn) Enqueue(b []byte) bool {
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close 关闭发送队列；写协程写完剩余消息后关闭底层连接
func (c *ClientConn) Close() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期 ping
func (c *ClientConn) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump 读取观战端的过滤请求，转交房间在 Tick 中生效
func (c *ClientConn) readPump(h *Hub, id SpectatorID) {
	defer c.ws.Close()
	// 读泵退出时，通知房间在 Tick 线程中移除该观战者
	defer h.RequestLeave(id)
	c.ws.SetReadLimit(1 << 16)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var sm SpectatorMessage
		if err := json.Unmarshal(payload, &sm); err != nil {
			continue
		}
		if strings.ToLower(sm.Type) != "ports" {
			continue
		}
		ports, err := portSet(sm.Ports)
		if err != nil {
			logging.Log.Debugf("spectator %s: %v", id, err)
			continue
		}
		h.SetFilter(id, ports)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// 观战页面可能来自任意来源
		return true
	},
}

// HandleWS WebSocket 接入：/ws?ports=1,2（可选，缺省接收全部端口）
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ports, err := parsePorts(r.URL.Query().Get("ports"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.admit() {
		http.Error(w, "too many spectators", http.StatusServiceUnavailable)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.release()
		logging.Log.Warnf("upgrade error: %v", err)
		return
	}

	id := SpectatorID(uuid.NewString())
	conn := NewClientConn(ws)
	hello, _ := json.Marshal(map[string]any{"type": "hello", "id": id})
	conn.Enqueue(hello)

	go conn.writePump()
	if !h.Join(&Spectator{ID: id, Ports: ports, Conn: conn}) {
		return
	}
	go conn.readPump(h, id)
}

// parsePorts 解析逗号分隔的端口列表
func parsePorts(raw string) (map[int]bool, error) {
	if raw == "" {
		return nil, nil
	}
	var list []int
	for _, f := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", f)
		}
		list = append(list, n)
	}
	return portSet(list)
}

// portSet 校验端口范围；空列表表示不过滤
func portSet(list []int) (map[int]bool, error) {
	if len(list) == 0 {
		return nil, nil
	}
	set := make(map[int]bool, len(list))
	for _, p := range list {
		if p < slippi.MinPort || p > slippi.MaxPort {
			return nil, fmt.Errorf("port %d out of range %d..%d", p, slippi.MinPort, slippi.MaxPort)
		}
		set[p] = true
	}
	return set, nil
}
