package slippi

import (
	"errors"

	"slippstream/logging"
)

// NextFrame 阻塞直到拿到下一条 REPLAY 消息，并返回由其事件投影出的快照
//
// KEEPALIVE 与 HANDSHAKE 被消费后继续等待；结构损坏的消息被跳过。
// 连接关闭时返回 ErrClosed，调用方应视为流结束。
func (c *Client) NextFrame() (*GameState, error) {
	for {
		msg, err := c.ReadMessage()
		if err != nil {
			if errors.Is(err, ErrMalformed) {
				continue
			}
			return nil, err
		}

		switch msg.Type {
		case CommReplay:
			c.metrics.IncReplay()
			data, ok := msg.Data()
			if !ok {
				logging.Log.Warnw("replay message without event data")
				c.metrics.IncMalformed()
				continue
			}
			gs := NewGameState()
			if err := c.dispatcher.Dispatch(data, gs); err != nil {
				c.metrics.IncAborted()
				logging.Log.Warnw("something went wrong unpacking events, data is probably missing", "err", err)
			}
			c.metrics.IncFrames()
			return gs, nil

		case CommKeepAlive:
			c.metrics.IncKeepAlive()
			logging.Log.Debugw("keepalive")

		case CommHandshake:
			c.metrics.IncHandshake()
			c.recordHandshake(msg.Payload)

		default:
			logging.Log.Debugw("ignoring message", "type", msg.Type)
		}
	}
}

// recordHandshake 保存主机回送的握手信息
func (c *Client) recordHandshake(p map[string]any) {
	var d ConnectionDetails
	d.ConsoleNick, _ = p["nick"].(string)
	d.Version, _ = p["nintendontVersion"].(string)
	if tok, ok := payloadBytes(p["clientToken"]); ok {
		d.ClientToken = tok
	}
	d.Cursor = p["pos"]

	c.mu.Lock()
	c.details = d
	c.mu.Unlock()
	logging.Log.Infow("connected to console", "nick", d.ConsoleNick, "version", d.Version)
}
