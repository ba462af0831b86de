package slippi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// FrameHeaderSize 每条消息前的大端长度前缀
const FrameHeaderSize = 4

// MaxMessageSize 单条消息体上限
const MaxMessageSize = MaxUBJSONLength

// NullToken 新会话握手使用的全零 token
var NullToken = []byte{0x00, 0x00, 0x00, 0x00}

var (
	// ErrMalformed 消息结构无法解析；缓冲已丢弃，连接仍可继续读取
	ErrMalformed = errors.New("slippi: malformed message")
	// ErrMessageTooLarge 长度前缀超过 MaxMessageSize
	ErrMessageTooLarge = errors.New("slippi: message too large")
)

// Message 一条解码后的顶层消息，只在单次读取期间有效
type Message struct {
	Type    CommType
	Payload map[string]any
}

// Data 返回 REPLAY 消息中的事件字节流
func (m *Message) Data() ([]byte, bool) {
	return payloadBytes(m.Payload["data"])
}

// ParseMessage 从解码后的 UBJSON 值中提取 type 与 payload
func ParseMessage(v any) (*Message, error) {
	root, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T, want object", ErrMalformed, v)
	}
	raw, ok := root["type"].(int64)
	if !ok {
		return nil, fmt.Errorf("%w: missing integer type field", ErrMalformed)
	}
	if raw < 0 || raw > math.MaxUint8 {
		return nil, fmt.Errorf("%w: type %d out of range", ErrMalformed, raw)
	}
	msg := &Message{Type: CommType(raw), Payload: map[string]any{}}
	switch p := root["payload"].(type) {
	case nil:
		// keepalive 可能不带 payload
	case map[string]any:
		msg.Payload = p
	default:
		return nil, fmt.Errorf("%w: payload is %T, want object", ErrMalformed, p)
	}
	return msg, nil
}

// EncodeMessage 编码一条带长度前缀的完整消息
func EncodeMessage(t CommType, payload map[string]any) ([]byte, error) {
	e := NewEncoder()
	e.buf = append(e.buf, 0, 0, 0, 0)
	if err := e.Encode(map[string]any{
		"type":    int64(t),
		"payload": payload,
	}); err != nil {
		return nil, err
	}
	out := e.Bytes()
	binary.BigEndian.PutUint32(out[:FrameHeaderSize], uint32(len(out)-FrameHeaderSize))
	return out, nil
}

// NewHandshake 构造客户端握手消息
func NewHandshake(cursor int64, token []byte, realtime bool) ([]byte, error) {
	if token == nil {
		token = NullToken
	}
	return EncodeMessage(CommHandshake, map[string]any{
		"cursor":      cursor,
		"clientToken": token,
		"isRealtime":  realtime,
	})
}

// payloadBytes 兼容强类型 []byte 与逐元素编码的整数数组
func payloadBytes(v any) ([]byte, bool) {
	switch x := v.(type) {
	case []byte:
		return x, true
	case []any:
		out := make([]byte, len(x))
		for i, item := range x {
			n, ok := item.(int64)
			if !ok || n < 0 || n > math.MaxUint8 {
				return nil, false
			}
			out[i] = byte(n)
		}
		return out, true
	default:
		return nil, false
	}
}
