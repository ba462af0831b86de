package slippi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData 剩余字节少于声明长度，或操作码从未声明
	ErrInsufficientData = errors.New("slippi: insufficient data for event")
	// ErrInvalidEvent 操作码不在已知集合中，或记录内容越界
	ErrInvalidEvent = errors.New("slippi: invalid event")
)

// EventError 记录事件遍历中止的位置
type EventError struct {
	Offset int
	Code   EventType
	Need   int
	Have   int
	Err    error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event %s at offset %d (need %d, have %d): %v", e.Code, e.Offset, e.Need, e.Have, e.Err)
}

func (e *EventError) Unwrap() error { return e.Err }

// Dispatcher 逐条遍历事件缓冲；持有连接级的 schema 表与帧计数
// 非并发安全，只由所属连接的读取循环调用
type Dispatcher struct {
	Schema  *EventSchemaTable
	Frame   int32
	Metrics *StreamMetrics
}

// NewDispatcher 创建带空 schema 表的分发器；m 可为 nil
func NewDispatcher(m *StreamMetrics) *Dispatcher {
	return &Dispatcher{Schema: NewEventSchemaTable(), Metrics: m}
}

// Reset 清空 schema 与帧计数
func (d *Dispatcher) Reset() {
	d.Schema.Reset()
	d.Frame = 0
}

// Dispatch 从偏移 0 遍历到末尾
// 遇到长度不足或未知的操作码时立即停止并返回 *EventError；此前已投影到 gs 的字段保留
func (d *Dispatcher) Dispatch(events []byte, gs *GameState) error {
	off := 0
	for off < len(events) {
		rec := events[off:]
		code := EventType(rec[0])

		if code == EventPayloads {
			n, err := d.Schema.DeclarePayloads(rec)
			if err != nil {
				return &EventError{Offset: off, Code: code, Have: len(rec), Err: err}
			}
			d.count(code)
			off += n
			continue
		}

		size := d.Schema.Lookup(code)
		if size == 0 || len(rec) < size {
			return &EventError{Offset: off, Code: code, Need: size, Have: len(rec), Err: ErrInsufficientData}
		}
		rec = rec[:size]

		switch code {
		case EventFrameStart:
			if size < 5 {
				return &EventError{Offset: off, Code: code, Need: 5, Have: size, Err: ErrInsufficientData}
			}
			d.Frame = int32(binary.BigEndian.Uint32(rec[1:5]))
			gs.Frame = d.Frame
		case EventGameStart, EventGameEnd, EventPreFrame, EventGeckoCodes, EventFrameBookend, EventItemUpdate:
			// 已识别但不解释，只按声明长度跳过
		case EventPostFrame:
			if err := Project(rec, gs); err != nil {
				return &EventError{Offset: off, Code: code, Need: size, Have: len(events) - off, Err: err}
			}
		default:
			return &EventError{Offset: off, Code: code, Need: size, Have: len(rec), Err: ErrInvalidEvent}
		}
		d.count(code)
		off += size
	}
	return nil
}

func (d *Dispatcher) count(code EventType) {
	if d.Metrics != nil {
		d.Metrics.IncEvent(code)
	}
}
