package slippi

import "fmt"

// CommType 顶层消息类型（payload 中的 type 字段）
type CommType uint8

const (
	CommHandshake CommType = 0x01
	CommReplay    CommType = 0x02
	CommKeepAlive CommType = 0x03
)

func (t CommType) String() string {
	switch t {
	case CommHandshake:
		return "Handshake"
	case CommReplay:
		return "Replay"
	case CommKeepAlive:
		return "KeepAlive"
	default:
		return fmt.Sprintf("CommType(%d)", uint8(t))
	}
}

// EventType 回放数据中事件记录的 1 字节操作码
type EventType uint8

const (
	EventGeckoCodes   EventType = 0x10
	EventPayloads     EventType = 0x35
	EventGameStart    EventType = 0x36
	EventPreFrame     EventType = 0x37
	EventPostFrame    EventType = 0x38
	EventGameEnd      EventType = 0x39
	EventFrameStart   EventType = 0x3A
	EventItemUpdate   EventType = 0x3B
	EventFrameBookend EventType = 0x3C
)

var eventNames = map[EventType]string{
	EventGeckoCodes:   "GeckoCodes",
	EventPayloads:     "Payloads",
	EventGameStart:    "GameStart",
	EventPreFrame:     "PreFrame",
	EventPostFrame:    "PostFrame",
	EventGameEnd:      "GameEnd",
	EventFrameStart:   "FrameStart",
	EventItemUpdate:   "ItemUpdate",
	EventFrameBookend: "FrameBookend",
}

// Known 报告操作码是否属于已知事件集合
func (e EventType) Known() bool {
	_, ok := eventNames[e]
	return ok
}

func (e EventType) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("EventType(0x%02x)", uint8(e))
}
