package relay

import "slippstream/slippi"

// SpectatorID 观战连接唯一标识
type SpectatorID string

// Spectator 房间内的观战者（只在 Tick 协程中读写）
type Spectator struct {
	ID    SpectatorID
	Ports map[int]bool // 为空表示接收全部端口

	Conn *ClientConn // 网络连接的发送端（写协程）
}

// wants 报告该观战者是否订阅了端口
func (s *Spectator) wants(port int) bool {
	return len(s.Ports) == 0 || s.Ports[port]
}

// FrameMessage 广播给观战者的一帧（文本 JSON）
type FrameMessage struct {
	Type    string                      `json:"type"`
	Frame   int32                       `json:"frame"`
	Players map[int]*slippi.PlayerState `json:"players"`
}
