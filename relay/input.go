package relay

// 观战端上行消息的简单 JSON 结构（WebSocket 文本消息）
// 示例：{"type":"ports","ports":[1,2]}，ports 为空表示取消过滤
type SpectatorMessage struct {
	Type  string `json:"type"`
	Ports []int  `json:"ports,omitempty"`
}

// filterRequest 由读协程投递、在 Tick 协程中生效的端口过滤
type filterRequest struct {
	ID    SpectatorID
	Ports map[int]bool
}
