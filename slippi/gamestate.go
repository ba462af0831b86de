package slippi

// 手柄端口范围（1 起）
const (
	MinPort = 1
	MaxPort = 4
)

// PlayerState 单个端口在当前帧的投影状态
type PlayerState struct {
	Character         Character `json:"character"`
	Action            Action    `json:"action"`
	X                 float32   `json:"x"`
	Y                 float32   `json:"y"`
	Facing            bool      `json:"facing"`
	Percent           int       `json:"percent"`
	Stock             int       `json:"stock"`
	ActionFrame       int       `json:"actionFrame"`
	Hitlag            bool      `json:"hitlag"`
	HitstunFramesLeft int       `json:"hitstunFramesLeft"`
	OnGround          bool      `json:"onGround"`
	JumpsLeft         int       `json:"jumpsLeft"`
}

// GameState 一帧的快照；Players 始终恰好包含端口 1..4
type GameState struct {
	Frame   int32                `json:"frame"`
	Players map[int]*PlayerState `json:"players"`
}

// NewGameState 创建快照并预分配全部端口
func NewGameState() *GameState {
	gs := &GameState{Players: make(map[int]*PlayerState, MaxPort)}
	for port := MinPort; port <= MaxPort; port++ {
		gs.Players[port] = &PlayerState{
			Character: UnknownCharacter,
			Action:    UnknownAnimation,
		}
	}
	return gs
}

// Player 返回端口对应的状态；端口越界返回 nil
func (g *GameState) Player(port int) *PlayerState {
	if port < MinPort || port > MaxPort {
		return nil
	}
	return g.Players[port]
}
