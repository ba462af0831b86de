package slippi

import (
	"encoding/binary"
	"fmt"
	"math"
)

// post-frame 记录中各字段的偏移（相对记录起点，多字节字段均为大端）
const (
	postFrameNumber      = 0x01
	postPort             = 0x05
	postCharacter        = 0x07
	postAction           = 0x08
	postX                = 0x0A
	postY                = 0x0E
	postFacing           = 0x12
	postPercent          = 0x16
	postStock            = 0x21
	postActionFrame      = 0x22
	postFlags2           = 0x27
	postHitstun          = 0x2B
	postAirborne         = 0x2F
	postJumpsLeft        = 0x32
	postFrameMinLength   = postJumpsLeft + 1
	postFlags2HitlagMask = 0x20
)

// Project 将一条 POST_FRAME 记录投影到 gs 中对应端口
// 只覆盖本记录包含的字段，其余字段保持进入时的值
func Project(record []byte, gs *GameState) error {
	if len(record) < postFrameMinLength {
		return fmt.Errorf("%w: post-frame needs %d bytes, have %d", ErrInsufficientData, postFrameMinLength, len(record))
	}
	port := int(record[postPort]) + 1
	p := gs.Player(port)
	if p == nil {
		return fmt.Errorf("%w: controller port %d", ErrInvalidEvent, port)
	}

	gs.Frame = int32(binary.BigEndian.Uint32(record[postFrameNumber:]))

	if c, ok := CharacterFromID(record[postCharacter]); ok {
		p.Character = c
	} else {
		p.Character = UnknownCharacter
	}
	if a, ok := ActionFromID(binary.BigEndian.Uint16(record[postAction:])); ok {
		p.Action = a
	} else {
		p.Action = UnknownAnimation
	}

	p.X = readFloat(record, postX)
	p.Y = readFloat(record, postY)
	p.Facing = readFloat(record, postFacing) > 0
	p.Percent = truncate(readFloat(record, postPercent))
	p.Stock = int(record[postStock])
	p.ActionFrame = truncate(readFloat(record, postActionFrame))
	p.Hitlag = record[postFlags2]&postFlags2HitlagMask != 0
	p.HitstunFramesLeft = truncate(readFloat(record, postHitstun))
	p.OnGround = record[postAirborne] == 0
	p.JumpsLeft = int(record[postJumpsLeft])
	return nil
}

func readFloat(b []byte, off int) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b[off:]))
}

// truncate 向零截断；NaN/Inf 视为 0
func truncate(f float32) int {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return 0
	}
	return int(f)
}
