package slippi

import (
	"encoding/binary"
	"math"
	"net"
	"testing"
)

// payloadsRecord 构造 PAYLOADS 记录；decl 中的长度是协议里的 payload 长度字段（不含操作码）
func payloadsRecord(decl ...[2]int) []byte {
	size := 1 + 3*len(decl)
	rec := []byte{byte(EventPayloads), byte(size)}
	for _, d := range decl {
		rec = append(rec, byte(d[0]))
		rec = binary.BigEndian.AppendUint16(rec, uint16(d[1]))
	}
	return rec
}

func frameStartRecord(length int, frame int32) []byte {
	rec := make([]byte, length)
	rec[0] = byte(EventFrameStart)
	binary.BigEndian.PutUint32(rec[1:], uint32(frame))
	return rec
}

func opaqueRecord(code EventType, length int) []byte {
	rec := make([]byte, length)
	rec[0] = byte(code)
	for i := 1; i < length; i++ {
		rec[i] = 0xAA
	}
	return rec
}

type postFrameFields struct {
	frame       int32
	port        uint8 // 0 起，与线上一致
	character   uint8
	action      uint16
	x, y        float32
	facing      float32
	percent     float32
	stock       uint8
	actionFrame float32
	flags2      uint8
	hitstun     float32
	airborne    uint8
	jumps       uint8
}

func (f postFrameFields) record(length int) []byte {
	rec := make([]byte, length)
	rec[0] = byte(EventPostFrame)
	binary.BigEndian.PutUint32(rec[postFrameNumber:], uint32(f.frame))
	rec[postPort] = f.port
	rec[postCharacter] = f.character
	binary.BigEndian.PutUint16(rec[postAction:], f.action)
	putFloat(rec, postX, f.x)
	putFloat(rec, postY, f.y)
	putFloat(rec, postFacing, f.facing)
	putFloat(rec, postPercent, f.percent)
	rec[postStock] = f.stock
	putFloat(rec, postActionFrame, f.actionFrame)
	rec[postFlags2] = f.flags2
	putFloat(rec, postHitstun, f.hitstun)
	rec[postAirborne] = f.airborne
	rec[postJumpsLeft] = f.jumps
	return rec
}

func putFloat(b []byte, off int, v float32) {
	binary.BigEndian.PutUint32(b[off:], math.Float32bits(v))
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// newPipeClient 返回一个已"连接"到 net.Pipe 的客户端以及对端
func newPipeClient(t *testing.T) (*Client, net.Conn) {
	t.Helper()
	local, remote := net.Pipe()
	c := NewClient(Config{Address: "pipe"})
	c.conn = local
	c.status = Connected
	t.Cleanup(func() {
		c.Shutdown()
		remote.Close()
	})
	return c, remote
}

// writeAsync 在后台把 frames 依次写给客户端
func writeAsync(t *testing.T, conn net.Conn, frames ...[]byte) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		for _, f := range frames {
			if _, err := conn.Write(f); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	return done
}

func mustMessage(t *testing.T, typ CommType, payload map[string]any) []byte {
	t.Helper()
	b, err := EncodeMessage(typ, payload)
	if err != nil {
		t.Fatalf("EncodeMessage() error = %v", err)
	}
	return b
}
