package slippi

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"reflect"
	"strconv"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// fakeConsole 接受一个连接，读取客户端握手后交给 onConn
func fakeConsole(t *testing.T, onConn func(conn net.Conn, handshake any)) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		hdr := make([]byte, FrameHeaderSize)
		if _, err := io.ReadFull(conn, hdr); err != nil {
			return
		}
		body := make([]byte, binary.BigEndian.Uint32(hdr))
		if _, err := io.ReadFull(conn, body); err != nil {
			return
		}
		v, err := Unmarshal(body)
		if err != nil {
			t.Errorf("handshake decode: %v", err)
			return
		}
		onConn(conn, v)
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestConnectSendsHandshake(t *testing.T) {
	got := make(chan any, 1)
	port := fakeConsole(t, func(conn net.Conn, hs any) {
		got <- hs
		// 保持连接直到客户端关闭
		_, _ = io.Copy(io.Discard, conn)
	})

	c := NewClient(Config{Address: "127.0.0.1", Port: port, Realtime: false})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if c.Status() != Connected {
		t.Errorf("Status() = %v, want connected", c.Status())
	}

	want := map[string]any{
		"type": int64(CommHandshake),
		"payload": map[string]any{
			"cursor":      int64(0),
			"clientToken": []byte{0, 0, 0, 0},
			"isRealtime":  false,
		},
	}
	select {
	case hs := <-got:
		if !reflect.DeepEqual(hs, want) {
			t.Errorf("handshake = %#v, want %#v", hs, want)
		}
	case <-ctx.Done():
		t.Fatal("console never received a handshake")
	}

	// 重复连接是 no-op
	if err := c.Connect(ctx); err != nil {
		t.Errorf("second Connect() error = %v", err)
	}
	if !c.Shutdown() {
		t.Error("Shutdown() = false, want true")
	}
	if c.Shutdown() {
		t.Error("second Shutdown() = true, want false")
	}
	if c.Status() != Disconnected {
		t.Errorf("Status() after shutdown = %v", c.Status())
	}
}

func TestConnectRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	c := NewClient(Config{Address: "127.0.0.1", Port: port})
	err = c.Connect(context.Background())
	if !errors.Is(err, ErrConnectionRefused) {
		t.Fatalf("Connect() error = %v, want ErrConnectionRefused", err)
	}
	if c.Status() != Disconnected {
		t.Errorf("Status() = %v, want disconnected", c.Status())
	}
	if c.Shutdown() {
		t.Error("Shutdown() after failed connect = true")
	}
}

func TestReadMessageRoundTrip(t *testing.T) {
	c, remote := newPipeClient(t)
	payload := map[string]any{
		"cursor":     int64(7),
		"token":      []byte{0xDE, 0xAD, 0xBE, 0xEF},
		"isRealtime": true,
		"ratio":      0.25,
		"nick":       "Wii",
		"nested": map[string]any{
			"neg":  int64(-300),
			"big":  int64(1) << 40,
			"list": []any{int64(1), "two", nil, false},
		},
	}
	done := writeAsync(t, remote, mustMessage(t, CommKeepAlive, payload))

	msg, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if msg.Type != CommKeepAlive {
		t.Errorf("Type = %v, want KeepAlive", msg.Type)
	}
	if !reflect.DeepEqual(msg.Payload, payload) {
		t.Errorf("Payload = %#v, want %#v", msg.Payload, payload)
	}
	if err := <-done; err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestReadMessageMalformedRecovers(t *testing.T) {
	c, remote := newPipeClient(t)
	notObject, _ := Marshal("hello")
	framed := binary.BigEndian.AppendUint32(nil, uint32(len(notObject)))
	framed = append(framed, notObject...)

	writeAsync(t, remote,
		[]byte{0, 0, 0, 3, 0xFF, 0x00, 0x01},
		framed,
		mustMessage(t, CommKeepAlive, nil),
	)

	for i := 0; i < 2; i++ {
		if _, err := c.ReadMessage(); !errors.Is(err, ErrMalformed) {
			t.Fatalf("ReadMessage() #%d error = %v, want ErrMalformed", i, err)
		}
	}
	msg, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() after malformed error = %v", err)
	}
	if msg.Type != CommKeepAlive || len(msg.Payload) != 0 {
		t.Errorf("msg = %+v, want empty keepalive", msg)
	}
	if got := c.Metrics().MalformedMessages; got != 2 {
		t.Errorf("MalformedMessages = %d, want 2", got)
	}
}

func TestReadMessageSkipsOversizedBody(t *testing.T) {
	c, remote := newPipeClient(t)
	size := MaxMessageSize + 16
	oversized := binary.BigEndian.AppendUint32(nil, uint32(size))
	oversized = append(oversized, make([]byte, size)...)
	writeAsync(t, remote, oversized, mustMessage(t, CommKeepAlive, nil))

	if _, err := c.ReadMessage(); !errors.Is(err, ErrMessageTooLarge) || !errors.Is(err, ErrMalformed) {
		t.Fatalf("ReadMessage() error = %v, want ErrMalformed wrapping ErrMessageTooLarge", err)
	}
	msg, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() after oversized error = %v", err)
	}
	if msg.Type != CommKeepAlive {
		t.Errorf("Type = %v, want KeepAlive", msg.Type)
	}
	if got := c.Metrics().MalformedMessages; got != 1 {
		t.Errorf("MalformedMessages = %d, want 1", got)
	}
}

func TestReadMessageOversizedBodyCutShort(t *testing.T) {
	c, remote := newPipeClient(t)
	header := binary.BigEndian.AppendUint32(nil, uint32(MaxMessageSize+1))
	go func() {
		_, _ = remote.Write(append(header, 1, 2, 3))
		remote.Close()
	}()
	if _, err := c.ReadMessage(); !errors.Is(err, ErrClosed) {
		t.Fatalf("ReadMessage() error = %v, want ErrClosed", err)
	}
}

func TestReadMessageByteAtATime(t *testing.T) {
	c, remote := newPipeClient(t)
	c.cfg.PollInterval = 2 * time.Millisecond

	frame := mustMessage(t, CommReplay, map[string]any{"data": []byte{1, 2, 3}})
	go func() {
		for _, b := range frame {
			if _, err := remote.Write([]byte{b}); err != nil {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	msg, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	data, ok := msg.Data()
	if !ok || !reflect.DeepEqual(data, []byte{1, 2, 3}) {
		t.Errorf("Data() = %v, %v", data, ok)
	}
}

func TestReadMessageShutdownCancels(t *testing.T) {
	c, _ := newPipeClient(t)
	errc := make(chan error, 1)
	go func() {
		_, err := c.ReadMessage()
		errc <- err
	}()

	time.Sleep(20 * time.Millisecond)
	c.Shutdown()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("ReadMessage() error = %v, want ErrClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ReadMessage did not return after Shutdown")
	}
	// 关闭是永久的
	if _, err := c.ReadMessage(); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadMessage() after close = %v, want ErrClosed", err)
	}
}

func TestReadMessageNotConnected(t *testing.T) {
	c := NewClient(DefaultConfig())
	if _, err := c.ReadMessage(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ReadMessage() error = %v, want ErrNotConnected", err)
	}
}

func TestNextFrameSession(t *testing.T) {
	c, remote := newPipeClient(t)

	schema := payloadsRecord([2]int{int(EventFrameStart), 5}, [2]int{int(EventPostFrame), 0x36})
	frame := concat(
		frameStartRecord(6, 100),
		postFrameFields{frame: 100, port: 1, character: uint8(Fox), x: 10, y: 5, stock: 4}.record(0x37),
	)
	writeAsync(t, remote,
		mustMessage(t, CommKeepAlive, nil),
		mustMessage(t, CommHandshake, map[string]any{
			"nick":              "Wii",
			"nintendontVersion": "1.9.0",
			"clientToken":       []byte{1, 2, 3, 4},
			"pos":               []byte{0, 0, 0, 0, 0, 0, 0, 0},
		}),
		[]byte{0, 0, 0, 1, 0xFF},
		mustMessage(t, CommReplay, map[string]any{"pos": []byte{0}}),
		mustMessage(t, CommReplay, map[string]any{"data": schema}),
		mustMessage(t, CommReplay, map[string]any{"data": frame}),
	)

	// 第一帧只有 schema 声明
	gs, err := c.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame() #1 error = %v", err)
	}
	if gs.Frame != 0 {
		t.Errorf("frame #1 = %d, want 0", gs.Frame)
	}

	gs, err = c.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame() #2 error = %v", err)
	}
	if gs.Frame != 100 || c.Frame() != 100 {
		t.Errorf("frame = %d (client %d), want 100", gs.Frame, c.Frame())
	}
	p := gs.Player(2)
	if p.Character != Fox || p.X != 10 || p.Y != 5 || p.Percent != 0 || p.Stock != 4 {
		t.Errorf("player 2 = %+v", p)
	}

	d := c.Details()
	if d.ConsoleNick != "Wii" || d.Version != "1.9.0" || !reflect.DeepEqual(d.ClientToken, []byte{1, 2, 3, 4}) {
		t.Errorf("Details() = %+v", d)
	}

	m := c.Metrics()
	if m.KeepAlives != 1 || m.Handshakes != 1 || m.MalformedMessages != 2 || m.FramesEmitted != 2 {
		t.Errorf("metrics = %+v", m.Snapshot())
	}

	// 对端断开后流结束
	remote.Close()
	if _, err := c.NextFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("NextFrame() after peer close = %v, want ErrClosed", err)
	}
}

func TestNextFrameAbortedWalkStillReturnsFrame(t *testing.T) {
	c, remote := newPipeClient(t)
	// 未声明 schema 就出现 POST_FRAME
	writeAsync(t, remote, mustMessage(t, CommReplay, map[string]any{
		"data": postFrameFields{port: 0, stock: 4}.record(0x37),
	}))

	gs, err := c.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame() error = %v", err)
	}
	if !reflect.DeepEqual(gs, NewGameState()) {
		t.Errorf("gamestate modified by undeclared event: %+v", gs.Player(1))
	}
	if got := c.Metrics().EventWalksAborted; got != 1 {
		t.Errorf("EventWalksAborted = %d, want 1", got)
	}
}

func TestDiscoverOn(t *testing.T) {
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	sender, err := net.Dial("udp4", pc.LocalAddr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sender.Close()
	if _, err := sender.Write([]byte("SLIP_READY")); err != nil {
		t.Fatalf("send: %v", err)
	}

	addr, err := discoverOn(context.Background(), pc, 2*time.Second)
	if err != nil {
		t.Fatalf("discoverOn() error = %v", err)
	}
	if addr != "127.0.0.1" {
		t.Errorf("addr = %q, want 127.0.0.1", addr)
	}
}

func TestDiscoverOnTimeout(t *testing.T) {
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	if _, err := discoverOn(context.Background(), pc, 30*time.Millisecond); !errors.Is(err, ErrDiscoveryTimeout) {
		t.Errorf("discoverOn() error = %v, want ErrDiscoveryTimeout", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	if _, err := discoverOn(ctx, pc, 5*time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("discoverOn(canceled) error = %v, want context.Canceled", err)
	}
}

// freeUDPPort 返回一个当前空闲的 UDP 端口
func freeUDPPort(t *testing.T) int {
	t.Helper()
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()
	return pc.LocalAddr().(*net.UDPAddr).Port
}

func TestConnectDiscoversConsole(t *testing.T) {
	got := make(chan any, 1)
	port := fakeConsole(t, func(conn net.Conn, hs any) {
		got <- hs
		_, _ = io.Copy(io.Discard, conn)
	})
	discovery := freeUDPPort(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// 模拟主机周期广播，直到连接建立
	go func() {
		sender, err := net.Dial("udp4", net.JoinHostPort("127.0.0.1", strconv.Itoa(discovery)))
		if err != nil {
			return
		}
		defer sender.Close()
		for ctx.Err() == nil {
			_, _ = sender.Write([]byte("SLIP_READY"))
			time.Sleep(10 * time.Millisecond)
		}
	}()

	c := NewClient(Config{Port: port, DiscoveryPort: discovery, DiscoveryTimeout: 3 * time.Second})
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Shutdown()
	if c.Address() != "127.0.0.1" {
		t.Errorf("Address() = %q, want discovered 127.0.0.1", c.Address())
	}
	select {
	case <-got:
	case <-ctx.Done():
		t.Fatal("console never received a handshake")
	}
}

func TestConnectDiscoveryTimeout(t *testing.T) {
	prev := otel.GetTracerProvider()
	sr := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	c := NewClient(Config{DiscoveryPort: freeUDPPort(t), DiscoveryTimeout: 30 * time.Millisecond})
	if err := c.Connect(context.Background()); !errors.Is(err, ErrDiscoveryTimeout) {
		t.Fatalf("Connect() error = %v, want ErrDiscoveryTimeout", err)
	}
	if c.Status() != Disconnected {
		t.Errorf("Status() = %v, want disconnected", c.Status())
	}
	if c.Address() != "" {
		t.Errorf("Address() = %q, want empty", c.Address())
	}
	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Name() != "slippi.Connect" {
		t.Fatalf("ended spans = %v, want one slippi.Connect", spans)
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", spans[0].Status())
	}
}
