package slippi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"slippstream/logging"
)

// 主机端口
const (
	DefaultPort    = 51441
	LegacyPort     = 666
	RelayStartPort = 53741
)

var (
	// ErrClosed 套接字已关闭（本端 Shutdown 或对端断开），连接不再可用
	ErrClosed = errors.New("slippi: connection closed")
	// ErrNotConnected 尚未建立连接
	ErrNotConnected = errors.New("slippi: not connected")
	// ErrConnectionRefused 对端拒绝 TCP 连接
	ErrConnectionRefused = errors.New("slippi: connection refused")
)

// ConnectionStatus 连接状态
type ConnectionStatus uint8

const (
	Disconnected ConnectionStatus = iota
	Connecting
	Connected
)

func (s ConnectionStatus) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// ConnectionDetails 主机握手回送的信息
type ConnectionDetails struct {
	ConsoleNick string `json:"consoleNick"`
	Version     string `json:"version"`
	ClientToken []byte `json:"clientToken"`
	Cursor      any    `json:"cursor"`
}

// Config 连接配置
type Config struct {
	Address          string        // 为空时走 UDP 广播自动发现
	Port             int           // TCP 端口
	Realtime         bool          // 握手中的 isRealtime
	DiscoveryPort    int           // 自动发现监听端口
	DiscoveryTimeout time.Duration // 自动发现等待上限
	DialTimeout      time.Duration // 0 表示不限
	PollInterval     time.Duration // >0 时每次读取设置该 deadline，超时视为 would-block 并重试
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Port:             DefaultPort,
		Realtime:         true,
		DiscoveryPort:    DefaultDiscoveryPort,
		DiscoveryTimeout: DefaultDiscoveryTimeout,
		DialTimeout:      5 * time.Second,
	}
}

// Client 一条到主机的流式连接
// 读取方法（ReadMessage/NextFrame）只能由单个 goroutine 调用；Shutdown 可从任意 goroutine 调用
type Client struct {
	cfg Config

	mu      sync.Mutex // 保护 conn/status/details
	conn    net.Conn
	status  ConnectionStatus
	details ConnectionDetails

	closed atomic.Bool // 读取端永久关闭标记

	buf        []byte // 等待凑齐一条完整消息的接收缓冲
	dispatcher *Dispatcher
	metrics    *StreamMetrics
}

// NewClient 创建客户端；零值字段使用默认值
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.DiscoveryPort == 0 {
		cfg.DiscoveryPort = def.DiscoveryPort
	}
	if cfg.DiscoveryTimeout == 0 {
		cfg.DiscoveryTimeout = def.DiscoveryTimeout
	}
	m := &StreamMetrics{}
	return &Client{
		cfg:        cfg,
		dispatcher: NewDispatcher(m),
		metrics:    m,
	}
}

// Connect 建立连接并发送握手；已连接时直接返回 nil
func (c *Client) Connect(ctx context.Context) (err error) {
	ctx, span := otel.Tracer("slippstream").Start(ctx, "slippi.Connect")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		logging.Log.Infow("connection already established", "address", c.cfg.Address)
		return nil
	}
	c.status = Connecting
	c.mu.Unlock()

	defer func() {
		if err != nil {
			c.setStatus(Disconnected)
		}
	}()

	if c.cfg.Address == "" {
		addr, err := Discover(ctx, c.cfg.DiscoveryPort, c.cfg.DiscoveryTimeout)
		if err != nil {
			return err
		}
		c.cfg.Address = addr
	}
	target := net.JoinHostPort(c.cfg.Address, strconv.Itoa(c.cfg.Port))
	span.SetAttributes(attribute.String("slippi.address", target), attribute.Bool("slippi.realtime", c.cfg.Realtime))

	d := net.Dialer{Timeout: c.cfg.DialTimeout, Control: reuseAddr}
	conn, err := d.DialContext(ctx, "tcp", target)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			logging.Log.Warnw("connection refused", "address", target)
			return fmt.Errorf("%w (%s)", ErrConnectionRefused, target)
		}
		logging.Log.Warnw("dial failed", "address", target, "err", err)
		return err
	}

	hs, err := NewHandshake(0, NullToken, c.cfg.Realtime)
	if err != nil {
		conn.Close()
		return err
	}
	if _, err := conn.Write(hs); err != nil {
		conn.Close()
		logging.Log.Warnw("handshake send failed", "address", target, "err", err)
		return err
	}

	c.buf = c.buf[:0]
	c.dispatcher.Reset()
	c.closed.Store(false)

	c.mu.Lock()
	c.conn = conn
	c.status = Connected
	c.mu.Unlock()
	logging.Log.Infow("connected", "address", target, "realtime", c.cfg.Realtime)
	return nil
}

// Shutdown 关闭套接字；没有可关闭的连接时返回 false
// 阻塞中的 ReadMessage 会因此返回 ErrClosed
func (c *Client) Shutdown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return false
	}
	c.closed.Store(true)
	_ = c.conn.Close()
	c.conn = nil
	c.status = Disconnected
	return true
}

// Status 当前连接状态
func (c *Client) Status() ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Details 主机握手信息（收到主机 HANDSHAKE 后才有值）
func (c *Client) Details() ConnectionDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details
}

// Address 对端地址（自动发现后为发现的地址）
func (c *Client) Address() string { return c.cfg.Address }

// Metrics 连接级指标
func (c *Client) Metrics() *StreamMetrics { return c.metrics }

// Frame 最近一次 FRAME_START 的帧号
func (c *Client) Frame() int32 { return c.dispatcher.Frame }

func (c *Client) setStatus(s ConnectionStatus) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

func (c *Client) currentConn() net.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}
