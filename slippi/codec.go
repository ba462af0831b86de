package slippi

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"slippstream/logging"
)

// ReadMessage 阻塞读取一条完整的顶层消息
//
// 返回 ErrMalformed 表示本次没有可用消息（缓冲已清空，可继续调用）；
// 返回 ErrClosed 表示连接已永久关闭，之后的调用都返回 ErrClosed。
func (c *Client) ReadMessage() (*Message, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	conn := c.currentConn()
	if conn == nil {
		return nil, ErrNotConnected
	}

	// 先读 4 字节长度前缀
	if err := c.fill(conn, FrameHeaderSize); err != nil {
		return nil, c.readFailure(err)
	}
	size := binary.BigEndian.Uint32(c.buf[:FrameHeaderSize])
	if size > MaxMessageSize {
		logging.Log.Warnw("message length exceeds limit, skipping body", "length", size, "limit", MaxMessageSize)
		c.buf = c.buf[:0]
		// 丢弃消息体，下一次读取从下一条消息的长度前缀开始
		if _, err := io.CopyN(io.Discard, connReader{c, conn}, int64(size)); err != nil {
			return nil, c.readFailure(err)
		}
		c.metrics.IncMalformed()
		return nil, fmt.Errorf("%w: %w: %d bytes", ErrMalformed, ErrMessageTooLarge, size)
	}

	// 再读消息体
	if err := c.fill(conn, FrameHeaderSize+int(size)); err != nil {
		return nil, c.readFailure(err)
	}
	body := c.buf[FrameHeaderSize : FrameHeaderSize+int(size)]

	msg, err := decodeBody(body)
	if err != nil {
		logging.Log.Warnw("decode failure", "err", err, "length", size)
		logging.Log.Warnf("offending message:\n%s", hex.Dump(body))
		c.buf = c.buf[:0]
		c.metrics.IncMalformed()
		return nil, err
	}
	// 解码结果不引用缓冲，可直接清空
	c.buf = c.buf[:0]
	c.metrics.IncMessages()
	return msg, nil
}

func decodeBody(body []byte) (*Message, error) {
	v, err := Unmarshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return ParseMessage(v)
}

// fill 把缓冲累积到恰好 n 字节；超时（would-block）时保留已读部分并重试
func (c *Client) fill(conn net.Conn, n int) error {
	if cap(c.buf) < n {
		grown := make([]byte, len(c.buf), n)
		copy(grown, c.buf)
		c.buf = grown
	}
	for len(c.buf) < n {
		k, err := c.read(conn, c.buf[len(c.buf):n])
		c.buf = c.buf[:len(c.buf)+k]
		if err != nil {
			if errors.Is(err, io.EOF) && len(c.buf) >= n {
				return nil
			}
			return err
		}
	}
	return nil
}

// read 单次读取；PollInterval 到期且没有数据时视为 would-block 并重试
func (c *Client) read(conn net.Conn, p []byte) (int, error) {
	for {
		if c.closed.Load() {
			return 0, net.ErrClosed
		}
		if c.cfg.PollInterval > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(c.cfg.PollInterval))
		}
		k, err := conn.Read(p)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if k > 0 {
					return k, nil
				}
				continue
			}
		}
		return k, err
	}
}

// connReader 让 io 工具函数复用 read 的重试逻辑
type connReader struct {
	c    *Client
	conn net.Conn
}

func (r connReader) Read(p []byte) (int, error) { return r.c.read(r.conn, p) }

// readFailure 把读取错误转换为永久关闭
func (c *Client) readFailure(err error) error {
	c.closed.Store(true)
	if errors.Is(err, net.ErrClosed) {
		logging.Log.Infow("socket closed, shutting down")
	} else {
		logging.Log.Warnw("socket error", "err", err)
	}
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.status = Disconnected
	c.mu.Unlock()
	return fmt.Errorf("%w: %w", ErrClosed, err)
}
