package slippi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/ipv4"

	"slippstream/logging"
)

// 主机每 10 秒广播一次，默认等待两个周期
const (
	DefaultDiscoveryPort    = 20582
	DefaultDiscoveryTimeout = 20 * time.Second
)

// ErrDiscoveryTimeout 超时仍未收到任何广播
var ErrDiscoveryTimeout = errors.New("slippi: could not autodiscover a console")

// Discover 在 UDP 广播端口上等待主机公告，返回第一个数据报的源地址
// 不校验数据报内容
func Discover(ctx context.Context, port int, timeout time.Duration) (string, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	conn, err := lc.ListenPacket(ctx, "udp4", fmt.Sprintf(":%d", port))
	if err != nil {
		return "", fmt.Errorf("listen for discovery on %d: %w", port, err)
	}
	defer conn.Close()
	return discoverOn(ctx, conn, timeout)
}

func discoverOn(ctx context.Context, conn net.PacketConn, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return "", err
	}
	// ctx 取消时通过提前到期的 deadline 唤醒阻塞的读取
	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	defer stop()

	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetControlMessage(ipv4.FlagInterface|ipv4.FlagDst, true); err != nil {
		logging.Log.Debugw("discovery control messages unavailable", "err", err)
	}

	logging.Log.Infow("trying to autodiscover console", "addr", conn.LocalAddr().String(), "timeout", timeout)
	buf := make([]byte, 1024)
	_, cm, src, err := pc.ReadFrom(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			logging.Log.Warnw("could not autodiscover a console; make sure it is on or supply a known address")
			return "", ErrDiscoveryTimeout
		}
		return "", err
	}

	udp, ok := src.(*net.UDPAddr)
	if !ok {
		return "", fmt.Errorf("discovery: unexpected source address %T", src)
	}
	fields := []any{"address", udp.IP.String()}
	if cm != nil {
		fields = append(fields, "ifindex", cm.IfIndex, "dst", cm.Dst)
	}
	logging.Log.Infow("found console", fields...)
	return udp.IP.String(), nil
}
