//go:build unix

package slippi

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// reuseAddr 在套接字上开启 SO_REUSEADDR
func reuseAddr(network, address string, rc syscall.RawConn) error {
	var serr error
	if err := rc.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	}); err != nil {
		return err
	}
	return serr
}
