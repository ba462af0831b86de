//go:build !unix

package slippi

import "syscall"

func reuseAddr(network, address string, rc syscall.RawConn) error {
	return nil
}
