//go:build !linux

package ipc

import (
	"errors"
	"syscall"
)

func peerCred(syscall.RawConn) (PeerCred, error) {
	return PeerCred{}, errors.New("peer credentials: unsupported platform")
}
