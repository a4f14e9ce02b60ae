//go:build linux

package ipc

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

func peerCred(raw syscall.RawConn) (PeerCred, error) {
	var (
		cred    *unix.Ucred
		sockErr error
	)
	err := raw.Control(func(fd uintptr) {
		cred, sockErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})
	if err != nil {
		return PeerCred{}, fmt.Errorf("peer credentials: %w", err)
	}
	if sockErr != nil {
		return PeerCred{}, fmt.Errorf("peer credentials: %w", sockErr)
	}
	return PeerCred{PID: cred.Pid, UID: cred.Uid, GID: cred.Gid}, nil
}
