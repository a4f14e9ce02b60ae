package ipc

import (
	"context"
	"fmt"
	"net"

	"shellsync/internal/shellapi"
)

// Handler receives connection lifecycle events and inbound lines.
// *shellapi.API implements it.
type Handler interface {
	AddListener(conn shellapi.Conn) (*shellapi.Listener, error)
	RemoveListener(conn shellapi.Conn)
	HandleLine(ctx context.Context, conn shellapi.Conn, line string)
}

// PeerCred identifies the process on the other end of a connection.
type PeerCred struct {
	PID int32
	UID uint32
	GID uint32
}

func (p PeerCred) String() string {
	return fmt.Sprintf("pid=%d uid=%d gid=%d", p.PID, p.UID, p.GID)
}

// PeerCredentials returns the kernel-reported credentials of conn's peer.
func PeerCredentials(conn net.Conn) (PeerCred, error) {
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return PeerCred{}, fmt.Errorf("peer credentials: %T is not a unix connection", conn)
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return PeerCred{}, fmt.Errorf("peer credentials: %w", err)
	}
	return peerCred(raw)
}
