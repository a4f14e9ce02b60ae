package ipc

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"shellsync/internal/wire"
)

// Client speaks the line protocol the way a shell extension does.
type Client struct {
	conn   net.Conn
	reader *wire.LineReader
}

// Dial connects to the socket server at the given path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, reader: wire.NewLineReader(conn)}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Send writes one command line.
func (c *Client) Send(command string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second)); err != nil {
		return err
	}
	if _, err := c.conn.Write(wire.Frame(command)); err != nil {
		return fmt.Errorf("send %q: %w", command, err)
	}
	return nil
}

// ReadLine waits up to timeout for the next line. A zero timeout waits
// forever. os.ErrDeadlineExceeded is returned when nothing arrived in time.
func (c *Client) ReadLine(timeout time.Duration) (string, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return "", err
	}
	return c.reader.ReadLine()
}

// Request sends command and collects reply lines until the server has been
// quiet for the given duration. Folder registration broadcasts are skipped.
func (c *Client) Request(command string, quiet time.Duration) ([]string, error) {
	if err := c.Send(command); err != nil {
		return nil, err
	}
	var lines []string
	for {
		line, err := c.ReadLine(quiet)
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
		if IsRegistration(line) {
			continue
		}
		lines = append(lines, line)
		if isBracketEnd(line) {
			return lines, nil
		}
	}
}

// IsRegistration reports whether line is a folder registration broadcast.
func IsRegistration(line string) bool {
	verb := wire.ParseCommand(line).Verb
	return verb == wire.VerbRegisterPath || verb == wire.VerbRegisterDriveFS
}

func isBracketEnd(line string) bool {
	return wire.ParseCommand(line).Argument == wire.CodeEnd
}
