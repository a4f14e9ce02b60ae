package testsupport

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"
)

// DefaultWait bounds how long helpers wait for asynchronous output.
const DefaultWait = 2 * time.Second

// LineConn is an in-memory connection that splits written bytes into lines.
type LineConn struct {
	mu      sync.Mutex
	partial []byte
	lines   chan string
	// ShortWrites makes every Write report one byte less than given.
	ShortWrites bool
}

// NewLineConn returns a connection with room for many buffered lines.
func NewLineConn() *LineConn {
	return &LineConn{lines: make(chan string, 4096)}
}

func (c *LineConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ShortWrites && len(p) > 0 {
		return len(p) - 1, errors.New("short write")
	}
	c.partial = append(c.partial, p...)
	for {
		idx := bytes.IndexByte(c.partial, '\n')
		if idx < 0 {
			break
		}
		c.lines <- string(c.partial[:idx])
		c.partial = c.partial[idx+1:]
	}
	return len(p), nil
}

// Next returns the next line or fails the test after DefaultWait.
func (c *LineConn) Next(t testing.TB) string {
	t.Helper()
	select {
	case line := <-c.lines:
		return line
	case <-time.After(DefaultWait):
		t.Fatal("timed out waiting for a line")
		return ""
	}
}

// NextN returns the next n lines.
func (c *LineConn) NextN(t testing.TB, n int) []string {
	t.Helper()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, c.Next(t))
	}
	return out
}

// Drain returns every line already received without waiting.
func (c *LineConn) Drain() []string {
	var out []string
	for {
		select {
		case line := <-c.lines:
			out = append(out, line)
		default:
			return out
		}
	}
}

// ExpectNone fails if any line is pending.
func (c *LineConn) ExpectNone(t testing.TB) {
	t.Helper()
	if extra := c.Drain(); len(extra) > 0 {
		t.Fatalf("unexpected lines: %q", extra)
	}
}

// BlockingConn blocks every Write until Release is called.
type BlockingConn struct {
	release chan struct{}
	once    sync.Once
	*LineConn
}

// NewBlockingConn returns a connection whose writes wait for Release.
func NewBlockingConn() *BlockingConn {
	return &BlockingConn{release: make(chan struct{}), LineConn: NewLineConn()}
}

func (c *BlockingConn) Write(p []byte) (int, error) {
	<-c.release
	return c.LineConn.Write(p)
}

// Release unblocks pending and future writes.
func (c *BlockingConn) Release() {
	c.once.Do(func() { close(c.release) })
}
