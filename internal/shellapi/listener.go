package shellapi

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"shellsync/internal/bloom"
	"shellsync/internal/logging"
	"shellsync/internal/wire"
)

// writeTimeout bounds a single socket write when the connection supports
// deadlines. A client that stops reading stalls only its own listener.
const writeTimeout = time.Second

// Conn is the write side of a client connection. Listeners are looked up by
// interface equality, so implementations must be comparable; pointer types
// such as *net.UnixConn are.
type Conn interface {
	io.Writer
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

type envelopeKind uint8

const (
	envSend envelopeKind = iota
	envSendIfMonitored
	envRegister
	envBarrier
)

type envelope struct {
	kind  envelopeKind
	msg   string
	hash  uint32
	reply chan bool
}

// Listener is the server-side state of one connection. A single goroutine
// owns the interest filter and performs every write, so messages leave in
// the order they were queued.
type Listener struct {
	id      string
	conn    Conn
	logger  *slog.Logger
	mailbox chan envelope
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	// filter is only touched by run.
	filter bloom.Filter
}

func newListener(conn Conn, mailboxSize int, logger *slog.Logger) *Listener {
	if mailboxSize <= 0 {
		mailboxSize = 1
	}
	id := uuid.NewString()
	l := &Listener{
		id:      id,
		conn:    conn,
		logger:  logger.With(logging.String(logging.FieldConnectionID, id)),
		mailbox: make(chan envelope, mailboxSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

// ID returns the connection id used in logs.
func (l *Listener) ID() string { return l.id }

// Conn returns the connection the listener writes to.
func (l *Listener) Conn() Conn { return l.conn }

// Done is closed once the listener has been removed.
func (l *Listener) Done() <-chan struct{} { return l.done }

// SendMessage queues msg for this connection, waiting for mailbox space.
// It returns false once the listener is closed.
func (l *Listener) SendMessage(msg string) bool {
	return l.enqueue(envelope{kind: envSend, msg: msg})
}

// RegisterMonitoredDirectory records interest in a directory hash. It is
// queued behind earlier replies and never dropped.
func (l *Listener) RegisterMonitoredDirectory(hash uint32) bool {
	return l.enqueue(envelope{kind: envRegister, hash: hash})
}

// Flush waits until everything queued before it has been written.
func (l *Listener) Flush() bool {
	reply := make(chan bool, 1)
	if !l.enqueue(envelope{kind: envBarrier, reply: reply}) {
		return false
	}
	select {
	case <-reply:
		return true
	case <-l.done:
		return false
	}
}

// post offers a broadcast message without waiting. A full mailbox drops it.
func (l *Listener) post(msg string) bool {
	return l.offer(envelope{kind: envSend, msg: msg})
}

// postIfMonitored offers a filtered push; the owning goroutine checks the
// filter before writing.
func (l *Listener) postIfMonitored(msg string, hash uint32) bool {
	return l.offer(envelope{kind: envSendIfMonitored, msg: msg, hash: hash})
}

func (l *Listener) enqueue(e envelope) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.mailbox <- e:
		return true
	case <-l.done:
		return false
	}
}

func (l *Listener) offer(e envelope) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.mailbox <- e:
		return true
	case <-l.done:
		return false
	default:
		logging.WarnWithContext(l.logger, "listener mailbox full; message dropped", "listener_mailbox_full",
			logging.Int("mailbox_size", cap(l.mailbox)),
			logging.String(logging.FieldErrorHint, "client is not reading; raise socket.mailbox_size if this persists"),
			logging.String(logging.FieldImpact, "shell extension may show a stale status until it queries again"),
		)
		return false
	}
}

// close stops the owning goroutine. Queued messages are discarded.
func (l *Listener) close() {
	l.once.Do(func() { close(l.done) })
}

func (l *Listener) wait() {
	<-l.stopped
}

func (l *Listener) run() {
	defer close(l.stopped)
	for {
		select {
		case <-l.done:
			return
		case e := <-l.mailbox:
			l.handle(e)
		}
	}
}

func (l *Listener) handle(e envelope) {
	switch e.kind {
	case envSend:
		l.write(e.msg)
	case envSendIfMonitored:
		if l.filter.MayContain(e.hash) {
			l.write(e.msg)
		}
	case envRegister:
		l.filter.StoreHash(e.hash)
	case envBarrier:
		e.reply <- true
	}
}

func (l *Listener) write(msg string) {
	frame := wire.Frame(msg)
	if d, ok := l.conn.(writeDeadliner); ok {
		_ = d.SetWriteDeadline(time.Now().Add(writeTimeout))
	}
	n, err := l.conn.Write(frame)
	if n != len(frame) || err != nil {
		attrs := []logging.Attr{
			logging.Int("written", n),
			logging.Int("expected", len(frame)),
			logging.String(logging.FieldErrorHint, "client closed the socket or stopped reading"),
			logging.String(logging.FieldImpact, "message lost; shell extension shows stale state"),
		}
		if err != nil {
			attrs = append(attrs, logging.Error(err))
		}
		logging.WarnWithContext(l.logger, "socket write incomplete", "socket_write_incomplete", attrs...)
		return
	}
	l.logger.Debug("socket message sent", logging.String("message", msg))
}
