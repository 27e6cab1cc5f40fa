// Package connection implements the single TCP connection relayx holds.
//
// A Link is either Disconnected or Connected to exactly one address. The
// connected socket and its address live together in one value, so there is
// no way to have a label without a socket or the other way around.
package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Necromancer-Labs/relayx/internal/logx"
	"github.com/google/uuid"
)

// IdleLabel is shown in the prompt while no connection is open.
const IdleLabel = "relayx"

// ReadBufferSize bounds a reply: send performs one read of at most this many bytes.
const ReadBufferSize = 1024

// Errors reported by Link operations.
var (
	ErrAlreadyConnected           = errors.New("you're already connected to another host")
	ErrNotConnected               = errors.New("no active connection")
	ErrInvalidAddress             = errors.New("invalid address format")
	ErrConnectFailed              = errors.New("failed to connect to server")
	ErrSendFailed                 = errors.New("failed to send message")
	ErrSendSucceededReceiveFailed = errors.New("failed to read the response, but message was sent")
)

// State represents the current state of the link
type State int

const (
	Disconnected State = iota
	Connected
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connected:
		return "Connected"
	default:
		return "Unknown"
	}
}

// DialFunc opens a stream connection; net.Dialer.DialContext satisfies it.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// endpoint is the Connected variant: a live socket and the address it was dialed with.
type endpoint struct {
	conn net.Conn
	addr string
	id   string // short id for correlating debug logs
}

// Link owns at most one TCP connection.
// It is not safe for concurrent use; the REPL drives it from one goroutine.
type Link struct {
	active *endpoint // nil while Disconnected
	dial   DialFunc
}

// NewLink creates a disconnected link that dials with net.Dialer.
func NewLink() *Link {
	var d net.Dialer
	return &Link{dial: d.DialContext}
}

// NewLinkWithDialer creates a disconnected link using a custom dial function.
func NewLinkWithDialer(dial DialFunc) *Link {
	return &Link{dial: dial}
}

// State returns whether the link is connected.
func (l *Link) State() State {
	if l.active == nil {
		return Disconnected
	}
	return Connected
}

// Label returns the dialed address while connected, IdleLabel otherwise.
func (l *Link) Label() string {
	if l.active == nil {
		return IdleLabel
	}
	return l.active.addr
}

// ValidateAddress checks addr is host:port with a non-empty host and a
// decimal port in 0..65535. Hostnames are accepted and resolved at dial time.
func ValidateAddress(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	if host == "" || strings.ContainsAny(host, " \t") {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	return nil
}

// Open connects to addr. A zero timeout dials without a deadline.
// On any failure the link stays Disconnected.
func (l *Link) Open(ctx context.Context, addr string, timeout time.Duration) error {
	if l.active != nil {
		return ErrAlreadyConnected
	}

	if err := ValidateAddress(addr); err != nil {
		return err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := l.dial(ctx, "tcp", addr)
	if err != nil {
		logx.Debugf("dial %s failed: %v", addr, err)
		return fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}

	l.active = &endpoint{
		conn: conn,
		addr: addr,
		id:   uuid.New().String()[:8],
	}
	logx.Debugf("[%s] connected to %s (local %s)", l.active.id, addr, conn.LocalAddr())
	return nil
}

// Send writes msg verbatim. When wait is false it returns right after the
// write. Otherwise it performs exactly one read of up to ReadBufferSize bytes
// (a zero readTimeout blocks without a deadline) and returns the bytes decoded
// as UTF-8, with invalid sequences replaced. Bytes beyond the first read are
// left unread on the socket.
func (l *Link) Send(msg string, wait bool, readTimeout time.Duration) (string, error) {
	if l.active == nil {
		return "", ErrNotConnected
	}
	ep := l.active

	if _, err := ep.conn.Write([]byte(msg)); err != nil {
		logx.Debugf("[%s] write failed: %v", ep.id, err)
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	logx.Debugf("[%s] wrote %d bytes", ep.id, len(msg))

	if !wait {
		return "", nil
	}

	var deadline time.Time
	if readTimeout > 0 {
		deadline = time.Now().Add(readTimeout)
	}
	// Setting a zero time clears any deadline left by an earlier send
	_ = ep.conn.SetReadDeadline(deadline)

	buf := make([]byte, ReadBufferSize)
	n, err := ep.conn.Read(buf)
	if err != nil && !(errors.Is(err, io.EOF) && n == 0) {
		logx.Debugf("[%s] read failed: %v", ep.id, err)
		return "", fmt.Errorf("%w: %v", ErrSendSucceededReceiveFailed, err)
	}
	logx.Debugf("[%s] read %d bytes", ep.id, n)

	return decodeLossy(buf[:n]), nil
}

// Close shuts the connection down in both directions and returns to
// Disconnected. Shutdown errors are ignored.
func (l *Link) Close() error {
	if l.active == nil {
		return ErrNotConnected
	}
	l.shutdown()
	return nil
}

// Shutdown closes the connection if there is one. Used on exit.
func (l *Link) Shutdown() {
	if l.active != nil {
		l.shutdown()
	}
}

func (l *Link) shutdown() {
	ep := l.active
	l.active = nil

	if tcp, ok := ep.conn.(*net.TCPConn); ok {
		_ = tcp.CloseRead()
		_ = tcp.CloseWrite()
	}
	if err := ep.conn.Close(); err != nil {
		logx.Debugf("[%s] close: %v", ep.id, err)
	}
	logx.Debugf("[%s] disconnected from %s", ep.id, ep.addr)
}

// decodeLossy converts b to a string, replacing invalid UTF-8 with U+FFFD.
func decodeLossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
