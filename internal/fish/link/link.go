package link

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/danmuck/fishctl/internal/fish"
	"github.com/danmuck/fishctl/internal/observability"
	"github.com/rs/zerolog/log"
)

var (
	ErrSocketID     = errors.New("link: socket id out of range")
	ErrBind         = errors.New("link: bind failed")
	ErrHandshake    = errors.New("link: handshake mismatch")
	ErrNotConnected = errors.New("link: not connected")
	ErrClosed       = errors.New("link: closed")
	ErrStarted      = errors.New("link: already started")
	ErrLogOnlyValue = errors.New("link: boolean values are log-only")
)

// State is the link lifecycle position.
type State int

const (
	StateUnbound State = iota
	StateListening
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateListening:
		return "listening"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Stats counts completed value exchanges on one link.
type Stats struct {
	Sent     uint64
	Received uint64
}

// Conn is one FISH socket link. It accepts exactly one peer over its
// lifetime; reconnecting means a new Conn on a fresh socket id.
//
// A Conn is owned by a single goroutine: send/receive are strictly
// sequential by protocol contract and the struct carries no locking.
// State and the exchange counters are atomics so an admin goroutine
// may observe them while the owner drives the link.
type Conn struct {
	cfg  Config
	port int
	ln   net.Listener
	conn net.Conn

	state    atomic.Int32
	sent     atomic.Uint64
	received atomic.Uint64
}

// NewConn validates cfg and returns an unbound link on port 3333+SocketID.
func NewConn(cfg Config) (*Conn, error) {
	if cfg.SocketID < 0 || cfg.SocketID > MaxSocketID {
		return nil, fmt.Errorf("%w: %d", ErrSocketID, cfg.SocketID)
	}
	return &Conn{
		cfg:  cfg,
		port: BasePort + cfg.SocketID,
	}, nil
}

func (c *Conn) Port() int {
	return c.port
}

// State reports the current lifecycle position. Safe to read from an
// admin goroutine while the owner drives the link.
func (c *Conn) State() State {
	return State(c.state.Load())
}

// Stats returns the number of values exchanged so far. Safe to read from an
// admin goroutine while the owner drives the link.
func (c *Conn) Stats() Stats {
	return Stats{Sent: c.sent.Load(), Received: c.received.Load()}
}

// Start binds the configured port and blocks until the engine connects.
// Cancelling ctx closes the listener and aborts the accept.
func (c *Conn) Start(ctx context.Context) error {
	if c.State() != StateUnbound {
		return c.startErr()
	}
	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBind, err)
	}
	return c.Accept(ctx, ln)
}

// Accept waits for exactly one peer on an existing listener and takes
// ownership of it. The listener is closed once the peer arrives or the
// wait is abandoned.
func (c *Conn) Accept(ctx context.Context, ln net.Listener) error {
	if c.State() != StateUnbound {
		_ = ln.Close()
		return c.startErr()
	}
	c.ln = ln
	c.state.Store(int32(StateListening))
	log.Info().
		Str("addr", ln.Addr().String()).
		Int("socket_id", c.cfg.SocketID).
		Msg("fish link listening")

	if c.cfg.AcceptTimeout > 0 {
		if tcpLn, ok := ln.(*net.TCPListener); ok {
			_ = tcpLn.SetDeadline(time.Now().Add(c.cfg.AcceptTimeout))
		}
	}
	accepted := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-accepted:
		}
	}()

	conn, err := ln.Accept()
	close(accepted)
	_ = ln.Close()
	c.ln = nil
	if err != nil {
		c.state.Store(int32(StateClosed))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("link: accept: %w", err)
	}
	c.conn = conn
	c.state.Store(int32(StateConnected))
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("engine connected")
	return nil
}

// Handshake reads the first value from a freshly accepted connection and
// requires the Integer-tagged fishcode. A mismatch is fatal to the link;
// there is no retry.
func (c *Conn) Handshake() error {
	v, err := c.Receive()
	if err != nil {
		observability.RecordHandshakeFailure()
		return fmt.Errorf("link: handshake: %w", err)
	}
	code, ok := v.(fish.Int)
	if !ok || int32(code) != fish.Fishcode {
		observability.RecordHandshakeFailure()
		return fmt.Errorf("%w: got %v", ErrHandshake, v)
	}
	log.Debug().Msg("fish handshake verified")
	return nil
}

// Send encodes v and writes it with a single Write call, so the peer never
// observes a partial value. Booleans exist only in the log format and are
// refused here.
func (c *Conn) Send(v fish.Value) error {
	if c.State() != StateConnected {
		return c.stateErr()
	}
	if _, ok := v.(fish.Bool); ok {
		return ErrLogOnlyValue
	}
	buf, err := fish.Encode(v)
	if err != nil {
		return err
	}
	if c.cfg.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	if _, err := c.conn.Write(buf); err != nil {
		return fmt.Errorf("link: send: %w", err)
	}
	c.sent.Add(1)
	observability.RecordValueSent(v.Tag())
	return nil
}

// Receive reads one tagged value, accumulating partial TCP deliveries until
// the exact byte count for the tag has arrived. A stream that ends mid-value
// surfaces fish.ErrTruncated; the link cannot resynchronize after that.
func (c *Conn) Receive() (fish.Value, error) {
	if c.State() != StateConnected {
		return nil, c.stateErr()
	}
	if c.cfg.ReadTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	}
	v, err := fish.Decode(c.conn)
	if err != nil {
		return nil, err
	}
	c.received.Add(1)
	observability.RecordValueReceived(v.Tag())
	return v, nil
}

// Close releases the socket and any pending listener. Idempotent.
func (c *Conn) Close() error {
	if c.State() == StateClosed {
		return nil
	}
	c.state.Store(int32(StateClosed))
	if c.ln != nil {
		_ = c.ln.Close()
		c.ln = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

func (c *Conn) startErr() error {
	if c.State() == StateClosed {
		return ErrClosed
	}
	return ErrStarted
}

func (c *Conn) stateErr() error {
	if c.State() == StateClosed {
		return ErrClosed
	}
	return ErrNotConnected
}
