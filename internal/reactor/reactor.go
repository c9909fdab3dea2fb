//go:build linux

package reactor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mash-protocol/mash-channel/pkg/network"
	"github.com/mash-protocol/mash-channel/pkg/selector"
	"github.com/mash-protocol/mash-channel/pkg/socket"
)

// Defaults applied by New.
const (
	DefaultReadBufferSize = 16 * 1024
	DefaultHighWater      = 256 * 1024
	DefaultPollInterval   = 50 * time.Millisecond
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("reactor closed")

// Config configures a Reactor.
type Config struct {
	// Builder composes a channel for every accepted or dialed connection.
	// It must be configured.
	Builder network.ChannelBuilder

	// Logger receives operational logs. Nil disables logging.
	Logger *slog.Logger

	// ReadBufferSize is the size of the shared read buffer.
	ReadBufferSize int

	// HighWater is the number of queued outbound bytes above which a
	// connection stops reading.
	HighWater int

	// OnReady is called once when a connection's channel becomes ready.
	OnReady func(c *Conn)

	// OnData is called with inbound application bytes. The slice is
	// only valid during the call.
	OnData func(c *Conn, data []byte)

	// OnClose is called once when a connection is removed. err is nil
	// for an orderly close.
	OnClose func(c *Conn, err error)
}

// Reactor is a single-threaded event loop over a selector.
type Reactor struct {
	config   Config
	sel      *selector.Selector
	listener *socket.Listener
	conns    map[string]*Conn
	buf      []byte
	closed   bool
}

// New creates a reactor.
func New(config Config) (*Reactor, error) {
	if config.Builder == nil {
		return nil, fmt.Errorf("%w: reactor needs a channel builder", network.ErrConfiguration)
	}
	if config.ReadBufferSize <= 0 {
		config.ReadBufferSize = DefaultReadBufferSize
	}
	if config.HighWater <= 0 {
		config.HighWater = DefaultHighWater
	}
	sel, err := selector.New()
	if err != nil {
		return nil, err
	}
	return &Reactor{
		config: config,
		sel:    sel,
		conns:  make(map[string]*Conn),
		buf:    make([]byte, config.ReadBufferSize),
	}, nil
}

// Listen starts accepting connections on addr.
func (r *Reactor) Listen(addr string) error {
	if r.closed {
		return ErrClosed
	}
	if r.listener != nil {
		return errors.New("reactor already listening")
	}
	l, err := socket.Listen(addr)
	if err != nil {
		return fmt.Errorf("%w: listen %s: %w", network.ErrConnection, addr, err)
	}
	if _, err := r.sel.Register(l.Fd(), network.OpRead, l); err != nil {
		return multierr.Append(err, l.Close())
	}
	r.listener = l
	r.debug("listening", "address", l.Addr())
	return nil
}

// Addr returns the listen address, or "" when not listening.
func (r *Reactor) Addr() string {
	if r.listener == nil {
		return ""
	}
	return r.listener.Addr()
}

// Dial starts a non-blocking connect to addr and returns the connection.
// Data sent before the channel is ready is queued.
func (r *Reactor) Dial(addr string) (*Conn, error) {
	if r.closed {
		return nil, ErrClosed
	}
	s, err := socket.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", network.ErrConnection, addr, err)
	}
	ops := network.OpRead
	if s.Connecting() {
		ops = network.OpConnect
	}
	return r.attach(s, ops)
}

// Conn returns the connection with id, or nil.
func (r *Reactor) Conn(id string) *Conn {
	return r.conns[id]
}

// Len returns the number of open connections.
func (r *Reactor) Len() int {
	return len(r.conns)
}

// Run polls until ctx is done, then closes the reactor.
func (r *Reactor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return r.Close()
		default:
		}
		if err := r.Poll(DefaultPollInterval); err != nil {
			return multierr.Append(err, r.Close())
		}
	}
}

// Poll waits up to timeout for readiness and services every ready
// connection once.
func (r *Reactor) Poll(timeout time.Duration) error {
	if r.closed {
		return ErrClosed
	}
	keys, err := r.sel.Select(timeout)
	if err != nil {
		return err
	}
	for _, k := range keys {
		switch a := k.Attachment().(type) {
		case *socket.Listener:
			r.acceptAll(a)
		case *Conn:
			r.service(a, k.ReadyOps())
		}
	}
	return nil
}

// Close closes every connection, the listener and the selector.
func (r *Reactor) Close() error {
	if r.closed {
		return nil
	}
	var err error
	for _, c := range r.conns {
		r.drop(c, nil)
	}
	if r.listener != nil {
		err = multierr.Append(err, r.listener.Close())
	}
	err = multierr.Append(err, r.sel.Close())
	r.closed = true
	return err
}

func (r *Reactor) acceptAll(l *socket.Listener) {
	for {
		s, err := l.Accept()
		if err != nil {
			r.warn("accept failed", "error", err)
			return
		}
		if s == nil {
			return
		}
		if _, err := r.attach(s, network.OpRead); err != nil {
			r.warn("channel setup failed", "error", err)
		}
	}
}

// attach registers s and builds its channel. s and its key are released
// on any failure, including an unconfigured builder that never took them.
func (r *Reactor) attach(s *socket.Socket, ops network.Ops) (*Conn, error) {
	key, err := r.sel.Register(s.Fd(), ops, nil)
	if err != nil {
		return nil, multierr.Append(err, s.Close())
	}
	id := uuid.New().String()
	ch, err := r.config.Builder.BuildChannel(id, s, key)
	if err != nil {
		return nil, multierr.Combine(err, key.Cancel(), s.Close())
	}
	c := &Conn{id: id, reactor: r, ch: ch, sock: s, remote: s.RemoteAddr()}
	key.Attach(c)
	r.conns[id] = c
	r.debug("connection registered",
		"connID", id,
		"remote", c.remote,
		"interest", ops.String())

	if ops&network.OpConnect == 0 {
		r.service(c, 0)
	}
	return c, nil
}

// service handles one readiness report for c.
func (r *Reactor) service(c *Conn, ready network.Ops) {
	if err := r.advance(c, ready); err != nil {
		if err == io.EOF {
			err = nil
		}
		r.drop(c, err)
	}
}

func (r *Reactor) advance(c *Conn, ready network.Ops) error {
	if c.ch.InterestOps()&network.OpConnect != 0 {
		if ready&network.OpConnect == 0 {
			return nil
		}
		ok, err := c.ch.FinishConnect()
		if err != nil || !ok {
			return err
		}
		c.remote = c.sock.RemoteAddr()
	}
	if !c.ready {
		if err := c.ch.Prepare(); err != nil {
			return err
		}
		if !c.ch.IsReady() {
			return nil
		}
		c.ready = true
		p, _ := c.ch.Principal()
		r.debug("channel ready",
			"connID", c.id,
			"principal", p.Name,
			"trust", p.Trust.String())
		if r.config.OnReady != nil {
			r.config.OnReady(c)
		}
	}
	if !c.muted {
		if err := r.drain(c); err != nil {
			return err
		}
	}
	if c.closed {
		return nil
	}
	return c.flush()
}

// drain reads until the channel has nothing more.
func (r *Reactor) drain(c *Conn) error {
	for !c.closed && !c.muted {
		n, err := c.ch.Read(r.buf)
		if n > 0 && r.config.OnData != nil {
			r.config.OnData(c, r.buf[:n])
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}

func (r *Reactor) drop(c *Conn, cause error) {
	if _, ok := r.conns[c.id]; !ok {
		return
	}
	delete(r.conns, c.id)
	c.closed = true
	if err := c.ch.Close(); err != nil {
		r.warn("channel close failed", "connID", c.id, "error", err)
	}
	if cause != nil {
		r.warn("connection failed", "connID", c.id, "error", cause)
	} else {
		r.debug("connection closed", "connID", c.id)
	}
	if r.config.OnClose != nil {
		r.config.OnClose(c, cause)
	}
}

func (r *Reactor) debug(msg string, args ...any) {
	if r.config.Logger != nil {
		r.config.Logger.Debug(msg, args...)
	}
}

func (r *Reactor) warn(msg string, args ...any) {
	if r.config.Logger != nil {
		r.config.Logger.Warn(msg, args...)
	}
}
