//go:build linux

package reactor

import (
	"github.com/mash-protocol/mash-channel/pkg/network"
	"github.com/mash-protocol/mash-channel/pkg/socket"
)

// Conn is a connection owned by a Reactor.
type Conn struct {
	id      string
	reactor *Reactor
	ch      *network.Channel
	sock    *socket.Socket
	remote  string

	out    [][]byte
	queued int

	ready   bool // OnReady delivered
	muted   bool // reads paused by backpressure
	closing bool // close once the queue is flushed
	closed  bool
}

// ID returns the connection id.
func (c *Conn) ID() string {
	return c.id
}

// Channel returns the underlying channel.
func (c *Conn) Channel() *network.Channel {
	return c.ch
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() string {
	return c.remote
}

// Ready reports whether the channel finished handshake and authentication.
func (c *Conn) Ready() bool {
	return c.ready
}

// Queued returns the number of outbound bytes not yet accepted by the
// channel.
func (c *Conn) Queued() int {
	return c.queued
}

// Send queues a copy of data and writes as much as the channel accepts.
// Data sent before the channel is ready waits in the queue.
func (c *Conn) Send(data []byte) error {
	if c.closed || c.closing {
		return network.ErrClosedChannel
	}
	if len(data) == 0 {
		return nil
	}
	c.out = append(c.out, append([]byte(nil), data...))
	c.queued += len(data)
	if c.queued > c.reactor.config.HighWater && !c.muted && c.ready {
		if err := c.ch.Mute(); err != nil {
			c.reactor.drop(c, err)
			return err
		}
		c.muted = true
	}
	if !c.ready {
		return nil
	}
	if err := c.flush(); err != nil {
		c.reactor.drop(c, err)
		return err
	}
	return nil
}

// Close removes the connection immediately, discarding queued data.
func (c *Conn) Close() {
	c.reactor.drop(c, nil)
}

// CloseWhenFlushed closes the connection once the queue is empty.
func (c *Conn) CloseWhenFlushed() {
	if c.closed {
		return
	}
	c.closing = true
	if len(c.out) == 0 && c.ch.Flushed() {
		c.reactor.drop(c, nil)
	}
}

// flush writes queued data and keeps WRITE interest set while anything
// is left, inside the queue or inside the transport.
func (c *Conn) flush() error {
	for len(c.out) > 0 {
		n, err := c.ch.WriteBuffers(c.out)
		c.out = network.AdvanceBuffers(c.out, n)
		c.queued -= int(n)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	if len(c.out) == 0 {
		c.out = nil
		if !c.ch.Flushed() {
			if _, err := c.ch.Write(nil); err != nil {
				return err
			}
		}
	}

	if len(c.out) > 0 || !c.ch.Flushed() {
		if err := c.ch.AddInterestOps(network.OpWrite); err != nil {
			return err
		}
	} else {
		if err := c.ch.RemoveInterestOps(network.OpWrite); err != nil {
			return err
		}
		if c.closing {
			c.reactor.drop(c, nil)
			return nil
		}
	}

	if c.muted && c.queued <= c.reactor.config.HighWater/2 {
		if err := c.ch.Unmute(); err != nil {
			return err
		}
		c.muted = false
	}
	return nil
}
