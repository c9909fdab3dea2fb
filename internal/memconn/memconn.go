// Package memconn provides an in-memory non-blocking connection pair for
// tests. It satisfies network.Conn without importing it.
package memconn

import (
	"errors"
	"io"
)

var (
	ErrClosed     = errors.New("use of closed connection")
	ErrBrokenPipe = errors.New("broken pipe")
)

// pipe is a bounded one-way byte queue.
type pipe struct {
	buf      []byte
	capacity int
	closed   bool
}

// Conn is one end of a pair. Writes beyond the peer's queue capacity are
// refused, like a full socket buffer. Not safe for concurrent use.
type Conn struct {
	in, out *pipe
	closed  bool
	closes  int

	// Connecting is the number of FinishConnect calls that report an
	// unfinished connect.
	Connecting int

	// ConnectErr is returned by FinishConnect when set.
	ConnectErr error
}

// Pair returns two connected ends, each direction buffering at most
// capacity bytes.
func Pair(capacity int) (*Conn, *Conn) {
	ab := &pipe{capacity: capacity}
	ba := &pipe{capacity: capacity}
	return &Conn{in: ba, out: ab}, &Conn{in: ab, out: ba}
}

func (c *Conn) Read(p []byte) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if len(c.in.buf) == 0 {
		if c.in.closed {
			return 0, io.EOF
		}
		return 0, nil
	}
	n := copy(p, c.in.buf)
	c.in.buf = c.in.buf[n:]
	return n, nil
}

func (c *Conn) ReadBuffers(bufs [][]byte) (int64, error) {
	var total int64
	for _, b := range bufs {
		n, err := c.Read(b)
		total += int64(n)
		if err == io.EOF && total > 0 {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n < len(b) {
			break
		}
	}
	return total, nil
}

func (c *Conn) Write(p []byte) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if c.out.closed {
		return 0, ErrBrokenPipe
	}
	n := min(c.out.capacity-len(c.out.buf), len(p))
	c.out.buf = append(c.out.buf, p[:n]...)
	return n, nil
}

func (c *Conn) WriteBuffers(bufs [][]byte) (int64, error) {
	var total int64
	for _, b := range bufs {
		n, err := c.Write(b)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n < len(b) {
			break
		}
	}
	return total, nil
}

func (c *Conn) FinishConnect() (bool, error) {
	if c.ConnectErr != nil {
		return false, c.ConnectErr
	}
	if c.Connecting > 0 {
		c.Connecting--
		return false, nil
	}
	return true, nil
}

func (c *Conn) IsOpen() bool {
	return !c.closed
}

// Close closes both directions. A second Close returns ErrClosed.
func (c *Conn) Close() error {
	c.closes++
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.out.closed = true
	c.in.closed = true
	return nil
}

// CloseCalls returns how often Close was called.
func (c *Conn) CloseCalls() int {
	return c.closes
}

// Inject appends raw bytes to the queue read by c, bypassing capacity.
func (c *Conn) Inject(p []byte) {
	c.in.buf = append(c.in.buf, p...)
}

// Buffered returns the number of bytes waiting to be read by c.
func (c *Conn) Buffered() int {
	return len(c.in.buf)
}

// SetWriteLimit lets at most n more bytes be queued by writes on c.
func (c *Conn) SetWriteLimit(n int) {
	c.out.capacity = len(c.out.buf) + n
}
