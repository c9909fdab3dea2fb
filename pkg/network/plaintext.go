package network

import (
	"go.uber.org/multierr"
)

// PlaintextTransport forwards every call to the connection. It has no
// handshake, never buffers, and always reports the Anonymous principal.
type PlaintextTransport struct {
	interest
	conn   Conn
	closed bool
}

// NewPlaintextTransport takes ownership of conn.
func NewPlaintextTransport(conn Conn, key SelectionKey) (*PlaintextTransport, error) {
	if conn == nil || key == nil {
		return nil, wrapErr(ErrConnection, "plaintext transport", errNilHandle)
	}
	return &PlaintextTransport{
		interest: interest{key: key},
		conn:     conn,
	}, nil
}

// IsOpen reports whether the connection is open.
func (t *PlaintextTransport) IsOpen() bool {
	return !t.closed && t.conn.IsOpen()
}

// IsReady always returns true.
func (t *PlaintextTransport) IsReady() bool {
	return true
}

// FinishConnect completes the connect and switches interest to READ.
func (t *PlaintextTransport) FinishConnect() (bool, error) {
	ok, err := t.conn.FinishConnect()
	if err != nil {
		return false, wrapErr(ErrConnection, "finish connect", err)
	}
	if !ok {
		return false, nil
	}
	return true, t.connected()
}

// Conn returns the connection handle.
func (t *PlaintextTransport) Conn() Conn {
	return t.conn
}

// Handshake is a no-op.
func (t *PlaintextTransport) Handshake() error {
	return nil
}

// Pending always returns false; writes go straight to the socket.
func (t *PlaintextTransport) Pending() bool {
	return false
}

// Flushed always returns true.
func (t *PlaintextTransport) Flushed() bool {
	return true
}

// Read reads from the connection.
func (t *PlaintextTransport) Read(p []byte) (int, error) {
	n, err := t.conn.Read(p)
	return n, wrapIO("read", err)
}

// ReadBuffers scatters a read across bufs.
func (t *PlaintextTransport) ReadBuffers(bufs [][]byte) (int64, error) {
	n, err := t.conn.ReadBuffers(bufs)
	return n, wrapIO("read", err)
}

// Write writes to the connection and returns the accepted byte count.
func (t *PlaintextTransport) Write(p []byte) (int, error) {
	n, err := t.conn.Write(p)
	return n, wrapIO("write", err)
}

// WriteBuffers gathers bufs into one write.
func (t *PlaintextTransport) WriteBuffers(bufs [][]byte) (int64, error) {
	n, err := t.conn.WriteBuffers(bufs)
	return n, wrapIO("write", err)
}

// PeerPrincipal returns Anonymous regardless of the remote peer.
func (t *PlaintextTransport) PeerPrincipal() (Principal, error) {
	return Anonymous, nil
}

// Close deregisters the key and closes the connection. Later calls
// return nil.
func (t *PlaintextTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return multierr.Combine(t.key.Cancel(), t.conn.Close())
}

func (t *PlaintextTransport) transportLayer() {}
