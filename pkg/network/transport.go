package network

// TransportLayer is the per-connection abstraction over a Conn. The set
// of implementations is closed: PlaintextTransport and NoiseTransport,
// chosen once when the channel is built.
type TransportLayer interface {
	// IsOpen reports whether the underlying connection is open.
	IsOpen() bool

	// IsReady reports whether no handshake is outstanding.
	IsReady() bool

	// FinishConnect completes a non-blocking connect and moves interest
	// from CONNECT to READ. It returns false while the connect is still
	// in progress and ErrConnection if the connect failed.
	FinishConnect() (bool, error)

	// Disconnect deregisters from the reactor without releasing the
	// connection.
	Disconnect() error

	// Conn returns the owned connection handle.
	Conn() Conn

	// Handshake advances the transport handshake. It never blocks; when
	// it cannot proceed it sets READ or WRITE interest and returns nil.
	Handshake() error

	// Pending reports whether bytes are buffered inside the transport.
	Pending() bool

	// Flushed reports whether every byte accepted by Write has reached
	// the connection. Write(nil) drains what is left.
	Flushed() bool

	// Read reads application bytes. (0, nil) means would block, io.EOF
	// means end of stream.
	Read(p []byte) (int, error)

	// ReadBuffers scatters application bytes across bufs.
	ReadBuffers(bufs [][]byte) (int64, error)

	// Write writes application bytes and returns how many were accepted.
	Write(p []byte) (int, error)

	// WriteBuffers gathers application bytes from bufs.
	WriteBuffers(bufs [][]byte) (int64, error)

	// PeerPrincipal returns the identity established by the transport.
	PeerPrincipal() (Principal, error)

	// InterestOps returns the current interest set.
	InterestOps() Ops

	// AddInterestOps adds ops to the interest set.
	AddInterestOps(ops Ops) error

	// RemoveInterestOps removes ops from the interest set.
	RemoveInterestOps(ops Ops) error

	// Close releases the connection. Safe to call more than once.
	Close() error

	transportLayer()
}

// interest holds the connection's selection key and applies bitwise
// updates to it. Shared by both transport variants.
type interest struct {
	key SelectionKey
}

// InterestOps returns the current interest set.
func (i *interest) InterestOps() Ops {
	return i.key.InterestOps()
}

// AddInterestOps adds ops to the interest set.
func (i *interest) AddInterestOps(ops Ops) error {
	cur := i.key.InterestOps()
	if cur&ops == ops {
		return nil
	}
	return i.key.SetInterestOps(cur | ops)
}

// RemoveInterestOps removes ops from the interest set.
func (i *interest) RemoveInterestOps(ops Ops) error {
	cur := i.key.InterestOps()
	if cur&ops == 0 {
		return nil
	}
	return i.key.SetInterestOps(cur &^ ops)
}

// Disconnect cancels the selection key.
func (i *interest) Disconnect() error {
	return i.key.Cancel()
}

// connected replaces CONNECT interest with READ interest.
func (i *interest) connected() error {
	ops := i.key.InterestOps()
	return i.key.SetInterestOps(ops&^OpConnect | OpRead)
}
