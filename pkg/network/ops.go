package network

import "strings"

// Ops is a set of readiness events a connection is registered for.
type Ops uint8

const (
	// OpRead requests notification when the connection is readable.
	OpRead Ops = 1 << iota

	// OpWrite requests notification when the connection is writable.
	OpWrite

	// OpConnect requests notification when an outbound connect finished.
	OpConnect
)

// String returns the interest set as READ|WRITE|CONNECT.
func (o Ops) String() string {
	if o == 0 {
		return "NONE"
	}
	var parts []string
	if o&OpRead != 0 {
		parts = append(parts, "READ")
	}
	if o&OpWrite != 0 {
		parts = append(parts, "WRITE")
	}
	if o&OpConnect != 0 {
		parts = append(parts, "CONNECT")
	}
	return strings.Join(parts, "|")
}

// SelectionKey is a connection's registration with a reactor. The
// TransportLayer owning the connection is the only writer of its
// interest set.
type SelectionKey interface {
	// InterestOps returns the current interest set.
	InterestOps() Ops

	// SetInterestOps replaces the interest set.
	SetInterestOps(ops Ops) error

	// Cancel deregisters the connection from the reactor. It does not
	// close the connection.
	Cancel() error

	// Valid reports whether the key is still registered.
	Valid() bool
}

// DetachedKey is a SelectionKey not backed by any reactor. It records the
// interest set only, which is enough for channels driven by polling and
// for tests.
type DetachedKey struct {
	ops       Ops
	cancelled bool
}

// NewDetachedKey creates a key with the given initial interest set.
func NewDetachedKey(ops Ops) *DetachedKey {
	return &DetachedKey{ops: ops}
}

// InterestOps returns the recorded interest set.
func (k *DetachedKey) InterestOps() Ops {
	return k.ops
}

// SetInterestOps records a new interest set.
func (k *DetachedKey) SetInterestOps(ops Ops) error {
	if k.cancelled {
		return ErrKeyCancelled
	}
	k.ops = ops
	return nil
}

// Cancel marks the key as deregistered. Safe to call more than once.
func (k *DetachedKey) Cancel() error {
	k.cancelled = true
	return nil
}

// Valid reports whether Cancel has not been called.
func (k *DetachedKey) Valid() bool {
	return !k.cancelled
}
