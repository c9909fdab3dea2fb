package network

import (
	"errors"
	"fmt"
	"io"
)

// Error kinds. Returned errors wrap one of these together with the cause,
// so callers can test for both with errors.Is.
var (
	// ErrConfiguration indicates the identity extractor or another builder
	// component could not be created or configured. Fatal for the builder.
	ErrConfiguration = errors.New("configuration error")

	// ErrConnection indicates an OS level connect or accept failure.
	ErrConnection = errors.New("connection error")

	// ErrIO indicates a non-blocking read or write failed.
	ErrIO = errors.New("i/o error")

	// ErrHandshake indicates the secure transport handshake failed.
	ErrHandshake = errors.New("handshake failed")

	// ErrAuthentication indicates identity negotiation failed. The channel
	// must be discarded.
	ErrAuthentication = errors.New("authentication failed")

	// ErrClosedChannel indicates an operation on a closed channel.
	ErrClosedChannel = errors.New("channel closed")

	// ErrNotReady indicates application I/O before the handshake and
	// authentication completed.
	ErrNotReady = errors.New("channel not ready")

	// ErrKeyCancelled indicates an interest update on a deregistered key.
	ErrKeyCancelled = errors.New("selection key cancelled")
)

var errNilHandle = errors.New("nil connection or selection key")

// wrapErr attaches an error kind to a cause.
func wrapErr(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", kind, op, err)
}

// wrapIO tags read and write failures with ErrIO. io.EOF is the end of
// stream sentinel and passes through untouched.
func wrapIO(op string, err error) error {
	if err == nil || err == io.EOF {
		return err
	}
	return wrapErr(ErrIO, op, err)
}
