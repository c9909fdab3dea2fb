package pase

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mash-protocol/mash-channel/pkg/network"
)

const (
	frameHeaderSize = 4

	// MaxMessageSize bounds a single encoded message.
	MaxMessageSize = 64 * 1024
)

// framer exchanges length-prefixed messages over a transport without
// blocking. It reads exactly one message at a time so bytes following
// the last message stay in the transport for the application.
type framer struct {
	t network.TransportLayer

	out       []byte
	wantWrite bool

	hdr   [frameHeaderSize]byte
	hdrN  int
	body  []byte
	bodyN int
}

// queue appends an encoded message to the output buffer.
func (f *framer) queue(msg any) error {
	data, err := EncodeMessage(msg)
	if err != nil {
		return err
	}
	if len(data) > MaxMessageSize {
		return fmt.Errorf("%w: %d bytes exceeds limit", ErrInvalidMessage, len(data))
	}
	f.out = binary.BigEndian.AppendUint32(f.out, uint32(len(data)))
	f.out = append(f.out, data...)
	return nil
}

// flush writes queued output. It reports true once everything has left
// the transport, and keeps WRITE interest set while it has not. A secure
// transport may accept a record it could only partly send.
func (f *framer) flush() (bool, error) {
	for len(f.out) > 0 {
		n, err := f.t.Write(f.out)
		if err != nil {
			return false, err
		}
		if n == 0 {
			break
		}
		f.out = f.out[n:]
	}
	if len(f.out) == 0 && !f.t.Flushed() {
		if _, err := f.t.Write(nil); err != nil {
			return false, err
		}
	}
	if len(f.out) > 0 || !f.t.Flushed() {
		if !f.wantWrite {
			if err := f.t.AddInterestOps(network.OpWrite); err != nil {
				return false, err
			}
			f.wantWrite = true
		}
		return false, nil
	}
	f.out = nil
	if f.wantWrite {
		f.wantWrite = false
		if err := f.t.RemoveInterestOps(network.OpWrite); err != nil {
			return false, err
		}
	}
	return true, nil
}

// next returns the next complete message body, or nil with READ interest
// set when more input is needed.
func (f *framer) next() ([]byte, error) {
	for f.hdrN < frameHeaderSize {
		n, err := f.fill(f.hdr[f.hdrN:])
		if n == 0 || err != nil {
			return nil, err
		}
		f.hdrN += n
	}
	if f.body == nil {
		size := binary.BigEndian.Uint32(f.hdr[:])
		if size == 0 || size > MaxMessageSize {
			return nil, fmt.Errorf("%w: bad length %d", ErrInvalidMessage, size)
		}
		f.body = make([]byte, size)
	}
	for f.bodyN < len(f.body) {
		n, err := f.fill(f.body[f.bodyN:])
		if n == 0 || err != nil {
			return nil, err
		}
		f.bodyN += n
	}
	msg := f.body
	f.body, f.bodyN, f.hdrN = nil, 0, 0
	return msg, nil
}

// fill performs one transport read into p.
func (f *framer) fill(p []byte) (int, error) {
	n, err := f.t.Read(p)
	if err == io.EOF {
		return 0, fmt.Errorf("peer closed during exchange: %w", io.ErrUnexpectedEOF)
	}
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, f.t.AddInterestOps(network.OpRead)
	}
	return n, nil
}
