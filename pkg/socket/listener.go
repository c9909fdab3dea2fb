//go:build linux

package socket

import (
	"os"

	"golang.org/x/sys/unix"
)

const listenBacklog = 128

// Listener accepts non-blocking TCP connections.
type Listener struct {
	fd     int
	closed bool
}

// Listen binds a non-blocking TCP listener to addr. Port 0 picks a free
// port; Addr reports it.
func Listen(addr string) (*Listener, error) {
	sa, domain, err := resolve(addr)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("setsockopt", err)
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("bind", err)
	}
	if err := unix.Listen(fd, listenBacklog); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("listen", err)
	}
	return &Listener{fd: fd}, nil
}

// Fd returns the listening descriptor.
func (l *Listener) Fd() int {
	return l.fd
}

// Addr returns the bound address.
func (l *Listener) Addr() string {
	sa, err := unix.Getsockname(l.fd)
	if err != nil {
		return ""
	}
	return sockaddrString(sa)
}

// Accept returns the next pending connection, or nil when none is
// waiting.
func (l *Listener) Accept() (*Socket, error) {
	if l.closed {
		return nil, ErrClosed
	}
	for {
		fd, _, err := unix.Accept4(l.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		switch err {
		case nil:
			_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
			return &Socket{fd: fd}, nil
		case unix.EINTR, unix.ECONNABORTED:
			continue
		case unix.EAGAIN:
			return nil, nil
		default:
			return nil, os.NewSyscallError("accept4", err)
		}
	}
}

// Close stops listening. Later calls return nil.
func (l *Listener) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return os.NewSyscallError("close", unix.Close(l.fd))
}
