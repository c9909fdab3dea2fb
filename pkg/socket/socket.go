//go:build linux

package socket

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// ErrClosed is returned by operations on a closed socket.
var ErrClosed = errors.New("socket closed")

// Socket is a non-blocking stream socket.
type Socket struct {
	fd         int
	closed     bool
	eof        bool
	connecting bool
}

// New wraps an existing descriptor and switches it to non-blocking mode.
// The Socket takes ownership of fd.
func New(fd int) (*Socket, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, os.NewSyscallError("setnonblock", err)
	}
	return &Socket{fd: fd}, nil
}

// Pair returns two connected Unix stream sockets.
func Pair() (*Socket, *Socket, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, os.NewSyscallError("socketpair", err)
	}
	return &Socket{fd: fds[0]}, &Socket{fd: fds[1]}, nil
}

// Dial starts a non-blocking TCP connect to addr. The connect usually
// completes later; register the socket for CONNECT interest and call
// FinishConnect when it fires.
func Dial(addr string) (*Socket, error) {
	sa, domain, err := resolve(addr)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)

	s := &Socket{fd: fd}
	for {
		err = unix.Connect(fd, sa)
		if err != unix.EINTR {
			break
		}
	}
	switch err {
	case nil:
	case unix.EINPROGRESS:
		s.connecting = true
	default:
		unix.Close(fd)
		return nil, fmt.Errorf("connect %s: %w", addr, os.NewSyscallError("connect", err))
	}
	return s, nil
}

// Fd returns the descriptor.
func (s *Socket) Fd() int {
	return s.fd
}

// Connecting reports whether an outbound connect is still outstanding.
func (s *Socket) Connecting() bool {
	return s.connecting
}

// Read reads up to len(p) bytes. It returns (0, nil) when no data is
// available.
func (s *Socket) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.eof {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Read(s.fd, p)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, nil
		case err != nil:
			return 0, os.NewSyscallError("read", err)
		case n == 0:
			s.eof = true
			return 0, io.EOF
		}
		return n, nil
	}
}

// ReadBuffers scatters one read across bufs.
func (s *Socket) ReadBuffers(bufs [][]byte) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.eof {
		return 0, io.EOF
	}
	if total(bufs) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Readv(s.fd, bufs)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, nil
		case err != nil:
			return 0, os.NewSyscallError("readv", err)
		case n == 0:
			s.eof = true
			return 0, io.EOF
		}
		return int64(n), nil
	}
}

// Write writes as much of p as the send buffer accepts.
func (s *Socket) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Write(s.fd, p)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, nil
		case err != nil:
			return 0, os.NewSyscallError("write", err)
		}
		return n, nil
	}
}

// WriteBuffers gathers bufs into one write.
func (s *Socket) WriteBuffers(bufs [][]byte) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if total(bufs) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Writev(s.fd, bufs)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, nil
		case err != nil:
			return 0, os.NewSyscallError("writev", err)
		}
		return int64(n), nil
	}
}

// FinishConnect reports whether the outbound connect completed. It
// returns false while the connect is in progress and the socket error
// if it failed.
func (s *Socket) FinishConnect() (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	if !s.connecting {
		return true, nil
	}
	soErr, err := unix.GetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return false, os.NewSyscallError("getsockopt", err)
	}
	if soErr != 0 {
		errno := unix.Errno(soErr)
		if errno == unix.EINPROGRESS || errno == unix.EALREADY {
			return false, nil
		}
		return false, os.NewSyscallError("connect", errno)
	}
	if _, err := unix.Getpeername(s.fd); err != nil {
		if err == unix.ENOTCONN {
			return false, nil
		}
		return false, os.NewSyscallError("getpeername", err)
	}
	s.connecting = false
	return true, nil
}

// IsOpen reports whether Close has not been called.
func (s *Socket) IsOpen() bool {
	return !s.closed
}

// SetSendBuffer sets SO_SNDBUF.
func (s *Socket) SetSendBuffer(bytes int) error {
	return os.NewSyscallError("setsockopt", unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_SNDBUF, bytes))
}

// SetReceiveBuffer sets SO_RCVBUF.
func (s *Socket) SetReceiveBuffer(bytes int) error {
	return os.NewSyscallError("setsockopt", unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_RCVBUF, bytes))
}

// RemoteAddr returns the peer address, or "" if unknown.
func (s *Socket) RemoteAddr() string {
	sa, err := unix.Getpeername(s.fd)
	if err != nil {
		return ""
	}
	return sockaddrString(sa)
}

// CloseWrite shuts down the sending side.
func (s *Socket) CloseWrite() error {
	if s.closed {
		return ErrClosed
	}
	return os.NewSyscallError("shutdown", unix.Shutdown(s.fd, unix.SHUT_WR))
}

// Close releases the descriptor. Later calls return nil.
func (s *Socket) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return os.NewSyscallError("close", unix.Close(s.fd))
}

func total(bufs [][]byte) int {
	n := 0
	for _, b := range bufs {
		n += len(b)
	}
	return n
}

func resolve(addr string) (unix.Sockaddr, int, error) {
	tcp, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, 0, err
	}
	if ip4 := tcp.IP.To4(); ip4 != nil || tcp.IP == nil {
		sa := &unix.SockaddrInet4{Port: tcp.Port}
		if ip4 != nil {
			copy(sa.Addr[:], ip4)
		}
		return sa, unix.AF_INET, nil
	}
	sa := &unix.SockaddrInet6{Port: tcp.Port}
	copy(sa.Addr[:], tcp.IP.To16())
	return sa, unix.AF_INET6, nil
}

func sockaddrString(sa unix.Sockaddr) string {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return (&net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}).String()
	case *unix.SockaddrInet6:
		return (&net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}).String()
	case *unix.SockaddrUnix:
		return a.Name
	default:
		return ""
	}
}
