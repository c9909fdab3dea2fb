//go:build linux

package selector

import (
	"errors"
	"os"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"

	"github.com/mash-protocol/mash-channel/pkg/network"
)

// ErrClosed is returned by operations on a closed selector.
var ErrClosed = errors.New("selector closed")

// maxEvents bounds the events returned by one Select call.
const maxEvents = 256

// Selector is a level-triggered epoll instance.
type Selector struct {
	epfd   int
	keys   map[int]*Key
	events []unix.EpollEvent
	closed bool
}

// New creates a selector.
func New() (*Selector, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}
	return &Selector{
		epfd:   epfd,
		keys:   make(map[int]*Key),
		events: make([]unix.EpollEvent, maxEvents),
	}, nil
}

// Register adds fd with the given interest set. The attachment is
// returned with the key on every readiness report.
func (s *Selector) Register(fd int, ops network.Ops, attachment any) (*Key, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if _, dup := s.keys[fd]; dup {
		return nil, os.NewSyscallError("epoll_ctl", unix.EEXIST)
	}
	ev := unix.EpollEvent{Events: epollEvents(ops), Fd: int32(fd)}
	if err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return nil, os.NewSyscallError("epoll_ctl", err)
	}
	k := &Key{sel: s, fd: fd, ops: ops, attachment: attachment, valid: true}
	s.keys[fd] = k
	return k, nil
}

// Select waits up to timeout for readiness and returns the ready keys.
// A negative timeout waits indefinitely; zero polls. An interrupted wait
// returns no keys and no error.
func (s *Selector) Select(timeout time.Duration) ([]*Key, error) {
	if s.closed {
		return nil, ErrClosed
	}
	msec := -1
	if timeout >= 0 {
		msec = int(timeout.Milliseconds())
	}
	n, err := unix.EpollWait(s.epfd, s.events, msec)
	if err == unix.EINTR {
		return nil, nil
	}
	if err != nil {
		return nil, os.NewSyscallError("epoll_wait", err)
	}
	ready := make([]*Key, 0, n)
	for _, ev := range s.events[:n] {
		k, ok := s.keys[int(ev.Fd)]
		if !ok || !k.valid {
			continue
		}
		k.ready = readyOps(ev.Events, k.ops)
		if k.ready != 0 {
			ready = append(ready, k)
		}
	}
	return ready, nil
}

// Len returns the number of registered keys.
func (s *Selector) Len() int {
	return len(s.keys)
}

// Close cancels every key and releases the epoll instance.
func (s *Selector) Close() error {
	if s.closed {
		return nil
	}
	var err error
	for _, k := range s.keys {
		err = multierr.Append(err, k.Cancel())
	}
	s.closed = true
	return multierr.Append(err, os.NewSyscallError("close", unix.Close(s.epfd)))
}

// Key is a descriptor's registration with a Selector.
type Key struct {
	sel        *Selector
	fd         int
	ops        network.Ops
	ready      network.Ops
	attachment any
	valid      bool
}

// Fd returns the registered descriptor.
func (k *Key) Fd() int {
	return k.fd
}

// Attachment returns the value passed to Register.
func (k *Key) Attachment() any {
	return k.attachment
}

// Attach replaces the attachment.
func (k *Key) Attach(v any) {
	k.attachment = v
}

// InterestOps returns the interest set.
func (k *Key) InterestOps() network.Ops {
	return k.ops
}

// ReadyOps returns the interests reported ready by the last Select.
func (k *Key) ReadyOps() network.Ops {
	return k.ready
}

// SetInterestOps replaces the interest set.
func (k *Key) SetInterestOps(ops network.Ops) error {
	if !k.valid {
		return network.ErrKeyCancelled
	}
	if ops == k.ops {
		return nil
	}
	ev := unix.EpollEvent{Events: epollEvents(ops), Fd: int32(k.fd)}
	if err := unix.EpollCtl(k.sel.epfd, unix.EPOLL_CTL_MOD, k.fd, &ev); err != nil {
		return os.NewSyscallError("epoll_ctl", err)
	}
	k.ops = ops
	k.ready &= ops
	return nil
}

// Cancel removes the registration. The descriptor stays open. Later
// calls return nil.
func (k *Key) Cancel() error {
	if !k.valid {
		return nil
	}
	k.valid = false
	k.ready = 0
	delete(k.sel.keys, k.fd)
	err := unix.EpollCtl(k.sel.epfd, unix.EPOLL_CTL_DEL, k.fd, nil)
	if err == unix.ENOENT || err == unix.EBADF {
		return nil
	}
	return os.NewSyscallError("epoll_ctl", err)
}

// Valid reports whether the key is still registered.
func (k *Key) Valid() bool {
	return k.valid
}

func epollEvents(ops network.Ops) uint32 {
	var ev uint32
	if ops&network.OpRead != 0 {
		ev |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if ops&(network.OpWrite|network.OpConnect) != 0 {
		ev |= unix.EPOLLOUT
	}
	return ev
}

// readyOps maps epoll events onto the interest set. Errors and hangups
// wake every interest so the owner observes the failure on its next call.
func readyOps(events uint32, interest network.Ops) network.Ops {
	var ready network.Ops
	failed := events&(unix.EPOLLERR|unix.EPOLLHUP) != 0
	if events&(unix.EPOLLIN|unix.EPOLLRDHUP) != 0 || failed {
		ready |= network.OpRead
	}
	if events&unix.EPOLLOUT != 0 || failed {
		ready |= network.OpWrite | network.OpConnect
	}
	return ready & interest
}
