package pase

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pairing window timeouts.
const (
	// DefaultWindowTimeout is used when Open is given no timeout.
	DefaultWindowTimeout = 120 * time.Second

	// MinWindowTimeout is the shortest window Open accepts.
	MinWindowTimeout = time.Second

	// MaxWindowTimeout is the longest window Open accepts.
	MaxWindowTimeout = time.Hour
)

// WindowState is the state of a pairing window.
type WindowState uint8

const (
	// WindowClosed rejects every exchange.
	WindowClosed WindowState = iota

	// WindowOpen accepts the next exchange.
	WindowOpen

	// WindowBusy has one exchange in progress and rejects others.
	WindowBusy
)

// String returns a human-readable state name.
func (s WindowState) String() string {
	switch s {
	case WindowClosed:
		return "CLOSED"
	case WindowOpen:
		return "OPEN"
	case WindowBusy:
		return "BUSY"
	default:
		return "UNKNOWN"
	}
}

// Window errors.
var (
	ErrWindowClosed    = errors.New("pairing window is closed")
	ErrWindowBusy      = errors.New("pairing already in progress")
	ErrWindowNotBusy   = errors.New("no pairing in progress")
	ErrInvalidTimeout  = errors.New("invalid timeout value")
	ErrSessionMismatch = errors.New("pairing session mismatch")
)

// Window gates server-side exchanges in time. A server authenticator
// configured with a window rejects requests while it is closed and runs
// at most one exchange at a time while it is open. A successful exchange
// closes the window; a failed one reopens it if time remains.
//
// Window is safe for concurrent use, so the timeout and an operator can
// close it from other goroutines than the reactor's.
type Window struct {
	mu       sync.Mutex
	state    WindowState
	timeout  time.Duration
	deadline time.Time
	timer    *time.Timer
	session  string

	onStateChange func(oldState, newState WindowState)
}

// NewWindow returns a closed window.
func NewWindow() *Window {
	return &Window{timeout: DefaultWindowTimeout}
}

// State returns the current state.
func (w *Window) State() WindowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// IsOpen reports whether the window accepts an exchange right now.
func (w *Window) IsOpen() bool {
	return w.State() == WindowOpen
}

// Remaining returns the time until the window closes, or 0 when closed.
func (w *Window) Remaining() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.remaining()
}

func (w *Window) remaining() time.Duration {
	if w.state == WindowClosed {
		return 0
	}
	return max(time.Until(w.deadline), 0)
}

// OnStateChange sets a callback run on every transition. It is called
// without the window lock held.
func (w *Window) OnStateChange(fn func(oldState, newState WindowState)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onStateChange = fn
}

// Open opens the window for timeout, or DefaultWindowTimeout when
// timeout is zero. Opening an open window restarts its timer.
func (w *Window) Open(timeout time.Duration) error {
	if timeout == 0 {
		timeout = DefaultWindowTimeout
	}
	if timeout < MinWindowTimeout || timeout > MaxWindowTimeout {
		return ErrInvalidTimeout
	}

	w.mu.Lock()
	w.timeout = timeout
	w.deadline = time.Now().Add(timeout)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(timeout, w.expire)
	old := w.state
	if old == WindowClosed {
		w.state = WindowOpen
	}
	w.unlockNotify(old)
	return nil
}

// Close closes the window. An exchange in progress may still finish but
// will not reopen it.
func (w *Window) Close() {
	w.mu.Lock()
	old := w.state
	w.closeLocked()
	w.unlockNotify(old)
}

// BeginPASE reserves the window for one exchange and returns its
// session id.
func (w *Window) BeginPASE() (string, error) {
	w.mu.Lock()
	switch w.state {
	case WindowClosed:
		w.mu.Unlock()
		return "", ErrWindowClosed
	case WindowBusy:
		w.mu.Unlock()
		return "", ErrWindowBusy
	}
	old := w.state
	w.state = WindowBusy
	w.session = uuid.New().String()
	id := w.session
	w.unlockNotify(old)
	return id, nil
}

// EndPASE releases the reservation taken by BeginPASE. Success closes
// the window; failure reopens it while time remains.
func (w *Window) EndPASE(session string, success bool) error {
	w.mu.Lock()
	if w.session == "" {
		w.mu.Unlock()
		return ErrWindowNotBusy
	}
	if w.session != session {
		w.mu.Unlock()
		return ErrSessionMismatch
	}
	old := w.state
	w.session = ""
	switch {
	case w.state != WindowBusy:
		// Closed while the exchange ran.
	case success || w.remaining() == 0:
		w.closeLocked()
	default:
		w.state = WindowOpen
	}
	w.unlockNotify(old)
	return nil
}

func (w *Window) expire() {
	w.mu.Lock()
	old := w.state
	if old == WindowOpen {
		w.closeLocked()
	} else if old == WindowBusy {
		// EndPASE closes it once the running exchange is over.
		w.timer = nil
	}
	w.unlockNotify(old)
}

func (w *Window) closeLocked() {
	w.state = WindowClosed
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// unlockNotify releases the lock and reports a transition from old.
func (w *Window) unlockNotify(old WindowState) {
	cur := w.state
	fn := w.onStateChange
	w.mu.Unlock()
	if fn != nil && cur != old {
		fn(old, cur)
	}
}
