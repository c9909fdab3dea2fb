package connection

import (
	"time"
)

// State is the reconnect state of a client.
type State uint8

const (
	// StateIdle means no dial has been started.
	StateIdle State = iota

	// StateConnecting means a dial or the channel preparation is running.
	StateConnecting

	// StateConnected means the channel is ready.
	StateConnected

	// StateWaiting means a redial is scheduled.
	StateWaiting

	// StateStopped means no further dials will be scheduled.
	StateStopped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateWaiting:
		return "WAITING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Redialer tracks when a client should dial again.
type Redialer struct {
	backoff *Backoff
	state   State
	due     time.Time
	now     func() time.Time

	onWaiting func(attempt int, delay time.Duration)
}

// NewRedialer returns an idle redialer. A nil backoff uses the defaults.
func NewRedialer(b *Backoff) *Redialer {
	if b == nil {
		b = NewBackoff()
	}
	return &Redialer{backoff: b, now: time.Now}
}

// State returns the current state.
func (r *Redialer) State() State {
	return r.state
}

// OnWaiting sets a callback run whenever a redial is scheduled.
func (r *Redialer) OnWaiting(fn func(attempt int, delay time.Duration)) {
	r.onWaiting = fn
}

// Dialing records that a dial was started.
func (r *Redialer) Dialing() {
	if r.state != StateStopped {
		r.state = StateConnecting
	}
}

// Connected records a ready channel and resets the backoff.
func (r *Redialer) Connected() {
	if r.state == StateStopped {
		return
	}
	r.state = StateConnected
	r.backoff.Reset()
}

// Lost records a failed dial or a dropped channel and schedules the next
// attempt. It returns the delay, or 0 once stopped.
func (r *Redialer) Lost() time.Duration {
	if r.state == StateStopped {
		return 0
	}
	delay := r.backoff.Next()
	r.state = StateWaiting
	r.due = r.now().Add(delay)
	if r.onWaiting != nil {
		r.onWaiting(r.backoff.Attempts(), delay)
	}
	return delay
}

// Due reports whether a scheduled redial should start now.
func (r *Redialer) Due() bool {
	return r.state == StateWaiting && !r.now().Before(r.due)
}

// Wait returns how long until the scheduled redial, capped at limit. It
// returns limit when nothing is scheduled.
func (r *Redialer) Wait(limit time.Duration) time.Duration {
	if r.state != StateWaiting {
		return limit
	}
	return min(max(r.due.Sub(r.now()), 0), limit)
}

// Stop cancels any scheduled redial permanently.
func (r *Redialer) Stop() {
	r.state = StateStopped
}
