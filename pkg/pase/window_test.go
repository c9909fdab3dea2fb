package pase

import (
	"sync"
	"testing"
	"time"
)

func TestWindowInitialState(t *testing.T) {
	w := NewWindow()

	if w.State() != WindowClosed {
		t.Errorf("State() = %v, want WindowClosed", w.State())
	}
	if w.IsOpen() {
		t.Error("IsOpen() = true, want false")
	}
	if w.Remaining() != 0 {
		t.Errorf("Remaining() = %v, want 0", w.Remaining())
	}
	if _, err := w.BeginPASE(); err != ErrWindowClosed {
		t.Errorf("BeginPASE() error = %v, want ErrWindowClosed", err)
	}
}

func TestWindowStateString(t *testing.T) {
	tests := []struct {
		state WindowState
		want  string
	}{
		{WindowClosed, "CLOSED"},
		{WindowOpen, "OPEN"},
		{WindowBusy, "BUSY"},
		{WindowState(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestWindowOpenValidatesTimeout(t *testing.T) {
	w := NewWindow()
	if err := w.Open(MinWindowTimeout - time.Millisecond); err != ErrInvalidTimeout {
		t.Errorf("Open(too short) error = %v, want ErrInvalidTimeout", err)
	}
	if err := w.Open(MaxWindowTimeout + time.Second); err != ErrInvalidTimeout {
		t.Errorf("Open(too long) error = %v, want ErrInvalidTimeout", err)
	}
	if w.State() != WindowClosed {
		t.Error("a rejected Open must leave the window closed")
	}

	if err := w.Open(0); err != nil {
		t.Fatalf("Open(0) error = %v", err)
	}
	defer w.Close()
	if r := w.Remaining(); r <= DefaultWindowTimeout-time.Second || r > DefaultWindowTimeout {
		t.Errorf("Remaining() = %v, want about %v", r, DefaultWindowTimeout)
	}
}

func TestWindowSuccessfulPairingCloses(t *testing.T) {
	w := NewWindow()
	if err := w.Open(time.Minute); err != nil {
		t.Fatal(err)
	}

	id, err := w.BeginPASE()
	if err != nil {
		t.Fatalf("BeginPASE() error = %v", err)
	}
	if id == "" {
		t.Error("BeginPASE() returned an empty session id")
	}
	if w.State() != WindowBusy {
		t.Errorf("State() = %v, want WindowBusy", w.State())
	}
	if _, err := w.BeginPASE(); err != ErrWindowBusy {
		t.Errorf("second BeginPASE() error = %v, want ErrWindowBusy", err)
	}

	if err := w.EndPASE("other", true); err != ErrSessionMismatch {
		t.Errorf("EndPASE(other) error = %v, want ErrSessionMismatch", err)
	}
	if err := w.EndPASE(id, true); err != nil {
		t.Fatalf("EndPASE() error = %v", err)
	}
	if w.State() != WindowClosed {
		t.Errorf("State() = %v, want WindowClosed", w.State())
	}
	if err := w.EndPASE(id, true); err != ErrWindowNotBusy {
		t.Errorf("repeated EndPASE() error = %v, want ErrWindowNotBusy", err)
	}
}

func TestWindowFailedPairingReopens(t *testing.T) {
	w := NewWindow()
	if err := w.Open(time.Minute); err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	id, err := w.BeginPASE()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.EndPASE(id, false); err != nil {
		t.Fatal(err)
	}
	if !w.IsOpen() {
		t.Errorf("State() = %v, want WindowOpen", w.State())
	}
	if _, err := w.BeginPASE(); err != nil {
		t.Errorf("BeginPASE() after failure error = %v", err)
	}
}

func TestWindowCloseDuringPairing(t *testing.T) {
	w := NewWindow()
	if err := w.Open(time.Minute); err != nil {
		t.Fatal(err)
	}
	id, err := w.BeginPASE()
	if err != nil {
		t.Fatal(err)
	}

	w.Close()
	if err := w.EndPASE(id, false); err != nil {
		t.Fatalf("EndPASE() error = %v", err)
	}
	if w.State() != WindowClosed {
		t.Errorf("a failed exchange must not reopen a closed window, got %v", w.State())
	}
}

func TestWindowExpiry(t *testing.T) {
	w := NewWindow()
	if err := w.Open(time.Minute); err != nil {
		t.Fatal(err)
	}

	w.expire()
	if w.State() != WindowClosed {
		t.Errorf("State() = %v, want WindowClosed", w.State())
	}
}

func TestWindowExpiryWhileBusy(t *testing.T) {
	w := NewWindow()
	if err := w.Open(MinWindowTimeout); err != nil {
		t.Fatal(err)
	}
	id, err := w.BeginPASE()
	if err != nil {
		t.Fatal(err)
	}

	// Pretend the deadline passed while the exchange was running.
	w.mu.Lock()
	w.deadline = time.Now().Add(-time.Second)
	w.mu.Unlock()
	w.expire()
	if w.State() != WindowBusy {
		t.Fatalf("expiry must not interrupt a running exchange, got %v", w.State())
	}

	if err := w.EndPASE(id, false); err != nil {
		t.Fatal(err)
	}
	if w.State() != WindowClosed {
		t.Errorf("State() = %v, want WindowClosed", w.State())
	}
}

func TestWindowTimerCloses(t *testing.T) {
	w := NewWindow()
	closed := make(chan struct{})
	w.OnStateChange(func(_, newState WindowState) {
		if newState == WindowClosed {
			close(closed)
		}
	})
	if err := w.Open(MinWindowTimeout); err != nil {
		t.Fatal(err)
	}

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("window did not close on timeout")
	}
}

func TestWindowStateChangeCallback(t *testing.T) {
	w := NewWindow()

	var mu sync.Mutex
	var transitions []string
	w.OnStateChange(func(oldState, newState WindowState) {
		mu.Lock()
		defer mu.Unlock()
		transitions = append(transitions, oldState.String()+"->"+newState.String())
	})

	if err := w.Open(time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := w.Open(time.Minute); err != nil { // restart, no transition
		t.Fatal(err)
	}
	id, _ := w.BeginPASE()
	_ = w.EndPASE(id, true)
	w.Close() // already closed, no transition

	mu.Lock()
	defer mu.Unlock()
	want := []string{"CLOSED->OPEN", "OPEN->BUSY", "BUSY->CLOSED"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %s, want %s", i, transitions[i], want[i])
		}
	}
}

func TestWindowConcurrentBegin(t *testing.T) {
	w := NewWindow()
	if err := w.Open(time.Minute); err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := w.BeginPASE(); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 1 {
		t.Errorf("granted %d reservations, want 1", granted)
	}
}
