// Package countdown runs the guessing-phase timer. A Timer counts
// whole seconds down to zero and reports each step through a callback.
package countdown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a restartable one-second countdown. At most one ticker is
// live at a time: starting while running cancels the previous run
// first, so two plays in quick succession never race tickers.
type Timer struct {
	clock  clockwork.Clock
	onTick func(remaining int)

	mu        sync.Mutex
	remaining int
	active    bool
	gen       int
	stop      chan struct{}
}

// New creates a timer on the given clock. onTick is called once per
// elapsed second with the seconds left, the last call with 0. It may
// be nil.
func New(clock clockwork.Clock, onTick func(remaining int)) *Timer {
	return &Timer{clock: clock, onTick: onTick}
}

// Start begins counting down from the given number of seconds,
// cancelling any countdown already in progress. Starting with zero or
// negative seconds just stops the timer.
func (t *Timer) Start(seconds int) {
	t.mu.Lock()
	t.cancelLocked()

	if seconds <= 0 {
		t.remaining = 0
		t.mu.Unlock()
		return
	}

	t.gen++
	gen := t.gen
	t.remaining = seconds
	t.active = true
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	ticker := t.clock.NewTicker(time.Second)
	go t.run(gen, ticker, stop)
}

// Stop cancels the countdown, leaving Remaining at its last value.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.cancelLocked()
	t.mu.Unlock()
}

// cancelLocked invalidates the current run. Callers hold t.mu.
func (t *Timer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.active = false
}

// Remaining returns the seconds left on the countdown.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Active reports whether a countdown is in progress.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Timer) run(gen int, ticker clockwork.Ticker, stop chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
		}

		t.mu.Lock()
		if gen != t.gen || !t.active {
			t.mu.Unlock()
			return
		}
		t.remaining--
		if t.remaining < 0 {
			t.remaining = 0
		}
		rem := t.remaining
		done := rem == 0
		if done {
			t.active = false
			t.stop = nil
		}
		t.mu.Unlock()

		if t.onTick != nil {
			t.onTick(rem)
		}
		if done {
			return
		}
	}
}
