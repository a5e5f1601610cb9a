// Package delay provides cancellable delayed-callback primitives.
// Handles stay safe to cancel after firing, and a Set can tear down
// every outstanding timer deterministically.
package delay

import (
	"sync"
	"time"
)

// Handle is a single scheduled callback. Cancel is idempotent and may be
// called before or after the callback has fired.
type Handle struct {
	mu        sync.Mutex
	timer     *time.Timer
	fired     bool
	cancelled bool
	done      func(*Handle)
}

// After schedules fn to run once after d. The callback runs on its own
// goroutine, as with time.AfterFunc.
func After(d time.Duration, fn func()) *Handle {
	h := &Handle{}
	h.timer = time.AfterFunc(d, func() {
		h.mu.Lock()
		if h.cancelled {
			h.mu.Unlock()
			return
		}
		h.fired = true
		done := h.done
		h.mu.Unlock()

		fn()
		if done != nil {
			done(h)
		}
	})
	return h
}

// Cancel stops the callback if it has not fired yet. Calling Cancel more
// than once, or after the callback ran, is a no-op.
func (h *Handle) Cancel() {
	h.mu.Lock()
	if h.cancelled || h.fired {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	done := h.done
	h.mu.Unlock()

	h.timer.Stop()
	if done != nil {
		done(h)
	}
}

// Fired reports whether the callback has run.
func (h *Handle) Fired() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fired
}

// Cancelled reports whether the handle was cancelled before firing.
func (h *Handle) Cancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// Set tracks outstanding handles so a component can cancel everything it
// scheduled when it is torn down.
type Set struct {
	mu      sync.Mutex
	pending map[*Handle]struct{}
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{pending: make(map[*Handle]struct{})}
}

// After schedules fn like the package-level After and tracks the handle
// until it fires or is cancelled.
func (s *Set) After(d time.Duration, fn func()) *Handle {
	h := After(d, fn)

	h.mu.Lock()
	h.done = s.forget
	already := h.fired || h.cancelled
	h.mu.Unlock()

	// The timer can fire before the done hook is installed; don't track a
	// handle that is already settled.
	if already {
		return h
	}

	s.mu.Lock()
	s.pending[h] = struct{}{}
	s.mu.Unlock()
	return h
}

func (s *Set) forget(h *Handle) {
	s.mu.Lock()
	delete(s.pending, h)
	s.mu.Unlock()
}

// Len returns the number of outstanding handles.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// CancelAll cancels every outstanding handle. Callbacks that have not yet
// fired will never fire after CancelAll returns.
func (s *Set) CancelAll() {
	s.mu.Lock()
	handles := make([]*Handle, 0, len(s.pending))
	for h := range s.pending {
		handles = append(handles, h)
	}
	s.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
}
