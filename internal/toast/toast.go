// Package toast implements a single-slot, auto-dismissing notification.
//
// Message text derives from a closed Kind enumeration so call sites stay
// declarative. Display is last-write-wins: a newer Show always preempts an
// in-flight dismissal.
package toast

import (
	"sync"
	"time"

	"github.com/mull-dev/mull/internal/delay"
)

// Kind identifies a toast message.
type Kind int

const (
	// KindRoomDeleted confirms a successful room deletion.
	KindRoomDeleted Kind = iota
	// KindDeleteFailed reports that a room deletion failed.
	KindDeleteFailed
	// KindSendFailed reports that sending a picked item failed.
	KindSendFailed
)

// Message returns the user-facing text for the kind.
func (k Kind) Message() string {
	switch k {
	case KindRoomDeleted:
		return "Chat deleted"
	case KindDeleteFailed:
		return "Couldn't delete the chat"
	case KindSendFailed:
		return "Couldn't send - try again"
	default:
		return "Something went wrong"
	}
}

// ExpiredEvent is posted on the events channel when the visible toast's
// dismiss timer elapses.
type ExpiredEvent struct {
	Gen int
}

// Notifier holds at most one visible toast and dismisses it after a fixed
// duration. Close cancels any outstanding timer; nothing fires afterwards.
type Notifier struct {
	mu       sync.Mutex
	duration time.Duration
	timers   *delay.Set
	pending  *delay.Handle
	current  Kind
	visible  bool
	gen      int
	closed   bool
	events   chan ExpiredEvent
}

// NewNotifier creates a Notifier that dismisses toasts after duration.
func NewNotifier(duration time.Duration) *Notifier {
	return &Notifier{
		duration: duration,
		timers:   delay.NewSet(),
		events:   make(chan ExpiredEvent, 1),
	}
}

// Show replaces the current toast with the given kind and restarts the
// dismiss timer.
func (n *Notifier) Show(kind Kind) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	if n.pending != nil {
		n.pending.Cancel()
	}
	n.gen++
	gen := n.gen
	n.current = kind
	n.visible = true
	n.pending = n.timers.After(n.duration, func() { n.expire(gen) })
	n.mu.Unlock()
}

func (n *Notifier) expire(gen int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	// A newer Show or Close won the race; this timer is stale.
	if n.closed || gen != n.gen {
		return
	}
	n.visible = false
	n.pending = nil

	// Sent under the lock so a racing Close cannot close the channel
	// between the staleness check and the send.
	select {
	case n.events <- ExpiredEvent{Gen: gen}:
	default:
	}
}

// Current returns the visible toast kind, if any.
func (n *Notifier) Current() (Kind, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.visible
}

// Events exposes dismissal notifications so a UI can re-render when the
// toast disappears on its own.
func (n *Notifier) Events() <-chan ExpiredEvent {
	return n.events
}

// Close tears the notifier down, cancelling any outstanding dismiss timer
// and closing the events channel so listeners unblock. Show becomes a
// no-op afterwards.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.visible = false
	n.gen++
	close(n.events)
	n.mu.Unlock()

	n.timers.CancelAll()
}
