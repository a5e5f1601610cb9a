// Package gesture disambiguates long-press from tap.
//
// The recognizer is an explicit state machine (Idle -> Armed -> Fired) with a
// single reset point per gesture, so a fired long-press suppresses the paired
// tap exactly once and can never leak into the next gesture.
package gesture

// State is the recognizer's current phase.
type State int

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// Armed means a press started and the long-press timer is running.
	Armed
	// Fired means the long-press timer elapsed before release.
	Fired
)

// Outcome classifies a finished gesture.
type Outcome int

const (
	// None is returned for releases with no matching press (stale events).
	None Outcome = iota
	// Tap means the press ended before the long-press threshold.
	Tap
	// LongPress means the threshold elapsed; the release must not also be
	// treated as a tap.
	LongPress
)

// Recognizer tracks one press gesture at a time. Each Begin invalidates any
// timer armed for a previous gesture via the sequence token, so a stale
// firing cannot flip state after the gesture ended.
type Recognizer struct {
	state State
	seq   int
}

// State returns the current phase.
func (r *Recognizer) State() State { return r.state }

// Begin starts a new gesture and returns the sequence token the caller must
// hand back to Fire when the long-press timer elapses. Starting a gesture
// always clears leftover state from the previous one.
func (r *Recognizer) Begin() int {
	r.seq++
	r.state = Armed
	return r.seq
}

// Fire reports the long-press timer elapsing for the gesture identified by
// seq. It returns true when the long-press should trigger; timers from
// earlier gestures are ignored.
func (r *Recognizer) Fire(seq int) bool {
	if seq != r.seq || r.state != Armed {
		return false
	}
	r.state = Fired
	return true
}

// End finishes the gesture on release and resets the recognizer. A release
// after Fire reports LongPress so the caller can suppress its tap handling;
// the suppression applies to this gesture only.
func (r *Recognizer) End() Outcome {
	out := None
	switch r.state {
	case Armed:
		out = Tap
	case Fired:
		out = LongPress
	}
	r.state = Idle
	return out
}

// Cancel abandons the gesture in progress, if any, without producing an
// outcome. Safe to call in any state.
func (r *Recognizer) Cancel() {
	r.state = Idle
}
