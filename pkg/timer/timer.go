// Package timer provides a repeating/one-shot timer built on a host
// scheduler.
//
// # Core behavior
//
// A [Timer] is armed by [Start] and thereafter supports exactly two
// operations:
//
//   - [Timer.Postpone] / [Timer.PostponeFor]: delay the next fire, once.
//     A repeating timer resumes its original cadence measured from the
//     postponed fire.
//
//   - [Timer.Destroy]: permanently silence the timer. Destroy is
//     idempotent, and after it returns the listener will never be invoked
//     again, even for a host fire already in flight.
//
// A one-off timer silences itself after its single fire, so a later
// Postpone or Destroy is a no-op.
//
// # Threading
//
// Timers follow the host scheduler's cooperative single-threaded model:
// scheduled callbacks and calls to Postpone/Destroy are assumed to be
// serialized by the host, so a Timer carries no lock of its own. Calling
// Postpone or Destroy from inside the timer's own listener is supported.
package timer

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-drift/cadence/pkg/sched"
)

// State identifies where a timer is in its lifecycle.
//
// The lifecycle follows this state machine:
//
//	             Postpone()
//	Active ──────────────────► Postponed ──┐
//	   ▲                           │       │ Postpone()
//	   │     catch-up fire         │  ◄────┘
//	   └───────────────────────────┘
//
//	Active/Postponed ──Destroy()──► Destroyed   (terminal)
//
// A one-off timer also enters Destroyed when it fires naturally. In
// Destroyed, both Postpone and Destroy are no-ops.
type State int

const (
	// StateActive means the timer has a live registration at its original
	// cadence.
	StateActive State = iota
	// StatePostponed means the next fire has been deferred by a one-shot
	// catch-up registration.
	StatePostponed
	// StateDestroyed means the timer is permanently inert, either by
	// Destroy or because a one-off timer has fired.
	StateDestroyed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePostponed:
		return "postponed"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Listener is invoked on each fire with the host-supplied lateness value.
type Listener func(lateness time.Duration)

// Construction errors. Invalid inputs are a caller contract violation and
// fail fast rather than being coerced.
var (
	ErrNilScheduler  = errors.New("timer: nil scheduler")
	ErrNilListener   = errors.New("timer: nil listener")
	ErrNegativeDelay = errors.New("timer: negative delay")
)

// Timer fires a listener once or repeatedly via a host scheduler.
//
// At most one host registration is live per Timer at any time; its handle
// is owned exclusively by the Timer. The continuation field holds the
// behavior of the next deferred fire and doubles as the liveness flag:
// it is non-nil exactly while the timer is Active or Postponed, and nil
// forever after.
type Timer struct {
	sched    sched.Scheduler
	listener Listener
	delay    time.Duration
	oneOff   bool

	state        State
	handle       sched.Handle
	continuation sched.Func
}

// Start creates a timer and arms its first registration.
//
// If oneOff is true the listener fires once after delay and the timer is
// then spent. Otherwise the listener fires every delay until Destroy.
// The delay is handed to the scheduler as-is; hosts may clamp small
// values, and the timer does not compensate.
func Start(s sched.Scheduler, listener Listener, delay time.Duration, oneOff bool) (*Timer, error) {
	if s == nil {
		return nil, ErrNilScheduler
	}
	if listener == nil {
		return nil, ErrNilListener
	}
	if delay < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeDelay, delay)
	}

	t := &Timer{
		sched:    s,
		listener: listener,
		delay:    delay,
		oneOff:   oneOff,
		state:    StateActive,
	}
	if oneOff {
		t.continuation = func(lateness time.Duration) {
			// The single fire: spend the timer before the listener runs
			// so a reentrant Postpone inside it is already a no-op.
			t.continuation = nil
			t.state = StateDestroyed
			t.listener(lateness)
		}
		t.handle = s.ScheduleOnce(t.runContinuation, delay)
	} else {
		t.continuation = func(lateness time.Duration) {
			// Catch-up fire after a postponement: resume the original
			// cadence measured from this fire, then deliver it.
			t.state = StateActive
			t.handle = s.ScheduleRepeating(t.tick, t.delay)
			t.listener(lateness)
		}
		t.handle = s.ScheduleRepeating(t.tick, delay)
	}
	return t, nil
}

// tick is the repeating registration's callback.
func (t *Timer) tick(lateness time.Duration) {
	if t.continuation == nil {
		// Destroyed with this fire already in flight.
		return
	}
	t.listener(lateness)
}

// runContinuation is the one-shot registration's callback.
func (t *Timer) runContinuation(lateness time.Duration) {
	if c := t.continuation; c != nil {
		c(lateness)
	}
}

// Postpone delays the next fire by the timer's original delay, measured
// from now. Equivalent to PostponeFor with the construction delay.
func (t *Timer) Postpone() {
	t.postpone(t.delay)
}

// PostponeFor delays the next fire to occur d from now, one time only;
// for a repeating timer, later fires resume at the original cadence
// measured from the postponed fire. Negative d is treated as zero.
//
// Postponing a destroyed or naturally-completed timer has no effect.
func (t *Timer) PostponeFor(d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.postpone(d)
}

func (t *Timer) postpone(d time.Duration) {
	if t.continuation == nil {
		return
	}
	t.cancelActive()
	t.state = StatePostponed
	t.handle = t.sched.ScheduleOnce(t.runContinuation, d)
}

// Destroy cancels the live registration and permanently silences the
// timer. It is idempotent, and guarantees no listener invocation occurs
// after it returns, including from a host fire that was already queued.
func (t *Timer) Destroy() {
	if t.continuation == nil {
		return
	}
	t.cancelActive()
	t.continuation = nil
	t.state = StateDestroyed
}

// State reports the timer's lifecycle state.
func (t *Timer) State() State { return t.state }

// cancelActive revokes the live registration. The handle's origin is not
// tracked and the host handle namespace is shared, so both cancel
// operations are tried; the contract makes the foreign one a no-op.
func (t *Timer) cancelActive() {
	t.sched.CancelOnce(t.handle)
	t.sched.CancelRepeating(t.handle)
}
