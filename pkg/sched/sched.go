// Package sched defines the host scheduling contract consumed by Cadence
// timers, and provides [Loop], an event-loop implementation of it.
//
// # The contract
//
// A host scheduler offers two registration primitives: a one-shot
// registration that fires its callback once after a delay, and a repeating
// registration that fires on a fixed period until canceled. Each
// registration returns an opaque [Handle] used to cancel it.
//
// Handles live in a single shared namespace: a Handle does not reveal which
// primitive produced it. Because of that, any implementation must accept a
// handle from either primitive in either cancel operation, and canceling
// with a foreign, stale, or already-fired handle must be a safe no-op.
// Callers that cannot track a handle's origin rely on this by invoking both
// cancel operations on every stop. The schedtest package's FakeScheduler
// enforces the contract; any new binding to a concrete host API must be
// verified against it.
//
// # Threading
//
// Callbacks are serialized: a scheduler never runs two callbacks
// concurrently, and a callback may freely schedule or cancel registrations
// on the scheduler that invoked it.
package sched

import "time"

// Handle identifies a pending registration. The zero Handle is never
// issued and cancels nothing.
type Handle int64

// Func is a scheduled callback. Lateness is the host-supplied drift between
// the registration's deadline and the actual invocation; its precise
// semantics are host-defined and are passed through to callbacks verbatim.
type Func func(lateness time.Duration)

// Scheduler is the host scheduling contract.
//
// Implementations must treat the handle namespace as shared between the two
// registration kinds: either cancel operation cancels a live registration
// of either kind, and unknown handles are ignored.
type Scheduler interface {
	// ScheduleOnce invokes fn once after delay.
	ScheduleOnce(fn Func, delay time.Duration) Handle

	// ScheduleRepeating invokes fn every delay until canceled. Hosts may
	// clamp very small periods to an implementation minimum.
	ScheduleRepeating(fn Func, delay time.Duration) Handle

	// CancelOnce cancels a pending registration. Unknown or stale handles
	// are ignored.
	CancelOnce(h Handle)

	// CancelRepeating cancels a pending registration. Unknown or stale
	// handles are ignored.
	CancelRepeating(h Handle)
}

// Clock provides time for a scheduler. The default implementation uses
// system time. Tests can inject a fake clock to control scheduling
// deterministically.
type Clock interface {
	Now() time.Time
}

// systemClock uses system time.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the Clock used when none is supplied.
var SystemClock Clock = systemClock{}
