// Package schedtest provides a virtual-time [sched.Scheduler] for
// deterministic tests.
package schedtest

import (
	"time"

	"github.com/go-drift/cadence/pkg/sched"
)

// minPeriod mirrors the clamp hosts apply to very small repeating
// intervals, and keeps a zero-period registration from firing forever
// inside a single Advance.
const minPeriod = time.Millisecond

// FakeScheduler is a Scheduler driven by virtual time. Nothing fires until
// [FakeScheduler.Advance] moves the clock, which runs due callbacks in
// deadline order on the caller's goroutine.
//
// It enforces the shared-handle-namespace contract: either cancel
// operation cancels a registration of either kind, and canceling an
// unknown or stale handle is a no-op. Cancel calls are counted so tests
// can assert the dual-cancel discipline.
type FakeScheduler struct {
	now      time.Time
	nextID   sched.Handle
	nextSeq  int64
	pending  []*registration
	lateness time.Duration

	cancelCalls int
}

type registration struct {
	id     sched.Handle
	fn     sched.Func
	due    time.Time
	period time.Duration // 0 means one-shot
	seq    int64
}

// New returns a FakeScheduler starting at a fixed epoch.
func New() *FakeScheduler {
	return &FakeScheduler{
		now:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		nextID: 1,
	}
}

// Now returns the current virtual time.
func (f *FakeScheduler) Now() time.Time { return f.now }

// ScheduleOnce implements [sched.Scheduler].
func (f *FakeScheduler) ScheduleOnce(fn sched.Func, delay time.Duration) sched.Handle {
	return f.add(fn, delay, 0)
}

// ScheduleRepeating implements [sched.Scheduler].
func (f *FakeScheduler) ScheduleRepeating(fn sched.Func, delay time.Duration) sched.Handle {
	if delay < minPeriod {
		delay = minPeriod
	}
	return f.add(fn, delay, delay)
}

func (f *FakeScheduler) add(fn sched.Func, delay, period time.Duration) sched.Handle {
	if fn == nil {
		return 0
	}
	if delay < 0 {
		delay = 0
	}
	r := &registration{
		id:     f.nextID,
		fn:     fn,
		due:    f.now.Add(delay),
		period: period,
		seq:    f.nextSeq,
	}
	f.nextID++
	f.nextSeq++
	f.pending = append(f.pending, r)
	return r.id
}

// CancelOnce implements [sched.Scheduler]. The handle namespace is shared,
// so this also cancels repeating registrations.
func (f *FakeScheduler) CancelOnce(h sched.Handle) { f.cancel(h) }

// CancelRepeating implements [sched.Scheduler]. The handle namespace is
// shared, so this also cancels one-shot registrations.
func (f *FakeScheduler) CancelRepeating(h sched.Handle) { f.cancel(h) }

func (f *FakeScheduler) cancel(h sched.Handle) {
	f.cancelCalls++
	for i, r := range f.pending {
		if r.id == h {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return
		}
	}
	// Unknown or stale handle: no-op, per the capability contract.
}

// Advance moves virtual time forward by d, firing every registration that
// falls due, in deadline order (ties fire in registration order).
// Repeating registrations re-queue at their fixed period and can fire
// multiple times within one Advance. Callbacks run on the caller's
// goroutine and may schedule or cancel registrations, but must not call
// Advance themselves.
func (f *FakeScheduler) Advance(d time.Duration) {
	target := f.now.Add(d)
	for {
		r := f.earliest(target)
		if r == nil {
			break
		}
		f.now = r.due
		if r.period > 0 {
			r.due = r.due.Add(r.period)
			r.seq = f.nextSeq
			f.nextSeq++
		} else {
			f.remove(r)
		}
		r.fn(f.lateness)
	}
	f.now = target
}

// SetLateness sets the lateness value delivered to every subsequent fire,
// for tests that assert the value is passed through untouched.
func (f *FakeScheduler) SetLateness(d time.Duration) { f.lateness = d }

// Live reports the number of outstanding registrations.
func (f *FakeScheduler) Live() int { return len(f.pending) }

// CancelCalls reports how many times either cancel operation has been
// invoked, including no-op calls with stale handles.
func (f *FakeScheduler) CancelCalls() int { return f.cancelCalls }

// earliest returns the pending registration with the soonest deadline not
// after limit, or nil.
func (f *FakeScheduler) earliest(limit time.Time) *registration {
	var best *registration
	for _, r := range f.pending {
		if r.due.After(limit) {
			continue
		}
		if best == nil || r.due.Before(best.due) || (r.due.Equal(best.due) && r.seq < best.seq) {
			best = r
		}
	}
	return best
}

func (f *FakeScheduler) remove(r *registration) {
	for i, p := range f.pending {
		if p == r {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return
		}
	}
}
