package sched

import (
	"container/heap"
	"sync"
	"time"
)

// minPeriod is the floor applied to repeating registrations, mirroring the
// clamping hosts apply to very small intervals.
const minPeriod = time.Millisecond

// Loop is an event-loop [Scheduler]. All callbacks run on the goroutine
// that called [Loop.Run], one at a time, in deadline order. Schedule and
// cancel operations may be called from any goroutine, including from
// inside a callback.
type Loop struct {
	clock Clock

	mu      sync.Mutex
	queue   regHeap
	byID    map[Handle]*registration
	nextID  Handle
	stopped bool

	notify chan struct{}
	stop   chan struct{}
	done   chan struct{}
}

// registration is a pending one-shot or repeating callback.
type registration struct {
	id     Handle
	fn     Func
	when   time.Time
	period time.Duration // 0 means one-shot
	seq    int64         // breaks deadline ties in registration order
	index  int           // heap index, -1 when removed
}

// NewLoop returns a Loop driven by the system clock.
func NewLoop() *Loop { return NewLoopWithClock(SystemClock) }

// NewLoopWithClock returns a Loop driven by clock. Passing a fake clock
// only affects lateness reporting; the loop still sleeps on real time
// between deadlines, so tests that need virtual time should use the
// schedtest package instead.
func NewLoopWithClock(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock
	}
	return &Loop{
		clock:  clock,
		byID:   make(map[Handle]*registration),
		nextID: 1,
		notify: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// ScheduleOnce implements [Scheduler].
func (l *Loop) ScheduleOnce(fn Func, delay time.Duration) Handle {
	return l.add(fn, delay, 0)
}

// ScheduleRepeating implements [Scheduler]. Periods below one millisecond
// are clamped.
func (l *Loop) ScheduleRepeating(fn Func, delay time.Duration) Handle {
	if delay < minPeriod {
		delay = minPeriod
	}
	return l.add(fn, delay, delay)
}

func (l *Loop) add(fn Func, delay time.Duration, period time.Duration) Handle {
	if fn == nil {
		return 0
	}
	if delay < 0 {
		delay = 0
	}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return 0
	}
	r := &registration{
		id:     l.nextID,
		fn:     fn,
		when:   l.clock.Now().Add(delay),
		period: period,
		seq:    int64(l.nextID),
	}
	l.nextID++
	heap.Push(&l.queue, r)
	l.byID[r.id] = r
	l.mu.Unlock()
	l.wake()
	return r.id
}

// CancelOnce implements [Scheduler]. The handle namespace is shared, so
// this cancels repeating registrations as well.
func (l *Loop) CancelOnce(h Handle) { l.cancel(h) }

// CancelRepeating implements [Scheduler]. The handle namespace is shared,
// so this cancels one-shot registrations as well.
func (l *Loop) CancelRepeating(h Handle) { l.cancel(h) }

func (l *Loop) cancel(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.byID[h]
	if !ok {
		return
	}
	delete(l.byID, h)
	if r.index >= 0 {
		heap.Remove(&l.queue, r.index)
	}
}

// wake nudges Run without blocking.
func (l *Loop) wake() {
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Run dispatches callbacks until Stop is called. It blocks; start it on a
// dedicated goroutine.
func (l *Loop) Run() {
	defer close(l.done)

	// Reusable timer, created stopped.
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		l.mu.Lock()
		if l.stopped {
			l.mu.Unlock()
			return
		}
		if l.queue.Len() == 0 {
			l.mu.Unlock()
			select {
			case <-l.notify:
			case <-l.stop:
				return
			}
			continue
		}

		r := l.queue[0]
		now := l.clock.Now()
		wait := r.when.Sub(now)
		if wait > 0 {
			l.mu.Unlock()
			timer.Reset(wait)
			select {
			case <-timer.C:
			case <-l.notify:
				if !timer.Stop() {
					<-timer.C
				}
			case <-l.stop:
				return
			}
			continue
		}

		heap.Pop(&l.queue)
		if r.period > 0 {
			// Re-arm before dispatch so a cancel from inside the
			// callback stops future fires.
			r.when = r.when.Add(r.period)
			heap.Push(&l.queue, r)
		} else {
			delete(l.byID, r.id)
		}
		fn := r.fn
		l.mu.Unlock()

		lateness := -wait
		if lateness < 0 {
			lateness = 0
		}
		fn(lateness)
	}
}

// Stop halts the loop after any callback currently in flight. It is safe
// to call from a callback and may be called more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	l.mu.Unlock()
	close(l.stop)
}

// Done is closed once Run has returned. It reports Run's exit, not Stop:
// if Run is never started, Done never closes.
func (l *Loop) Done() <-chan struct{} { return l.done }

// regHeap orders registrations by deadline, then registration order.
type regHeap []*registration

func (h regHeap) Len() int { return len(h) }

func (h regHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h regHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *regHeap) Push(x any) {
	r := x.(*registration)
	r.index = len(*h)
	*h = append(*h, r)
}

func (h *regHeap) Pop() any {
	old := *h
	n := len(old)
	r := old[n-1]
	old[n-1] = nil
	r.index = -1
	*h = old[:n-1]
	return r
}
