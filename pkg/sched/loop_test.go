package sched

import (
	"testing"
	"time"
)

// startLoop runs a loop on its own goroutine and stops it at test end.
func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := NewLoop()
	go l.Run()
	t.Cleanup(func() {
		l.Stop()
		select {
		case <-l.Done():
		case <-time.After(2 * time.Second):
			t.Error("loop did not stop")
		}
	})
	return l
}

func TestLoop_ScheduleOnceFires(t *testing.T) {
	l := startLoop(t)
	fired := make(chan time.Duration, 1)

	l.ScheduleOnce(func(late time.Duration) { fired <- late }, 10*time.Millisecond)

	select {
	case late := <-fired:
		if late < 0 {
			t.Errorf("negative lateness %v", late)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("one-shot registration never fired")
	}
}

func TestLoop_ScheduleRepeatingFires(t *testing.T) {
	l := startLoop(t)
	fired := make(chan struct{}, 16)

	h := l.ScheduleRepeating(func(time.Duration) { fired <- struct{}{} }, 5*time.Millisecond)

	for i := 0; i < 3; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatalf("repeating registration stalled after %d fires", i)
		}
	}
	l.CancelOnce(h) // shared namespace: either cancel operation works
}

func TestLoop_CancelPreventsFire(t *testing.T) {
	l := startLoop(t)
	fired := make(chan struct{}, 1)

	h := l.ScheduleOnce(func(time.Duration) { fired <- struct{}{} }, 50*time.Millisecond)
	l.CancelRepeating(h) // cross-kind cancel on a one-shot handle

	select {
	case <-fired:
		t.Fatal("canceled registration fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestLoop_ForeignCancelIsNoOp(t *testing.T) {
	l := startLoop(t)
	fired := make(chan struct{}, 1)

	l.ScheduleOnce(func(time.Duration) { fired <- struct{}{} }, 10*time.Millisecond)
	l.CancelOnce(Handle(12345))
	l.CancelRepeating(0)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("registration lost to a foreign cancel")
	}
}

func TestLoop_EarlierRegistrationPreempts(t *testing.T) {
	l := startLoop(t)
	order := make(chan string, 2)

	l.ScheduleOnce(func(time.Duration) { order <- "slow" }, 100*time.Millisecond)
	l.ScheduleOnce(func(time.Duration) { order <- "fast" }, 10*time.Millisecond)

	select {
	case got := <-order:
		if got != "fast" {
			t.Errorf("expected the later-but-sooner registration first, got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("nothing fired")
	}
}

func TestLoop_ReentrantScheduleFromCallback(t *testing.T) {
	l := startLoop(t)
	inner := make(chan struct{}, 1)

	l.ScheduleOnce(func(time.Duration) {
		l.ScheduleOnce(func(time.Duration) { inner <- struct{}{} }, time.Millisecond)
	}, time.Millisecond)

	select {
	case <-inner:
	case <-time.After(2 * time.Second):
		t.Fatal("reentrantly scheduled callback never fired")
	}
}

func TestLoop_StopFromCallback(t *testing.T) {
	l := NewLoop()
	go l.Run()

	l.ScheduleOnce(func(time.Duration) { l.Stop() }, time.Millisecond)

	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop from inside a callback")
	}
}

func TestLoop_StopBeforeRun(t *testing.T) {
	l := NewLoop()
	l.Stop()

	// Done reports Run's exit, so it only closes once Run has been
	// started and observed the stop.
	select {
	case <-l.Done():
		t.Fatal("done closed before Run started")
	default:
	}

	go l.Run()
	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return immediately on a stopped loop")
	}
}

func TestLoop_ScheduleAfterStop(t *testing.T) {
	l := NewLoop()
	go l.Run()
	l.Stop()
	<-l.Done()

	if h := l.ScheduleOnce(func(time.Duration) {}, time.Millisecond); h != 0 {
		t.Errorf("expected the zero handle after stop, got %d", h)
	}
	l.Stop() // idempotent
}

func TestLoop_NilCallbackIgnored(t *testing.T) {
	l := startLoop(t)
	if h := l.ScheduleOnce(nil, time.Millisecond); h != 0 {
		t.Errorf("expected the zero handle for a nil callback, got %d", h)
	}
}
