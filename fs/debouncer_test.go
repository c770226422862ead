package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

type processedEvent struct {
	name      string
	eventType EventType
}

// recorder collects debouncer callbacks
type recorder struct {
	mu     sync.Mutex
	events []processedEvent
}

func (r *recorder) record(name string, eventType EventType) {
	r.mu.Lock()
	r.events = append(r.events, processedEvent{name, eventType})
	r.mu.Unlock()
}

func (r *recorder) snapshot() []processedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]processedEvent(nil), r.events...)
}

func TestDebouncer_CoalescesRapidWrites(t *testing.T) {
	r := &recorder{}
	d := newDebouncer(50*time.Millisecond, r.record)
	defer d.Stop()

	// TodoWrite rewrites the whole file; editors may emit several events
	for i := 0; i < 5; i++ {
		d.Queue("session.json", EventWrite)
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	processed := r.snapshot()
	if len(processed) != 1 {
		t.Fatalf("expected 1 processed event, got %d", len(processed))
	}
	if processed[0].name != "session.json" {
		t.Errorf("expected name 'session.json', got '%s'", processed[0].name)
	}
	if processed[0].eventType != EventWrite {
		t.Errorf("expected EventWrite, got %v", processed[0].eventType)
	}
}

func TestDebouncer_DeleteIsImmediate(t *testing.T) {
	done := make(chan EventType, 1)

	d := newDebouncer(100*time.Millisecond, func(name string, eventType EventType) {
		done <- eventType
	})
	defer d.Stop()

	d.Queue("session.json", EventDelete)

	select {
	case got := <-done:
		if got != EventDelete {
			t.Errorf("expected EventDelete, got %v", got)
		}
	case <-time.After(50 * time.Millisecond):
		t.Error("delete was not processed immediately")
	}
}

func TestDebouncer_ZeroDelayIsImmediate(t *testing.T) {
	done := make(chan string, 2)

	d := newDebouncer(0, func(name string, eventType EventType) {
		done <- name
	})
	defer d.Stop()

	d.Queue("a.json", EventWrite)

	select {
	case got := <-done:
		if got != "a.json" {
			t.Errorf("expected a.json, got %s", got)
		}
	case <-time.After(50 * time.Millisecond):
		t.Error("zero delay should not wait for a timer")
	}

	if d.PendingCount() != 0 {
		t.Errorf("expected nothing pending, got %d", d.PendingCount())
	}
}

func TestDebouncer_ResetTimerOnNewEvent(t *testing.T) {
	var processedAt []time.Time
	var mu sync.Mutex

	d := newDebouncer(50*time.Millisecond, func(name string, eventType EventType) {
		mu.Lock()
		processedAt = append(processedAt, time.Now())
		mu.Unlock()
	})
	defer d.Stop()

	startTime := time.Now()

	d.Queue("session.json", EventWrite)
	time.Sleep(25 * time.Millisecond)
	d.Queue("session.json", EventWrite)
	time.Sleep(25 * time.Millisecond)
	d.Queue("session.json", EventWrite)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if len(processedAt) != 1 {
		t.Fatalf("expected 1 processed event, got %d", len(processedAt))
	}

	// ~100ms: two resets plus the final delay
	if elapsed := processedAt[0].Sub(startTime); elapsed < 90*time.Millisecond {
		t.Errorf("event processed too early: %v", elapsed)
	}
}

func TestDebouncer_IndependentNames(t *testing.T) {
	r := &recorder{}
	d := newDebouncer(50*time.Millisecond, r.record)
	defer d.Stop()

	d.Queue("a.json", EventWrite)
	d.Queue("b.json", EventWrite)
	d.Queue("c-agent-d.json", EventWrite)

	time.Sleep(100 * time.Millisecond)

	processed := r.snapshot()
	if len(processed) != 3 {
		t.Fatalf("expected 3 processed events, got %d", len(processed))
	}

	found := make(map[string]bool)
	for _, p := range processed {
		found[p.name] = true
	}
	for _, expected := range []string{"a.json", "b.json", "c-agent-d.json"} {
		if !found[expected] {
			t.Errorf("expected %s to be processed", expected)
		}
	}
}

func TestDebouncer_CreateOverridesWrite(t *testing.T) {
	r := &recorder{}
	d := newDebouncer(50*time.Millisecond, r.record)
	defer d.Stop()

	d.Queue("session.json", EventWrite)
	d.Queue("session.json", EventCreate)

	time.Sleep(100 * time.Millisecond)

	processed := r.snapshot()
	if len(processed) != 1 || processed[0].eventType != EventCreate {
		t.Errorf("expected a single EventCreate, got %v", processed)
	}
}

func TestDebouncer_DeleteCancelsPending(t *testing.T) {
	r := &recorder{}
	d := newDebouncer(100*time.Millisecond, r.record)
	defer d.Stop()

	d.Queue("session.json", EventWrite)
	d.Queue("session.json", EventDelete)

	time.Sleep(150 * time.Millisecond)

	processed := r.snapshot()
	if len(processed) != 1 || processed[0].eventType != EventDelete {
		t.Errorf("expected only delete to be processed, got %v", processed)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	r := &recorder{}
	d := newDebouncer(50*time.Millisecond, r.record)

	d.Queue("session.json", EventWrite)
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	if n := len(r.snapshot()); n != 0 {
		t.Errorf("expected no calls after Stop, got %d", n)
	}
}

func TestDebouncer_PendingCount(t *testing.T) {
	d := newDebouncer(100*time.Millisecond, func(name string, eventType EventType) {})
	defer d.Stop()

	if d.PendingCount() != 0 {
		t.Error("expected 0 pending initially")
	}

	d.Queue("a.json", EventWrite)
	d.Queue("b.json", EventWrite)

	if d.PendingCount() != 2 {
		t.Errorf("expected 2 pending, got %d", d.PendingCount())
	}

	time.Sleep(150 * time.Millisecond)

	if d.PendingCount() != 0 {
		t.Errorf("expected 0 pending after processing, got %d", d.PendingCount())
	}
}

func TestDebouncer_QueueAfterStop(t *testing.T) {
	d := newDebouncer(50*time.Millisecond, func(name string, eventType EventType) {
		t.Error("should not be called after stop")
	})

	d.Stop()

	if d.Queue("session.json", EventWrite) {
		t.Error("expected Queue to return false after Stop")
	}
	if d.Queue("session.json", EventDelete) {
		t.Error("expected Queue to return false for delete after Stop")
	}

	time.Sleep(100 * time.Millisecond)
}

func TestEventTypeOf(t *testing.T) {
	cases := []struct {
		op   fsnotify.Op
		want EventType
	}{
		{fsnotify.Create, EventCreate},
		{fsnotify.Write, EventWrite},
		{fsnotify.Chmod, EventWrite},
		{fsnotify.Remove, EventDelete},
		{fsnotify.Rename, EventDelete},
		{fsnotify.Create | fsnotify.Write, EventCreate},
	}
	for _, tc := range cases {
		if got := eventTypeOf(tc.op); got != tc.want {
			t.Errorf("eventTypeOf(%v) = %v, want %v", tc.op, got, tc.want)
		}
	}
}

func TestDebouncer_ResetDropsPendingButKeepsQueueing(t *testing.T) {
	r := &recorder{}
	d := newDebouncer(50*time.Millisecond, r.record)
	defer d.Stop()

	d.Queue("old.json", EventWrite)
	d.Reset()

	if d.PendingCount() != 0 {
		t.Fatalf("expected no pending events after reset, got %d", d.PendingCount())
	}

	if !d.Queue("new.json", EventWrite) {
		t.Fatal("queue rejected event after reset")
	}

	time.Sleep(120 * time.Millisecond)

	processed := r.snapshot()
	if len(processed) != 1 || processed[0].name != "new.json" {
		t.Fatalf("expected only new.json to be processed, got %v", processed)
	}
}
