package fs

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of filesystem event
type EventType int

const (
	EventCreate EventType = iota
	EventWrite
	EventDelete
)

// DefaultDebounceDelay coalesces the burst of events an editor or the
// TodoWrite tool produces for a single save.
const DefaultDebounceDelay = 100 * time.Millisecond

// String returns the string representation of an EventType
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventWrite:
		return "write"
	case EventDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// eventTypeOf maps an fsnotify op onto the coarser EventType.
// Rename means the name is gone from the watched directory.
func eventTypeOf(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return EventDelete
	case op.Has(fsnotify.Create):
		return EventCreate
	default:
		return EventWrite
	}
}

// debouncer coalesces rapid filesystem events for the same file name.
// Events are processed after a delay with no new events for that name.
// DELETE events and a zero delay bypass the timer.
type debouncer struct {
	pending   map[string]*pendingEvent
	mu        sync.Mutex
	delay     time.Duration
	onProcess func(name string, eventType EventType)
	stopping  atomic.Bool // Prevents new events during shutdown
}

// pendingEvent represents a queued event waiting to be processed
type pendingEvent struct {
	name      string
	timer     *time.Timer
	eventType EventType
}

// newDebouncer creates a debouncer with specified delay
func newDebouncer(delay time.Duration, onProcess func(name string, eventType EventType)) *debouncer {
	return &debouncer{
		pending:   make(map[string]*pendingEvent),
		delay:     delay,
		onProcess: onProcess,
	}
}

// Queue adds an event to the debounce queue.
// New events for the same name reset the timer.
// Returns false if the debouncer is stopping and the event was ignored.
func (d *debouncer) Queue(name string, eventType EventType) bool {
	if d.stopping.Load() {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Double-check after acquiring lock (prevents race with Stop)
	if d.stopping.Load() {
		return false
	}

	if eventType == EventDelete || d.delay <= 0 {
		if p, ok := d.pending[name]; ok {
			p.timer.Stop()
			delete(d.pending, name)
		}
		go d.onProcess(name, eventType)
		return true
	}

	if p, ok := d.pending[name]; ok {
		// Reset returns false when the timer already fired; onTimer may have
		// removed the entry, so start over with a fresh one.
		if !p.timer.Reset(d.delay) {
			d.pending[name] = d.schedule(name, eventType)
		} else if eventType == EventCreate {
			// CREATE then WRITE is still a create
			p.eventType = EventCreate
		}
		return true
	}

	d.pending[name] = d.schedule(name, eventType)
	return true
}

// schedule starts the timer for a new pending event. Caller holds d.mu.
func (d *debouncer) schedule(name string, eventType EventType) *pendingEvent {
	timer := time.AfterFunc(d.delay, func() {
		d.onTimer(name)
	})
	return &pendingEvent{
		name:      name,
		timer:     timer,
		eventType: eventType,
	}
}

// onTimer fires when debounce delay expires
func (d *debouncer) onTimer(name string) {
	d.mu.Lock()
	p, ok := d.pending[name]
	if ok {
		delete(d.pending, name)
	}
	d.mu.Unlock()

	if ok && !d.stopping.Load() {
		d.onProcess(name, p.eventType)
	}
}

// Stop cancels all pending events and prevents new ones from being queued.
func (d *debouncer) Stop() {
	d.stopping.Store(true)

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, p := range d.pending {
		p.timer.Stop()
	}
	d.pending = make(map[string]*pendingEvent)
}

// Reset drops all pending events but keeps accepting new ones
func (d *debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, p := range d.pending {
		p.timer.Stop()
	}
	d.pending = make(map[string]*pendingEvent)
}

// PendingCount returns the number of pending events (for testing)
func (d *debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
