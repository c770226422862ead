package notifications

import (
	"sync"
	"time"

	"github.com/xiaoyuanzhu-com/claude-todo-viewer/claude/models"
)

// EventType represents the type of notification event
type EventType string

const (
	EventConnected        EventType = "connected"
	EventSessionsUpdated  EventType = "sessions-updated"
	EventTodosUpdated     EventType = "todos-updated"
	EventDirectoryChanged EventType = "directory-changed"
)

// subscriberBufferSize is how many events a slow subscriber may lag behind
const subscriberBufferSize = 10

// Event represents a notification event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Dir       string    `json:"dir,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Service fans events out to SSE and WebSocket subscribers
type Service struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	closed      bool
}

// NewService creates a new notification service
func NewService() *Service {
	return &Service{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe creates a new subscription channel
// Returns the event channel and an unsubscribe function
func (s *Service) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBufferSize)

	s.mu.Lock()
	if s.closed {
		close(ch)
	} else {
		s.subscribers[ch] = struct{}{}
	}
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		// Only close if the channel is still in subscribers map
		if _, exists := s.subscribers[ch]; exists {
			delete(s.subscribers, ch)
			close(ch)
		}
	}

	return ch, unsubscribe
}

// Notify broadcasts an event to all subscribers
func (s *Service) Notify(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip this subscriber
		}
	}
}

// NotifySessionsUpdated sends the fresh session list of dir
func (s *Service) NotifySessionsUpdated(dir string, sessions []models.SessionFile) {
	if sessions == nil {
		sessions = []models.SessionFile{}
	}
	s.Notify(Event{
		Type: EventSessionsUpdated,
		Dir:  dir,
		Data: sessions,
	})
}

// NotifyTodosUpdated sends the re-read todos of the selected session
func (s *Service) NotifyTodosUpdated(result models.TodoResult) {
	s.Notify(Event{
		Type: EventTodosUpdated,
		Data: result,
	})
}

// NotifyDirectoryChanged tells clients the watched directory moved
func (s *Service) NotifyDirectoryChanged(dir string) {
	s.Notify(Event{
		Type: EventDirectoryChanged,
		Dir:  dir,
	})
}

// Shutdown closes every subscriber channel; later subscriptions are closed immediately
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	for ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = make(map[chan Event]struct{})
}

// SubscriberCount returns the number of active subscribers
func (s *Service) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}
