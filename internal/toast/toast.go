// Package toast provides the bounded notification surface shared by the
// dispatch coordinator, the TUI and the websocket push hub.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Default bounds for the surface.
const (
	DefaultLimit  = 3
	DefaultExpiry = 4 * time.Second
)

// Kind represents the category of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindPending Kind = "pending"
)

// IsValid checks if the kind is valid.
func (k Kind) IsValid() bool {
	switch k {
	case KindSuccess, KindError, KindInfo, KindPending:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Toast represents a single short-lived user-visible message.
type Toast struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Text      string        `json:"text"`
	Expiry    time.Duration `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

// EventType describes a change on the surface.
type EventType string

const (
	EventShown  EventType = "shown"
	EventHidden EventType = "hidden"
)

// Event is delivered to subscribers whenever the surface changes.
type Event struct {
	Type  EventType `json:"type"`
	Toast Toast     `json:"toast"`
}

// Option customizes a toast before it is shown.
type Option func(*Toast)

// WithExpiry overrides the auto-dismiss duration for a toast.
func WithExpiry(d time.Duration) Option {
	return func(t *Toast) {
		t.Expiry = d
	}
}

// Config configures a Surface. Zero values fall back to the defaults.
type Config struct {
	// Limit is the maximum number of simultaneously visible toasts.
	Limit int
	// DefaultExpiry is the auto-dismiss duration for non-pending toasts.
	DefaultExpiry time.Duration
}

// Surface maintains an insertion-ordered, bounded collection of toasts.
// The oldest toast is evicted when the bound is exceeded. Non-pending
// toasts auto-dismiss after their expiry; pending toasts persist until
// hidden explicitly.
type Surface struct {
	mu      sync.Mutex
	limit   int
	expiry  time.Duration
	entries []Toast
	timers  map[string]*time.Timer
	subs    map[int]func(Event)
	nextSub int
}

// NewSurface creates a Surface with the provided configuration.
func NewSurface(cfg Config) *Surface {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.DefaultExpiry <= 0 {
		cfg.DefaultExpiry = DefaultExpiry
	}
	return &Surface{
		limit:  cfg.Limit,
		expiry: cfg.DefaultExpiry,
		timers: make(map[string]*time.Timer),
		subs:   make(map[int]func(Event)),
	}
}

// Show adds a toast to the surface and returns its ID. When the bound is
// exceeded the oldest toast is evicted first.
func (s *Surface) Show(kind Kind, text string, opts ...Option) string {
	t := Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Text:      text,
		Expiry:    s.expiry,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&t)
	}

	var events []Event

	s.mu.Lock()
	for len(s.entries) >= s.limit {
		evicted := s.entries[0]
		s.entries = s.entries[1:]
		s.stopTimerLocked(evicted.ID)
		events = append(events, Event{Type: EventHidden, Toast: evicted})
	}
	s.entries = append(s.entries, t)
	if t.Kind != KindPending && t.Expiry > 0 {
		id := t.ID
		s.timers[id] = time.AfterFunc(t.Expiry, func() {
			s.Hide(id)
		})
	}
	events = append(events, Event{Type: EventShown, Toast: t})
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, events)
	return t.ID
}

// Hide removes a toast from the surface. Unknown IDs are ignored.
func (s *Surface) Hide(id string) {
	var events []Event

	s.mu.Lock()
	for i, t := range s.entries {
		if t.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.stopTimerLocked(id)
			events = append(events, Event{Type: EventHidden, Toast: t})
			break
		}
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, events)
}

// Active returns a copy of the currently visible toasts in insertion order.
func (s *Surface) Active() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Toast, len(s.entries))
	copy(out, s.entries)
	return out
}

// Subscribe registers a callback for surface events. The returned function
// removes the subscription.
func (s *Surface) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close cancels all auto-dismiss timers. Entries are left in place.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Surface) stopTimerLocked(id string) {
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Surface) subscribersLocked() []func(Event) {
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

// notify delivers events outside the surface lock so subscribers can call
// back into the surface.
func notify(subs []func(Event), events []Event) {
	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}
