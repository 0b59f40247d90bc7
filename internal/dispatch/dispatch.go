// Package dispatch provides the action dispatch coordinator: per-key
// trailing-edge debounce, at-most-one in-flight invocation per key, and
// lifecycle reporting through a toast surface.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/moment-festival/momentd/internal/toast"
)

// DefaultDelay is the debounce window applied when Options.Delay is unset.
const DefaultDelay = 300 * time.Millisecond

// fallbackErrorText is shown when a failure carries no message.
const fallbackErrorText = "action failed"

// Notifier is the notification surface consumed by the coordinator.
// *toast.Surface satisfies it.
type Notifier interface {
	Show(kind toast.Kind, text string, opts ...toast.Option) string
	Hide(id string)
}

// Func is a unit of work dispatched under an action key.
type Func func(ctx context.Context) error

// Options configure a wrapped action.
type Options struct {
	// Delay is the trailing-edge debounce window. Zero means DefaultDelay.
	Delay time.Duration
	// LoadingMessage, when set, shows a pending toast while fn runs.
	LoadingMessage string
	// SuccessMessage, when set, shows a success toast after fn returns nil.
	SuccessMessage string
	// ErrorMessage overrides the failure text shown when fn returns an error.
	ErrorMessage string
}

// delay returns the effective debounce window.
func (o Options) delay() time.Duration {
	if o.Delay > 0 {
		return o.Delay
	}
	return DefaultDelay
}

type actionState struct {
	timer   *time.Timer
	running bool
	fn      Func
	opts    Options
}

// Coordinator dispatches actions identified by key. Calls made while an
// invocation is running under the same key are dropped; calls made while
// the debounce window is open reset the window, and only the last one
// proceeds. Failures from fn are absorbed and surfaced solely as error
// toasts, never returned to the trigger site.
//
// Unlike a single-threaded event loop, Go gives no ordering guarantee
// between the check and the set, so all state transitions happen under
// one mutex.
type Coordinator struct {
	mu       sync.Mutex
	notifier Notifier
	actions  map[string]*actionState
}

// New creates a Coordinator reporting through the given notifier.
func New(notifier Notifier) *Coordinator {
	return &Coordinator{
		notifier: notifier,
		actions:  make(map[string]*actionState),
	}
}

// IsPending reports whether key has a running invocation or an open
// debounce window.
func (c *Coordinator) IsPending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actions[key] != nil
}

// Invoke returns a wrapped callable for fn under key. Each call to the
// wrapper is dropped while a previous invocation is running, and otherwise
// arms (or re-arms) the debounce timer.
func (c *Coordinator) Invoke(key string, fn Func, opts Options) func() {
	return func() {
		c.trigger(key, fn, opts)
	}
}

func (c *Coordinator) trigger(key string, fn Func, opts Options) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.actions[key]
	if st != nil && st.running {
		// At most one in-flight invocation per key.
		return
	}
	if st != nil {
		// Window already open: the latest call wins and the window restarts.
		st.fn = fn
		st.opts = opts
		st.timer.Reset(opts.delay())
		return
	}
	st = &actionState{fn: fn, opts: opts}
	st.timer = time.AfterFunc(opts.delay(), func() {
		c.fire(key)
	})
	c.actions[key] = st
}

// fire transitions an action from debouncing to running and executes fn.
func (c *Coordinator) fire(key string) {
	c.mu.Lock()
	st := c.actions[key]
	if st == nil || st.running {
		// Cleared while the timer callback was in flight.
		c.mu.Unlock()
		return
	}
	st.timer = nil
	st.running = true
	fn := st.fn
	opts := st.opts
	c.mu.Unlock()

	var pendingID string
	if opts.LoadingMessage != "" {
		pendingID = c.notifier.Show(toast.KindPending, opts.LoadingMessage)
	}

	// No timeout is enforced here: a hung fn leaves the key pending until
	// Clear is called. See DESIGN.md.
	err := fn(context.Background())

	if pendingID != "" {
		c.notifier.Hide(pendingID)
	}
	if err != nil {
		text := opts.ErrorMessage
		if text == "" {
			text = err.Error()
		}
		if text == "" {
			text = fallbackErrorText
		}
		c.notifier.Show(toast.KindError, text)
	} else if opts.SuccessMessage != "" {
		c.notifier.Show(toast.KindSuccess, opts.SuccessMessage)
	}

	c.mu.Lock()
	// Clear may have dropped the state, and a new invocation may own the
	// key by now. Only remove the state this run started from.
	if c.actions[key] == st {
		delete(c.actions, key)
	}
	c.mu.Unlock()
}

// Clear cancels any open debounce window for key and drops its state
// without emitting notifications. A running fn is not interrupted, but the
// key becomes available for new invocations immediately.
func (c *Coordinator) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked(key)
}

// ClearAll applies Clear to every tracked key.
func (c *Coordinator) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.actions {
		c.clearLocked(key)
	}
}

func (c *Coordinator) clearLocked(key string) {
	st := c.actions[key]
	if st == nil {
		return
	}
	if st.timer != nil {
		st.timer.Stop()
	}
	delete(c.actions, key)
}
