// Package tui implements the momentd notification console, a bubbletea
// program that mirrors the live toast surface and triggers debounced
// actions against the festival store.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moment-festival/momentd/internal/dispatch"
	"github.com/moment-festival/momentd/internal/festival"
	"github.com/moment-festival/momentd/internal/storage"
	"github.com/moment-festival/momentd/internal/toast"
)

const (
	headerFooterLines     = 4
	defaultViewportWidth  = 80
	defaultViewportHeight = 20
	eventBufferSize       = 32
)

// toastEventMsg wraps a toast surface event for the bubbletea loop.
type toastEventMsg toast.Event

// statsMsg carries store counts for the header line.
type statsMsg struct {
	festivals    int
	reservations int
	moments      int
}

// statsFailedMsg is sent when the store counts could not be loaded.
type statsFailedMsg struct {
	err error
}

// Model is the bubbletea model for the notification console.
type Model struct {
	store       storage.Store
	surface     *toast.Surface
	coordinator *dispatch.Coordinator

	events      chan toast.Event
	unsubscribe func()

	refresh func()
	reserve func()

	viewport viewport.Model
	toasts   []toast.Toast
	stats    statsMsg
	statsErr error
	ready    bool
	quitting bool
}

// NewModel creates a console model over the given store and surface.
// Actions triggered from the console go through the coordinator, so
// repeated keypresses within the debounce window collapse into one run.
// delay is the debounce window for console actions; zero means the
// coordinator default.
func NewModel(store storage.Store, surface *toast.Surface, coordinator *dispatch.Coordinator, delay time.Duration) *Model {
	m := &Model{
		store:       store,
		surface:     surface,
		coordinator: coordinator,
		events:      make(chan toast.Event, eventBufferSize),
		viewport:    viewport.New(defaultViewportWidth, defaultViewportHeight),
	}

	m.unsubscribe = surface.Subscribe(func(ev toast.Event) {
		select {
		case m.events <- ev:
		default:
			// A stalled console must not block the surface.
		}
	})

	m.refresh = coordinator.Invoke("console-refresh", m.refreshFestivals, dispatch.Options{
		Delay:          delay,
		LoadingMessage: "Refreshing festivals...",
		SuccessMessage: "Festivals refreshed",
	})
	m.reserve = coordinator.Invoke("console-reserve", m.reserveSample, dispatch.Options{
		Delay:          delay,
		LoadingMessage: "Reserving sample ticket...",
		SuccessMessage: "Sample ticket reserved",
	})

	return m
}

// Init starts the event pump and the initial stats load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.loadStats())
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case toastEventMsg:
		m.toasts = m.surface.Active()
		m.syncViewport()
		return m, tea.Batch(m.waitForEvent(), m.loadStats())
	case statsMsg:
		m.stats = msg
		m.statsErr = nil
		return m, nil
	case statsFailedMsg:
		m.statsErr = msg.err
		return m, nil
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerFooterLines
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
		m.ready = true
		m.syncViewport()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, m.quit()
	case "r":
		m.refresh()
		return m, nil
	case "b":
		m.reserve()
		return m, nil
	case "d":
		m.dismissOldest()
		return m, nil
	case "up", "k":
		m.viewport.LineUp(1)
		return m, nil
	case "down", "j":
		m.viewport.LineDown(1)
		return m, nil
	}
	return m, nil
}

// quit tears down the subscription and pending actions before exiting.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.coordinator.ClearAll()
	return tea.Quit
}

// dismissOldest hides the oldest visible toast, which is the only way a
// pending toast leaves the surface.
func (m *Model) dismissOldest() {
	if len(m.toasts) == 0 {
		return
	}
	m.surface.Hide(m.toasts[0].ID)
}

// waitForEvent blocks on the next surface event.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return toastEventMsg(ev)
	}
}

// loadStats reads the header counters from the store.
func (m *Model) loadStats() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		festivals, err := m.store.ListFestivals(ctx)
		if err != nil {
			return statsFailedMsg{err: err}
		}
		reservations, err := m.store.ListReservations(ctx, "")
		if err != nil {
			return statsFailedMsg{err: err}
		}
		moments, err := m.store.ListMoments(ctx)
		if err != nil {
			return statsFailedMsg{err: err}
		}
		return statsMsg{
			festivals:    len(festivals),
			reservations: len(reservations),
			moments:      len(moments),
		}
	}
}

// refreshFestivals is the debounced refresh action. Its outcome reaches
// the console through the toast surface, not through a return value.
func (m *Model) refreshFestivals(ctx context.Context) error {
	_, err := m.store.ListFestivals(ctx)
	return err
}

// reserveSample books one regular ticket against the first festival.
func (m *Model) reserveSample(ctx context.Context) error {
	festivals, err := m.store.ListFestivals(ctx)
	if err != nil {
		return err
	}
	if len(festivals) == 0 {
		return fmt.Errorf("no festival available")
	}
	reservation := festival.NewReservation(festival.ReservationRequest{
		FestivalID: festivals[0].ID,
		Name:       "Console Guest",
		Email:      "console@moment.fes",
		Phone:      "000-0000-0000",
		TicketType: festival.TicketRegular,
		Quantity:   1,
	})
	return m.store.CreateReservation(ctx, reservation)
}

func (m *Model) syncViewport() {
	m.viewport.SetContent(renderToasts(m.toasts, m.viewport.Width))
}
