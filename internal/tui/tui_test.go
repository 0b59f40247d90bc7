package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moment-festival/momentd/internal/dispatch"
	"github.com/moment-festival/momentd/internal/storage"
	"github.com/moment-festival/momentd/internal/toast"
)

func newTestModel(t *testing.T) (*Model, *toast.Surface) {
	t.Helper()
	store := storage.NewMemoryStore()
	surface := toast.NewSurface(toast.Config{Limit: 3, DefaultExpiry: time.Minute})
	t.Cleanup(surface.Close)
	coordinator := dispatch.New(surface)
	return NewModel(store, surface, coordinator, 0), surface
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestToastEventReachesModel(t *testing.T) {
	m, surface := newTestModel(t)

	surface.Show(toast.KindInfo, "doors open at noon")

	msg := m.waitForEvent()()
	ev, ok := msg.(toastEventMsg)
	require.True(t, ok)
	assert.Equal(t, toast.EventShown, ev.Type)

	_, cmd := m.Update(msg)
	assert.NotNil(t, cmd)
	require.Len(t, m.toasts, 1)
	assert.Equal(t, "doors open at noon", m.toasts[0].Text)
}

func TestDismissHidesOldestToast(t *testing.T) {
	m, surface := newTestModel(t)

	surface.Show(toast.KindPending, "first")
	surface.Show(toast.KindInfo, "second")
	m.toasts = surface.Active()

	m.Update(keyMsg('d'))

	active := surface.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Text)
}

func TestDismissOnEmptySurfaceIsANoop(t *testing.T) {
	m, surface := newTestModel(t)

	m.Update(keyMsg('d'))
	assert.Empty(t, surface.Active())
}

func TestQuitUnsubscribesAndClearsActions(t *testing.T) {
	m, surface := newTestModel(t)

	m.coordinator.Invoke("lingering", func(ctx context.Context) error { return nil }, dispatch.Options{})()
	require.True(t, m.coordinator.IsPending("lingering"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
	assert.False(t, m.coordinator.IsPending("lingering"))

	// Events after quit no longer reach the console channel.
	surface.Show(toast.KindInfo, "late")
	select {
	case ev := <-m.events:
		t.Fatalf("unexpected event after unsubscribe: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBookKeyArmsDebouncedAction(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(keyMsg('b'))
	m.Update(keyMsg('b'))
	assert.True(t, m.coordinator.IsPending("console-reserve"))
}

func TestStatsMsgUpdatesHeader(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(statsMsg{festivals: 1, reservations: 2, moments: 3})
	assert.Equal(t, "festivals: 1  reservations: 2  moments: 3", m.statsLine())

	m.Update(statsFailedMsg{err: context.DeadlineExceeded})
	assert.Contains(t, m.statsLine(), "store unavailable")
}

func TestLoadStatsCountsStore(t *testing.T) {
	m, _ := newTestModel(t)

	msg := m.loadStats()()
	stats, ok := msg.(statsMsg)
	require.True(t, ok)
	assert.Zero(t, stats.festivals)
	assert.Zero(t, stats.reservations)
	assert.Zero(t, stats.moments)
}

func TestReserveSampleFailsWithoutFestival(t *testing.T) {
	m, _ := newTestModel(t)

	err := m.reserveSample(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no festival available")
}

func TestRenderToastsEmpty(t *testing.T) {
	out := renderToasts(nil, 80)
	assert.Contains(t, out, emptyMessage)
}

func TestRenderToastsOrderAndKinds(t *testing.T) {
	now := time.Now()
	out := renderToasts([]toast.Toast{
		{ID: "1", Kind: toast.KindPending, Text: "saving", CreatedAt: now},
		{ID: "2", Kind: toast.KindSuccess, Text: "saved", CreatedAt: now},
	}, 80)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "saving")
	assert.Contains(t, lines[0], "[pending]")
	assert.Contains(t, lines[1], "saved")
	assert.Contains(t, lines[1], "[success]")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel...", truncate("hello world", 6))
	assert.Equal(t, "he", truncate("hello", 2))
	assert.Equal(t, "hello", truncate("hello", 0))
}

func TestViewShowsHelpAndTitle(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "momentd console")
	assert.Contains(t, view, "q: quit")

	m.quitting = true
	assert.Empty(t, m.View())
}
