package storage

import (
	"context"
	"sync"

	"github.com/moment-festival/momentd/internal/festival"
)

// MemoryStore implements Store with in-process maps. It is used by tests
// and by runs that do not need persistence.
type MemoryStore struct {
	mu           sync.RWMutex
	festivals    []festival.Festival
	profile      *festival.DJProfile
	reservations []festival.TicketReservation
	moments      []festival.NFTMoment
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveFestival inserts or replaces a festival by ID.
func (m *MemoryStore) SaveFestival(ctx context.Context, f *festival.Festival) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.festivals {
		if m.festivals[i].ID == f.ID {
			m.festivals[i] = *f
			return nil
		}
	}
	m.festivals = append(m.festivals, *f)
	return nil
}

// ListFestivals returns festivals in insertion order.
func (m *MemoryStore) ListFestivals(ctx context.Context) ([]festival.Festival, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]festival.Festival, len(m.festivals))
	copy(out, m.festivals)
	return out, nil
}

// GetFestival returns the festival with the given ID.
func (m *MemoryStore) GetFestival(ctx context.Context, id string) (*festival.Festival, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.festivals {
		if m.festivals[i].ID == id {
			f := m.festivals[i]
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

// SaveDJProfile stores the resident DJ profile.
func (m *MemoryStore) SaveDJProfile(ctx context.Context, p *festival.DJProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile := *p
	m.profile = &profile
	return nil
}

// GetDJProfile returns the resident DJ profile.
func (m *MemoryStore) GetDJProfile(ctx context.Context) (*festival.DJProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile == nil {
		return nil, ErrNotFound
	}
	profile := *m.profile
	return &profile, nil
}

// CreateReservation appends a new reservation.
func (m *MemoryStore) CreateReservation(ctx context.Context, r *festival.TicketReservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reservations {
		if m.reservations[i].ID == r.ID {
			return ErrDuplicate
		}
	}
	m.reservations = append(m.reservations, *r)
	return nil
}

// ListReservations returns reservations, optionally filtered by festival.
func (m *MemoryStore) ListReservations(ctx context.Context, festivalID string) ([]festival.TicketReservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []festival.TicketReservation
	for _, r := range m.reservations {
		if festivalID == "" || r.FestivalID == festivalID {
			out = append(out, r)
		}
	}
	return out, nil
}

// SaveMoment inserts or replaces an NFT moment by ID.
func (m *MemoryStore) SaveMoment(ctx context.Context, moment *festival.NFTMoment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.moments {
		if m.moments[i].ID == moment.ID {
			m.moments[i] = *moment
			return nil
		}
	}
	m.moments = append(m.moments, *moment)
	return nil
}

// ListMoments returns NFT moments in insertion order.
func (m *MemoryStore) ListMoments(ctx context.Context) ([]festival.NFTMoment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]festival.NFTMoment, len(m.moments))
	copy(out, m.moments)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
