// Package storage provides storage backend selection and implementations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/moment-festival/momentd/internal/colors"
	"github.com/moment-festival/momentd/internal/config"
	"github.com/moment-festival/momentd/internal/festival"
)

const (
	// BackendSQLite selects SQLite-backed storage.
	BackendSQLite = "sqlite"
	// BackendMemory selects in-process storage for tests and ephemeral runs.
	BackendMemory = "memory"

	momentsDBFileName = "momentd.db"
)

var (
	// ErrNotFound indicates that a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a write conflicting with an existing record.
	ErrDuplicate = errors.New("record already exists")
)

// Store defines the persistence operations used by the REST API and seeding.
type Store interface {
	SaveFestival(ctx context.Context, f *festival.Festival) error
	ListFestivals(ctx context.Context) ([]festival.Festival, error)
	GetFestival(ctx context.Context, id string) (*festival.Festival, error)

	SaveDJProfile(ctx context.Context, p *festival.DJProfile) error
	GetDJProfile(ctx context.Context) (*festival.DJProfile, error)

	CreateReservation(ctx context.Context, r *festival.TicketReservation) error
	ListReservations(ctx context.Context, festivalID string) ([]festival.TicketReservation, error)

	SaveMoment(ctx context.Context, m *festival.NFTMoment) error
	ListMoments(ctx context.Context) ([]festival.NFTMoment, error)

	Close() error
}

var _ Store = (*SQLiteStore)(nil)
var _ Store = (*MemoryStore)(nil)

// NewFromConfig creates a storage backend based on configuration.
func NewFromConfig() (Store, error) {
	backend := config.Get("storage_backend", BackendSQLite)
	return NewForBackend(backend)
}

// NewForBackend creates a storage backend for the provided backend name.
func NewForBackend(backend string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		stateDir := config.Get("state_dir", "")
		if stateDir == "" {
			return nil, fmt.Errorf("storage: state_dir is not configured")
		}
		dbPath := filepath.Join(stateDir, momentsDBFileName)
		store, err := NewSQLiteStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("storage: initialize sqlite backend: %w", err)
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		colors.Warning(fmt.Sprintf("unknown storage backend '%s', falling back to sqlite", backend))
		return NewForBackend(BackendSQLite)
	}
}
