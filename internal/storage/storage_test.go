package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moment-festival/momentd/internal/festival"
)

// backends returns a named constructor for every Store implementation so the
// conformance tests below run against each of them.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "momentd.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
	}
}

func sampleFestival() *festival.Festival {
	return &festival.Festival{
		ID:          festival.NewID(),
		Name:        "Moment Festival",
		Year:        2025,
		Location:    "Tenkawa, Nara",
		Date:        "2025-07-26",
		Description: "Open-air electronic music in a sacred forest.",
		VenueInfo: map[string]any{
			"name":   "Forest Inn Dorogawa",
			"access": "car or bus from Osaka",
		},
		SoundSystem: map[string]any{"primary": "Alcons Audio"},
		FamilyServices: []map[string]any{
			{"name": "kids area", "icon": "👶"},
		},
		TicketInfo: map[string]any{
			"regular": map[string]any{"price": float64(18000)},
		},
		CreatedAt: festival.Now(),
	}
}

func TestFestivalRoundTrip(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			f := sampleFestival()
			require.NoError(t, store.SaveFestival(ctx, f))

			got, err := store.GetFestival(ctx, f.ID)
			require.NoError(t, err)
			assert.Equal(t, f.Name, got.Name)
			assert.Equal(t, f.Year, got.Year)
			assert.Equal(t, "Alcons Audio", got.SoundSystem["primary"])
			require.Len(t, got.FamilyServices, 1)
			assert.Equal(t, "kids area", got.FamilyServices[0]["name"])

			festivals, err := store.ListFestivals(ctx)
			require.NoError(t, err)
			require.Len(t, festivals, 1)
		})
	}
}

func TestGetFestivalNotFound(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			_, err := store.GetFestival(context.Background(), "does-not-exist")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSaveFestivalReplacesByID(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			f := sampleFestival()
			require.NoError(t, store.SaveFestival(ctx, f))
			f.Description = "updated"
			require.NoError(t, store.SaveFestival(ctx, f))

			festivals, err := store.ListFestivals(ctx)
			require.NoError(t, err)
			require.Len(t, festivals, 1)
			assert.Equal(t, "updated", festivals[0].Description)
		})
	}
}

func TestDJProfileRoundTrip(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			_, err := store.GetDJProfile(ctx)
			require.ErrorIs(t, err, ErrNotFound)

			p := &festival.DJProfile{
				ID:          festival.NewID(),
				Name:        "Mike Senoh",
				StageName:   "DJ Senoh",
				Location:    "Osaka",
				MusicStyles: []string{"Psytrance", "Techno"},
				CareerStart: 2004,
				Bio:         "Resident DJ and festival organizer.",
				Philosophy:  map[string]any{"meditation": map[string]any{"icon": "🧘"}},
				Timeline:    []map[string]any{{"year": float64(2004), "event": "debut"}},
				SocialLinks: map[string]string{"soundcloud": "@djsenoh"},
				CreatedAt:   festival.Now(),
			}
			require.NoError(t, store.SaveDJProfile(ctx, p))

			got, err := store.GetDJProfile(ctx)
			require.NoError(t, err)
			assert.Equal(t, "DJ Senoh", got.StageName)
			assert.Equal(t, []string{"Psytrance", "Techno"}, got.MusicStyles)
			assert.Equal(t, "@djsenoh", got.SocialLinks["soundcloud"])
		})
	}
}

func TestReservationsCreateAndList(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			f := sampleFestival()
			require.NoError(t, store.SaveFestival(ctx, f))

			r1 := festival.NewReservation(festival.ReservationRequest{
				FestivalID: f.ID,
				Name:       "Taro",
				Email:      "taro@example.com",
				Phone:      "090-0000-0000",
				TicketType: festival.TicketFamily,
				Quantity:   1,
			})
			r2 := festival.NewReservation(festival.ReservationRequest{
				FestivalID: "other-festival",
				Name:       "Hanako",
				Email:      "hanako@example.com",
				Phone:      "090-1111-1111",
				TicketType: festival.TicketRegular,
				Quantity:   2,
			})
			require.NoError(t, store.CreateReservation(ctx, r1))
			require.NoError(t, store.CreateReservation(ctx, r2))

			all, err := store.ListReservations(ctx, "")
			require.NoError(t, err)
			require.Len(t, all, 2)

			filtered, err := store.ListReservations(ctx, f.ID)
			require.NoError(t, err)
			require.Len(t, filtered, 1)
			assert.Equal(t, "Taro", filtered[0].Name)
			assert.Equal(t, 40000, filtered[0].TotalPrice)
			assert.Equal(t, festival.StatusPending, filtered[0].Status)
		})
	}
}

func TestCreateReservationDuplicateID(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			r := festival.NewReservation(festival.ReservationRequest{
				FestivalID: "fest-1",
				Name:       "Taro",
				Email:      "taro@example.com",
				Phone:      "090-0000-0000",
				TicketType: festival.TicketRegular,
				Quantity:   1,
			})
			require.NoError(t, store.CreateReservation(ctx, r))
			require.ErrorIs(t, store.CreateReservation(ctx, r), ErrDuplicate)
		})
	}
}

func TestMomentsRoundTrip(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			m := &festival.NFTMoment{
				ID:              festival.NewID(),
				Title:           "Sunrise Moment #001",
				Description:     "Sunrise over the valley.",
				ImageBase64:     "data:image/svg+xml;base64,abc",
				MomentTimestamp: "2024-07-26T06:30:00Z",
				Rarity:          festival.RarityLegendary,
				Attributes:      map[string]any{"time": "Sunrise"},
				CreatedAt:       festival.Now(),
			}
			require.NoError(t, store.SaveMoment(ctx, m))

			moments, err := store.ListMoments(ctx)
			require.NoError(t, err)
			require.Len(t, moments, 1)
			assert.Equal(t, festival.RarityLegendary, moments[0].Rarity)
			assert.Equal(t, "Sunrise", moments[0].Attributes["time"])
		})
	}
}

func TestNewForBackendMemory(t *testing.T) {
	store, err := NewForBackend("memory")
	require.NoError(t, err)
	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
}
