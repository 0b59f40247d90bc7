package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moment-festival/momentd/internal/festival"
	"github.com/moment-festival/momentd/internal/seed"
	"github.com/moment-festival/momentd/internal/storage"
	"github.com/moment-festival/momentd/internal/toast"
)

// recordingSurface captures toasts shown by handlers.
type recordingSurface struct {
	mu    sync.Mutex
	shown []toast.Toast
}

func (r *recordingSurface) Show(kind toast.Kind, text string, opts ...toast.Option) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, toast.Toast{Kind: kind, Text: text})
	return "id"
}

func newTestServer(t *testing.T) (*httptest.Server, storage.Store, *recordingSurface) {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, seed.Run(context.Background(), store))

	surface := &recordingSurface{}
	srv := httptest.NewServer(New(store, surface, nil).Routes())
	t.Cleanup(srv.Close)
	return srv, store, surface
}

func get(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var body map[string]string
	status := get(t, srv.URL+"/healthz", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestListFestivals(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var festivals []festival.Festival
	status := get(t, srv.URL+"/api/festivals", &festivals)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, festivals, 1)
	assert.Equal(t, "Moment Festival", festivals[0].Name)
}

func TestGetFestivalByID(t *testing.T) {
	srv, store, _ := newTestServer(t)

	festivals, err := store.ListFestivals(context.Background())
	require.NoError(t, err)

	var f festival.Festival
	status := get(t, srv.URL+"/api/festivals/"+festivals[0].ID, &f)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, festivals[0].ID, f.ID)

	status = get(t, srv.URL+"/api/festivals/unknown", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetDJProfile(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var p festival.DJProfile
	status := get(t, srv.URL+"/api/dj-profile", &p)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "DJ Senoh", p.StageName)
}

func TestDJProfileNotFound(t *testing.T) {
	store := storage.NewMemoryStore()
	srv := httptest.NewServer(New(store, nil, nil).Routes())
	t.Cleanup(srv.Close)

	status := get(t, srv.URL+"/api/dj-profile", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListMoments(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var moments []festival.NFTMoment
	status := get(t, srv.URL+"/api/nft-moments", &moments)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, moments, 3)
	assert.Equal(t, festival.RarityLegendary, moments[0].Rarity)
}

func TestCreateReservation(t *testing.T) {
	srv, store, surface := newTestServer(t)

	festivals, err := store.ListFestivals(context.Background())
	require.NoError(t, err)

	payload := map[string]any{
		"festival_id": festivals[0].ID,
		"name":        "Taro",
		"email":       "taro@example.com",
		"phone":       "090-0000-0000",
		"ticket_type": "vip",
		"quantity":    2,
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/ticket-reservation", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reservation festival.TicketReservation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reservation))
	assert.NotEmpty(t, reservation.ID)
	assert.Equal(t, 70000, reservation.TotalPrice)
	assert.Equal(t, festival.StatusPending, reservation.Status)
	assert.False(t, reservation.CreatedAt.IsZero())

	stored, err := store.ListReservations(context.Background(), festivals[0].ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	surface.mu.Lock()
	defer surface.mu.Unlock()
	require.Len(t, surface.shown, 1)
	assert.Equal(t, toast.KindSuccess, surface.shown[0].Kind)
	assert.Contains(t, surface.shown[0].Text, "Moment Festival")
}

func TestCreateReservationUnknownFestival(t *testing.T) {
	srv, _, surface := newTestServer(t)

	payload := map[string]any{
		"festival_id": "unknown",
		"name":        "Taro",
		"email":       "taro@example.com",
		"phone":       "090-0000-0000",
		"ticket_type": "regular",
		"quantity":    1,
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/ticket-reservation", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	surface.mu.Lock()
	defer surface.mu.Unlock()
	assert.Empty(t, surface.shown)
}

func TestCreateReservationInvalidPayload(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{name: "missing body fields", payload: map[string]any{"festival_id": "x"}},
		{
			name: "bad email",
			payload: map[string]any{
				"festival_id": "x", "name": "Taro", "email": "nope",
				"phone": "1", "ticket_type": "regular", "quantity": 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.payload)
			require.NoError(t, err)
			resp, err := http.Post(srv.URL+"/api/ticket-reservation", "application/json", bytes.NewReader(body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/festivals", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestEmptyStoreListsReturnEmptyArrays(t *testing.T) {
	store := storage.NewMemoryStore()
	srv := httptest.NewServer(New(store, nil, nil).Routes())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/festivals")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var festivals []festival.Festival
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&festivals))
	assert.NotNil(t, festivals)
	assert.Empty(t, festivals)

	// moments behave the same
	var moments []festival.NFTMoment
	status := get(t, srv.URL+"/api/nft-moments", &moments)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, moments)
}
