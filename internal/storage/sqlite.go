package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/moment-festival/momentd/internal/festival"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS festivals (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	year            INTEGER NOT NULL,
	location        TEXT NOT NULL DEFAULT '',
	date            TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	venue_info      TEXT NOT NULL DEFAULT '{}',
	sound_system    TEXT NOT NULL DEFAULT '{}',
	family_services TEXT NOT NULL DEFAULT '[]',
	ticket_info     TEXT NOT NULL DEFAULT '{}',
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dj_profiles (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	stage_name   TEXT NOT NULL UNIQUE,
	location     TEXT NOT NULL DEFAULT '',
	music_styles TEXT NOT NULL DEFAULT '[]',
	career_start INTEGER NOT NULL DEFAULT 0,
	bio          TEXT NOT NULL DEFAULT '',
	philosophy   TEXT NOT NULL DEFAULT '{}',
	timeline     TEXT NOT NULL DEFAULT '[]',
	social_links TEXT NOT NULL DEFAULT '{}',
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reservations (
	id          TEXT PRIMARY KEY,
	festival_id TEXT NOT NULL,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL,
	phone       TEXT NOT NULL,
	ticket_type TEXT NOT NULL,
	quantity    INTEGER NOT NULL,
	total_price INTEGER NOT NULL,
	status      TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reservations_festival ON reservations(festival_id);

CREATE TABLE IF NOT EXISTS nft_moments (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	image_base64     TEXT NOT NULL DEFAULT '',
	moment_timestamp TEXT NOT NULL DEFAULT '',
	rarity           TEXT NOT NULL DEFAULT 'common',
	attributes       TEXT NOT NULL DEFAULT '{}',
	created_at       TEXT NOT NULL
);
`

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed store at the provided path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}

	return nil
}

// Close closes the underlying SQLite connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveFestival inserts or replaces a festival by ID.
func (s *SQLiteStore) SaveFestival(ctx context.Context, f *festival.Festival) error {
	if err := f.Validate(); err != nil {
		return err
	}
	venueInfo, err := encodeJSON(f.VenueInfo)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode venue info: %w", err)
	}
	soundSystem, err := encodeJSON(f.SoundSystem)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode sound system: %w", err)
	}
	familyServices, err := encodeJSON(f.FamilyServices)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode family services: %w", err)
	}
	ticketInfo, err := encodeJSON(f.TicketInfo)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode ticket info: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO festivals
			(id, name, year, location, date, description, venue_info, sound_system, family_services, ticket_info, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.Year, f.Location, f.Date, f.Description,
		venueInfo, soundSystem, familyServices, ticketInfo,
		formatTime(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite storage: save festival: %w", err)
	}
	return nil
}

// ListFestivals returns all festivals ordered by creation time.
func (s *SQLiteStore) ListFestivals(ctx context.Context) ([]festival.Festival, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, year, location, date, description, venue_info, sound_system, family_services, ticket_info, created_at
		FROM festivals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list festivals: %w", err)
	}
	defer rows.Close()

	var out []festival.Festival
	for rows.Next() {
		f, err := scanFestival(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list festivals: %w", err)
	}
	return out, nil
}

// GetFestival returns the festival with the given ID.
func (s *SQLiteStore) GetFestival(ctx context.Context, id string) (*festival.Festival, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, year, location, date, description, venue_info, sound_system, family_services, ticket_info, created_at
		FROM festivals WHERE id = ?`, id)
	f, err := scanFestival(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SaveDJProfile inserts or replaces the resident DJ profile.
func (s *SQLiteStore) SaveDJProfile(ctx context.Context, p *festival.DJProfile) error {
	musicStyles, err := encodeJSON(p.MusicStyles)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode music styles: %w", err)
	}
	philosophy, err := encodeJSON(p.Philosophy)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode philosophy: %w", err)
	}
	timeline, err := encodeJSON(p.Timeline)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode timeline: %w", err)
	}
	socialLinks, err := encodeJSON(p.SocialLinks)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode social links: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO dj_profiles
			(id, name, stage_name, location, music_styles, career_start, bio, philosophy, timeline, social_links, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.StageName, p.Location, musicStyles, p.CareerStart,
		p.Bio, philosophy, timeline, socialLinks, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite storage: save dj profile: %w", err)
	}
	return nil
}

// GetDJProfile returns the resident DJ profile.
func (s *SQLiteStore) GetDJProfile(ctx context.Context) (*festival.DJProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, stage_name, location, music_styles, career_start, bio, philosophy, timeline, social_links, created_at
		FROM dj_profiles ORDER BY created_at LIMIT 1`)

	var p festival.DJProfile
	var musicStyles, philosophy, timeline, socialLinks, createdAt string
	err := row.Scan(&p.ID, &p.Name, &p.StageName, &p.Location, &musicStyles,
		&p.CareerStart, &p.Bio, &philosophy, &timeline, &socialLinks, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: get dj profile: %w", err)
	}
	if err := decodeJSON(musicStyles, &p.MusicStyles); err != nil {
		return nil, fmt.Errorf("sqlite storage: decode music styles: %w", err)
	}
	if err := decodeJSON(philosophy, &p.Philosophy); err != nil {
		return nil, fmt.Errorf("sqlite storage: decode philosophy: %w", err)
	}
	if err := decodeJSON(timeline, &p.Timeline); err != nil {
		return nil, fmt.Errorf("sqlite storage: decode timeline: %w", err)
	}
	if err := decodeJSON(socialLinks, &p.SocialLinks); err != nil {
		return nil, fmt.Errorf("sqlite storage: decode social links: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// CreateReservation inserts a new reservation.
func (s *SQLiteStore) CreateReservation(ctx context.Context, r *festival.TicketReservation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reservations
			(id, festival_id, name, email, phone, ticket_type, quantity, total_price, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.FestivalID, r.Name, r.Email, r.Phone, r.TicketType.String(),
		r.Quantity, r.TotalPrice, r.Status.String(), formatTime(r.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("sqlite storage: create reservation: %w", err)
	}
	return nil
}

// ListReservations returns reservations, optionally filtered by festival.
func (s *SQLiteStore) ListReservations(ctx context.Context, festivalID string) ([]festival.TicketReservation, error) {
	query := `
		SELECT id, festival_id, name, email, phone, ticket_type, quantity, total_price, status, created_at
		FROM reservations`
	var args []any
	if festivalID != "" {
		query += " WHERE festival_id = ?"
		args = append(args, festivalID)
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list reservations: %w", err)
	}
	defer rows.Close()

	var out []festival.TicketReservation
	for rows.Next() {
		var r festival.TicketReservation
		var ticketType, status, createdAt string
		if err := rows.Scan(&r.ID, &r.FestivalID, &r.Name, &r.Email, &r.Phone,
			&ticketType, &r.Quantity, &r.TotalPrice, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan reservation: %w", err)
		}
		r.TicketType = festival.TicketType(ticketType)
		r.Status = festival.ReservationStatus(status)
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list reservations: %w", err)
	}
	return out, nil
}

// SaveMoment inserts or replaces an NFT moment by ID.
func (s *SQLiteStore) SaveMoment(ctx context.Context, m *festival.NFTMoment) error {
	attributes, err := encodeJSON(m.Attributes)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode attributes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO nft_moments
			(id, title, description, image_base64, moment_timestamp, rarity, attributes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Description, m.ImageBase64, m.MomentTimestamp,
		m.Rarity.String(), attributes, formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite storage: save moment: %w", err)
	}
	return nil
}

// ListMoments returns all NFT moments ordered by creation time.
func (s *SQLiteStore) ListMoments(ctx context.Context) ([]festival.NFTMoment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, image_base64, moment_timestamp, rarity, attributes, created_at
		FROM nft_moments ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list moments: %w", err)
	}
	defer rows.Close()

	var out []festival.NFTMoment
	for rows.Next() {
		var m festival.NFTMoment
		var rarity, attributes, createdAt string
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.ImageBase64,
			&m.MomentTimestamp, &rarity, &attributes, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan moment: %w", err)
		}
		m.Rarity = festival.Rarity(rarity)
		if err := decodeJSON(attributes, &m.Attributes); err != nil {
			return nil, fmt.Errorf("sqlite storage: decode attributes: %w", err)
		}
		m.CreatedAt = parseTime(createdAt)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list moments: %w", err)
	}
	return out, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFestival(row scanner) (*festival.Festival, error) {
	var f festival.Festival
	var venueInfo, soundSystem, familyServices, ticketInfo, createdAt string
	err := row.Scan(&f.ID, &f.Name, &f.Year, &f.Location, &f.Date, &f.Description,
		&venueInfo, &soundSystem, &familyServices, &ticketInfo, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("sqlite storage: scan festival: %w", err)
	}
	if err := decodeJSON(venueInfo, &f.VenueInfo); err != nil {
		return nil, fmt.Errorf("sqlite storage: decode venue info: %w", err)
	}
	if err := decodeJSON(soundSystem, &f.SoundSystem); err != nil {
		return nil, fmt.Errorf("sqlite storage: decode sound system: %w", err)
	}
	if err := decodeJSON(familyServices, &f.FamilyServices); err != nil {
		return nil, fmt.Errorf("sqlite storage: decode family services: %w", err)
	}
	if err := decodeJSON(ticketInfo, &f.TicketInfo); err != nil {
		return nil, fmt.Errorf("sqlite storage: decode ticket info: %w", err)
	}
	f.CreatedAt = parseTime(createdAt)
	return &f, nil
}

func encodeJSON(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
