// Package festival provides the domain layer for the festival companion
// service. It contains the entities served by the REST API and the business
// rules around ticket reservations.
package festival

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Festival represents a single festival edition.
type Festival struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Year           int              `json:"year"`
	Location       string           `json:"location"`
	Date           string           `json:"date"`
	Description    string           `json:"description"`
	VenueInfo      map[string]any   `json:"venue_info"`
	SoundSystem    map[string]any   `json:"sound_system"`
	FamilyServices []map[string]any `json:"family_services"`
	TicketInfo     map[string]any   `json:"ticket_info"`
	CreatedAt      time.Time        `json:"created_at"`
}

// DJProfile represents the resident DJ profile shown by the companion app.
type DJProfile struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	StageName   string            `json:"stage_name"`
	Location    string            `json:"location"`
	MusicStyles []string          `json:"music_styles"`
	CareerStart int               `json:"career_start"`
	Bio         string            `json:"bio"`
	Philosophy  map[string]any    `json:"philosophy"`
	Timeline    []map[string]any  `json:"timeline"`
	SocialLinks map[string]string `json:"social_links"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NFTMoment represents a captured festival moment in the gallery.
type NFTMoment struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	ImageBase64     string         `json:"image_base64"`
	MomentTimestamp string         `json:"moment_timestamp"`
	Rarity          Rarity         `json:"rarity"`
	Attributes      map[string]any `json:"attributes"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Rarity represents the rarity tier of an NFT moment.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// IsValid checks if the rarity tier is valid.
func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityLegendary:
		return true
	default:
		return false
	}
}

// String returns the string representation of the rarity.
func (r Rarity) String() string {
	return string(r)
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// Now returns the canonical creation timestamp for new entities.
func Now() time.Time {
	return time.Now().UTC()
}

// Validate checks required festival fields.
func (f *Festival) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("festival: name cannot be empty")
	}
	if f.Year <= 0 {
		return fmt.Errorf("festival: year must be positive")
	}
	return nil
}
