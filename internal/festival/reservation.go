package festival

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// TicketReservation represents a ticket reservation for a festival.
type TicketReservation struct {
	ID         string            `json:"id"`
	FestivalID string            `json:"festival_id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	TicketType TicketType        `json:"ticket_type"`
	Quantity   int               `json:"quantity"`
	TotalPrice int               `json:"total_price"`
	Status     ReservationStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// IsValid checks if the reservation status is valid.
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s ReservationStatus) String() string {
	return string(s)
}

// TicketType represents a purchasable ticket tier.
type TicketType string

const (
	TicketEarlyBird TicketType = "early_bird"
	TicketRegular   TicketType = "regular"
	TicketVIP       TicketType = "vip"
	TicketFamily    TicketType = "family"
)

// ticketPrices holds the per-ticket price in JPY for each tier.
// Unknown tiers fall back to the regular price.
var ticketPrices = map[TicketType]int{
	TicketEarlyBird: 15000,
	TicketRegular:   18000,
	TicketVIP:       35000,
	TicketFamily:    40000,
}

// Price returns the unit price for the ticket type. Unknown types are
// priced as regular tickets.
func (t TicketType) Price() int {
	if price, ok := ticketPrices[t]; ok {
		return price
	}
	return ticketPrices[TicketRegular]
}

// IsValid checks if the ticket type is a known tier.
func (t TicketType) IsValid() bool {
	_, ok := ticketPrices[t]
	return ok
}

// String returns the string representation of the ticket type.
func (t TicketType) String() string {
	return string(t)
}

// ReservationRequest carries the caller-supplied fields for a new reservation.
type ReservationRequest struct {
	FestivalID string     `json:"festival_id" binding:"required"`
	Name       string     `json:"name" binding:"required"`
	Email      string     `json:"email" binding:"required"`
	Phone      string     `json:"phone" binding:"required"`
	TicketType TicketType `json:"ticket_type" binding:"required"`
	Quantity   int        `json:"quantity" binding:"required"`
}

// Validate checks the reservation request fields.
func (r *ReservationRequest) Validate() error {
	if strings.TrimSpace(r.FestivalID) == "" {
		return fmt.Errorf("reservation: festival id cannot be empty")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("reservation: name cannot be empty")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("reservation: invalid email: %w", err)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("reservation: quantity must be positive")
	}
	return nil
}

// NewReservation builds a pending reservation from a request, computing the
// total price server-side from the ticket tier table.
func NewReservation(req ReservationRequest) *TicketReservation {
	return &TicketReservation{
		ID:         NewID(),
		FestivalID: req.FestivalID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		TicketType: req.TicketType,
		Quantity:   req.Quantity,
		TotalPrice: req.TicketType.Price() * req.Quantity,
		Status:     StatusPending,
		CreatedAt:  Now(),
	}
}
