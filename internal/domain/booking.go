package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "PENDING"
	BookingStatusUsed     BookingStatus = "USED"
	BookingStatusCanceled BookingStatus = "CANCELED"
)

// Booking owns its SeatBooking rows: SeatsNumber always equals len(Seats),
// and both are written in the same transaction.
type Booking struct {
	ID          int
	PublicCode  string
	UserID      int
	ScreeningID int
	SeatsNumber int
	TotalPrice  decimal.Decimal
	Status      BookingStatus
	Seats       []SeatBooking
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

// SeatBooking binds one seat to one booking for one screening. The store
// enforces uniqueness on (ScreeningID, SeatID); that constraint, not the
// availability pre-check, is what makes seat reservation at-most-once.
type SeatBooking struct {
	BookingID   int
	ScreeningID int
	SeatID      int
	SeatLabel   string
}

type BookingSummary struct {
	BookingID   int
	PublicCode  string
	MovieTitle  string
	TheaterName string
	HallName    string
	StartTime   time.Time
	SeatsNumber int
	TotalPrice  decimal.Decimal
	Status      BookingStatus
	CreatedAt   time.Time
}

type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetById(ctx context.Context, id int) (*Booking, error)
	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)
	// GetBookedSeats returns the seat rows already taken for the screening,
	// restricted to seatIDs when it is non-empty.
	GetBookedSeats(ctx context.Context, screeningID int, seatIDs []int) ([]SeatBooking, error)
	// Create inserts the booking and all of its seat rows. A unique-constraint
	// violation on (screening_id, seat_id) is translated to SeatsUnavailableError.
	Create(ctx context.Context, booking *Booking) error
	UpdateStatus(ctx context.Context, booking *Booking) error
}
