package booking

import (
	"context"
	"fmt"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Guard reserves seats for a screening. It runs an optimistic availability
// pre-check for a friendly error, then leans on the store's unique constraint
// on (screening_id, seat_id) as the actual at-most-once guarantee: a conflict
// that slips past the pre-check aborts the transaction and surfaces as the
// same SeatsUnavailableError.
type Guard struct {
	screenings domain.ScreeningRepository
	theaters   domain.TheaterRepository
	bookings   domain.BookingRepository
}

func NewGuard(
	screenings domain.ScreeningRepository,
	theaters domain.TheaterRepository,
	bookings domain.BookingRepository) *Guard {

	return &Guard{
		screenings: screenings,
		theaters:   theaters,
		bookings:   bookings,
	}
}

// CreateBooking reserves seatLabels for the screening on behalf of userID.
// The caller validates the seat list (non-empty, deduplicated, well-formed
// labels) before any database work starts. Either the booking and all of its
// seat rows commit together, or nothing is persisted.
func (g *Guard) CreateBooking(
	ctx context.Context,
	userID, screeningID int,
	seatLabels []string) (*domain.Booking, error) {

	var created *domain.Booking

	err := g.bookings.WithTx(ctx, func(ctx context.Context) error {
		screening, err := g.screenings.GetById(ctx, screeningID)
		if err != nil {
			return fmt.Errorf("screening: %w", err)
		}

		seats, err := g.checkSeatsExist(ctx, screening, seatLabels)
		if err != nil {
			return err
		}

		if err := g.checkSeatsAvailable(ctx, screeningID, seats); err != nil {
			return err
		}

		totalPrice := screening.Price.Mul(decimal.NewFromInt(int64(len(seats))))

		booking := &domain.Booking{
			PublicCode:  uuid.NewString(),
			UserID:      userID,
			ScreeningID: screeningID,
			SeatsNumber: len(seats),
			TotalPrice:  totalPrice,
			Status:      domain.BookingStatusPending,
		}

		for _, seat := range seats {
			booking.Seats = append(booking.Seats, domain.SeatBooking{
				ScreeningID: screeningID,
				SeatID:      seat.ID,
				SeatLabel:   seat.Label,
			})
		}

		if err := g.bookings.Create(ctx, booking); err != nil {
			return err
		}

		created = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// checkSeatsExist resolves the requested labels against the hall layout,
// preserving request order.
func (g *Guard) checkSeatsExist(
	ctx context.Context,
	screening *domain.Screening,
	seatLabels []string) ([]domain.Seat, error) {

	hall, err := g.theaters.GetHall(ctx, screening.TheaterID, screening.HallID)
	if err != nil {
		return nil, fmt.Errorf("hall: %w", err)
	}

	layout := hall.SeatByLabel()
	seats := make([]domain.Seat, 0, len(seatLabels))

	for _, label := range seatLabels {
		seat, ok := layout[label]
		if !ok {
			return nil, fmt.Errorf("seat %q: %w", label, domain.ErrRecordNotFound)
		}

		seats = append(seats, seat)
	}

	return seats, nil
}

func (g *Guard) checkSeatsAvailable(ctx context.Context, screeningID int, seats []domain.Seat) error {
	seatIDs := make([]int, len(seats))
	labels := make(map[int]string, len(seats))
	for i, seat := range seats {
		seatIDs[i] = seat.ID
		labels[seat.ID] = seat.Label
	}

	booked, err := g.bookings.GetBookedSeats(ctx, screeningID, seatIDs)
	if err != nil {
		return err
	}

	if len(booked) == 0 {
		return nil
	}

	taken := make([]string, 0, len(booked))
	for _, sb := range booked {
		taken = append(taken, labels[sb.SeatID])
	}

	return &domain.SeatsUnavailableError{SeatLabels: taken}
}

// MarkUsed transitions a booking to USED. Repeating the call for a booking
// already in that status is an error, not a silent no-op.
func (g *Guard) MarkUsed(ctx context.Context, bookingID int) (*domain.Booking, error) {
	return g.transition(ctx, bookingID, domain.BookingStatusUsed)
}

// Cancel transitions a booking to CANCELED with the same idempotency rule as
// MarkUsed. Canceling a used booking is allowed.
func (g *Guard) Cancel(ctx context.Context, bookingID int) (*domain.Booking, error) {
	return g.transition(ctx, bookingID, domain.BookingStatusCanceled)
}

func (g *Guard) transition(ctx context.Context, bookingID int, target domain.BookingStatus) (*domain.Booking, error) {
	var booking *domain.Booking

	err := g.bookings.WithTx(ctx, func(ctx context.Context) error {
		var err error

		booking, err = g.bookings.GetById(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("booking: %w", err)
		}

		if booking.Status == target {
			return domain.ErrBookingStatusConflict
		}

		booking.Status = target

		return g.bookings.UpdateStatus(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}
