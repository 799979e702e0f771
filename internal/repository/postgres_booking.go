package repository

import (
	"context"
	"errors"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, p.db, fn)
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT id, public_code, user_id, screening_id, seats_number, total_price,
			status, created_at, updated_at, version
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.PublicCode,
		&booking.UserID,
		&booking.ScreeningID,
		&booking.SeatsNumber,
		&booking.TotalPrice,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seats, err := p.getSeatBookings(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Seats = seats

	return &booking, nil
}

func (p *PostgresBookingRepository) getSeatBookings(ctx context.Context, bookingID int) ([]domain.SeatBooking, error) {
	query := `
		SELECT sb.booking_id, sb.screening_id, sb.seat_id, s.label
		FROM seat_bookings sb
		JOIN seats s ON sb.seat_id = s.id
		WHERE sb.booking_id = $1
		ORDER BY s.label
	`

	rows, err := queryerFor(ctx, p.db).Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.SeatBooking, 0)

	for rows.Next() {
		var seat domain.SeatBooking

		err = rows.Scan(&seat.BookingID, &seat.ScreeningID, &seat.SeatID, &seat.SeatLabel)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			b.public_code,
			m.title,
			t.name,
			h.name,
			s.start_time,
			b.seats_number,
			b.total_price,
			b.status,
			b.created_at
		FROM bookings b
		JOIN screenings s ON b.screening_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN halls h ON s.hall_id = h.id
		JOIN theaters t ON h.theater_id = t.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := queryerFor(ctx, p.db).Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&summary.BookingID,
			&summary.PublicCode,
			&summary.MovieTitle,
			&summary.TheaterName,
			&summary.HallName,
			&summary.StartTime,
			&summary.SeatsNumber,
			&summary.TotalPrice,
			&summary.Status,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

func (p *PostgresBookingRepository) GetBookedSeats(
	ctx context.Context,
	screeningID int,
	seatIDs []int) ([]domain.SeatBooking, error) {

	// A nil slice is encoded as SQL NULL rather than an empty array, and
	// cardinality(NULL) filters every row. Widen it so no filter means all
	// seats.
	if seatIDs == nil {
		seatIDs = []int{}
	}

	query := `
		SELECT booking_id, screening_id, seat_id
		FROM seat_bookings
		WHERE screening_id = $1
			AND (cardinality($2::int[]) = 0 OR seat_id = ANY($2))
	`

	rows, err := queryerFor(ctx, p.db).Query(ctx, query, screeningID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.SeatBooking, 0)

	for rows.Next() {
		var seat domain.SeatBooking

		err = rows.Scan(&seat.BookingID, &seat.ScreeningID, &seat.SeatID)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

// Create inserts the booking and its seat rows in the ambient transaction.
// The unique index on (screening_id, seat_id) is the cross-transaction
// arbiter: losing a race surfaces as SeatsUnavailableError, and the whole
// transaction rolls back leaving no partial rows.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (public_code, user_id, screening_id, seats_number, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at, version
	`

	q := queryerFor(ctx, p.db)

	err := q.QueryRow(
		ctx,
		query,
		booking.PublicCode,
		booking.UserID,
		booking.ScreeningID,
		booking.SeatsNumber,
		booking.TotalPrice,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt, &booking.Version)
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(booking.Seats))
	for i := range booking.Seats {
		booking.Seats[i].BookingID = booking.ID
		rows = append(rows, []any{
			booking.ID,
			booking.Seats[i].ScreeningID,
			booking.Seats[i].SeatID,
		})
	}

	_, err = q.CopyFrom(
		ctx,
		pgx.Identifier{"seat_bookings"},
		[]string{"booking_id", "screening_id", "seat_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		if isUniqueViolation(err) {
			labels := make([]string, 0, len(booking.Seats))
			for _, seat := range booking.Seats {
				labels = append(labels, seat.SeatLabel)
			}

			return &domain.SeatsUnavailableError{SeatLabels: labels}
		}

		return err
	}

	return nil
}

func (p *PostgresBookingRepository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING updated_at, version
	`

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, booking.Status, booking.ID, booking.Version).
		Scan(&booking.UpdatedAt, &booking.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}
