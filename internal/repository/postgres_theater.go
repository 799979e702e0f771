package repository

import (
	"context"
	"errors"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresTheaterRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTheaterRepository(db *pgxpool.Pool) *PostgresTheaterRepository {
	return &PostgresTheaterRepository{
		db: db,
	}
}

func (p *PostgresTheaterRepository) GetAll(ctx context.Context) ([]domain.Theater, error) {
	query := `
		SELECT t.id, t.name, t.address, t.city, h.id, h.name
		FROM theaters t
		LEFT JOIN halls h ON h.theater_id = t.id
		ORDER BY t.name, h.name
	`

	rows, err := queryerFor(ctx, p.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	theaters := make([]domain.Theater, 0)
	index := make(map[int]int)

	for rows.Next() {
		var theater domain.Theater
		var hallID *int
		var hallName *string

		err = rows.Scan(&theater.ID, &theater.Name, &theater.Address, &theater.City, &hallID, &hallName)
		if err != nil {
			return nil, err
		}

		i, ok := index[theater.ID]
		if !ok {
			i = len(theaters)
			index[theater.ID] = i
			theaters = append(theaters, theater)
		}

		if hallID != nil {
			theaters[i].Halls = append(theaters[i].Halls, domain.Hall{
				ID:        *hallID,
				TheaterID: theater.ID,
				Name:      *hallName,
			})
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return theaters, nil
}

func (p *PostgresTheaterRepository) GetById(ctx context.Context, id int) (*domain.Theater, error) {
	query := `SELECT id, name, address, city FROM theaters WHERE id = $1`

	var theater domain.Theater

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, id).
		Scan(&theater.ID, &theater.Name, &theater.Address, &theater.City)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &theater, nil
}

func (p *PostgresTheaterRepository) GetHall(ctx context.Context, theaterID, hallID int) (*domain.Hall, error) {
	query := `SELECT id, theater_id, name FROM halls WHERE id = $1 AND theater_id = $2`

	var hall domain.Hall

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, hallID, theaterID).
		Scan(&hall.ID, &hall.TheaterID, &hall.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seatQuery := `
		SELECT id, hall_id, label, seat_row, seat_col, seat_type
		FROM seats
		WHERE hall_id = $1
		ORDER BY seat_row, seat_col
	`

	rows, err := queryerFor(ctx, p.db).Query(ctx, seatQuery, hall.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(&seat.ID, &seat.HallID, &seat.Label, &seat.Row, &seat.Col, &seat.Type)
		if err != nil {
			return nil, err
		}

		hall.Seats = append(hall.Seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &hall, nil
}

// LockHall serializes schedule writers per hall. It only has an effect inside
// a transaction; the lock is released on commit or rollback.
func (p *PostgresTheaterRepository) LockHall(ctx context.Context, theaterID, hallID int) error {
	query := `SELECT id FROM halls WHERE id = $1 AND theater_id = $2 FOR UPDATE`

	var id int

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, hallID, theaterID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}

		return err
	}

	return nil
}
