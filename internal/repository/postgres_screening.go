package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresScreeningRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScreeningRepository(db *pgxpool.Pool) *PostgresScreeningRepository {
	return &PostgresScreeningRepository{
		db: db,
	}
}

func (p *PostgresScreeningRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, p.db, fn)
}

func (p *PostgresScreeningRepository) GetById(ctx context.Context, id int) (*domain.Screening, error) {
	query := `
		SELECT id, public_code, movie_id, theater_id, hall_id, start_time, end_time,
			price, quality, created_at, updated_at, version
		FROM screenings
		WHERE id = $1
	`

	var screening domain.Screening

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&screening.ID,
		&screening.PublicCode,
		&screening.MovieID,
		&screening.TheaterID,
		&screening.HallID,
		&screening.StartTime,
		&screening.EndTime,
		&screening.Price,
		&screening.Quality,
		&screening.CreatedAt,
		&screening.UpdatedAt,
		&screening.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &screening, nil
}

func (p *PostgresScreeningRepository) GetByHall(ctx context.Context, theaterID, hallID int) ([]domain.Screening, error) {
	query := `
		SELECT id, public_code, movie_id, theater_id, hall_id, start_time, end_time,
			price, quality, created_at, updated_at, version
		FROM screenings
		WHERE theater_id = $1 AND hall_id = $2
		ORDER BY start_time
	`

	rows, err := queryerFor(ctx, p.db).Query(ctx, query, theaterID, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	screenings := make([]domain.Screening, 0)

	for rows.Next() {
		var screening domain.Screening

		err = rows.Scan(
			&screening.ID,
			&screening.PublicCode,
			&screening.MovieID,
			&screening.TheaterID,
			&screening.HallID,
			&screening.StartTime,
			&screening.EndTime,
			&screening.Price,
			&screening.Quality,
			&screening.CreatedAt,
			&screening.UpdatedAt,
			&screening.Version,
		)
		if err != nil {
			return nil, err
		}

		screenings = append(screenings, screening)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return screenings, nil
}

func (p *PostgresScreeningRepository) GetByTheaterAndDate(
	ctx context.Context,
	theaterID int,
	date time.Time) ([]domain.ScreeningSummary, error) {

	query := `
		SELECT s.id, s.public_code, m.title, h.name, s.start_time, s.end_time, s.price, s.quality
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		JOIN halls h ON s.hall_id = h.id
		WHERE s.theater_id = $1
			AND s.start_time >= $2
			AND s.start_time < $2 + INTERVAL '1 day'
		ORDER BY s.start_time
	`

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	rows, err := queryerFor(ctx, p.db).Query(ctx, query, theaterID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.ScreeningSummary, 0)

	for rows.Next() {
		var summary domain.ScreeningSummary

		err = rows.Scan(
			&summary.ID,
			&summary.PublicCode,
			&summary.MovieTitle,
			&summary.HallName,
			&summary.StartTime,
			&summary.EndTime,
			&summary.Price,
			&summary.Quality,
		)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (p *PostgresScreeningRepository) Create(ctx context.Context, screening *domain.Screening) error {
	query := `
		INSERT INTO screenings (public_code, movie_id, theater_id, hall_id, start_time, end_time, price, quality)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at, version
	`

	return queryerFor(ctx, p.db).QueryRow(
		ctx,
		query,
		screening.PublicCode,
		screening.MovieID,
		screening.TheaterID,
		screening.HallID,
		screening.StartTime,
		screening.EndTime,
		screening.Price,
		screening.Quality,
	).Scan(&screening.ID, &screening.CreatedAt, &screening.UpdatedAt, &screening.Version)
}

func (p *PostgresScreeningRepository) Update(ctx context.Context, screening *domain.Screening) error {
	query := `
		UPDATE screenings
		SET movie_id = $1, theater_id = $2, hall_id = $3, start_time = $4, end_time = $5,
			price = $6, quality = $7, updated_at = NOW(), version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING updated_at, version
	`

	err := queryerFor(ctx, p.db).QueryRow(
		ctx,
		query,
		screening.MovieID,
		screening.TheaterID,
		screening.HallID,
		screening.StartTime,
		screening.EndTime,
		screening.Price,
		screening.Quality,
		screening.ID,
		screening.Version,
	).Scan(&screening.UpdatedAt, &screening.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func (p *PostgresScreeningRepository) Delete(ctx context.Context, id int) error {
	tag, err := queryerFor(ctx, p.db).Exec(ctx, `DELETE FROM screenings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
