package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context, pagination domain.Pagination) ([]*domain.Movie, *domain.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, title, description, genres, language, release_date,
			duration, poster_url, director, cast_members, rating, created_at, version
		FROM movies
		WHERE ((to_tsvector('english', title) @@ plainto_tsquery('english', $1)
			OR to_tsvector('english', description) @@ plainto_tsquery('english', $1))
			OR $1 = '')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`, pagination.SortColumn(), pagination.SortDirection())

	rows, err := queryerFor(ctx, p.db).Query(ctx, query, pagination.Term, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Title,
			&movie.Description,
			&movie.Genres,
			&movie.Language,
			&movie.ReleaseDate,
			&movie.Duration,
			&movie.PosterUrl,
			&movie.Director,
			&movie.CastMembers,
			&movie.Rating,
			&movie.CreatedAt,
			&movie.Version,
		)
		if err != nil {
			return nil, nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `
		SELECT id, title, description, genres, language, release_date, duration,
			poster_url, director, cast_members, rating, created_at, version
		FROM movies
		WHERE id = $1
	`

	var movie domain.Movie

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Genres,
		&movie.Language,
		&movie.ReleaseDate,
		&movie.Duration,
		&movie.PosterUrl,
		&movie.Director,
		&movie.CastMembers,
		&movie.Rating,
		&movie.CreatedAt,
		&movie.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `
		INSERT INTO movies (title, description, genres, language, release_date, duration,
			poster_url, director, cast_members, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	return queryerFor(ctx, p.db).QueryRow(
		ctx,
		query,
		movie.Title,
		movie.Description,
		movie.Genres,
		movie.Language,
		movie.ReleaseDate,
		movie.Duration,
		movie.PosterUrl,
		movie.Director,
		movie.CastMembers,
		movie.Rating,
	).Scan(&movie.ID, &movie.CreatedAt, &movie.Version)
}

func (p *PostgresMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	query := `
		UPDATE movies
		SET title = $1, description = $2, genres = $3, language = $4, release_date = $5,
			duration = $6, poster_url = $7, director = $8, cast_members = $9, rating = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING version
	`

	err := queryerFor(ctx, p.db).QueryRow(
		ctx,
		query,
		movie.Title,
		movie.Description,
		movie.Genres,
		movie.Language,
		movie.ReleaseDate,
		movie.Duration,
		movie.PosterUrl,
		movie.Director,
		movie.CastMembers,
		movie.Rating,
		movie.ID,
		movie.Version,
	).Scan(&movie.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func (p *PostgresMovieRepository) Delete(ctx context.Context, id int) error {
	tag, err := queryerFor(ctx, p.db).Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
