package repository

import (
	"context"
	"errors"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresCommentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCommentRepository(db *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{
		db: db,
	}
}

func (p *PostgresCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (movie_id, user_id, content, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return queryerFor(ctx, p.db).QueryRow(
		ctx,
		query,
		comment.MovieID,
		comment.UserID,
		comment.Content,
		comment.Rating,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (p *PostgresCommentRepository) GetById(ctx context.Context, id int) (*domain.Comment, error) {
	query := `
		SELECT c.id, c.movie_id, c.user_id, u.first_name || ' ' || u.last_name,
			c.content, c.rating, c.created_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = $1
	`

	var comment domain.Comment

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.MovieID,
		&comment.UserID,
		&comment.AuthorName,
		&comment.Content,
		&comment.Rating,
		&comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &comment, nil
}

func (p *PostgresCommentRepository) GetByMovieId(
	ctx context.Context,
	movieID int,
	pagination domain.Pagination) ([]domain.Comment, *domain.Metadata, error) {

	query := `
		SELECT count(*) OVER(), c.id, c.movie_id, c.user_id,
			u.first_name || ' ' || u.last_name, c.content, c.rating, c.created_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.movie_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := queryerFor(ctx, p.db).Query(ctx, query, movieID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	comments := make([]domain.Comment, 0)

	for rows.Next() {
		var comment domain.Comment

		err = rows.Scan(
			&totalRecords,
			&comment.ID,
			&comment.MovieID,
			&comment.UserID,
			&comment.AuthorName,
			&comment.Content,
			&comment.Rating,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		comments = append(comments, comment)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return comments, metadata, nil
}

func (p *PostgresCommentRepository) Delete(ctx context.Context, id int) error {
	tag, err := queryerFor(ctx, p.db).Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
