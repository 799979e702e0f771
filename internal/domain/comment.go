package domain

import (
	"context"
	"time"
)

type Comment struct {
	ID         int
	MovieID    int
	UserID     int
	AuthorName string
	Content    string
	Rating     int
	CreatedAt  time.Time
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetById(ctx context.Context, id int) (*Comment, error)
	GetByMovieId(ctx context.Context, movieID int, pagination Pagination) ([]Comment, *Metadata, error)
	Delete(ctx context.Context, id int) error
}
