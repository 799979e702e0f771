package domain

import (
	"context"
	"time"
)

type Movie struct {
	ID          int
	Title       string
	Description string
	Genres      []string
	Language    string
	ReleaseDate time.Time
	// Duration is the runtime in minutes. The scheduler derives screening end
	// times from it, so it is always a positive integer.
	Duration    int
	PosterUrl   string
	Director    string
	CastMembers []string
	Rating      float64
	CreatedAt   time.Time
	Version     int
}

type MovieRepository interface {
	GetAll(ctx context.Context, pagination Pagination) ([]*Movie, *Metadata, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	Create(ctx context.Context, movie *Movie) error
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int) error
}
