package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Screening is a single scheduled showing of a movie in a hall. EndTime is
// derived at scheduling time from the movie runtime plus the configured
// cleaning buffer; [StartTime, EndTime) intervals never overlap within a hall.
type Screening struct {
	ID         int
	PublicCode string
	MovieID    int
	TheaterID  int
	HallID     int
	StartTime  time.Time
	EndTime    time.Time
	Price      decimal.Decimal
	Quality    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int
}

type ScreeningSummary struct {
	ID         int
	PublicCode string
	MovieTitle string
	HallName   string
	StartTime  time.Time
	EndTime    time.Time
	Price      decimal.Decimal
	Quality    string
}

type ScreeningRepository interface {
	// WithTx runs fn inside a single transaction. Nested calls join the
	// transaction already carried by ctx instead of opening a new one.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetById(ctx context.Context, id int) (*Screening, error)
	// GetByHall returns every screening scheduled in the hall, each with its
	// own stored end time.
	GetByHall(ctx context.Context, theaterID, hallID int) ([]Screening, error)
	GetByTheaterAndDate(ctx context.Context, theaterID int, date time.Time) ([]ScreeningSummary, error)
	Create(ctx context.Context, screening *Screening) error
	Update(ctx context.Context, screening *Screening) error
	Delete(ctx context.Context, id int) error
}
