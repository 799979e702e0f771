package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailyStats aggregates the bookings committed on a single day. Entries live
// in a short-retention store and are pruned by the daily cleanup job.
type DailyStats struct {
	Day      time.Time
	Bookings int
	Seats    int
	Revenue  decimal.Decimal
}

type StatsRepository interface {
	RecordBooking(ctx context.Context, day time.Time, seats int, revenue decimal.Decimal) error
	GetDaily(ctx context.Context, day time.Time) (*DailyStats, error)
	// PruneOlderThan removes daily entries before cutoff and reports how many
	// were deleted.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
