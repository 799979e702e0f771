package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const statsKeyPrefix = "stats:daily:"

// RedisStatsRepository keeps per-day booking counters in Redis hashes keyed
// by stats:daily:<yyyy-mm-dd>. The data is a rolling operational view, not a
// system of record, so losing it is acceptable.
type RedisStatsRepository struct {
	client *redis.Client
}

func NewRedisStatsRepository(client *redis.Client) *RedisStatsRepository {
	return &RedisStatsRepository{
		client: client,
	}
}

func statsKey(day time.Time) string {
	return statsKeyPrefix + day.Format(time.DateOnly)
}

// The revenue field holds integer cents so accumulation stays exact; floats
// drift once amounts like 0.1 are summed.
func revenueToCents(revenue decimal.Decimal) int64 {
	return revenue.Shift(2).IntPart()
}

func revenueFromCents(cents decimal.Decimal) decimal.Decimal {
	return cents.Shift(-2)
}

func (r *RedisStatsRepository) RecordBooking(ctx context.Context, day time.Time, seats int, revenue decimal.Decimal) error {
	key := statsKey(day)

	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, key, "bookings", 1)
	pipe.HIncrBy(ctx, key, "seats", int64(seats))
	pipe.HIncrBy(ctx, key, "revenue", revenueToCents(revenue))

	_, err := pipe.Exec(ctx)

	return err
}

func (r *RedisStatsRepository) GetDaily(ctx context.Context, day time.Time) (*domain.DailyStats, error) {
	fields, err := r.client.HGetAll(ctx, statsKey(day)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	stats := domain.DailyStats{
		Day:     time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		Revenue: decimal.Zero,
	}

	if v, ok := fields["bookings"]; ok {
		stats.Bookings, err = parseCount(v)
		if err != nil {
			return nil, err
		}
	}

	if v, ok := fields["seats"]; ok {
		stats.Seats, err = parseCount(v)
		if err != nil {
			return nil, err
		}
	}

	if v, ok := fields["revenue"]; ok {
		cents, err := decimal.NewFromString(v)
		if err != nil {
			return nil, err
		}
		stats.Revenue = revenueFromCents(cents)
	}

	return &stats, nil
}

func parseCount(s string) (int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}

	return int(d.IntPart()), nil
}

func (r *RedisStatsRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	var (
		cursor  uint64
		deleted int
	)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, statsKeyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, err
		}

		for _, key := range keys {
			day, err := time.Parse(time.DateOnly, key[len(statsKeyPrefix):])
			if err != nil {
				continue
			}

			if day.Before(cutoff) {
				err = r.client.Del(ctx, key).Err()
				if err != nil && !errors.Is(err, redis.Nil) {
					return deleted, err
				}
				deleted++
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
