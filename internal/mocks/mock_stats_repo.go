package mocks

import (
	"context"
	"time"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockStatsRepo struct {
	mock.Mock
	domain.StatsRepository
}

func (m *MockStatsRepo) RecordBooking(ctx context.Context, day time.Time, seats int, revenue decimal.Decimal) error {
	args := m.Called(ctx, day, seats, revenue)
	return args.Error(0)
}

func (m *MockStatsRepo) GetDaily(ctx context.Context, day time.Time) (*domain.DailyStats, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyStats), args.Error(1)
}

func (m *MockStatsRepo) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}
