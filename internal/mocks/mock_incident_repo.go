package mocks

import (
	"context"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockIncidentRepo struct {
	mock.Mock
	domain.IncidentRepository
}

func (m *MockIncidentRepo) Create(ctx context.Context, incident *domain.Incident) error {
	args := m.Called(ctx, incident)
	return args.Error(0)
}

func (m *MockIncidentRepo) GetById(ctx context.Context, id int) (*domain.Incident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Incident), args.Error(1)
}

func (m *MockIncidentRepo) GetAll(ctx context.Context, filters domain.IncidentFilters) ([]domain.Incident, *domain.Metadata, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Incident), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockIncidentRepo) Update(ctx context.Context, incident *domain.Incident) error {
	args := m.Called(ctx, incident)
	return args.Error(0)
}
