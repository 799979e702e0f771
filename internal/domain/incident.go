package domain

import (
	"context"
	"time"
)

type IncidentStatus string

const (
	IncidentStatusOpen       IncidentStatus = "OPEN"
	IncidentStatusInProgress IncidentStatus = "IN_PROGRESS"
	IncidentStatusResolved   IncidentStatus = "RESOLVED"
)

// Incident is a staff-filed report about a problem in a theater, optionally
// scoped to a single hall.
type Incident struct {
	ID          int
	TheaterID   int
	HallID      *int
	ReporterID  int
	Category    string
	Description string
	Status      IncidentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

type IncidentFilters struct {
	Pagination
	TheaterID int
	Status    IncidentStatus
}

type IncidentRepository interface {
	Create(ctx context.Context, incident *Incident) error
	GetById(ctx context.Context, id int) (*Incident, error)
	GetAll(ctx context.Context, filters IncidentFilters) ([]Incident, *Metadata, error)
	Update(ctx context.Context, incident *Incident) error
}
