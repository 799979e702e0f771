package repository

import (
	"context"
	"errors"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresIncidentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresIncidentRepository(db *pgxpool.Pool) *PostgresIncidentRepository {
	return &PostgresIncidentRepository{
		db: db,
	}
}

func (p *PostgresIncidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	query := `
		INSERT INTO incidents (theater_id, hall_id, reporter_id, category, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at, version
	`

	return queryerFor(ctx, p.db).QueryRow(
		ctx,
		query,
		incident.TheaterID,
		incident.HallID,
		incident.ReporterID,
		incident.Category,
		incident.Description,
		incident.Status,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt, &incident.Version)
}

func (p *PostgresIncidentRepository) GetById(ctx context.Context, id int) (*domain.Incident, error) {
	query := `
		SELECT id, theater_id, hall_id, reporter_id, category, description, status,
			created_at, updated_at, version
		FROM incidents
		WHERE id = $1
	`

	var incident domain.Incident

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.TheaterID,
		&incident.HallID,
		&incident.ReporterID,
		&incident.Category,
		&incident.Description,
		&incident.Status,
		&incident.CreatedAt,
		&incident.UpdatedAt,
		&incident.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &incident, nil
}

func (p *PostgresIncidentRepository) GetAll(ctx context.Context, filters domain.IncidentFilters) ([]domain.Incident, *domain.Metadata, error) {
	query := `
		SELECT count(*) OVER(), id, theater_id, hall_id, reporter_id, category,
			description, status, created_at, updated_at, version
		FROM incidents
		WHERE ($1 = 0 OR theater_id = $1)
			AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := queryerFor(ctx, p.db).Query(
		ctx,
		query,
		filters.TheaterID,
		string(filters.Status),
		filters.Limit(),
		filters.Offset(),
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	incidents := make([]domain.Incident, 0)

	for rows.Next() {
		var incident domain.Incident

		err = rows.Scan(
			&totalRecords,
			&incident.ID,
			&incident.TheaterID,
			&incident.HallID,
			&incident.ReporterID,
			&incident.Category,
			&incident.Description,
			&incident.Status,
			&incident.CreatedAt,
			&incident.UpdatedAt,
			&incident.Version,
		)
		if err != nil {
			return nil, nil, err
		}

		incidents = append(incidents, incident)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return incidents, metadata, nil
}

func (p *PostgresIncidentRepository) Update(ctx context.Context, incident *domain.Incident) error {
	query := `
		UPDATE incidents
		SET category = $1, description = $2, status = $3, updated_at = NOW(), version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING updated_at, version
	`

	err := queryerFor(ctx, p.db).QueryRow(
		ctx,
		query,
		incident.Category,
		incident.Description,
		incident.Status,
		incident.ID,
		incident.Version,
	).Scan(&incident.UpdatedAt, &incident.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}
