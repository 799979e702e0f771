package repository

import (
	"context"
	"errors"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepository struct {
	db     *pgxpool.Pool
	tokens domain.TokenRepository
}

func NewPostgresUserRepository(db *pgxpool.Pool, tokens domain.TokenRepository) *PostgresUserRepository {
	return &PostgresUserRepository{
		db:     db,
		tokens: tokens,
	}
}

// CreateWithToken inserts the user and the activation token produced by
// tokenFn in one transaction, so a failed token insert never leaves an
// account nobody can activate.
func (p *PostgresUserRepository) CreateWithToken(
	ctx context.Context,
	user *domain.User,
	tokenFn func(*domain.User) (*domain.Token, error)) (*domain.Token, error) {

	var token *domain.Token

	err := withTx(ctx, p.db, func(ctx context.Context) error {
		err := p.create(ctx, user)
		if err != nil {
			return err
		}

		token, err = tokenFn(user)
		if err != nil {
			return err
		}

		return p.tokens.Create(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	return token, nil
}

func (p *PostgresUserRepository) create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at, activated, version
	`

	err := queryerFor(ctx, p.db).QueryRow(
		ctx,
		query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Password.Hash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Activated, &user.Version)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}

		return err
	}

	return nil
}

func (p *PostgresUserRepository) GetByToken(ctx context.Context, tokenHash []byte, tokenScope string) (*domain.User, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.password_hash, u.role,
			u.created_at, u.updated_at, u.activated, u.version
		FROM users u
		JOIN tokens t ON u.id = t.user_id
		WHERE t.hash = $1 AND t.scope = $2 AND t.expiry > NOW()
	`

	var user domain.User

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, tokenHash, tokenScope).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Password.Hash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Activated,
		&user.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &user, nil
}

func (p *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role,
			created_at, updated_at, activated, version
		FROM users
		WHERE email = $1
	`

	return p.getOne(ctx, query, email)
}

func (p *PostgresUserRepository) GetById(ctx context.Context, id int) (*domain.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role,
			created_at, updated_at, activated, version
		FROM users
		WHERE id = $1
	`

	return p.getOne(ctx, query, id)
}

func (p *PostgresUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User

	err := queryerFor(ctx, p.db).QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Password.Hash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Activated,
		&user.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &user, nil
}

func (p *PostgresUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, password_hash = $4, role = $5,
			updated_at = NOW(), version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING updated_at, version
	`

	err := queryerFor(ctx, p.db).QueryRow(
		ctx,
		query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Password.Hash,
		user.Role,
		user.ID,
		user.Version,
	).Scan(&user.UpdatedAt, &user.Version)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

// ActivateUser flips the flag and burns every outstanding activation token in
// the same transaction.
func (p *PostgresUserRepository) ActivateUser(ctx context.Context, user *domain.User) error {
	return withTx(ctx, p.db, func(ctx context.Context) error {
		query := `
			UPDATE users
			SET activated = TRUE, updated_at = NOW(), version = version + 1
			WHERE id = $1 AND version = $2
			RETURNING updated_at, activated, version
		`

		err := queryerFor(ctx, p.db).QueryRow(ctx, query, user.ID, user.Version).
			Scan(&user.UpdatedAt, &user.Activated, &user.Version)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrEditConflict
			}

			return err
		}

		return p.tokens.DeleteAllForUser(ctx, domain.UserActivationScope, user.ID)
	})
}
