package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"course-service/internal/model"
)

type UserRepository interface {
	FindOrCreate(ctx context.Context, user *model.User) (*model.User, bool, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

// FindOrCreate inserts user unless a row with the same email address exists.
// The returned bool reports whether a row was inserted; an existing row is
// returned as stored and never modified.
func (r *postgresUserRepository) FindOrCreate(ctx context.Context, user *model.User) (*model.User, bool, error) {
	query := `
		INSERT INTO users (first_name, last_name, email_address, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email_address) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, user.FirstName, user.LastName, user.EmailAddress, user.PasswordHash)
	err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err == nil {
		return user, true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	existing, err := r.FindByEmail(ctx, user.EmailAddress)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		return nil, false, fmt.Errorf("user with email %q conflicted on insert but was not found", user.EmailAddress)
	}

	return existing, false, nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT id, first_name, last_name, email_address, password_hash, created_at, updated_at FROM users WHERE email_address = $1`
	err := r.db.GetContext(ctx, &user, query, email)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	query := `SELECT id, first_name, last_name, email_address, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &user, nil
}
