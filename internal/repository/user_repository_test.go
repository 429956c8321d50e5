package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"course-service/internal/model"
	repo "course-service/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "first_name", "last_name", "email_address", "password_hash", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestPostgresUserRepository_FindOrCreate_Created(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (first_name, last_name, email_address, password_hash)`)).
		WithArgs("Ada", "Lovelace", "ada@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	u, created, err := r.FindOrCreate(context.Background(), &model.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		EmailAddress: "ada@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, id, u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindOrCreate_Existing(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (email_address) DO NOTHING`)).
		WithArgs("Other", "Name", "ada@example.com", "new-hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email_address = $1`)).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(id.String(), "Ada", "Lovelace", "ada@example.com", "old-hash", now, now))

	u, created, err := r.FindOrCreate(context.Background(), &model.User{
		FirstName:    "Other",
		LastName:     "Name",
		EmailAddress: "ada@example.com",
		PasswordHash: "new-hash",
	})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, id, u.ID)
	require.Equal(t, "Ada", u.FirstName)
	require.Equal(t, "old-hash", u.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindOrCreate_InsertError(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	boom := errors.New("connection refused")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).WillReturnError(boom)

	_, _, err := r.FindOrCreate(context.Background(), &model.User{EmailAddress: "ada@example.com"})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByEmail_Success(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email_address = $1`)).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(id.String(), "Ada", "Lovelace", "ada@example.com", "hash", now, now))

	u, err := r.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, "ada@example.com", u.EmailAddress)
	require.Equal(t, "hash", u.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByEmail_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email_address = $1`)).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	u, err := r.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByID_Error(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	u, err := r.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.Nil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}
