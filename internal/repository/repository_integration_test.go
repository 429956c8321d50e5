package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"course-service/internal/model"
	_ "course-service/migrations"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	db         *sqlx.DB
	userRepo   UserRepository
	courseRepo CourseRepository
	pgc        *postgres.PostgresContainer
	ctx        context.Context
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	db, err := sqlx.Connect("pgx", connStr)
	require.NoError(s.T(), err)
	s.db = db

	require.NoError(s.T(), goose.SetDialect("postgres"))
	require.NoError(s.T(), goose.Up(db.DB, "../../migrations"))

	s.userRepo = NewPostgresUserRepository(s.db)
	s.courseRepo = NewPostgresCourseRepository(s.db)
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	s.db.Close()
	if err := s.pgc.Terminate(s.ctx); err != nil {
		log.Fatalf("failed to terminate pg container: %s", err)
	}
}

func (s *RepositoryIntegrationTestSuite) TestUserRepository_FindOrCreateIsIdempotent() {
	email := "integration@test.com"

	first, created, err := s.userRepo.FindOrCreate(s.ctx, &model.User{
		FirstName:    "Integration",
		LastName:     "User",
		EmailAddress: email,
		PasswordHash: "hashed_password",
	})
	assert.NoError(s.T(), err)
	assert.True(s.T(), created)
	assert.NotEqual(s.T(), uuid.Nil, first.ID)

	second, created, err := s.userRepo.FindOrCreate(s.ctx, &model.User{
		FirstName:    "Someone",
		LastName:     "Else",
		EmailAddress: email,
		PasswordHash: "other_hash",
	})
	assert.NoError(s.T(), err)
	assert.False(s.T(), created)
	assert.Equal(s.T(), first.ID, second.ID)
	assert.Equal(s.T(), "hashed_password", second.PasswordHash)

	var count int
	err = s.db.GetContext(s.ctx, &count, `SELECT COUNT(*) FROM users WHERE email_address = $1`, email)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, count)
}

func (s *RepositoryIntegrationTestSuite) TestUserRepository_FindByEmail_NotFound() {
	foundUser, err := s.userRepo.FindByEmail(s.ctx, "nonexistent@test.com")

	assert.NoError(s.T(), err)
	assert.Nil(s.T(), foundUser)
}

func (s *RepositoryIntegrationTestSuite) TestCourseRepository_Lifecycle() {
	owner, _, err := s.userRepo.FindOrCreate(s.ctx, &model.User{
		FirstName:    "Course",
		LastName:     "Owner",
		EmailAddress: "owner@test.com",
		PasswordHash: "hash",
	})
	require.NoError(s.T(), err)

	course, err := s.courseRepo.Create(s.ctx, &model.Course{
		UserID:      owner.ID,
		Title:       "Algorithms",
		Description: "Intro",
	})
	require.NoError(s.T(), err)
	assert.NotEqual(s.T(), uuid.Nil, course.ID)

	details, err := s.courseRepo.FindDetailsByID(s.ctx, course.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), details)
	assert.Equal(s.T(), owner.ID, details.UserID)
	assert.Equal(s.T(), "Course", details.OwnerFirstName)

	estimated := "3 weeks"
	course.Title = "Advanced Algorithms"
	course.EstimatedTime = &estimated
	updated, err := s.courseRepo.Update(s.ctx, course)
	require.NoError(s.T(), err)
	assert.True(s.T(), updated)

	stranger := *course
	stranger.UserID = uuid.New()
	stranger.Title = "Hijacked"
	updated, err = s.courseRepo.Update(s.ctx, &stranger)
	require.NoError(s.T(), err)
	assert.False(s.T(), updated)

	stored, err := s.courseRepo.FindByID(s.ctx, course.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Advanced Algorithms", stored.Title)
	assert.Equal(s.T(), "3 weeks", *stored.EstimatedTime)

	list, err := s.courseRepo.ListDetails(s.ctx)
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), list)

	require.NoError(s.T(), s.courseRepo.Delete(s.ctx, course.ID))

	gone, err := s.courseRepo.FindByID(s.ctx, course.ID)
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), gone)
}

func TestRepositoryIntegration(t *testing.T) {
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("Docker is not available, skipping integration test.")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}
