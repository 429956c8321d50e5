package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"course-service/internal/model"
)

const courseDetailsSelect = `
	SELECT
		c.id,
		c.user_id,
		c.title,
		c.description,
		c.estimated_time,
		c.materials_needed,
		u.first_name AS owner_first_name,
		u.last_name AS owner_last_name
	FROM courses c
	JOIN users u ON c.user_id = u.id
`

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) (*model.Course, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	FindDetailsByID(ctx context.Context, id uuid.UUID) (*model.CourseDetails, error)
	ListDetails(ctx context.Context) ([]model.CourseDetails, error)
	// Update writes course only when course.UserID still owns the row and
	// reports whether a row was changed.
	Update(ctx context.Context, course *model.Course) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresCourseRepository struct {
	db *sqlx.DB
}

func NewPostgresCourseRepository(db *sqlx.DB) CourseRepository {
	return &postgresCourseRepository{db: db}
}

func (r *postgresCourseRepository) Create(ctx context.Context, course *model.Course) (*model.Course, error) {
	query := `
		INSERT INTO courses (user_id, title, description, estimated_time, materials_needed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, course.UserID, course.Title, course.Description, course.EstimatedTime, course.MaterialsNeeded)
	err := row.Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return course, nil
}

func (r *postgresCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	query := `SELECT id, user_id, title, description, estimated_time, materials_needed, created_at, updated_at FROM courses WHERE id = $1`
	err := r.db.GetContext(ctx, &course, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &course, nil
}

func (r *postgresCourseRepository) FindDetailsByID(ctx context.Context, id uuid.UUID) (*model.CourseDetails, error) {
	var course model.CourseDetails
	err := r.db.GetContext(ctx, &course, courseDetailsSelect+` WHERE c.id = $1`, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &course, nil
}

func (r *postgresCourseRepository) ListDetails(ctx context.Context) ([]model.CourseDetails, error) {
	var courses []model.CourseDetails
	err := r.db.SelectContext(ctx, &courses, courseDetailsSelect+` ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, err
	}

	if courses == nil {
		courses = []model.CourseDetails{}
	}

	return courses, nil
}

func (r *postgresCourseRepository) Update(ctx context.Context, course *model.Course) (bool, error) {
	query := `
		UPDATE courses
		SET title = $1, description = $2, estimated_time = $3, materials_needed = $4, updated_at = now()
		WHERE id = $5 AND user_id = $6
	`
	result, err := r.db.ExecContext(ctx, query, course.Title, course.Description, course.EstimatedTime, course.MaterialsNeeded, course.ID, course.UserID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *postgresCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM courses WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
