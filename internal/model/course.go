package model

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID              uuid.UUID `db:"id"`
	UserID          uuid.UUID `db:"user_id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	EstimatedTime   *string   `db:"estimated_time"`
	MaterialsNeeded *string   `db:"materials_needed"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// CourseDetails is a course joined with the public fields of its owner.
type CourseDetails struct {
	ID              uuid.UUID `db:"id"`
	UserID          uuid.UUID `db:"user_id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	EstimatedTime   *string   `db:"estimated_time"`
	MaterialsNeeded *string   `db:"materials_needed"`
	OwnerFirstName  string    `db:"owner_first_name"`
	OwnerLastName   string    `db:"owner_last_name"`
}
