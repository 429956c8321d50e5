// Package repotest provides in-memory implementations of the repository
// interfaces for tests. They mirror the column projections and uniqueness
// rules of the postgres implementations.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"course-service/internal/model"
	"course-service/internal/repository"
)

type Store struct {
	mu      sync.Mutex
	users   map[uuid.UUID]model.User
	courses map[uuid.UUID]model.Course

	// Err, when set, is returned by every operation.
	Err error
}

func NewStore() *Store {
	return &Store{
		users:   make(map[uuid.UUID]model.User),
		courses: make(map[uuid.UUID]model.Course),
	}
}

func (s *Store) Users() repository.UserRepository {
	return userRepo{s}
}

func (s *Store) Courses() repository.CourseRepository {
	return courseRepo{s}
}

// UserCount returns the number of stored users with the given email address.
func (s *Store) UserCount(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, u := range s.users {
		if u.EmailAddress == email {
			n++
		}
	}
	return n
}

// StoredUser returns the raw stored row for email, password hash included.
func (s *Store) StoredUser(email string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.EmailAddress == email {
			return u, true
		}
	}
	return model.User{}, false
}

// StoredCourse returns the raw stored course row.
func (s *Store) StoredCourse(id uuid.UUID) (model.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	return c, ok
}

type userRepo struct{ s *Store }

func (r userRepo) FindOrCreate(_ context.Context, user *model.User) (*model.User, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.Err != nil {
		return nil, false, r.s.Err
	}

	for _, u := range r.s.users {
		if u.EmailAddress == user.EmailAddress {
			existing := u
			return &existing, false, nil
		}
	}

	now := time.Now()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user

	return user, true, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.Err != nil {
		return nil, r.s.Err
	}

	for _, u := range r.s.users {
		if u.EmailAddress == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r userRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.Err != nil {
		return nil, r.s.Err
	}

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	u.PasswordHash = ""
	return &u, nil
}

type courseRepo struct{ s *Store }

func (r courseRepo) Create(_ context.Context, course *model.Course) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.Err != nil {
		return nil, r.s.Err
	}

	now := time.Now()
	course.ID = uuid.New()
	course.CreatedAt = now
	course.UpdatedAt = now
	r.s.courses[course.ID] = *course

	return course, nil
}

func (r courseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.Err != nil {
		return nil, r.s.Err
	}

	c, ok := r.s.courses[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r courseRepo) FindDetailsByID(_ context.Context, id uuid.UUID) (*model.CourseDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.Err != nil {
		return nil, r.s.Err
	}

	c, ok := r.s.courses[id]
	if !ok {
		return nil, nil
	}
	d := r.details(c)
	return &d, nil
}

func (r courseRepo) ListDetails(_ context.Context) ([]model.CourseDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.Err != nil {
		return nil, r.s.Err
	}

	courses := make([]model.Course, 0, len(r.s.courses))
	for _, c := range r.s.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})

	details := make([]model.CourseDetails, 0, len(courses))
	for _, c := range courses {
		details = append(details, r.details(c))
	}
	return details, nil
}

func (r courseRepo) Update(_ context.Context, course *model.Course) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.Err != nil {
		return false, r.s.Err
	}

	existing, ok := r.s.courses[course.ID]
	if !ok || existing.UserID != course.UserID {
		return false, nil
	}
	course.UpdatedAt = time.Now()
	r.s.courses[course.ID] = *course
	return true, nil
}

func (r courseRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.Err != nil {
		return r.s.Err
	}

	delete(r.s.courses, id)
	return nil
}

// details joins c with its owner; callers hold the lock.
func (r courseRepo) details(c model.Course) model.CourseDetails {
	owner := r.s.users[c.UserID]
	return model.CourseDetails{
		ID:              c.ID,
		UserID:          c.UserID,
		Title:           c.Title,
		Description:     c.Description,
		EstimatedTime:   c.EstimatedTime,
		MaterialsNeeded: c.MaterialsNeeded,
		OwnerFirstName:  owner.FirstName,
		OwnerLastName:   owner.LastName,
	}
}
