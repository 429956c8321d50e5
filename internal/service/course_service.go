package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"course-service/internal/events"
	"course-service/internal/model"
	"course-service/internal/repository"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrNotCourseOwner = errors.New("user does not own this course")
)

type CourseDTO struct {
	Title           string
	Description     string
	EstimatedTime   *string
	MaterialsNeeded *string
}

type CourseService interface {
	ListCourses(ctx context.Context) ([]model.CourseDetails, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*model.CourseDetails, error)
	CreateCourse(ctx context.Context, ownerID uuid.UUID, dto CourseDTO) (*model.Course, error)
	GetOwnedCourse(ctx context.Context, courseID, userID uuid.UUID) (*model.Course, error)
	UpdateCourse(ctx context.Context, userID uuid.UUID, course *model.Course, dto CourseDTO) error
	DeleteCourse(ctx context.Context, courseID, userID uuid.UUID) error
}

type courseService struct {
	courseRepo repository.CourseRepository
	publisher  events.EventPublisher
}

func NewCourseService(repo repository.CourseRepository, pub events.EventPublisher) CourseService {
	return &courseService{courseRepo: repo, publisher: pub}
}

func (s *courseService) ListCourses(ctx context.Context) ([]model.CourseDetails, error) {
	return s.courseRepo.ListDetails(ctx)
}

func (s *courseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*model.CourseDetails, error) {
	course, err := s.courseRepo.FindDetailsByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// CreateCourse persists a new course owned by ownerID.
func (s *courseService) CreateCourse(ctx context.Context, ownerID uuid.UUID, dto CourseDTO) (*model.Course, error) {
	course := &model.Course{
		UserID:          ownerID,
		Title:           dto.Title,
		Description:     dto.Description,
		EstimatedTime:   dto.EstimatedTime,
		MaterialsNeeded: dto.MaterialsNeeded,
	}

	createdCourse, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, err
	}

	s.publishAsync(events.SubjectCourseCreated, createdCourse)

	return createdCourse, nil
}

// GetOwnedCourse loads a course and checks that userID owns it.
func (s *courseService) GetOwnedCourse(ctx context.Context, courseID, userID uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if course == nil {
		return nil, ErrCourseNotFound
	}

	if course.UserID != userID {
		return nil, ErrNotCourseOwner
	}

	return course, nil
}

// UpdateCourse replaces the fields of a course loaded with GetOwnedCourse.
// The write is rejected unless userID owns the course.
func (s *courseService) UpdateCourse(ctx context.Context, userID uuid.UUID, course *model.Course, dto CourseDTO) error {
	if course.UserID != userID {
		return ErrNotCourseOwner
	}

	course.Title = dto.Title
	course.Description = dto.Description
	course.EstimatedTime = dto.EstimatedTime
	course.MaterialsNeeded = dto.MaterialsNeeded

	updated, err := s.courseRepo.Update(ctx, course)
	if err != nil {
		return err
	}
	if !updated {
		// Deleted between the ownership lookup and the write.
		return ErrCourseNotFound
	}

	s.publishAsync(events.SubjectCourseUpdated, course)

	return nil
}

func (s *courseService) DeleteCourse(ctx context.Context, courseID, userID uuid.UUID) error {
	course, err := s.GetOwnedCourse(ctx, courseID, userID)
	if err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, course.ID); err != nil {
		return err
	}

	s.publishAsync(events.SubjectCourseDeleted, course)

	return nil
}

func (s *courseService) publishAsync(subject string, course *model.Course) {
	snapshot := *course
	go func() {
		if err := s.publisher.PublishCourseEvent(subject, &snapshot); err != nil {
			slog.Warn("Failed to publish course event", slog.String("subject", subject), slog.String("course_id", snapshot.ID.String()), slog.String("error", err.Error()))
		}
	}()
}
