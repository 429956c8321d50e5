package api

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"course-service/internal/model"
	"course-service/internal/service"
)

type CourseHandler struct {
	courseService service.CourseService
	validate      *validator.Validate
}

func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		validate:      newValidator(),
	}
}

// CourseRequest is the body of create and update. Owner fields sent by the
// client are not part of it; the owner is always the authenticated user.
type CourseRequest struct {
	Title           string  `json:"title" validate:"required,notblank"`
	Description     string  `json:"description" validate:"required,notblank"`
	EstimatedTime   *string `json:"estimatedTime,omitempty"`
	MaterialsNeeded *string `json:"materialsNeeded,omitempty"`
}

func (r CourseRequest) dto() service.CourseDTO {
	return service.CourseDTO{
		Title:           r.Title,
		Description:     r.Description,
		EstimatedTime:   r.EstimatedTime,
		MaterialsNeeded: r.MaterialsNeeded,
	}
}

type CourseOwnerResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

type CourseResponse struct {
	ID              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	EstimatedTime   *string             `json:"estimatedTime"`
	MaterialsNeeded *string             `json:"materialsNeeded"`
	UserID          uuid.UUID           `json:"userId"`
	User            CourseOwnerResponse `json:"user"`
}

func newCourseResponse(course model.CourseDetails) CourseResponse {
	return CourseResponse{
		ID:              course.ID,
		Title:           course.Title,
		Description:     course.Description,
		EstimatedTime:   course.EstimatedTime,
		MaterialsNeeded: course.MaterialsNeeded,
		UserID:          course.UserID,
		User: CourseOwnerResponse{
			ID:        course.UserID,
			FirstName: course.OwnerFirstName,
			LastName:  course.OwnerLastName,
		},
	}
}

// courseIDParam parses the :id route parameter. A malformed id cannot name
// an existing course and is reported as not found.
func courseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, service.ErrCourseNotFound
	}
	return courseID, nil
}

func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.courseService.ListCourses(c.UserContext())
	if err != nil {
		return err
	}

	response := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		response = append(response, newCourseResponse(course))
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID, err := courseIDParam(c)
	if err != nil {
		return err
	}

	course, err := h.courseService.GetCourse(c.UserContext(), courseID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(newCourseResponse(*course))
}

func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var request CourseRequest
	if err := parseAndValidate(c, h.validate, &request); err != nil {
		return err
	}

	course, err := h.courseService.CreateCourse(c.UserContext(), user.ID, request.dto())
	if err != nil {
		return err
	}

	slog.InfoContext(c.UserContext(), "Course created", slog.String("course_id", course.ID.String()), slog.String("user_id", user.ID.String()))

	c.Location("/api/courses/" + course.ID.String())
	c.Status(fiber.StatusCreated)
	return nil
}

// UpdateCourse replaces a course's fields. Ownership is checked before the
// body so that a non-owner always gets 403.
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	courseID, err := courseIDParam(c)
	if err != nil {
		return err
	}

	course, err := h.courseService.GetOwnedCourse(c.UserContext(), courseID, user.ID)
	if err != nil {
		return err
	}

	var request CourseRequest
	if err := parseAndValidate(c, h.validate, &request); err != nil {
		return err
	}

	if err := h.courseService.UpdateCourse(c.UserContext(), user.ID, course, request.dto()); err != nil {
		return err
	}

	c.Status(fiber.StatusNoContent)
	return nil
}

func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	courseID, err := courseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.courseService.DeleteCourse(c.UserContext(), courseID, user.ID); err != nil {
		return err
	}

	c.Status(fiber.StatusNoContent)
	return nil
}
