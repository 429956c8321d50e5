package api

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"course-service/internal/service"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    newValidator(),
	}
}

type CreateUserRequest struct {
	FirstName    string `json:"firstName" validate:"required,notblank"`
	LastName     string `json:"lastName" validate:"required,notblank"`
	EmailAddress string `json:"emailAddress" validate:"required,notblank,email"`
	Password     string `json:"password" validate:"required,notblank,maxbytes=72"`
}

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	EmailAddress string    `json:"emailAddress"`
}

// GetCurrentUser returns the authenticated user's public fields.
func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	current, err := CurrentUser(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetUserProfile(c.UserContext(), current.ID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		EmailAddress: user.EmailAddress,
	})
}

// CreateUser registers a user unless the email address is already taken.
// Both outcomes point Location at the root and send no body; 201 means a
// row was created, 200 means one already existed.
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var request CreateUserRequest
	if err := parseAndValidate(c, h.validate, &request); err != nil {
		return err
	}

	user, created, err := h.userService.RegisterUser(c.UserContext(), service.RegisterUserDTO{
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		EmailAddress: request.EmailAddress,
		Password:     request.Password,
	})
	if err != nil {
		return err
	}

	c.Location("/")

	if !created {
		slog.InfoContext(c.UserContext(), "Account already exists for email address", slog.String("email_address", user.EmailAddress))
		c.Status(fiber.StatusOK)
		return nil
	}

	slog.InfoContext(c.UserContext(), "New user created", slog.String("user_id", user.ID.String()))
	c.Status(fiber.StatusCreated)
	return nil
}
