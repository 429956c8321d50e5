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

var ErrUserNotFound = errors.New("user not found")

type RegisterUserDTO struct {
	FirstName    string
	LastName     string
	EmailAddress string
	Password     string
}

type UserService interface {
	RegisterUser(ctx context.Context, dto RegisterUserDTO) (user *model.User, created bool, err error)
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	publisher  events.EventPublisher
	bcryptCost int
}

func NewUserService(userRepo repository.UserRepository, publisher events.EventPublisher, bcryptCost int) UserService {
	return &userService{
		userRepo:   userRepo,
		publisher:  publisher,
		bcryptCost: bcryptCost,
	}
}

func (s *userService) RegisterUser(ctx context.Context, dto RegisterUserDTO) (*model.User, bool, error) {
	hashedPassword, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, false, err
	}

	user, created, err := s.userRepo.FindOrCreate(ctx, &model.User{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		EmailAddress: dto.EmailAddress,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		go func(u model.User) {
			if err := s.publisher.PublishUserRegistered(&u); err != nil {
				slog.Warn("Failed to publish user registered event", slog.String("user_id", u.ID.String()), slog.String("error", err.Error()))
			}
		}(*user)
	}

	return user, created, nil
}

func (s *userService) GetUserProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}
