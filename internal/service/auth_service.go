package service

import (
	"context"
	"errors"
	"fmt"

	"course-service/internal/model"
	"course-service/internal/repository"
)

var (
	ErrIdentityNotFound = errors.New("no user found for email address")
	ErrHashMismatch     = errors.New("password does not match stored hash")
)

type AuthService interface {
	Authenticate(ctx context.Context, emailAddress, password string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Authenticate resolves the user owning emailAddress and checks password
// against the stored hash. It returns ErrIdentityNotFound or ErrHashMismatch
// for rejected credentials; any other error comes from the store.
func (s *authService) Authenticate(ctx context.Context, emailAddress, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, emailAddress)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrHashMismatch
	}

	return user, nil
}
