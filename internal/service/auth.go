package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/repository"
	"github.com/recipebook/recipebook-go/internal/store"
)

// AuthService handles authentication business logic.
type AuthService struct {
	users *repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login authenticates a user and returns the user with a bearer token.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (model.LoginResponse, error) {
	if req == nil {
		return model.LoginResponse{}, ErrBodyRequired
	}

	resp, err := s.users.Login(ctx, *req)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if resp.User == nil || resp.Token == "" {
		return model.LoginResponse{}, ErrInvalidCredentials
	}

	return resp, nil
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *model.RegistrationRequest) (model.UserDTO, error) {
	if req == nil {
		return model.UserDTO{}, ErrBodyRequired
	}
	if err := validateStruct(req); err != nil {
		return model.UserDTO{}, err
	}

	unique, err := s.users.IsUniqueUser(ctx, req.Email)
	if err != nil {
		return model.UserDTO{}, err
	}
	if !unique {
		return model.UserDTO{}, ErrEmailTaken
	}

	user, err := s.users.Register(ctx, *req)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return model.UserDTO{}, ErrEmailTaken
		}
		slog.ErrorContext(ctx, "user registration failed", "error", err)
		return model.UserDTO{}, ErrRegistrationFailed
	}

	return user.ToDTO(), nil
}
