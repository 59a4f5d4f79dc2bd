package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/recipebook/recipebook-go/internal/crypto"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/store"
)

// DefaultRole is assigned to users that register without a role.
const DefaultRole = "user"

// UserRepository handles user persistence and authentication.
type UserRepository struct {
	store.Store[model.User]
	hasher *crypto.PasswordHasher
	tokens *crypto.TokenIssuer
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(s store.Store[model.User], hasher *crypto.PasswordHasher, tokens *crypto.TokenIssuer) *UserRepository {
	return &UserRepository{Store: s, hasher: hasher, tokens: tokens}
}

// IsUniqueUser reports whether no user is registered with email.
func (r *UserRepository) IsUniqueUser(ctx context.Context, email string) (bool, error) {
	_, err := r.findByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// Login checks the credentials and issues a bearer token. Unknown emails and
// wrong passwords both yield a zero LoginResponse with a nil error; only
// storage and signing failures are returned as errors.
func (r *UserRepository) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	user, err := r.findByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return model.LoginResponse{}, nil
	}
	if err != nil {
		return model.LoginResponse{}, err
	}

	match, err := r.hasher.Verify(req.Password, user.Password)
	if err != nil {
		slog.WarnContext(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
		return model.LoginResponse{}, nil
	}
	if !match {
		return model.LoginResponse{}, nil
	}

	token, err := r.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		return model.LoginResponse{}, err
	}

	dto := user.ToDTO()
	return model.LoginResponse{User: &dto, Token: token}, nil
}

// Register hashes the password and persists a new user built from req.
func (r *UserRepository) Register(ctx context.Context, req model.RegistrationRequest) (*model.User, error) {
	hash, err := r.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = DefaultRole
	}

	user := model.User{
		Name:        req.Name,
		Email:       normalizeEmail(req.Email),
		Password:    hash,
		ProfileInfo: req.ProfileInfo,
		Role:        role,
	}

	if err := r.Create(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) findByEmail(ctx context.Context, email string) (model.User, error) {
	email = normalizeEmail(email)
	return r.GetOne(ctx, func(u model.User) bool {
		return u.Email == email
	}, store.NoTracking())
}

// normalizeEmail lower-cases emails so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
