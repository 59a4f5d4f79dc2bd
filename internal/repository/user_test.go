package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/recipebook/recipebook-go/internal/crypto"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/store"
)

func newTestUserRepository(t *testing.T) (*UserRepository, *crypto.TokenIssuer) {
	t.Helper()
	tokens := crypto.NewTokenIssuer("test-secret", time.Hour)
	hasher := crypto.NewPasswordHasher(crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	return NewUserRepository(store.NewMemoryStore(UserSchema), hasher, tokens), tokens
}

func register(t *testing.T, repo *UserRepository, email, password string) *model.User {
	t.Helper()
	user, err := repo.Register(context.Background(), model.RegistrationRequest{
		Name:     "Cook",
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	return user
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	repo, _ := newTestUserRepository(t)

	user := register(t, repo, "Cook@Example.com", "password123")
	if user.Password == "password123" || user.Password == "" {
		t.Fatalf("expected a password hash, got %q", user.Password)
	}
	if user.Role != DefaultRole {
		t.Errorf("Role = %q, want %q", user.Role, DefaultRole)
	}
	if user.Email != "cook@example.com" {
		t.Errorf("Email = %q, want lower-cased", user.Email)
	}
}

func TestRegisterKeepsRequestedRole(t *testing.T) {
	repo, _ := newTestUserRepository(t)

	user, err := repo.Register(context.Background(), model.RegistrationRequest{
		Name: "Chef", Email: "chef@example.com", Password: "password123", Role: "admin",
	})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if user.Role != "admin" {
		t.Errorf("Role = %q, want admin", user.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo, _ := newTestUserRepository(t)
	register(t, repo, "cook@example.com", "password123")

	user, err := repo.Register(context.Background(), model.RegistrationRequest{
		Name: "Other", Email: "COOK@example.com", Password: "password456",
	})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if user != nil {
		t.Fatal("expected nil user on failure")
	}

	all, _ := repo.GetAll(context.Background(), nil)
	if len(all) != 1 {
		t.Errorf("expected 1 user, got %d", len(all))
	}
}

func TestIsUniqueUser(t *testing.T) {
	repo, _ := newTestUserRepository(t)
	ctx := context.Background()

	unique, err := repo.IsUniqueUser(ctx, "cook@example.com")
	if err != nil || !unique {
		t.Fatalf("IsUniqueUser() on empty store = %v, %v; want true, nil", unique, err)
	}

	register(t, repo, "cook@example.com", "password123")

	unique, err = repo.IsUniqueUser(ctx, " Cook@Example.com ")
	if err != nil || unique {
		t.Fatalf("IsUniqueUser() for taken email = %v, %v; want false, nil", unique, err)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo, tokens := newTestUserRepository(t)
	user := register(t, repo, "cook@example.com", "password123")

	resp, err := repo.Login(context.Background(), model.LoginRequest{Email: "COOK@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("Login() user = %+v, want id %s", resp.User, user.ID)
	}

	claims, err := tokens.Validate(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != user.ID.String() || claims.Role != DefaultRole {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginFailures(t *testing.T) {
	repo, _ := newTestUserRepository(t)
	register(t, repo, "cook@example.com", "password123")

	tests := []struct {
		name string
		req  model.LoginRequest
	}{
		{"wrong password", model.LoginRequest{Email: "cook@example.com", Password: "wrong"}},
		{"unknown email", model.LoginRequest{Email: "nobody@example.com", Password: "password123"}},
		{"empty", model.LoginRequest{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := repo.Login(context.Background(), tc.req)
			if err != nil {
				t.Fatalf("Login() unexpected error: %v", err)
			}
			if resp.User != nil || resp.Token != "" {
				t.Errorf("expected empty response, got %+v", resp)
			}
		})
	}
}

func TestLoginUnreadableHashIsAFailedLogin(t *testing.T) {
	repo, _ := newTestUserRepository(t)

	u := model.User{Email: "legacy@example.com", Password: "plain-text", Role: DefaultRole}
	if err := repo.Create(context.Background(), &u); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	resp, err := repo.Login(context.Background(), model.LoginRequest{Email: "legacy@example.com", Password: "plain-text"})
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if resp.Token != "" {
		t.Error("expected no token for unreadable hash")
	}
}
