package crypto

import (
	"errors"
	"strings"
	"testing"
)

// fastParams keeps Argon2id cheap enough for unit tests.
var fastParams = HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashFormat(t *testing.T) {
	hash, err := NewPasswordHasher(DefaultHashParams()).Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("Hash() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestVerify(t *testing.T) {
	h := NewPasswordHasher(fastParams)

	hash, err := h.Hash("my-secure-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{"my-secure-password", true},
		{"My-Secure-Password", false},
		{"my-secure-passwor", false},
		{"", false},
	}

	for _, tc := range tests {
		match, err := h.Verify(tc.password, hash)
		if err != nil {
			t.Fatalf("Verify(%q) unexpected error: %v", tc.password, err)
		}
		if match != tc.want {
			t.Errorf("Verify(%q) = %v, want %v", tc.password, match, tc.want)
		}
	}
}

func TestVerifyUsesEncodedParams(t *testing.T) {
	hash, err := NewPasswordHasher(fastParams).Hash("password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	match, err := NewPasswordHasher(DefaultHashParams()).Verify("password", hash)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if !match {
		t.Error("Verify() should use the parameters stored in the hash")
	}
}

func TestHashProducesDifferentHashes(t *testing.T) {
	h := NewPasswordHasher(fastParams)

	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same password (salt should differ)")
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	h := NewPasswordHasher(fastParams)

	tests := []struct {
		name string
		hash string
		want error
	}{
		{"garbage", "invalid-hash-format", ErrInvalidHashFormat},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuu", ErrInvalidHashFormat},
		{"version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$aGFzaA", ErrIncompatibleVersion},
		{"params", "$argon2id$v=19$m=x$c2FsdA$aGFzaA", ErrInvalidHashFormat},
		{"empty key", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$", ErrInvalidHashFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := h.Verify("password", tc.hash); !errors.Is(err, tc.want) {
				t.Errorf("Verify() error = %v, want %v", err, tc.want)
			}
		})
	}
}
