package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// APIKeyGenerator creates new API key material for the API key scheme.
type APIKeyGenerator interface {
	// Generate creates a new random key and returns the plain key alongside
	// its Argon2id hash. The plain key is shown once and never stored.
	Generate() (plainKey string, keyHash string, err error)

	// Hash hashes an existing plain key.
	Hash(plainKey string) (string, error)
}

// apiKeyGenerator implements APIKeyGenerator using Argon2id hashing.
type apiKeyGenerator struct {
	hasher *pwdhash.PasswordHasher
}

// Generate creates a new cryptographically secure 32-byte random key.
// The key is base64-encoded for easy transmission.
func (g *apiKeyGenerator) Generate() (string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random key")
	}

	plainKey := base64.URLEncoding.EncodeToString(randomBytes)

	keyHash, err := g.Hash(plainKey)
	if err != nil {
		return "", "", err
	}

	return plainKey, keyHash, nil
}

// Hash hashes a plain key using Argon2id.
func (g *apiKeyGenerator) Hash(plainKey string) (string, error) {
	keyHash, err := g.hasher.Hash([]byte(plainKey))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash key")
	}
	return keyHash, nil
}

// NewAPIKeyGenerator creates a new APIKeyGenerator instance using Argon2id.
// Uses the Moderate policy for a balance between security and performance.
func NewAPIKeyGenerator() APIKeyGenerator {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &apiKeyGenerator{
		hasher: hasher,
	}
}
