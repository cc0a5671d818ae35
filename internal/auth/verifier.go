// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"log/slog"
)

// DefaultSecret is the admin password used when nothing else is configured.
// It is only suitable for a personal or demo deployment.
const DefaultSecret = "yekta2025"

// SecretVerifier accepts a single shared secret.
type SecretVerifier struct {
	digest [sha256.Size]byte
}

// NewSecretVerifier creates a verifier for secret.
func NewSecretVerifier(secret string) *SecretVerifier {
	return &SecretVerifier{digest: sha256.Sum256([]byte(secret))}
}

// Verify compares digests so the comparison time does not depend on where
// the candidate first differs or on its length.
func (v *SecretVerifier) Verify(candidate string) bool {
	d := sha256.Sum256([]byte(candidate))
	return subtle.ConstantTimeCompare(d[:], v.digest[:]) == 1
}

// HashVerifier accepts passwords matching an argon2id hash.
type HashVerifier struct {
	hash string
}

// NewHashVerifier creates a verifier for an encoded argon2id hash.
func NewHashVerifier(hash string) (*HashVerifier, error) {
	if err := ValidateHash(hash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	return &HashVerifier{hash: hash}, nil
}

// Verify checks candidate against the hash. Malformed hashes never verify.
func (v *HashVerifier) Verify(candidate string) bool {
	ok, err := CheckPassword(candidate, v.hash)
	if err != nil {
		slog.Error("admin password hash check failed", "error", err)
		return false
	}
	return ok
}
