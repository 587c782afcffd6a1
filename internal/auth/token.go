// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// MinSecretKeyLen is the minimum accepted signing key length in bytes.
// HS256 keys shorter than the hash output weaken the MAC.
const MinSecretKeyLen = 32

// TokenCodec creates and verifies signed, time-bounded identity tokens.
//
// Verification takes the caller-supplied now instead of reading a clock, so
// expiry behavior is deterministic under test.
type TokenCodec interface {
	// Issue builds a token asserting subject from now until now+ttl.
	Issue(subject string, now time.Time, ttl time.Duration) (string, error)

	// Verify checks a raw token and returns its subject. Failures map to
	// ErrTokenMalformed, ErrTokenBadSignature, or ErrTokenExpired.
	Verify(raw string, now time.Time) (string, error)
}

// JWTCodec implements TokenCodec with HS256 JWTs and a single process-wide
// secret loaded once at startup. It is stateless and safe for concurrent use.
type JWTCodec struct {
	secret []byte
}

// NewJWTCodec creates a JWTCodec. The secret is never rotated at runtime.
func NewJWTCodec(secret []byte) (*JWTCodec, error) {
	if len(secret) < MinSecretKeyLen {
		return nil, oops.Code("AUTH_WEAK_SECRET").
			With("min_bytes", MinSecretKeyLen).
			Errorf("signing secret must be at least %d bytes", MinSecretKeyLen)
	}
	return &JWTCodec{secret: secret}, nil
}

// Issue builds and signs a token for subject. The ttl must be positive so
// the expiry is strictly after the issue time.
func (c *JWTCodec) Issue(subject string, now time.Time, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", oops.Code("AUTH_EMPTY_SUBJECT").Errorf("token subject cannot be empty")
	}
	if ttl <= 0 {
		return "", oops.Code("AUTH_INVALID_TTL").
			With("ttl", ttl.String()).
			Errorf("token ttl must be positive")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", oops.Code("AUTH_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify parses, authenticates, and expiry-checks a raw token.
//
// The order is fixed: structural parse fails fast before any signature work,
// the HMAC comparison is constant-time inside the JWT library, and expiry is
// evaluated against the caller-supplied now. A signature failure never
// reveals which claim differs.
func (c *JWTCodec) Verify(raw string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", oops.Code("AUTH_TOKEN_MALFORMED").With("cause", err.Error()).Wrap(ErrTokenMalformed)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", oops.Code("AUTH_TOKEN_BAD_SIGNATURE").Wrap(ErrTokenBadSignature)
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", oops.Code("AUTH_TOKEN_EXPIRED").Wrap(ErrTokenExpired)
		default:
			// Unknown verification failure; report as a signature problem
			// rather than leaking detail.
			return "", oops.Code("AUTH_TOKEN_BAD_SIGNATURE").With("cause", err.Error()).Wrap(ErrTokenBadSignature)
		}
	}

	if claims.Subject == "" {
		return "", oops.Code("AUTH_TOKEN_MALFORMED").
			With("cause", "missing subject claim").
			Wrap(ErrTokenMalformed)
	}
	return claims.Subject, nil
}
