// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// dummyDigest is verified when a login targets an unknown email, so that a
// lookup miss and a password mismatch take statistically indistinguishable
// time. This is NOT a real credential - it is a fixed decoy that matches no
// password.
//
//nolint:gosec // G101: intentionally fake digest for timing attack prevention, not a credential.
const dummyDigest = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service orchestrates signup, login, and logout. It carries no business
// logic beyond sequencing and error translation.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
	codec    TokenCodec
	tokenTTL time.Duration
}

// NewService creates a Service. All dependencies are required and the token
// ttl must be positive.
func NewService(accounts AccountRepository, hasher PasswordHasher, codec TokenCodec, tokenTTL time.Duration) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("account repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if codec == nil {
		return nil, oops.Errorf("token codec is required")
	}
	if tokenTTL <= 0 {
		return nil, oops.With("token_ttl", tokenTTL.String()).Errorf("token ttl must be positive")
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		codec:    codec,
		tokenTTL: tokenTTL,
	}, nil
}

// TokenTTL returns the configured session token lifetime.
func (s *Service) TokenTTL() time.Duration { return s.tokenTTL }

// Signup registers a new account. Cheap validation happens before any I/O:
// email syntax and minimum password length. A duplicate email surfaces as
// ErrDuplicateEmail; any other storage failure is opaque to the caller.
func (s *Service) Signup(ctx context.Context, email, password string) (*Account, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, oops.Code("AUTH_PASSWORD_TOO_SHORT").
			With("min", MinPasswordLength).
			Wrap(ErrPasswordTooShort)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := NewAccount(email, digest)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, oops.Code("AUTH_DUPLICATE_EMAIL").
				With("email", email).
				Wrap(ErrDuplicateEmail)
		}
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create account").
			Wrap(err)
	}

	return account, nil
}

// Login verifies credentials and issues a session token valid from now until
// now+TokenTTL. An unknown email and a wrong password both return
// ErrInvalidCredentials; the unknown-email path still performs a full
// argon2id verification against a decoy digest so the two cases are
// timing-indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string, now time.Time) (string, PublicAccount, error) {
	email = NormalizeEmail(email)

	account, lookupErr := s.accounts.GetByEmail(ctx, email)

	targetDigest := dummyDigest
	accountExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return "", PublicAccount{}, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get account by email").
				Wrap(lookupErr)
		}
	} else {
		targetDigest = account.PasswordHash
		accountExists = true
	}

	// Always run verification, even against the decoy digest.
	valid, verifyErr := s.hasher.Verify(password, targetDigest)
	if verifyErr != nil {
		if !accountExists {
			return "", PublicAccount{}, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return "", PublicAccount{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !accountExists || !valid {
		return "", PublicAccount{}, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, err := s.codec.Issue(account.ID.String(), now, s.tokenTTL)
	if err != nil {
		return "", PublicAccount{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	return token, account.Public(), nil
}
