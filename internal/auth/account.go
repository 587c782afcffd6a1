// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// emailRegex is a deliberately loose syntactic check: one @, no whitespace,
// and a dot in the domain part. Deliverability is not this package's problem.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Account is a registered user's stored identity and credential.
// The PasswordHash field holds an argon2id digest, never the plaintext.
type Account struct {
	ID           ulid.ULID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicAccount is the client-facing view of an Account. It never carries
// the password hash.
type PublicAccount struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the client-facing view of the account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:        a.ID.String(),
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}

// NormalizeEmail case-folds and trims an email address so that two
// differently-cased spellings cannot produce two accounts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks syntactic well-formedness of an already-normalized
// email address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Wrap(ErrInvalidEmail)
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").
			With("email", email).
			Wrap(ErrInvalidEmail)
	}
	return nil
}

// NewAccount creates a validated Account with a fresh ID. The email is
// normalized; the password hash must already be computed by a PasswordHasher.
func NewAccount(email, passwordHash string) (*Account, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_EMPTY_HASH").Errorf("password hash cannot be empty")
	}
	return &Account{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// AccountRepository manages account persistence.
//
// Implementations must enforce email uniqueness atomically at the storage
// boundary; a check-then-insert in application code admits a race between
// concurrent signups.
type AccountRepository interface {
	// Create stores a new account. Returns ErrDuplicateEmail (possibly
	// wrapped) if an account with the same normalized email exists.
	Create(ctx context.Context, account *Account) error

	// GetByEmail retrieves an account by normalized email.
	// Returns ErrNotFound (possibly wrapped) if no account matches.
	GetByEmail(ctx context.Context, email string) (*Account, error)
}
