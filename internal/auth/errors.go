// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when an insert would violate email uniqueness.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password. The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Validation failures surfaced by Service.Signup before any I/O happens.
var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password too short")
)

// Token verification failures. All collapse to a single 401 at the HTTP
// boundary; the distinct values exist for logging and tests.
var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
)
