// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package auth implements the credential and token lifecycle for Gatehouse.
//
// # Domain Types
//
// Account is the stored identity record. Accounts should be created with
// NewAccount, which normalizes the email and stamps an ID and creation time.
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated values.
//
// # Components
//
//   - Argon2idHasher - one-way salted password hashing with constant-time
//     verification
//   - JWTCodec - signed, time-bounded session tokens (HS256)
//   - SessionCookie - translation between a token and an HTTP cookie
//   - Service - orchestrates signup, login, and logout over the above
//
// Components are created with New* constructors that validate their
// dependencies.
package auth
