// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

// maxBodyBytes bounds credential request bodies. Emails and passwords are
// small; anything larger is garbage.
const maxBodyBytes = 4 << 10

// credentialsRequest is the body of signup and login requests.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// statusResponse is the JSON envelope for status-only responses.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write error means the client went away
	json.NewEncoder(w).Encode(v)
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, statusResponse{Status: "fail", Message: message})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write error means the client went away
	fmt.Fprintln(w, body)
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return credentialsRequest{}, false
	}
	return req, true
}

// handleTest responds with a plaintext liveness string for the auth routes.
func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "auth service is up")
}

// handleSignup registers a new account.
//
// Validation failures and duplicate emails map to 400 with a specific
// message; any other storage failure is logged server-side and returned as
// an opaque 500.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		s.metrics.RecordAuth("signup", "bad_request")
		return
	}

	_, err := s.svc.Signup(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		s.metrics.RecordAuth("signup", "success")
		writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
	case errors.Is(err, auth.ErrDuplicateEmail):
		s.metrics.RecordAuth("signup", "duplicate_email")
		writeFail(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, auth.ErrInvalidEmail):
		s.metrics.RecordAuth("signup", "invalid_email")
		writeFail(w, http.StatusBadRequest, "invalid email address")
	case errors.Is(err, auth.ErrPasswordTooShort):
		s.metrics.RecordAuth("signup", "weak_password")
		writeFail(w, http.StatusBadRequest,
			fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	default:
		s.metrics.RecordAuth("signup", "error")
		errutil.LogError(s.logger, "signup failed", err)
		writeFail(w, http.StatusInternalServerError, "internal error")
	}
}

// handleLogin verifies credentials, sets the session cookie, and returns the
// public account view. Unknown email and wrong password produce the same 401
// with no cookie set.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		s.metrics.RecordAuth("login", "bad_request")
		return
	}

	token, account, err := s.svc.Login(r.Context(), req.Email, req.Password, time.Now())
	switch {
	case err == nil:
		s.metrics.RecordAuth("login", "success")
		s.cookies.Write(w, token, s.svc.TokenTTL())
		writeJSON(w, http.StatusOK, account)
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.metrics.RecordAuth("login", "unauthorized")
		writeFail(w, http.StatusUnauthorized, "invalid email or password")
	default:
		s.metrics.RecordAuth("login", "error")
		errutil.LogError(s.logger, "login failed", err)
		writeFail(w, http.StatusInternalServerError, "internal error")
	}
}

// handleLogout clears the session cookie. Idempotent: it succeeds whether or
// not a valid session was presented, with no lookup.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.metrics.RecordAuth("logout", "success")
	s.cookies.Clear(w)
	writeText(w, http.StatusOK, "logged out")
}

// handleProtected is the sample gated route. The subject was resolved by
// RequireSession and travels in the request context.
func (s *Server) handleProtected(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		// Only reachable if the route is wired without RequireSession.
		writeFail(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeText(w, http.StatusOK, "hello, "+subject)
}
