// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h in the listed order: the first middleware
// is the outermost and sees the request first. The order is fixed at wiring
// time; there is no implicit dispatch.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs every request with method, path, status, and duration.
func RequestLogger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// RequireSession gates protected routes on session token validity.
//
// Per request: no cookie means 401; a present cookie goes through token
// verification; any token failure collapses to the same 401. A valid token's
// subject is forwarded to the downstream handler via the request context.
// No database lookup happens here - authorization is purely a function of
// the token, so a deleted account's outstanding token stays valid until
// expiry.
func RequireSession(cookies *auth.SessionCookie, codec auth.TokenCodec, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := cookies.Read(r)
			if err != nil {
				writeFail(w, http.StatusUnauthorized, "authentication required")
				return
			}

			subject, err := codec.Verify(raw, time.Now())
			if err != nil {
				// The distinct token error kinds exist for logs only;
				// the client always sees the same 401.
				logger.DebugContext(r.Context(), "session rejected", "error", err)
				writeFail(w, http.StatusUnauthorized, "authentication required")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
		})
	}
}
