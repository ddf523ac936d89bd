package fakebackend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type contextKey string

const contextKeyUserID contextKey = "user_id"

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

func (b *Backend) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if !b.verbose {
			return
		}
		displayMethod := Gray + fmt.Sprintf(" %-7s", r.Method) + ResetColor
		if color, ok := methodColors[r.Method]; ok {
			displayMethod = color + fmt.Sprintf(" %-7s", r.Method) + ResetColor
		}
		status := strconv.Itoa(rec.status)
		if rec.status >= http.StatusBadRequest {
			status = Red + status + ResetColor
		}
		log.Debug().Str("request_id", r.Header.Get("X-Request-ID")).Msgf("[%-19s] %s %s", displayMethod, r.URL.Path, status)
	}
}

// requireBearer accepts only access tokens this backend issued and has not expired.
func (b *Backend) requireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			b.unauthorized.Add(1)
			writeError(w, http.StatusUnauthorized, "Token tidak ditemukan")
			return
		}

		userID, ok := b.activeToken(parts[1])
		if !ok {
			b.unauthorized.Add(1)
			writeError(w, http.StatusUnauthorized, "Token tidak valid atau kedaluwarsa")
			return
		}
		if _, err := b.creator.Verify(parts[1]); err != nil {
			b.unauthorized.Add(1)
			writeError(w, http.StatusUnauthorized, "Token tidak valid atau kedaluwarsa")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), contextKeyUserID, userID)))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
