// Package identity provides anonymous per-candidate identity primitives.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

const (
	// CandidateCookieName carries the anonymous candidate identity.
	CandidateCookieName = "interviewsim_cand_id"
	candidateCookieAge  = 30 * 24 * time.Hour
)

type contextKey int

const candidateIDKey contextKey = iota

var candidateIDPattern = regexp.MustCompile(`^cand_[a-f0-9]{32}$`)

// CandidateIDFromContext extracts the candidate ID from the request context.
func CandidateIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(candidateIDKey).(string); ok {
		return v
	}
	return ""
}

// WithCandidateID returns a context carrying the candidate ID. Exposed for
// tests and non-HTTP entry points.
func WithCandidateID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, candidateIDKey, id)
}

func generateCandidateID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate candidate id: %w", err)
	}
	return "cand_" + hex.EncodeToString(buf), nil
}

func isValidCandidateID(id string) bool {
	return candidateIDPattern.MatchString(id)
}

func getOrCreateCandidateID(w http.ResponseWriter, r *http.Request, isDev bool) (string, error) {
	if c, err := r.Cookie(CandidateCookieName); err == nil && isValidCandidateID(c.Value) {
		setCandidateCookie(w, c.Value, isDev)
		return c.Value, nil
	}

	id, err := generateCandidateID()
	if err != nil {
		return "", err
	}
	setCandidateCookie(w, id, isDev)
	return id, nil
}

func setCandidateCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CandidateCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(candidateCookieAge.Seconds()),
		Expires:  time.Now().Add(candidateCookieAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

// Middleware injects an anonymous candidate identity into the request context.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidateID, err := getOrCreateCandidateID(w, r, isDev)
			if err != nil {
				http.Error(w, `{"error":"failed to establish candidate identity"}`, http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCandidateID(r.Context(), candidateID)))
		})
	}
}
