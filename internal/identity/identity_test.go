package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareAssignsCandidateID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Middleware(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = CandidateIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if !isValidCandidateID(seen) {
		t.Fatalf("expected valid candidate id in context, got %q", seen)
	}

	cookies := w.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == CandidateCookieName && c.Value == seen {
			found = true
		}
	}
	if !found {
		t.Error("expected candidate cookie to be set")
	}
}

func TestMiddlewareReusesExistingCookie(t *testing.T) {
	t.Parallel()

	existing := "cand_0123456789abcdef0123456789abcdef"
	var seen string
	handler := Middleware(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = CandidateIDFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CandidateCookieName, Value: existing})
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if seen != existing {
		t.Errorf("expected existing candidate id to be reused, got %q", seen)
	}
}

func TestMiddlewareRejectsForgedCookie(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Middleware(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = CandidateIDFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CandidateCookieName, Value: "../../etc/passwd"})
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !isValidCandidateID(seen) {
		t.Errorf("expected a fresh valid candidate id, got %q", seen)
	}
	if seen == "../../etc/passwd" {
		t.Error("forged cookie value must not be accepted")
	}
}
