package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func cronProtected(secret string) http.Handler {
	return RequireCronSecret(secret, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireCronSecret_AllowsQuerySecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cron/update-stats?secret=s3cret", nil)
	rec := httptest.NewRecorder()

	cronProtected("s3cret").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireCronSecret_AllowsBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cron/update-stats", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()

	cronProtected("s3cret").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireCronSecret_RejectsWrongSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cron/update-stats?secret=nope", nil)
	rec := httptest.NewRecorder()

	cronProtected("s3cret").ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireCronSecret_UnconfiguredSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cron/update-stats?secret=anything", nil)
	rec := httptest.NewRecorder()

	cronProtected("").ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
