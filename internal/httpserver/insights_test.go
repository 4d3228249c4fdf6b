package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"storefront-admin/internal/insights"
)

func TestInsights(t *testing.T) {
	td := newTestDeps()
	td.insights.resp = &insights.Response{Success: true, Source: insights.SourceFallback}
	router := newTestRouter(t, td.deps())

	rec := do(router, http.MethodGet, "/api/admin/insights", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"source":"fallback"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestInsights_Error(t *testing.T) {
	td := newTestDeps()
	td.insights.err = errors.New("db down")
	router := newTestRouter(t, td.deps())

	rec := do(router, http.MethodGet, "/api/admin/insights", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"Failed to generate insights"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
