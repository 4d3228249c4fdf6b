package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"storefront-admin/internal/domain"
)

func TestEvents_StreamsChanges(t *testing.T) {
	td := newTestDeps()
	td.events.events = []domain.ChangeEvent{
		{DocumentID: "drafts.p1", DocumentType: domain.DocumentTypeProduct, Action: domain.ActionEdit},
	}
	router := newTestRouter(t, td.deps())

	req := httptest.NewRequest(http.MethodGet, "/admin/events?type=product&id=p1", nil)
	rec := gin.CreateTestResponseRecorder()
	router.ServeHTTP(rec, req)

	if td.events.filter.Type != "product" || td.events.filter.ID != "p1" {
		t.Fatalf("unexpected filter %+v", td.events.filter)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event:change") || !strings.Contains(body, `"documentId":"drafts.p1"`) {
		t.Fatalf("unexpected stream: %s", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("unexpected content type %q", ct)
	}
}
