package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"storefront-admin/internal/domain"
)

func TestOrderList(t *testing.T) {
	td := newTestDeps()
	td.orders.page = domain.NewPage([]domain.Order{{ID: "o1", OrderNumber: "ORD-1"}}, 1, 20, 0)
	router := newTestRouter(t, td.deps())

	rec := do(router, http.MethodGet, "/admin/orders?status=paid", "")
	if rec.Code != http.StatusOK || td.orders.lastStatus != "paid" {
		t.Fatalf("unexpected response %d status=%q", rec.Code, td.orders.lastStatus)
	}
	if !strings.Contains(rec.Body.String(), `"ORD-1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	td := newTestDeps()
	td.orders.order = &domain.Order{ID: "o1", Status: domain.OrderStatusShipped}
	router := newTestRouter(t, td.deps())

	rec := do(router, http.MethodPut, "/admin/orders/o1/status", `{"status":"shipped"}`)
	if rec.Code != http.StatusOK || td.orders.lastStatus != "shipped" {
		t.Fatalf("unexpected response %d status=%q", rec.Code, td.orders.lastStatus)
	}

	rec = do(router, http.MethodPut, "/admin/orders/o1/status", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without status, got %d", rec.Code)
	}
}

func TestOrderUpdateStatus_Invalid(t *testing.T) {
	td := newTestDeps()
	td.orders.err = fmt.Errorf("%w: status %q", domain.ErrInvalidField, "lost")
	router := newTestRouter(t, td.deps())

	rec := do(router, http.MethodPut, "/admin/orders/o1/status", `{"status":"lost"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOrderEditAddress(t *testing.T) {
	td := newTestDeps()
	td.orders.order = &domain.Order{ID: "o1"}
	router := newTestRouter(t, td.deps())

	rec := do(router, http.MethodPatch, "/admin/orders/o1", `{"field":"address.city","value":"Leeds"}`)
	if rec.Code != http.StatusOK || td.orders.lastField != "address.city" {
		t.Fatalf("unexpected response %d field=%q", rec.Code, td.orders.lastField)
	}
}

func TestOrderGet_NotFound(t *testing.T) {
	td := newTestDeps()
	td.orders.err = domain.ErrNotFound
	router := newTestRouter(t, td.deps())

	rec := do(router, http.MethodGet, "/admin/orders/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
