package domain

import "testing"

func intPtr(v int) *int {
	return &v
}

func TestStockStatus(t *testing.T) {
	cases := []struct {
		name    string
		stock   *int
		status  string
		message string
	}{
		{"unknown", nil, StockUnknown, "Stock status unknown"},
		{"sold out", intPtr(0), StockOutOfStock, "Out of stock"},
		{"negative", intPtr(-2), StockOutOfStock, "Out of stock"},
		{"one left", intPtr(1), StockLowStock, "Only 1 left in stock"},
		{"threshold", intPtr(5), StockLowStock, "Only 5 left in stock"},
		{"plenty", intPtr(12), StockInStock, "In stock (12 available)"},
	}
	for _, tc := range cases {
		if got := StockStatus(tc.stock); got != tc.status {
			t.Fatalf("%s: expected status %s, got %s", tc.name, tc.status, got)
		}
		if got := StockMessage(tc.stock); got != tc.message {
			t.Fatalf("%s: expected message %q, got %q", tc.name, tc.message, got)
		}
	}
}

func TestLowAndOutOfStock(t *testing.T) {
	if !IsOutOfStock(0) || IsOutOfStock(1) {
		t.Fatalf("out of stock should only match zero")
	}
	if IsLowStock(0) || !IsLowStock(1) || !IsLowStock(5) || IsLowStock(6) {
		t.Fatalf("low stock should match 1..5")
	}
	if !NeedsAttention(0) || !NeedsAttention(5) || NeedsAttention(6) {
		t.Fatalf("attention list should match stock <= 5")
	}
}

func TestDocumentIDs(t *testing.T) {
	if BaseID("drafts.abc") != "abc" || BaseID("abc") != "abc" {
		t.Fatalf("unexpected base id")
	}
	if DraftID("abc") != "drafts.abc" || DraftID("drafts.abc") != "drafts.abc" {
		t.Fatalf("unexpected draft id")
	}
	if !IsDraftID("drafts.abc") || IsDraftID("abc") {
		t.Fatalf("unexpected draft detection")
	}
}

func TestDocumentState(t *testing.T) {
	cases := []struct {
		state  DocumentState
		status string
		id     string
	}{
		{DocumentState{HasDraft: true}, StatusDraft, "drafts.p1"},
		{DocumentState{HasPublished: true}, StatusPublished, "p1"},
		{DocumentState{HasDraft: true, HasPublished: true}, StatusModified, "drafts.p1"},
	}
	for _, tc := range cases {
		if got := tc.state.Status(); got != tc.status {
			t.Fatalf("expected %s, got %s", tc.status, got)
		}
		if got := tc.state.CurrentID("p1"); got != tc.id {
			t.Fatalf("expected id %s, got %s", tc.id, got)
		}
	}
	if (DocumentState{}).Exists() {
		t.Fatalf("empty state should not exist")
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[int64]string{
		0:         "£0.00",
		59900:     "£599.00",
		129950:    "£1,299.50",
		123456789: "£1,234,567.89",
		-1050:     "-£10.50",
	}
	for pence, want := range cases {
		if got := FormatPrice(pence); got != want {
			t.Fatalf("FormatPrice(%d): expected %s, got %s", pence, want, got)
		}
	}
}

func TestPenceConversion(t *testing.T) {
	if got := PenceFromPounds(19.99); got != 1999 {
		t.Fatalf("expected 1999, got %d", got)
	}
	if got := PenceFromPounds(0.005); got != 1 {
		t.Fatalf("expected half to round up, got %d", got)
	}
	if got := Pounds(59950); got != 599.5 {
		t.Fatalf("expected 599.5, got %v", got)
	}
}

func TestOrderStatusDisplay(t *testing.T) {
	if got := OrderStatusDisplay(OrderStatusShipped); got != "📦 Shipped" {
		t.Fatalf("unexpected display %q", got)
	}
	if got := OrderStatusDisplay("lost"); got != "lost" {
		t.Fatalf("unknown status should pass through, got %q", got)
	}
	if got := OrderStatusLabel(""); got != "Paid" {
		t.Fatalf("empty status should default to Paid, got %q", got)
	}
	if IsOrderStatus("refunded") {
		t.Fatalf("refunded is not a valid status")
	}
}

func TestMaterialAndColor(t *testing.T) {
	if !IsMaterial("") || !IsMaterial("wood") || IsMaterial("oak") {
		t.Fatalf("unexpected material check")
	}
	if IsMaterial("plastic") || !IsColor("walnut") || IsColor("pink") {
		t.Fatalf("unexpected enum check")
	}
}
