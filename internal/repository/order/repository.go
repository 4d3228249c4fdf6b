package order

import (
	"context"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/search"
)

// ListQuery selects a window of the merged order list, newest first.
type ListQuery struct {
	Filter *search.Filter
	Status string
	Limit  int
	Offset int
}

type Repository interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, q ListQuery) (domain.Page[domain.Order], error)
	Edit(ctx context.Context, id, field string, value any) error
	Publish(ctx context.Context, id string) error
	Discard(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID, status string) ([]domain.Order, error)
	Upsert(ctx context.Context, o domain.Order) (*domain.Order, error)
}

// Fields maps editable top-level order fields to their columns. Address
// fields are edited through "address.<field>" paths.
var Fields = map[string]string{
	"status": "status",
	"email":  "email",
}

const addressPrefix = "address."

var columns = []string{
	"order_number", "email", "user_id", "total_pence", "status", "address",
	"stripe_payment_id", "items",
}
