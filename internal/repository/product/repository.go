package product

import (
	"context"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/search"
)

// ListQuery selects a window of the merged product list.
type ListQuery struct {
	Filter   *search.Filter
	LowStock bool
	Limit    int
	Offset   int
}

// SearchQuery is the shopper-facing product search over published products.
// Zero values disable a criterion.
type SearchQuery struct {
	Query         string
	CategorySlug  string
	Material      string
	Color         string
	MinPricePence int64
	MaxPricePence int64
}

type Repository interface {
	Create(ctx context.Context) (string, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, q ListQuery) (domain.Page[domain.Product], error)
	Edit(ctx context.Context, id, field string, value any) error
	Publish(ctx context.Context, id string) error
	Discard(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ReferencingOrders(ctx context.Context, id string) ([]string, error)
	Search(ctx context.Context, q SearchQuery) ([]domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

// Fields maps editable product fields to their columns.
var Fields = map[string]string{
	"name":             "name",
	"slug":             "slug",
	"description":      "description",
	"price":            "price_pence",
	"stock":            "stock",
	"material":         "material",
	"color":            "color",
	"dimensions":       "dimensions",
	"featured":         "featured",
	"assemblyRequired": "assembly_required",
	"images":           "images",
	"category":         "category_id",
}

var columns = []string{
	"name", "slug", "description", "price_pence", "stock", "material", "color",
	"dimensions", "featured", "assembly_required", "images", "category_id",
}
