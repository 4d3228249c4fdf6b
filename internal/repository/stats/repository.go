package stats

import (
	"context"
	"time"
)

type OrderSummary struct {
	ID          string
	OrderNumber string
	Email       string
	TotalPence  int64
	Status      string
	CreatedAt   time.Time
	ItemCount   int
}

type StatusDistribution struct {
	Paid      int `json:"paid"`
	Shipped   int `json:"shipped"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
}

// SaleLine is one order line joined with the product's current price.
type SaleLine struct {
	ProductID         string
	ProductName       string
	ProductPricePence int64
	Quantity          int
}

type InventoryItem struct {
	ID         string
	Name       string
	PricePence int64
	Stock      *int
	Category   string
}

type RevenuePeriod struct {
	CurrentPence   int64
	PreviousPence  int64
	CurrentOrders  int
	PreviousOrders int
}

// Repository runs the read-only queries behind the insights panel. All of
// them read published documents; cancelled orders never count as sales.
type Repository interface {
	OrdersSince(ctx context.Context, since time.Time) ([]OrderSummary, error)
	StatusDistribution(ctx context.Context) (StatusDistribution, error)
	SaleLines(ctx context.Context) ([]SaleLine, error)
	Inventory(ctx context.Context) ([]InventoryItem, error)
	Unfulfilled(ctx context.Context) ([]OrderSummary, error)
	RevenueByPeriod(ctx context.Context, currentStart, previousStart time.Time) (RevenuePeriod, error)
}
