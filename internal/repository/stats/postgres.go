package stats

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront-admin/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderSummaryColumns = `id, order_number, email, total_pence, status, created_at, jsonb_array_length(items)`

func (r *postgresRepo) OrdersSince(ctx context.Context, since time.Time) ([]OrderSummary, error) {
	const q = `
SELECT ` + orderSummaryColumns + `
FROM orders
WHERE draft = false AND status <> $1 AND created_at >= $2
ORDER BY created_at DESC
`
	return r.orderSummaries(ctx, "orders since", q, domain.OrderStatusCancelled, since)
}

func (r *postgresRepo) Unfulfilled(ctx context.Context) ([]OrderSummary, error) {
	const q = `
SELECT ` + orderSummaryColumns + `
FROM orders
WHERE draft = false AND status = $1
ORDER BY created_at ASC
`
	return r.orderSummaries(ctx, "unfulfilled", q, domain.OrderStatusPaid)
}

func (r *postgresRepo) orderSummaries(ctx context.Context, op, q string, args ...any) ([]OrderSummary, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("stats repo: %s error=%v", op, err)
		return nil, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (OrderSummary, error) {
		var o OrderSummary
		err := row.Scan(&o.ID, &o.OrderNumber, &o.Email, &o.TotalPence, &o.Status, &o.CreatedAt, &o.ItemCount)
		return o, err
	})
	if err != nil {
		r.logger.Printf("stats repo: %s rows error=%v", op, err)
		return nil, err
	}
	r.logger.Printf("stats repo: %s count=%d", op, len(out))
	return out, nil
}

func (r *postgresRepo) StatusDistribution(ctx context.Context) (StatusDistribution, error) {
	const q = `
SELECT count(*) FILTER (WHERE status = 'paid'),
       count(*) FILTER (WHERE status = 'shipped'),
       count(*) FILTER (WHERE status = 'delivered'),
       count(*) FILTER (WHERE status = 'cancelled')
FROM orders
WHERE draft = false
`
	var d StatusDistribution
	if err := r.pool.QueryRow(ctx, q).Scan(&d.Paid, &d.Shipped, &d.Delivered, &d.Cancelled); err != nil {
		r.logger.Printf("stats repo: status distribution error=%v", err)
		return StatusDistribution{}, err
	}
	return d, nil
}

func (r *postgresRepo) SaleLines(ctx context.Context) ([]SaleLine, error) {
	const q = `
SELECT item->>'productId', COALESCE(p.name, ''), COALESCE(p.price_pence, 0), COALESCE((item->>'quantity')::int, 0)
FROM orders o
CROSS JOIN LATERAL jsonb_array_elements(o.items) AS item
LEFT JOIN products p ON p.id = item->>'productId' AND p.draft = false
WHERE o.draft = false AND o.status <> $1 AND COALESCE(item->>'productId', '') <> ''
`
	rows, err := r.pool.Query(ctx, q, domain.OrderStatusCancelled)
	if err != nil {
		r.logger.Printf("stats repo: sale lines error=%v", err)
		return nil, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SaleLine, error) {
		var s SaleLine
		err := row.Scan(&s.ProductID, &s.ProductName, &s.ProductPricePence, &s.Quantity)
		return s, err
	})
	if err != nil {
		return nil, err
	}
	r.logger.Printf("stats repo: sale lines count=%d", len(out))
	return out, nil
}

func (r *postgresRepo) Inventory(ctx context.Context) ([]InventoryItem, error) {
	const q = `
SELECT p.id, p.name, p.price_pence, p.stock, COALESCE(c.title, '')
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
WHERE p.draft = false
ORDER BY p.name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("stats repo: inventory error=%v", err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (InventoryItem, error) {
		var it InventoryItem
		err := row.Scan(&it.ID, &it.Name, &it.PricePence, &it.Stock, &it.Category)
		return it, err
	})
}

func (r *postgresRepo) RevenueByPeriod(ctx context.Context, currentStart, previousStart time.Time) (RevenuePeriod, error) {
	const q = `
SELECT COALESCE(sum(total_pence) FILTER (WHERE created_at >= $2), 0)::bigint,
       COALESCE(sum(total_pence) FILTER (WHERE created_at >= $3 AND created_at < $2), 0)::bigint,
       count(*) FILTER (WHERE created_at >= $2),
       count(*) FILTER (WHERE created_at >= $3 AND created_at < $2)
FROM orders
WHERE draft = false AND status <> $1 AND created_at >= $3
`
	var p RevenuePeriod
	err := r.pool.QueryRow(ctx, q, domain.OrderStatusCancelled, currentStart, previousStart).
		Scan(&p.CurrentPence, &p.PreviousPence, &p.CurrentOrders, &p.PreviousOrders)
	if err != nil {
		r.logger.Printf("stats repo: revenue error=%v", err)
		return RevenuePeriod{}, err
	}
	return p, nil
}
