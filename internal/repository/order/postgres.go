package order

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository/document"
)

var table = document.Table{Name: "orders", Type: domain.DocumentTypeOrder, Columns: columns}

type postgresRepo struct {
	pool   *pgxpool.Pool
	store  *document.Store
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, store: document.NewStore(pool, table, logger), logger: logger}
}

const selectColumns = `
m.id, m.order_number, m.email, m.user_id, m.total_pence, m.status, m.address,
m.stripe_payment_id, m.items, m.has_draft, m.has_published, m.created_at, m.updated_at`

func scanOrder(row pgx.Row, extra ...any) (domain.Order, error) {
	var o domain.Order
	dest := []any{
		&o.ID, &o.OrderNumber, &o.Email, &o.UserID, &o.TotalPence, &o.Status, &o.Address,
		&o.StripePaymentID, &o.Items, &o.State.HasDraft, &o.State.HasPublished, &o.CreatedAt, &o.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.Order{}, err
	}
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return o, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	q := fmt.Sprintf(`
WITH m AS (%s)
SELECT %s
FROM m
WHERE m.id = $1
`, table.MergedView(), selectColumns)
	base := domain.BaseID(id)
	o, err := scanOrder(r.pool.QueryRow(ctx, q, base))
	if err != nil {
		if document.IsNoRows(err) {
			r.logger.Printf("order repo: get id=%s not found", base)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", base, err)
		return nil, err
	}
	orders := []domain.Order{o}
	if err := r.attachProducts(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *postgresRepo) List(ctx context.Context, lq ListQuery) (domain.Page[domain.Order], error) {
	var where []string
	var args []any
	if lq.Filter != nil {
		args = append(args, lq.Filter.Pattern)
		where = append(where, fmt.Sprintf("(m.order_number ILIKE $%[1]d OR m.email ILIKE $%[1]d)", len(args)))
	}
	if lq.Status != "" {
		args = append(args, lq.Status)
		where = append(where, fmt.Sprintf("m.status = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, lq.Limit, lq.Offset)
	q := fmt.Sprintf(`
WITH m AS (%s)
SELECT %s, count(*) OVER ()
FROM m
%s
ORDER BY m.created_at DESC, m.id ASC
LIMIT $%d OFFSET $%d
`, table.MergedView(), selectColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return domain.Page[domain.Order]{}, err
	}
	defer rows.Close()

	var result []domain.Order
	total := 0
	for rows.Next() {
		o, err := scanOrder(rows, &total)
		if err != nil {
			return domain.Page[domain.Order]{}, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows error=%v", err)
		return domain.Page[domain.Order]{}, err
	}
	if len(result) == 0 && lq.Offset > 0 {
		countQ := fmt.Sprintf(`WITH m AS (%s) SELECT count(*) FROM m %s`, table.MergedView(), clause)
		if err := r.pool.QueryRow(ctx, countQ, args[:len(args)-2]...).Scan(&total); err != nil {
			return domain.Page[domain.Order]{}, err
		}
	}
	r.logger.Printf("order repo: list count=%d total=%d", len(result), total)
	return domain.NewPage(result, total, lq.Limit, lq.Offset), nil
}

func (r *postgresRepo) Edit(ctx context.Context, id, field string, value any) error {
	if key, ok := strings.CutPrefix(field, addressPrefix); ok {
		if !isAddressField(key) {
			return fmt.Errorf("%w: order %s", domain.ErrInvalidField, field)
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: order %s must be a string", domain.ErrInvalidField, field)
		}
		return r.store.SetJSONKey(ctx, id, "address", key, s)
	}
	column, ok := Fields[field]
	if !ok {
		return fmt.Errorf("%w: order %s", domain.ErrInvalidField, field)
	}
	return r.store.SetColumn(ctx, id, column, value)
}

func isAddressField(key string) bool {
	for _, f := range domain.AddressFields {
		if f == key {
			return true
		}
	}
	return false
}

func (r *postgresRepo) Publish(ctx context.Context, id string) error {
	return r.store.Publish(ctx, id)
}

func (r *postgresRepo) Discard(ctx context.Context, id string) error {
	return r.store.Discard(ctx, id)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID, status string) ([]domain.Order, error) {
	const q = `
SELECT id, order_number, email, user_id, total_pence, status, address,
       stripe_payment_id, items, false, true, created_at, updated_at
FROM orders
WHERE draft = false AND user_id = $1 AND ($2::text = '' OR status = $2)
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID, status)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachProducts(ctx, result); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: list user_id=%s status=%q count=%d", userID, status, len(result))
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (id, draft, order_number, email, user_id, total_pence, status, address,
                    stripe_payment_id, items, created_at)
VALUES ($1, false, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, now()))
ON CONFLICT (id, draft) DO UPDATE SET
    order_number = EXCLUDED.order_number,
    email = EXCLUDED.email,
    user_id = EXCLUDED.user_id,
    total_pence = EXCLUDED.total_pence,
    status = EXCLUDED.status,
    address = EXCLUDED.address,
    stripe_payment_id = EXCLUDED.stripe_payment_id,
    items = EXCLUDED.items,
    updated_at = now()
RETURNING created_at, updated_at
`
	res := o
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.Status == "" {
		res.Status = domain.DefaultOrderStatus
	}
	items := make([]domain.OrderItem, len(res.Items))
	for i, item := range res.Items {
		item.Product = nil
		if item.Key == "" {
			item.Key = uuid.NewString()
		}
		items[i] = item
	}
	res.Items = items
	var createdAt any
	if !o.CreatedAt.IsZero() {
		createdAt = o.CreatedAt
	}
	err := r.pool.QueryRow(ctx, q,
		res.ID, res.OrderNumber, res.Email, res.UserID, res.TotalPence, res.Status, res.Address,
		res.StripePaymentID, res.Items, createdAt,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		r.logger.Printf("order repo: upsert id=%s number=%s error=%v", res.ID, res.OrderNumber, err)
		return nil, err
	}
	res.State = domain.DocumentState{HasPublished: true}
	r.logger.Printf("order repo: upserted id=%s number=%s", res.ID, res.OrderNumber)
	return &res, nil
}

// attachProducts resolves line item product references against published products.
func (r *postgresRepo) attachProducts(ctx context.Context, orders []domain.Order) error {
	seen := map[string]bool{}
	var ids []string
	for _, o := range orders {
		for _, item := range o.Items {
			if item.ProductID != "" && !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	const q = `
SELECT id, name, slug, price_pence, stock, images
FROM products
WHERE draft = false AND id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		r.logger.Printf("order repo: attach products count=%d error=%v", len(ids), err)
		return err
	}
	defer rows.Close()

	products := make(map[string]*domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.PricePence, &p.Stock, &p.Images); err != nil {
			return err
		}
		p.State.HasPublished = true
		products[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range orders {
		for j := range orders[i].Items {
			orders[i].Items[j].Product = products[orders[i].Items[j].ProductID]
		}
	}
	return nil
}
