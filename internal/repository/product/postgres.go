package product

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
	"storefront-admin/internal/search"
)

const searchLimit = 20

var table = document.Table{Name: "products", Type: domain.DocumentTypeProduct, Columns: columns}

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
m.id, m.name, m.slug, m.description, m.price_pence, m.stock, m.material, m.color,
m.dimensions, m.featured, m.assembly_required, m.images,
COALESCE(m.category_id, ''), COALESCE(c.title, ''), COALESCE(c.slug, ''),
m.has_draft, m.has_published, m.created_at, m.updated_at`

func scanProduct(row pgx.Row, extra ...any) (domain.Product, error) {
	var p domain.Product
	var cat domain.Category
	dest := []any{
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.PricePence, &p.Stock, &p.Material, &p.Color,
		&p.Dimensions, &p.Featured, &p.AssemblyRequired, &p.Images,
		&cat.ID, &cat.Title, &cat.Slug,
		&p.State.HasDraft, &p.State.HasPublished, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.Product{}, err
	}
	if cat.ID != "" {
		p.CategoryID = cat.ID
		p.Category = &cat
	}
	if p.Images == nil {
		p.Images = []domain.Image{}
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := r.store.Create(ctx, id); err != nil {
		r.logger.Printf("product repo: create error=%v", err)
		return "", err
	}
	r.logger.Printf("product repo: created id=%s", id)
	return id, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	q := fmt.Sprintf(`
WITH m AS (%s)
SELECT %s
FROM m
LEFT JOIN categories c ON c.id = m.category_id
WHERE m.id = $1
`, table.MergedView(), selectColumns)
	base := domain.BaseID(id)
	p, err := scanProduct(r.pool.QueryRow(ctx, q, base))
	if err != nil {
		if document.IsNoRows(err) {
			r.logger.Printf("product repo: get id=%s not found", base)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", base, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context, lq ListQuery) (domain.Page[domain.Product], error) {
	var where []string
	var args []any
	if lq.Filter != nil {
		args = append(args, lq.Filter.Pattern)
		where = append(where, fmt.Sprintf("m.name ILIKE $%d", len(args)))
	}
	if lq.LowStock {
		args = append(args, domain.LowStockThreshold)
		where = append(where, fmt.Sprintf("m.stock <= $%d", len(args)))
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
LEFT JOIN categories c ON c.id = m.category_id
%s
ORDER BY m.stock ASC NULLS LAST, m.name ASC
LIMIT $%d OFFSET $%d
`, table.MergedView(), selectColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return domain.Page[domain.Product]{}, err
	}
	defer rows.Close()

	var result []domain.Product
	total := 0
	for rows.Next() {
		p, err := scanProduct(rows, &total)
		if err != nil {
			return domain.Page[domain.Product]{}, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return domain.Page[domain.Product]{}, err
	}
	if len(result) == 0 && lq.Offset > 0 {
		if total, err = r.count(ctx, lq); err != nil {
			return domain.Page[domain.Product]{}, err
		}
	}
	r.logger.Printf("product repo: list count=%d total=%d", len(result), total)
	return domain.NewPage(result, total, lq.Limit, lq.Offset), nil
}

// count is used when the requested window is past the end and returned no rows.
func (r *postgresRepo) count(ctx context.Context, lq ListQuery) (int, error) {
	q := fmt.Sprintf(`
WITH m AS (%s)
SELECT count(*) FROM m
WHERE ($1::text IS NULL OR m.name ILIKE $1) AND (NOT $2 OR m.stock <= $3)
`, table.MergedView())
	var pattern *string
	if lq.Filter != nil {
		pattern = &lq.Filter.Pattern
	}
	var n int
	err := r.pool.QueryRow(ctx, q, pattern, lq.LowStock, domain.LowStockThreshold).Scan(&n)
	return n, err
}

func (r *postgresRepo) Edit(ctx context.Context, id, field string, value any) error {
	column, ok := Fields[field]
	if !ok {
		return fmt.Errorf("%w: product %s", domain.ErrInvalidField, field)
	}
	return r.store.SetColumn(ctx, id, column, value)
}

func (r *postgresRepo) Publish(ctx context.Context, id string) error {
	return r.store.Publish(ctx, id)
}

func (r *postgresRepo) Discard(ctx context.Context, id string) error {
	return r.store.Discard(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func (r *postgresRepo) ReferencingOrders(ctx context.Context, id string) ([]string, error) {
	const q = `
SELECT DISTINCT id
FROM orders
WHERE items @> jsonb_build_array(jsonb_build_object('productId', $1::text))
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, domain.BaseID(id))
	if err != nil {
		r.logger.Printf("product repo: referencing orders id=%s error=%v", id, err)
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var orderID string
		if err := rows.Scan(&orderID); err != nil {
			return nil, err
		}
		ids = append(ids, orderID)
	}
	return ids, rows.Err()
}

func (r *postgresRepo) Search(ctx context.Context, sq SearchQuery) ([]domain.Product, error) {
	q := fmt.Sprintf(`
WITH m AS (
    SELECT products.*, true AS has_published, false AS has_draft
    FROM products
    WHERE draft = false
)
SELECT %s
FROM m
LEFT JOIN categories c ON c.id = m.category_id
WHERE ($1::text = '' OR m.name ILIKE $2 OR m.description ILIKE $2 OR c.title ILIKE $2)
  AND ($3::text = '' OR c.slug = $3)
  AND ($4::text = '' OR m.material = $4)
  AND ($5::text = '' OR m.color = $5)
  AND ($6::bigint <= 0 OR m.price_pence >= $6)
  AND ($7::bigint <= 0 OR m.price_pence <= $7)
ORDER BY m.name ASC
LIMIT %d
`, selectColumns, searchLimit)
	pattern := "%" + search.Escape(sq.Query) + "%"
	rows, err := r.pool.Query(ctx, q, sq.Query, pattern, sq.CategorySlug, sq.Material, sq.Color, sq.MinPricePence, sq.MaxPricePence)
	if err != nil {
		r.logger.Printf("product repo: search query=%q error=%v", sq.Query, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("product repo: search query=%q category=%q count=%d", sq.Query, sq.CategorySlug, len(result))
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, draft, name, slug, description, price_pence, stock, material, color,
                      dimensions, featured, assembly_required, images, category_id)
VALUES ($1, false, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''))
ON CONFLICT (id, draft) DO UPDATE SET
    name = EXCLUDED.name,
    slug = EXCLUDED.slug,
    description = EXCLUDED.description,
    price_pence = EXCLUDED.price_pence,
    stock = EXCLUDED.stock,
    material = EXCLUDED.material,
    color = EXCLUDED.color,
    dimensions = EXCLUDED.dimensions,
    featured = EXCLUDED.featured,
    assembly_required = EXCLUDED.assembly_required,
    images = EXCLUDED.images,
    category_id = EXCLUDED.category_id,
    updated_at = now()
RETURNING created_at, updated_at
`
	res := p
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.Images == nil {
		res.Images = []domain.Image{}
	}
	err := r.pool.QueryRow(ctx, q,
		res.ID, res.Name, res.Slug, res.Description, res.PricePence, res.Stock, res.Material, res.Color,
		res.Dimensions, res.Featured, res.AssemblyRequired, res.Images, res.CategoryID,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert id=%s slug=%s error=%v", res.ID, res.Slug, err)
		return nil, err
	}
	res.State = domain.DocumentState{HasPublished: true}
	r.logger.Printf("product repo: upserted id=%s slug=%s", res.ID, res.Slug)
	return &res, nil
}
