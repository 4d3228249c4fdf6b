// Package seed writes a small demo furniture catalog with orders spread over
// the last two weeks, enough to exercise the dashboard, chat and insights.
package seed

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"storefront-admin/internal/domain"
)

// DemoUserID owns the seeded orders that the chat order tool can see.
const DemoUserID = "demo-user"

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type OrderWriter interface {
	Upsert(ctx context.Context, o domain.Order) (*domain.Order, error)
}

type SessionIssuer interface {
	Issue(ctx context.Context, userID string) (string, error)
}

type Stores struct {
	Categories CategoryWriter
	Products   ProductWriter
	Orders     OrderWriter
	Sessions   SessionIssuer
}

type Result struct {
	Categories int
	Products   int
	Orders     int
	// Token is a session for DemoUserID, usable as a chat bearer token.
	Token string
}

type productSeed struct {
	Slug        string
	Name        string
	Description string
	Pounds      float64
	Stock       *int
	Material    string
	Color       string
	Dimensions  string
	Category    string
	Featured    bool
	Assembly    bool
}

type orderSeed struct {
	Number  string
	Email   string
	UserID  string
	Status  string
	AgeDays float64
	Items   map[string]int
}

func stock(n int) *int { return &n }

var categories = []domain.Category{
	{Slug: "sofas", Title: "Sofas"},
	{Slug: "chairs", Title: "Chairs"},
	{Slug: "tables", Title: "Tables"},
	{Slug: "lighting", Title: "Lighting"},
}

var products = []productSeed{
	{Slug: "harbour-three-seater-sofa", Name: "Harbour Three-Seater Sofa", Description: "Deep-seated sofa in soft grey weave.", Pounds: 899, Stock: stock(4), Material: "fabric", Color: "grey", Dimensions: "210x95x85cm", Category: "sofas", Featured: true},
	{Slug: "chesterfield-leather-sofa", Name: "Chesterfield Leather Sofa", Description: "Button-tufted leather with rolled arms.", Pounds: 1499, Stock: stock(12), Material: "leather", Color: "black", Dimensions: "200x90x75cm", Category: "sofas"},
	{Slug: "oak-dining-chair", Name: "Oak Dining Chair", Description: "Solid oak frame with a curved back.", Pounds: 129, Stock: stock(2), Material: "wood", Color: "oak", Dimensions: "45x50x90cm", Category: "chairs", Assembly: true},
	{Slug: "walnut-lounge-chair", Name: "Walnut Lounge Chair", Description: "Low lounge chair in walnut and wool.", Pounds: 349, Stock: stock(0), Material: "wood", Color: "walnut", Dimensions: "70x80x75cm", Category: "chairs"},
	{Slug: "glass-coffee-table", Name: "Glass Coffee Table", Description: "Tempered glass top on a steel base.", Pounds: 249, Stock: stock(15), Material: "glass", Color: "natural", Dimensions: "110x60x40cm", Category: "tables", Assembly: true},
	{Slug: "farmhouse-dining-table", Name: "Farmhouse Dining Table", Description: "Seats six, reclaimed pine.", Pounds: 699, Stock: stock(7), Material: "wood", Color: "natural", Dimensions: "180x90x76cm", Category: "tables", Featured: true},
	{Slug: "arc-floor-lamp", Name: "Arc Floor Lamp", Description: "Brushed metal arc with linen shade.", Pounds: 159, Stock: stock(22), Material: "metal", Color: "black", Dimensions: "40x180x200cm", Category: "lighting"},
	{Slug: "ceramic-table-lamp", Name: "Ceramic Table Lamp", Description: "Hand-glazed base, stock not yet counted.", Pounds: 79, Material: "glass", Color: "white", Dimensions: "25x25x50cm", Category: "lighting"},
}

var orders = []orderSeed{
	{Number: "ORD-1001", Email: "ava@example.com", UserID: DemoUserID, Status: domain.OrderStatusPaid, AgeDays: 0.5, Items: map[string]int{"oak-dining-chair": 4}},
	{Number: "ORD-1002", Email: "ben@example.com", Status: domain.OrderStatusPaid, AgeDays: 3.2, Items: map[string]int{"harbour-three-seater-sofa": 1}},
	{Number: "ORD-1003", Email: "cara@example.com", Status: domain.OrderStatusShipped, AgeDays: 2, Items: map[string]int{"farmhouse-dining-table": 1, "oak-dining-chair": 2}},
	{Number: "ORD-1004", Email: "ava@example.com", UserID: DemoUserID, Status: domain.OrderStatusDelivered, AgeDays: 9, Items: map[string]int{"walnut-lounge-chair": 1}},
	{Number: "ORD-1005", Email: "dan@example.com", Status: domain.OrderStatusDelivered, AgeDays: 11, Items: map[string]int{"harbour-three-seater-sofa": 1, "arc-floor-lamp": 1}},
	{Number: "ORD-1006", Email: "eve@example.com", Status: domain.OrderStatusCancelled, AgeDays: 5, Items: map[string]int{"chesterfield-leather-sofa": 1}},
}

// Apply upserts the demo data as of now. Ids are derived from slugs and
// order numbers, so re-running updates rows in place.
func Apply(ctx context.Context, s Stores, now time.Time, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	res := &Result{}

	categoryIDs := map[string]string{}
	for _, c := range categories {
		saved, err := s.Categories.Upsert(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = saved.ID
		res.Categories++
	}

	prices := map[string]int64{}
	for _, p := range products {
		doc := domain.Product{
			ID:               "product-" + p.Slug,
			Name:             p.Name,
			Slug:             p.Slug,
			Description:      p.Description,
			PricePence:       domain.PenceFromPounds(p.Pounds),
			Stock:            p.Stock,
			Material:         p.Material,
			Color:            p.Color,
			Dimensions:       p.Dimensions,
			Featured:         p.Featured,
			AssemblyRequired: p.Assembly,
			CategoryID:       categoryIDs[p.Category],
			Images:           []domain.Image{},
		}
		if _, err := s.Products.Upsert(ctx, doc); err != nil {
			return nil, fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
		prices[p.Slug] = doc.PricePence
		res.Products++
	}

	for n, o := range orders {
		doc := domain.Order{
			ID:          fmt.Sprintf("order-demo-%d", n+1),
			OrderNumber: o.Number,
			Email:       o.Email,
			UserID:      o.UserID,
			Status:      o.Status,
			Address: &domain.Address{
				Name:     "Demo Customer",
				Line1:    fmt.Sprintf("%d High Street", n+1),
				City:     "London",
				Postcode: "N1 1AA",
				Country:  "GB",
			},
			CreatedAt: now.Add(-time.Duration(o.AgeDays * float64(24*time.Hour))),
		}
		for _, p := range products {
			qty, ok := o.Items[p.Slug]
			if !ok {
				continue
			}
			price := prices[p.Slug]
			doc.Items = append(doc.Items, domain.OrderItem{
				Key:        fmt.Sprintf("%s-%s", doc.ID, p.Slug),
				ProductID:  "product-" + p.Slug,
				Quantity:   qty,
				PricePence: price,
			})
			doc.TotalPence += price * int64(qty)
		}
		if _, err := s.Orders.Upsert(ctx, doc); err != nil {
			return nil, fmt.Errorf("upsert order %s: %w", o.Number, err)
		}
		res.Orders++
	}

	if s.Sessions != nil {
		token, err := s.Sessions.Issue(ctx, DemoUserID)
		if err != nil {
			return nil, fmt.Errorf("issue demo session: %w", err)
		}
		res.Token = token
	}

	logger.Printf("seed: applied categories=%d products=%d orders=%d", res.Categories, res.Products, res.Orders)
	return res, nil
}
