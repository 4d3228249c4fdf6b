package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"
	"storefront-admin/internal/domain"
	"storefront-admin/internal/llm"
	productrepo "storefront-admin/internal/repository/product"
)

// Tool is a function the model can call during a chat turn.
type Tool interface {
	Spec() llm.ToolSpec
	Execute(ctx context.Context, args json.RawMessage) (any, error)
}

type ProductSearcher interface {
	Search(ctx context.Context, q productrepo.SearchQuery) ([]domain.Product, error)
}

type OrderLister interface {
	ListByUser(ctx context.Context, userID, status string) ([]domain.Order, error)
}

// ArgumentError marks tool input the model got wrong.
type ArgumentError struct {
	Tool string
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s input: %v", e.Tool, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func enumWithBlank(values []string) []string {
	return append([]string{""}, values...)
}

// searchProducts

type SearchArgs struct {
	Query    string  `json:"query"`
	Category string  `json:"category"`
	Material string  `json:"material"`
	Color    string  `json:"color"`
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
}

type SearchProduct struct {
	ID               string   `json:"id"`
	Name             *string  `json:"name"`
	Slug             string   `json:"slug"`
	Description      *string  `json:"description"`
	Price            *float64 `json:"price"`
	PriceFormatted   *string  `json:"priceFormatted"`
	Category         *string  `json:"category"`
	CategorySlug     *string  `json:"categorySlug"`
	Material         *string  `json:"material"`
	Color            *string  `json:"color"`
	Dimensions       *string  `json:"dimensions"`
	StockCount       int      `json:"stockCount"`
	StockStatus      string   `json:"stockStatus"`
	StockMessage     string   `json:"stockMessage"`
	Featured         bool     `json:"featured"`
	AssemblyRequired bool     `json:"assemblyRequired"`
	ImageURL         *string  `json:"imageUrl"`
	ProductURL       string   `json:"productUrl"`
}

type SearchResult struct {
	Found        bool            `json:"found"`
	Message      string          `json:"message"`
	TotalResults *int            `json:"totalResults,omitempty"`
	Products     []SearchProduct `json:"products"`
	Error        string          `json:"error,omitempty"`
	Filters      SearchArgs      `json:"filters"`
}

type SearchProductsTool struct {
	products ProductSearcher
	logger   *log.Logger
}

func NewSearchProductsTool(products ProductSearcher, logger *log.Logger) *SearchProductsTool {
	return &SearchProductsTool{products: products, logger: orDiscard(logger)}
}

func (t *SearchProductsTool) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "searchProducts",
		Description: "Search for products in the furniture store. Can search by name, description, or category, and filter by material, color, and price range. Returns product details including stock availability.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"query": {
					Type:        jsonschema.String,
					Description: "Search term to find products by name, description, or category (e.g., 'oak table', 'leather sofa', 'dining')",
				},
				"category": {
					Type:        jsonschema.String,
					Description: "Filter by category slug (e.g., 'sofas', 'tables', 'chairs', 'storage')",
				},
				"material": {
					Type:        jsonschema.String,
					Enum:        enumWithBlank(domain.Materials),
					Description: "Filter by material type",
				},
				"color": {
					Type:        jsonschema.String,
					Enum:        enumWithBlank(domain.Colors),
					Description: "Filter by color",
				},
				"minPrice": {
					Type:        jsonschema.Number,
					Description: "Minimum price in GBP (e.g., 100)",
				},
				"maxPrice": {
					Type:        jsonschema.Number,
					Description: "Maximum price in GBP (e.g., 500). Use 0 for no maximum.",
				},
			},
		},
	}
}

func (t *SearchProductsTool) Execute(ctx context.Context, raw json.RawMessage) (any, error) {
	var args SearchArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, &ArgumentError{Tool: "searchProducts", Err: err}
	}
	if !domain.IsMaterial(args.Material) {
		return nil, &ArgumentError{Tool: "searchProducts", Err: fmt.Errorf("material %q is not allowed", args.Material)}
	}
	if !domain.IsColor(args.Color) {
		return nil, &ArgumentError{Tool: "searchProducts", Err: fmt.Errorf("color %q is not allowed", args.Color)}
	}
	t.logger.Printf("agent: searchProducts query=%q category=%q material=%q color=%q min=%.2f max=%.2f",
		args.Query, args.Category, args.Material, args.Color, args.MinPrice, args.MaxPrice)

	products, err := t.products.Search(ctx, productrepo.SearchQuery{
		Query:         args.Query,
		CategorySlug:  args.Category,
		Material:      args.Material,
		Color:         args.Color,
		MinPricePence: poundsBound(args.MinPrice),
		MaxPricePence: poundsBound(args.MaxPrice),
	})
	if err != nil {
		t.logger.Printf("agent: searchProducts error=%v", err)
		return SearchResult{
			Message:  "An error occurred while searching for products.",
			Products: []SearchProduct{},
			Error:    err.Error(),
			Filters:  args,
		}, nil
	}
	if len(products) == 0 {
		return SearchResult{
			Message:  "No products found matching your criteria. Try different search terms or filters.",
			Products: []SearchProduct{},
			Filters:  args,
		}, nil
	}

	out := make([]SearchProduct, 0, len(products))
	for _, p := range products {
		out = append(out, t.toSearchProduct(p))
	}
	total := len(out)
	return SearchResult{
		Found:        true,
		Message:      fmt.Sprintf("Found %d %s matching your search.", total, plural(total, "product")),
		TotalResults: &total,
		Products:     out,
		Filters:      args,
	}, nil
}

func (t *SearchProductsTool) toSearchProduct(p domain.Product) SearchProduct {
	slug := p.Slug
	if slug == "" {
		slug = p.ID
		t.logger.Printf("agent: product %q (%s) is missing slug, using id", p.Name, p.ID)
	}
	sp := SearchProduct{
		ID:               p.ID,
		Name:             optional(p.Name),
		Slug:             slug,
		Description:      optional(p.Description),
		Material:         optional(p.Material),
		Color:            optional(p.Color),
		Dimensions:       optional(p.Dimensions),
		StockCount:       p.StockCount(),
		StockStatus:      domain.StockStatus(p.Stock),
		StockMessage:     domain.StockMessage(p.Stock),
		Featured:         p.Featured,
		AssemblyRequired: p.AssemblyRequired,
		ImageURL:         optional(p.FirstImageURL()),
		ProductURL:       "/products/" + slug,
	}
	if p.PricePence > 0 {
		price := domain.Pounds(p.PricePence)
		formatted := domain.FormatPrice(p.PricePence)
		sp.Price = &price
		sp.PriceFormatted = &formatted
	}
	if p.Category != nil {
		sp.Category = optional(p.Category.Title)
		sp.CategorySlug = optional(p.Category.Slug)
	}
	return sp
}

// getMyOrders

type OrdersArgs struct {
	Status string `json:"status"`
}

type OrderSummary struct {
	ID             string   `json:"id"`
	OrderNumber    *string  `json:"orderNumber"`
	Total          *float64 `json:"total"`
	TotalFormatted *string  `json:"totalFormatted"`
	Status         *string  `json:"status"`
	StatusDisplay  string   `json:"statusDisplay"`
	ItemCount      int      `json:"itemCount"`
	ItemNames      []string `json:"itemNames"`
	ItemImages     []string `json:"itemImages"`
	CreatedAt      *string  `json:"createdAt"`
	OrderURL       string   `json:"orderUrl"`
}

type OrdersResult struct {
	Found           bool           `json:"found"`
	Message         string         `json:"message"`
	Orders          []OrderSummary `json:"orders"`
	TotalOrders     int            `json:"totalOrders"`
	IsAuthenticated bool           `json:"isAuthenticated"`
	Error           string         `json:"error,omitempty"`
}

// MyOrdersTool is bound to one signed-in user.
type MyOrdersTool struct {
	orders OrderLister
	userID string
	logger *log.Logger
}

func NewMyOrdersTool(orders OrderLister, userID string, logger *log.Logger) *MyOrdersTool {
	return &MyOrdersTool{orders: orders, userID: userID, logger: orDiscard(logger)}
}

func (t *MyOrdersTool) Spec() llm.ToolSpec {
	statuses := make([]string, 0, len(domain.OrderStatuses))
	for _, s := range domain.OrderStatuses {
		statuses = append(statuses, s.Value)
	}
	return llm.ToolSpec{
		Name:        "getMyOrders",
		Description: "Get the current user's orders. Can optionally filter by order status. Only works for authenticated users.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"status": {
					Type:        jsonschema.String,
					Enum:        enumWithBlank(statuses),
					Description: "Filter orders by status (leave empty for all orders)",
				},
			},
		},
	}
}

func (t *MyOrdersTool) Execute(ctx context.Context, raw json.RawMessage) (any, error) {
	var args OrdersArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, &ArgumentError{Tool: "getMyOrders", Err: err}
	}
	if args.Status != "" && !domain.IsOrderStatus(args.Status) {
		return nil, &ArgumentError{Tool: "getMyOrders", Err: fmt.Errorf("status %q is not allowed", args.Status)}
	}
	t.logger.Printf("agent: getMyOrders user_id=%s status=%q", t.userID, args.Status)

	orders, err := t.orders.ListByUser(ctx, t.userID, args.Status)
	if err != nil {
		t.logger.Printf("agent: getMyOrders user_id=%s error=%v", t.userID, err)
		return OrdersResult{
			Message:         "An error occurred while fetching your orders.",
			Orders:          []OrderSummary{},
			IsAuthenticated: true,
			Error:           err.Error(),
		}, nil
	}
	if len(orders) == 0 {
		msg := "You don't have any orders yet."
		if args.Status != "" {
			msg = fmt.Sprintf("No orders found with status %q.", args.Status)
		}
		return OrdersResult{Message: msg, Orders: []OrderSummary{}, IsAuthenticated: true}, nil
	}

	out := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderSummary(o))
	}
	return OrdersResult{
		Found:           true,
		Message:         fmt.Sprintf("Found %d %s.", len(out), plural(len(out), "order")),
		Orders:          out,
		TotalOrders:     len(out),
		IsAuthenticated: true,
	}, nil
}

func toOrderSummary(o domain.Order) OrderSummary {
	s := OrderSummary{
		ID:            o.ID,
		OrderNumber:   optional(o.OrderNumber),
		Status:        optional(o.Status),
		StatusDisplay: domain.OrderStatusDisplay(o.Status),
		ItemCount:     o.ItemCount(),
		ItemNames:     []string{},
		ItemImages:    []string{},
		OrderURL:      "/orders/" + o.ID,
	}
	if o.TotalPence > 0 {
		total := domain.Pounds(o.TotalPence)
		formatted := domain.FormatPrice(o.TotalPence)
		s.Total = &total
		s.TotalFormatted = &formatted
	}
	if !o.CreatedAt.IsZero() {
		created := o.CreatedAt.UTC().Format(time.RFC3339)
		s.CreatedAt = &created
	}
	for _, item := range o.Items {
		if item.Product == nil {
			continue
		}
		if item.Product.Name != "" {
			s.ItemNames = append(s.ItemNames, item.Product.Name)
		}
		if url := item.Product.FirstImageURL(); url != "" {
			s.ItemImages = append(s.ItemImages, url)
		}
	}
	return s
}

func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func poundsBound(pounds float64) int64 {
	if pounds <= 0 {
		return 0
	}
	return domain.PenceFromPounds(pounds)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return logger
}
