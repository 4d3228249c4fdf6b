package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront-admin/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestSearchProducts_ShapesResults(t *testing.T) {
	searcher := &stubSearcher{products: []domain.Product{
		{
			ID: "p1", Name: "Oak Table", Slug: "", PricePence: 129900, Stock: intPtr(3),
			Material: "wood", Color: "oak", Category: &domain.Category{Title: "Tables", Slug: "tables"},
			Images: []domain.Image{{Key: "k", URL: "/assets/t.jpg"}},
		},
		{ID: "p2", Name: "Stool", Slug: "stool"},
	}}
	tool := NewSearchProductsTool(searcher, nil)

	out, err := tool.Execute(context.Background(), json.RawMessage(`{"query":"table","minPrice":100,"maxPrice":0}`))
	require.NoError(t, err)
	res := out.(SearchResult)

	assert.True(t, res.Found)
	assert.Equal(t, "Found 2 products matching your search.", res.Message)
	require.NotNil(t, res.TotalResults)
	assert.Equal(t, 2, *res.TotalResults)
	assert.Equal(t, int64(10000), searcher.last.MinPricePence)
	assert.Equal(t, int64(0), searcher.last.MaxPricePence)

	first := res.Products[0]
	assert.Equal(t, "p1", first.Slug)
	assert.Equal(t, "/products/p1", first.ProductURL)
	assert.Equal(t, "£1,299.00", *first.PriceFormatted)
	assert.Equal(t, 1299.0, *first.Price)
	assert.Equal(t, "Tables", *first.Category)
	assert.Equal(t, "low_stock", first.StockStatus)
	assert.Equal(t, "Only 3 left in stock", first.StockMessage)
	assert.Equal(t, "/assets/t.jpg", *first.ImageURL)

	second := res.Products[1]
	assert.Nil(t, second.Price)
	assert.Nil(t, second.PriceFormatted)
	assert.Nil(t, second.ImageURL)
	assert.Equal(t, "unknown", second.StockStatus)
	assert.Equal(t, 0, second.StockCount)
}

func TestSearchProducts_EmptyAndError(t *testing.T) {
	tool := NewSearchProductsTool(&stubSearcher{}, nil)
	out, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	res := out.(SearchResult)
	assert.False(t, res.Found)
	assert.Nil(t, res.TotalResults)
	assert.Equal(t, "No products found matching your criteria. Try different search terms or filters.", res.Message)

	tool = NewSearchProductsTool(&stubSearcher{err: errors.New("db down")}, nil)
	out, err = tool.Execute(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	res = out.(SearchResult)
	assert.Equal(t, "An error occurred while searching for products.", res.Message)
	assert.Equal(t, "db down", res.Error)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"products":[]`)
	assert.Contains(t, string(data), `"filters":{"query":""`)
}

func TestSearchProducts_RejectsBadEnums(t *testing.T) {
	tool := NewSearchProductsTool(&stubSearcher{}, nil)
	_, err := tool.Execute(context.Background(), json.RawMessage(`{"color":"purple"}`))
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "searchProducts", argErr.Tool)
}

func TestMyOrders(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	orders := &stubOrders{orders: []domain.Order{{
		ID: "o1", OrderNumber: "ORD-1", TotalPence: 4500, Status: domain.OrderStatusShipped, CreatedAt: created,
		Items: []domain.OrderItem{
			{ProductID: "p1", Product: &domain.Product{Name: "Lamp", Images: []domain.Image{{URL: "/assets/l.jpg"}}}},
			{ProductID: "gone"},
		},
	}}}
	tool := NewMyOrdersTool(orders, "user-1", nil)

	out, err := tool.Execute(context.Background(), json.RawMessage(`{"status":"shipped"}`))
	require.NoError(t, err)
	res := out.(OrdersResult)
	assert.Equal(t, "user-1", orders.user)
	assert.Equal(t, "shipped", orders.status)
	assert.True(t, res.Found)
	assert.Equal(t, "Found 1 order.", res.Message)
	assert.True(t, res.IsAuthenticated)

	o := res.Orders[0]
	assert.Equal(t, "📦 Shipped", o.StatusDisplay)
	assert.Equal(t, "£45.00", *o.TotalFormatted)
	assert.Equal(t, 2, o.ItemCount)
	assert.Equal(t, []string{"Lamp"}, o.ItemNames)
	assert.Equal(t, []string{"/assets/l.jpg"}, o.ItemImages)
	assert.Equal(t, "2026-03-01T12:00:00Z", *o.CreatedAt)
	assert.Equal(t, "/orders/o1", o.OrderURL)
}

func TestMyOrders_EmptyMessages(t *testing.T) {
	tool := NewMyOrdersTool(&stubOrders{}, "user-1", nil)

	out, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "You don't have any orders yet.", out.(OrdersResult).Message)

	out, err = tool.Execute(context.Background(), json.RawMessage(`{"status":"cancelled"}`))
	require.NoError(t, err)
	assert.Equal(t, `No orders found with status "cancelled".`, out.(OrdersResult).Message)

	_, err = tool.Execute(context.Background(), json.RawMessage(`{"status":"lost"}`))
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
}
