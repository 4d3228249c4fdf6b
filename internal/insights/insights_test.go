package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront-admin/internal/repository/stats"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

type stubStats struct {
	data Data
	err  error
	// since records the window starts passed to the period queries.
	since []time.Time
}

func (s *stubStats) OrdersSince(_ context.Context, since time.Time) ([]stats.OrderSummary, error) {
	return s.data.RecentOrders, s.err
}

func (s *stubStats) StatusDistribution(context.Context) (stats.StatusDistribution, error) {
	return s.data.StatusDistribution, nil
}

func (s *stubStats) SaleLines(context.Context) ([]stats.SaleLine, error) {
	return s.data.SaleLines, nil
}

func (s *stubStats) Inventory(context.Context) ([]stats.InventoryItem, error) {
	return s.data.Inventory, nil
}

func (s *stubStats) Unfulfilled(context.Context) ([]stats.OrderSummary, error) {
	return s.data.Unfulfilled, nil
}

func (s *stubStats) RevenueByPeriod(_ context.Context, currentStart, previousStart time.Time) (stats.RevenuePeriod, error) {
	s.since = []time.Time{currentStart, previousStart}
	return s.data.Revenue, nil
}

type stubCompleter struct {
	reply  string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func sampleData() Data {
	return Data{
		RecentOrders: []stats.OrderSummary{
			{ID: "o1", TotalPence: 10000, CreatedAt: now.Add(-24 * time.Hour)},
			{ID: "o2", TotalPence: 5000, CreatedAt: now.Add(-72 * time.Hour)},
		},
		StatusDistribution: stats.StatusDistribution{Paid: 2, Shipped: 1},
		SaleLines: []stats.SaleLine{
			{ProductID: "p1", ProductName: "Oak Chair", ProductPricePence: 12000, Quantity: 1},
			{ProductID: "p2", ProductName: "Sofa", ProductPricePence: 50000, Quantity: 3},
			{ProductID: "p1", ProductName: "Oak Chair", ProductPricePence: 12000, Quantity: 1},
		},
		Inventory: []stats.InventoryItem{
			{ID: "p1", Name: "Oak Chair", Stock: intPtr(3), Category: "Chairs"},
			{ID: "p2", Name: "Sofa", Stock: intPtr(1), Category: "Sofas"},
			{ID: "p3", Name: "Lamp", Stock: intPtr(20), Category: "Lighting"},
			{ID: "p4", Name: "Rug", Stock: intPtr(0), Category: "Rugs"},
			{ID: "p5", Name: "Mystery", Stock: nil},
		},
		Unfulfilled: []stats.OrderSummary{
			{OrderNumber: "ORD-1", TotalPence: 9900, CreatedAt: now.Add(-80 * time.Hour), ItemCount: 2},
			{OrderNumber: "ORD-2", TotalPence: 1000, CreatedAt: now.Add(-30 * time.Hour), ItemCount: 1},
		},
		Revenue: stats.RevenuePeriod{CurrentPence: 15000, PreviousPence: 10000, CurrentOrders: 2, PreviousOrders: 1},
	}
}

func TestSummarize(t *testing.T) {
	m := Summarize(sampleData(), now)

	assert.Equal(t, 150.0, m.CurrentRevenue)
	assert.Equal(t, 100.0, m.PreviousRevenue)
	assert.InDelta(t, 50.0, m.RevenueChange, 1e-9)
	assert.Equal(t, 75.0, m.AvgOrderValue)

	require.Len(t, m.TopProducts, 2)
	assert.Equal(t, "Sofa", m.TopProducts[0].Name)
	assert.Equal(t, 3, m.TopProducts[0].TotalQuantity)
	assert.Equal(t, 1500.0, m.TopProducts[0].Revenue)
	assert.Equal(t, 2, m.TopProducts[1].TotalQuantity)

	require.Len(t, m.NeedsRestock, 2)
	assert.Equal(t, "Sofa", m.NeedsRestock[0].Name)
	assert.Equal(t, "Oak Chair", m.NeedsRestock[1].Name)

	require.Len(t, m.SlowMoving, 1)
	assert.Equal(t, "Lamp", m.SlowMoving[0].Name)

	assert.Equal(t, 5, m.TotalProducts)
	assert.Equal(t, 3, m.LowStockCount)

	require.Len(t, m.Unfulfilled, 2)
	assert.Equal(t, 3, m.Unfulfilled[0].DaysSinceOrder)
	assert.Equal(t, 1, m.Unfulfilled[1].DaysSinceOrder)
	assert.Equal(t, 99.0, m.Unfulfilled[0].Total)
	assert.Equal(t, 1, m.UrgentOrders)
}

func TestRevenueChange(t *testing.T) {
	assert.Equal(t, 100.0, RevenueChange(50, 0))
	assert.Equal(t, 0.0, RevenueChange(0, 0))
	assert.Equal(t, -50.0, RevenueChange(50, 100))
}

func TestParseInsights(t *testing.T) {
	reply := "Here you go:\n```json\n{\"salesTrends\":{\"summary\":\"Good week\",\"highlights\":[\"a\"],\"trend\":\"up\"},\"inventory\":{\"summary\":\"ok\"},\"actionItems\":{\"urgent\":[\"ship\"]}}\n```"
	out, err := ParseInsights(reply)
	require.NoError(t, err)
	assert.Equal(t, "Good week", out.SalesTrends.Summary)
	assert.Equal(t, TrendUp, out.SalesTrends.Trend)
	assert.Equal(t, []string{}, out.Inventory.Alerts)
	assert.Equal(t, []string{"ship"}, out.ActionItems.Urgent)

	_, err = ParseInsights("no json here")
	assert.Error(t, err)
	_, err = ParseInsights("{not json}")
	assert.Error(t, err)
}

func TestFallback(t *testing.T) {
	out := Fallback(Summarize(sampleData(), now))

	assert.Equal(t, "Revenue this week: £150.00 (+50.0% vs last week)", out.SalesTrends.Summary)
	assert.Equal(t, []string{"2 orders this week", "Average order value: £75.00", "Top seller: Sofa"}, out.SalesTrends.Highlights)
	assert.Equal(t, TrendUp, out.SalesTrends.Trend)
	assert.Equal(t, "2 products need restocking. 1 products have no recent sales.", out.Inventory.Summary)
	assert.Equal(t, []string{"Sofa has only 1 left", "Oak Chair has only 3 left"}, out.Inventory.Alerts)
	assert.Equal(t, []string{"Ship 2 pending orders"}, out.ActionItems.Urgent)
}

func TestFallback_Empty(t *testing.T) {
	out := Fallback(Summarize(Data{}, now))

	assert.Equal(t, "Revenue this week: £0.00 (0.0% vs last week)", out.SalesTrends.Summary)
	assert.Equal(t, "No sales data yet", out.SalesTrends.Highlights[2])
	assert.Equal(t, TrendStable, out.SalesTrends.Trend)
	assert.Empty(t, out.Inventory.Alerts)
	assert.Equal(t, []string{"All orders fulfilled!"}, out.ActionItems.Urgent)
}

func TestGenerate_AI(t *testing.T) {
	repo := &stubStats{data: sampleData()}
	llm := &stubCompleter{reply: `{"salesTrends":{"summary":"s","highlights":[],"trend":"down"},"inventory":{"summary":"i","alerts":[],"recommendations":[]},"actionItems":{"urgent":[],"recommended":[],"opportunities":[]}}`}
	svc := New(repo, llm, nil)
	svc.now = func() time.Time { return now }

	resp, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, SourceAI, resp.Source)
	assert.Equal(t, TrendDown, resp.Insights.SalesTrends.Trend)
	assert.Equal(t, now, resp.GeneratedAt)
	assert.Equal(t, RawMetrics{
		CurrentRevenue:   150,
		PreviousRevenue:  100,
		RevenueChange:    "50.0",
		OrderCount:       2,
		AvgOrderValue:    "75.00",
		UnfulfilledCount: 2,
		LowStockCount:    3,
	}, resp.RawMetrics)

	assert.Contains(t, llm.prompt, `"revenueChangePercent": "50.0"`)
	assert.Contains(t, llm.prompt, `"name": "Sofa"`)
	assert.Equal(t, []time.Time{now.Add(-period), now.Add(-2 * period)}, repo.since)
}

func TestGenerate_FallbackOnLLMError(t *testing.T) {
	svc := New(&stubStats{data: sampleData()}, &stubCompleter{err: errors.New("gateway down")}, nil)
	svc.now = func() time.Time { return now }

	resp, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resp.Source)
	assert.Equal(t, "Revenue this week: £150.00 (+50.0% vs last week)", resp.Insights.SalesTrends.Summary)
}

func TestGenerate_FallbackOnUnparseableReply(t *testing.T) {
	svc := New(&stubStats{data: sampleData()}, &stubCompleter{reply: "sorry, I cannot"}, nil)

	resp, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resp.Source)
}

func TestGenerate_QueryError(t *testing.T) {
	svc := New(&stubStats{err: errors.New("db down")}, &stubCompleter{}, nil)

	_, err := svc.Generate(context.Background())
	assert.Error(t, err)
}
