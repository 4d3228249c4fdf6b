package insights

import (
	"math"
	"sort"
	"time"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository/stats"
)

const (
	topProductsLimit = 5
	inventoryLimit   = 5
	slowMovingStock  = 10
	urgentAfterDays  = 2
)

// Data is the raw result of the six store queries.
type Data struct {
	RecentOrders       []stats.OrderSummary
	StatusDistribution stats.StatusDistribution
	SaleLines          []stats.SaleLine
	Inventory          []stats.InventoryItem
	Unfulfilled        []stats.OrderSummary
	Revenue            stats.RevenuePeriod
}

type TopProduct struct {
	ID            string
	Name          string
	TotalQuantity int
	Revenue       float64
}

type UnfulfilledOrder struct {
	OrderNumber    string
	Total          float64
	DaysSinceOrder int
	ItemCount      int
}

// Metrics are the aggregates fed to the prompt and the fallback template.
// Money values are in pounds.
type Metrics struct {
	CurrentRevenue     float64
	PreviousRevenue    float64
	RevenueChange      float64
	CurrentOrders      int
	PreviousOrders     int
	AvgOrderValue      float64
	TopProducts        []TopProduct
	NeedsRestock       []stats.InventoryItem
	SlowMoving         []stats.InventoryItem
	TotalProducts      int
	LowStockCount      int
	StatusDistribution stats.StatusDistribution
	Unfulfilled        []UnfulfilledOrder
	UrgentOrders       int
}

// Summarize aggregates the query results as of now.
func Summarize(d Data, now time.Time) Metrics {
	m := Metrics{
		CurrentRevenue:     domain.Pounds(d.Revenue.CurrentPence),
		PreviousRevenue:    domain.Pounds(d.Revenue.PreviousPence),
		CurrentOrders:      d.Revenue.CurrentOrders,
		PreviousOrders:     d.Revenue.PreviousOrders,
		TotalProducts:      len(d.Inventory),
		StatusDistribution: d.StatusDistribution,
	}
	m.RevenueChange = RevenueChange(m.CurrentRevenue, m.PreviousRevenue)

	if len(d.RecentOrders) > 0 {
		var sum int64
		for _, o := range d.RecentOrders {
			sum += o.TotalPence
		}
		m.AvgOrderValue = domain.Pounds(sum) / float64(len(d.RecentOrders))
	}

	sales := aggregateSales(d.SaleLines)
	m.TopProducts = append([]TopProduct(nil), sales...)
	sort.SliceStable(m.TopProducts, func(i, j int) bool {
		return m.TopProducts[i].TotalQuantity > m.TopProducts[j].TotalQuantity
	})
	if len(m.TopProducts) > topProductsLimit {
		m.TopProducts = m.TopProducts[:topProductsLimit]
	}

	sold := make(map[string]int, len(sales))
	for _, s := range sales {
		sold[s.ID] = s.TotalQuantity
	}
	for _, p := range d.Inventory {
		if p.Stock == nil {
			continue
		}
		stock := *p.Stock
		if domain.NeedsAttention(stock) {
			m.LowStockCount++
			if sold[p.ID] > 0 {
				m.NeedsRestock = append(m.NeedsRestock, p)
			}
		}
		if stock > slowMovingStock && sold[p.ID] == 0 && len(m.SlowMoving) < inventoryLimit {
			m.SlowMoving = append(m.SlowMoving, p)
		}
	}
	sort.SliceStable(m.NeedsRestock, func(i, j int) bool {
		return *m.NeedsRestock[i].Stock < *m.NeedsRestock[j].Stock
	})
	if len(m.NeedsRestock) > inventoryLimit {
		m.NeedsRestock = m.NeedsRestock[:inventoryLimit]
	}

	for _, o := range d.Unfulfilled {
		days := DaysSince(o.CreatedAt, now)
		m.Unfulfilled = append(m.Unfulfilled, UnfulfilledOrder{
			OrderNumber:    o.OrderNumber,
			Total:          domain.Pounds(o.TotalPence),
			DaysSinceOrder: days,
			ItemCount:      o.ItemCount,
		})
		if days > urgentAfterDays {
			m.UrgentOrders++
		}
	}
	return m
}

// aggregateSales sums quantity and revenue per product in first-seen order.
func aggregateSales(lines []stats.SaleLine) []TopProduct {
	var out []TopProduct
	index := map[string]int{}
	for _, l := range lines {
		if l.ProductID == "" {
			continue
		}
		revenue := float64(l.Quantity) * domain.Pounds(l.ProductPricePence)
		if i, ok := index[l.ProductID]; ok {
			out[i].TotalQuantity += l.Quantity
			out[i].Revenue += revenue
			continue
		}
		name := l.ProductName
		if name == "" {
			name = "Unknown"
		}
		index[l.ProductID] = len(out)
		out = append(out, TopProduct{ID: l.ProductID, Name: name, TotalQuantity: l.Quantity, Revenue: revenue})
	}
	return out
}

// RevenueChange is the percent change from previous to current; with no
// previous revenue any current revenue counts as +100%.
func RevenueChange(current, previous float64) float64 {
	switch {
	case previous > 0:
		return (current - previous) / previous * 100
	case current > 0:
		return 100
	default:
		return 0
	}
}

// DaysSince counts whole days elapsed.
func DaysSince(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}
