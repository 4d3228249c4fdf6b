package insights

import "fmt"

// Fallback builds template insights from the metrics alone.
func Fallback(m Metrics) Insights {
	sign := ""
	if m.RevenueChange > 0 {
		sign = "+"
	}
	topSeller := "No sales data yet"
	if len(m.TopProducts) > 0 {
		topSeller = "Top seller: " + m.TopProducts[0].Name
	}
	trend := TrendStable
	switch {
	case m.RevenueChange > 5:
		trend = TrendUp
	case m.RevenueChange < -5:
		trend = TrendDown
	}

	alerts := []string{}
	for i, p := range m.NeedsRestock {
		if i == 2 {
			break
		}
		alerts = append(alerts, fmt.Sprintf("%s has only %d left", p.Name, *p.Stock))
	}

	urgent := []string{"All orders fulfilled!"}
	if n := len(m.Unfulfilled); n > 0 {
		urgent = []string{fmt.Sprintf("Ship %d pending orders", n)}
	}

	return Insights{
		SalesTrends: SalesTrends{
			Summary: fmt.Sprintf("Revenue this week: £%s (%s%s%% vs last week)",
				fixed(m.CurrentRevenue, 2), sign, fixed(m.RevenueChange, 1)),
			Highlights: []string{
				fmt.Sprintf("%d orders this week", m.CurrentOrders),
				"Average order value: £" + fixed(m.AvgOrderValue, 2),
				topSeller,
			},
			Trend: trend,
		},
		Inventory: InventoryInsights{
			Summary: fmt.Sprintf("%d products need restocking. %d products have no recent sales.",
				len(m.NeedsRestock), len(m.SlowMoving)),
			Alerts: alerts,
			Recommendations: []string{
				"Review low stock items before the weekend",
				"Consider promotions for slow-moving inventory",
			},
		},
		ActionItems: ActionItems{
			Urgent:        urgent,
			Recommended:   []string{"Review inventory levels", "Check product listings"},
			Opportunities: []string{"Featured products drive more sales"},
		},
	}
}
