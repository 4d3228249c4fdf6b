package insights

import "storefront-admin/internal/repository/stats"

const systemPrompt = `You are an expert e-commerce analytics assistant. Analyze the provided store data and generate actionable insights for the store admin.

Your response must be valid JSON with this exact structure:
{
  "salesTrends": {
    "summary": "2-3 sentence summary of sales performance",
    "highlights": ["highlight 1", "highlight 2", "highlight 3"],
    "trend": "up" | "down" | "stable"
  },
  "inventory": {
    "summary": "2-3 sentence summary of inventory status",
    "alerts": ["alert 1", "alert 2"],
    "recommendations": ["recommendation 1", "recommendation 2"]
  },
  "actionItems": {
    "urgent": ["urgent action 1", "urgent action 2"],
    "recommended": ["recommended action 1", "recommended action 2"],
    "opportunities": ["opportunity 1", "opportunity 2"]
  }
}

Guidelines:
- Be specific with numbers and product names
- Prioritize actionable insights
- Keep highlights, alerts, and recommendations concise (under 100 characters each)
- Focus on what the admin can do TODAY
- Use £ for currency`

type promptSummary struct {
	SalesTrends promptSales      `json:"salesTrends"`
	Inventory   promptInventory  `json:"inventory"`
	Operations  promptOperations `json:"operations"`
}

type promptSales struct {
	CurrentWeekRevenue   float64         `json:"currentWeekRevenue"`
	PreviousWeekRevenue  float64         `json:"previousWeekRevenue"`
	RevenueChangePercent string          `json:"revenueChangePercent"`
	CurrentWeekOrders    int             `json:"currentWeekOrders"`
	PreviousWeekOrders   int             `json:"previousWeekOrders"`
	AvgOrderValue        string          `json:"avgOrderValue"`
	TopProducts          []promptProduct `json:"topProducts"`
}

type promptProduct struct {
	Name      string `json:"name"`
	UnitsSold int    `json:"unitsSold"`
	Revenue   string `json:"revenue"`
}

type promptStockItem struct {
	Name     string  `json:"name"`
	Stock    *int    `json:"stock"`
	Category string `json:"category"`
}

type promptInventory struct {
	NeedsRestock  []promptStockItem `json:"needsRestock"`
	SlowMoving    []promptStockItem `json:"slowMoving"`
	TotalProducts int               `json:"totalProducts"`
	LowStockCount int               `json:"lowStockCount"`
}

type promptOrder struct {
	OrderNumber    string  `json:"orderNumber"`
	Total          float64 `json:"total"`
	DaysSinceOrder int     `json:"daysSinceOrder"`
	ItemCount      int     `json:"itemCount"`
}

type promptOperations struct {
	StatusDistribution stats.StatusDistribution `json:"statusDistribution"`
	UnfulfilledOrders  []promptOrder            `json:"unfulfilledOrders"`
	UrgentOrders       int                      `json:"urgentOrders"`
}

func promptData(m Metrics) promptSummary {
	out := promptSummary{
		SalesTrends: promptSales{
			CurrentWeekRevenue:   m.CurrentRevenue,
			PreviousWeekRevenue:  m.PreviousRevenue,
			RevenueChangePercent: fixed(m.RevenueChange, 1),
			CurrentWeekOrders:    m.CurrentOrders,
			PreviousWeekOrders:   m.PreviousOrders,
			AvgOrderValue:        fixed(m.AvgOrderValue, 2),
			TopProducts:          []promptProduct{},
		},
		Inventory: promptInventory{
			NeedsRestock:  stockItems(m.NeedsRestock),
			SlowMoving:    stockItems(m.SlowMoving),
			TotalProducts: m.TotalProducts,
			LowStockCount: m.LowStockCount,
		},
		Operations: promptOperations{
			StatusDistribution: m.StatusDistribution,
			UnfulfilledOrders:  []promptOrder{},
			UrgentOrders:       m.UrgentOrders,
		},
	}
	for _, p := range m.TopProducts {
		out.SalesTrends.TopProducts = append(out.SalesTrends.TopProducts, promptProduct{
			Name:      p.Name,
			UnitsSold: p.TotalQuantity,
			Revenue:   fixed(p.Revenue, 2),
		})
	}
	for _, o := range m.Unfulfilled {
		out.Operations.UnfulfilledOrders = append(out.Operations.UnfulfilledOrders, promptOrder(o))
	}
	return out
}

func stockItems(items []stats.InventoryItem) []promptStockItem {
	out := make([]promptStockItem, 0, len(items))
	for _, p := range items {
		out = append(out, promptStockItem{Name: p.Name, Stock: p.Stock, Category: p.Category})
	}
	return out
}
