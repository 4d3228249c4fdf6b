package domain

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// DefaultOrderStatus is shown when an order has no status yet.
const DefaultOrderStatus = OrderStatusPaid

type OrderStatusInfo struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// OrderStatuses lists statuses in lifecycle order.
var OrderStatuses = []OrderStatusInfo{
	{Value: OrderStatusPending, Label: "Pending", Emoji: "⏳"},
	{Value: OrderStatusPaid, Label: "Paid", Emoji: "✅"},
	{Value: OrderStatusShipped, Label: "Shipped", Emoji: "📦"},
	{Value: OrderStatusDelivered, Label: "Delivered", Emoji: "🎉"},
	{Value: OrderStatusCancelled, Label: "Cancelled", Emoji: "❌"},
}

func LookupOrderStatus(status string) (OrderStatusInfo, bool) {
	for _, s := range OrderStatuses {
		if s.Value == status {
			return s, true
		}
	}
	return OrderStatusInfo{}, false
}

func IsOrderStatus(status string) bool {
	_, ok := LookupOrderStatus(status)
	return ok
}

// OrderStatusDisplay renders "📦 Shipped"; unknown statuses are returned as is.
func OrderStatusDisplay(status string) string {
	info, ok := LookupOrderStatus(status)
	if !ok {
		return status
	}
	return info.Emoji + " " + info.Label
}

func OrderStatusLabel(status string) string {
	if status == "" {
		status = DefaultOrderStatus
	}
	info, ok := LookupOrderStatus(status)
	if !ok {
		return status
	}
	return info.Label
}
