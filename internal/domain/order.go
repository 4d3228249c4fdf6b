package domain

import "time"

type Address struct {
	Name     string `json:"name"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// AddressFields are the editable keys under the "address." path.
var AddressFields = []string{"name", "line1", "line2", "city", "postcode", "country"}

type OrderItem struct {
	Key        string   `json:"key"`
	ProductID  string   `json:"productId"`
	Quantity   int      `json:"quantity"`
	PricePence int64    `json:"priceAtPurchasePence"`
	Product    *Product `json:"product,omitempty"`
}

type Order struct {
	ID              string        `json:"id"`
	OrderNumber     string        `json:"orderNumber"`
	Email           string        `json:"email"`
	UserID          string        `json:"userId,omitempty"`
	TotalPence      int64         `json:"totalPence"`
	Status          string        `json:"status"`
	Address         *Address      `json:"address"`
	StripePaymentID string        `json:"stripePaymentId,omitempty"`
	Items           []OrderItem   `json:"items"`
	State           DocumentState `json:"state"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (o Order) ItemCount() int {
	return len(o.Items)
}
