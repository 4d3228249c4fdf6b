package domain

import "time"

var (
	Materials = []string{"wood", "metal", "fabric", "leather", "glass"}
	Colors    = []string{"black", "white", "oak", "walnut", "grey", "natural"}
)

// Image is one entry of a product's ordered image list.
type Image struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Product struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Description      string        `json:"description,omitempty"`
	PricePence       int64         `json:"pricePence"`
	Stock            *int          `json:"stock"`
	Material         string        `json:"material,omitempty"`
	Color            string        `json:"color,omitempty"`
	Dimensions       string        `json:"dimensions,omitempty"`
	Featured         bool          `json:"featured"`
	AssemblyRequired bool          `json:"assemblyRequired"`
	Images           []Image       `json:"images"`
	CategoryID       string        `json:"categoryId,omitempty"`
	Category         *Category     `json:"category,omitempty"`
	State            DocumentState `json:"state"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// StockCount treats unknown stock as zero.
func (p Product) StockCount() int {
	if p.Stock == nil {
		return 0
	}
	return *p.Stock
}

func (p Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

func IsMaterial(v string) bool {
	return v == "" || contains(Materials, v)
}

func IsColor(v string) bool {
	return v == "" || contains(Colors, v)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
