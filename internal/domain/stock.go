package domain

import "fmt"

// LowStockThreshold is the highest stock level still considered low.
const LowStockThreshold = 5

const (
	StockInStock    = "in_stock"
	StockLowStock   = "low_stock"
	StockOutOfStock = "out_of_stock"
	StockUnknown    = "unknown"
)

func IsOutOfStock(stock int) bool {
	return stock == 0
}

func IsLowStock(stock int) bool {
	return stock > 0 && stock <= LowStockThreshold
}

// NeedsAttention matches the dashboard low-stock list, which includes sold-out items.
func NeedsAttention(stock int) bool {
	return stock <= LowStockThreshold
}

func StockStatus(stock *int) string {
	switch {
	case stock == nil:
		return StockUnknown
	case *stock <= 0:
		return StockOutOfStock
	case *stock <= LowStockThreshold:
		return StockLowStock
	default:
		return StockInStock
	}
}

func StockMessage(stock *int) string {
	switch StockStatus(stock) {
	case StockUnknown:
		return "Stock status unknown"
	case StockOutOfStock:
		return "Out of stock"
	case StockLowStock:
		return fmt.Sprintf("Only %d left in stock", *stock)
	default:
		return fmt.Sprintf("In stock (%d available)", *stock)
	}
}
