package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is the store currency (GBP).
const CurrencySymbol = "£"

var hundred = decimal.NewFromInt(100)

// PenceFromPounds converts a pound amount to pence, rounding half away from zero.
func PenceFromPounds(pounds float64) int64 {
	return decimal.NewFromFloat(pounds).Mul(hundred).Round(0).IntPart()
}

func Pounds(pence int64) float64 {
	f, _ := decimal.New(pence, -2).Float64()
	return f
}

// FormatPrice renders pence as "£1,299.00".
func FormatPrice(pence int64) string {
	return FormatPounds(decimal.New(pence, -2))
}

// FormatPounds renders a pound amount with a thousands separator and two decimals.
func FormatPounds(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + CurrencySymbol + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
