// Package proposal contains the pure business logic for proposals:
// line totals, status guards and expiry.
package proposal

import "math"

// Item is a proposal line.
type Item struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

// LineTotal returns quantity × unit price rounded to cents.
func LineTotal(it Item) float64 {
	return roundCents(it.Quantity * it.UnitPrice)
}

// TotalAmount sums the line totals and subtracts the discount.
// The result is never negative.
func TotalAmount(items []Item, discount float64) float64 {
	var sum float64
	for _, it := range items {
		sum += LineTotal(it)
	}
	total := roundCents(sum - discount)
	if total < 0 {
		return 0
	}
	return total
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
