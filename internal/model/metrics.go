package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Profit returns the realized or potential gain relative to the purchase
// price. For unsold items the current value stands in as the price the item
// would realize if sold now.
func (i *Item) Profit() decimal.Decimal {
	price := i.CurrentValue
	if i.SalePrice != nil {
		price = *i.SalePrice
	}
	return price.Sub(i.PurchasePrice)
}

// ProfitPercentage returns the profit relative to the purchase price,
// rounded to one decimal place. When the purchase price is zero there is no
// meaningful percentage and ok is false.
func (i *Item) ProfitPercentage() (pct decimal.Decimal, ok bool) {
	if i.PurchasePrice.IsZero() {
		return decimal.Zero, false
	}
	return i.Profit().Div(i.PurchasePrice).Mul(hundred).Round(1), true
}

// HoldingDuration renders how long the item has been held, from purchase
// date until sale date if sold, else until now. Months and years use 30-
// and 365-day approximations, which is fine for display but not calendar
// arithmetic. Returns "" when the purchase date does not parse.
func (i *Item) HoldingDuration(now time.Time) string {
	start, err := ParseDate(i.PurchaseDate)
	if err != nil {
		return ""
	}

	end := now
	if i.Sold() {
		if t, err := ParseDate(i.SaleDate); err == nil {
			end = t
		}
	}

	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		days = 0
	}

	switch {
	case days < 30:
		return pluralize(days, "day")
	case days < 365:
		return pluralize(days/30, "month")
	default:
		return pluralize(days/365, "year")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
