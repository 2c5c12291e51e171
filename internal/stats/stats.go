// Package stats reduces an ordered item sequence, typically the query
// pipeline's output, into summary counters. The reduction is pure and keeps
// no state of its own.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/mlovrec/curio/internal/model"
)

// Summary holds the aggregate counters for a sequence of items.
type Summary struct {
	Total         int             `json:"total"`
	Sold          int             `json:"sold"`
	Unsold        int             `json:"unsold"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalValue    decimal.Decimal `json:"total_value"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	AverageProfit decimal.Decimal `json:"average_profit"`
	BestPerformer *model.Item     `json:"best_performer,omitempty"`
}

// Compute reduces the sequence. Total value counts the sale price for sold
// items and the current value otherwise; total profit may be negative.
// Average profit is zero for an empty sequence, and the best performer is
// the first item with the maximum profit, nil when there are none.
func Compute(items []model.Item) Summary {
	s := Summary{
		TotalSpent:    decimal.Zero,
		TotalValue:    decimal.Zero,
		TotalProfit:   decimal.Zero,
		AverageProfit: decimal.Zero,
	}

	var best *model.Item
	var bestProfit decimal.Decimal

	for i := range items {
		it := &items[i]
		s.Total++
		if it.Sold() {
			s.Sold++
		} else {
			s.Unsold++
		}

		s.TotalSpent = s.TotalSpent.Add(it.PurchasePrice)

		value := it.CurrentValue
		if it.SalePrice != nil {
			value = *it.SalePrice
		}
		s.TotalValue = s.TotalValue.Add(value)

		profit := it.Profit()
		s.TotalProfit = s.TotalProfit.Add(profit)

		if best == nil || profit.GreaterThan(bestProfit) {
			best = it
			bestProfit = profit
		}
	}

	if s.Total > 0 {
		s.AverageProfit = s.TotalProfit.Div(decimal.NewFromInt(int64(s.Total))).Round(2)
	}
	if best != nil {
		winner := *best // copy, the input stays untouched
		s.BestPerformer = &winner
	}

	return s
}
