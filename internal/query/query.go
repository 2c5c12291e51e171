// Package query turns the raw item collection into a presentation-ready
// ordered sequence: search, sale filter, category filter and sort, applied
// in that fixed order.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/mlovrec/curio/internal/model"
)

// Sale filter values.
const (
	SaleAll    = "all"
	SaleSold   = "sold"
	SaleUnsold = "unsold"
)

// Sort keys.
const (
	SortCreatedAt        = "createdAt"
	SortProfit           = "profit"
	SortPurchaseDate     = "purchaseDate"
	SortProfitPercentage = "profitPercentage"
)

// Sort directions. The direction names the final orientation of the output:
// desc puts the largest value (or newest date) first.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// Params are the five inputs of the pipeline. Zero values mean "all items,
// newest first".
type Params struct {
	Search    string
	Sale      string
	Category  string
	Sort      string
	Direction string
}

// Apply runs the pipeline. It never mutates its input and always returns a
// fresh slice, so the result can be handed to rendering or statistics
// without aliasing the store. Equal sort keys keep their source order.
func Apply(items []model.Item, p Params) []model.Item {
	out := make([]model.Item, 0, len(items))

	term := strings.ToLower(strings.TrimSpace(p.Search))
	for i := range items {
		it := items[i]

		if term != "" &&
			!strings.Contains(strings.ToLower(it.Name), term) &&
			!strings.Contains(strings.ToLower(it.Category), term) {
			continue
		}

		switch p.Sale {
		case SaleSold:
			if !it.Sold() {
				continue
			}
		case SaleUnsold:
			if it.Sold() {
				continue
			}
		}

		if p.Category != "" && p.Category != "all" && it.Category != p.Category {
			continue
		}

		out = append(out, it)
	}

	sortItems(out, p.Sort, p.Direction)
	return out
}

func sortItems(items []model.Item, key, direction string) {
	var less func(a, b *model.Item) bool
	switch key {
	case SortProfit:
		less = func(a, b *model.Item) bool {
			return a.Profit().LessThan(b.Profit())
		}
	case SortProfitPercentage:
		less = lessByPercentage
	case SortPurchaseDate:
		less = func(a, b *model.Item) bool {
			return purchaseTime(a).Before(purchaseTime(b))
		}
	default: // createdAt
		less = func(a, b *model.Item) bool {
			return a.CreatedAt < b.CreatedAt
		}
	}

	desc := direction != DirectionAsc

	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(&items[j], &items[i])
		}
		return less(&items[i], &items[j])
	})
}

// lessByPercentage orders items by profit percentage; items without a
// meaningful percentage (zero purchase price) sort below everything else.
func lessByPercentage(a, b *model.Item) bool {
	av, aok := a.ProfitPercentage()
	bv, bok := b.ProfitPercentage()
	if !aok || !bok {
		return !aok && bok
	}
	return av.LessThan(bv)
}

// purchaseTime parses the purchase date for sorting; unparsable dates sort
// as the zero date.
func purchaseTime(it *model.Item) time.Time {
	t, err := model.ParseDate(it.PurchaseDate)
	if err != nil {
		return time.Time{}
	}
	return t
}
