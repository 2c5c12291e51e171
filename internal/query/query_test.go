package query

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mlovrec/curio/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(id int64, name, category string, purchase, value string) model.Item {
	return model.Item{
		ID:            id,
		Name:          name,
		Category:      category,
		PurchasePrice: dec(purchase),
		PurchaseDate:  "10/01/2024",
		CurrentValue:  dec(value),
		CreatedAt:     id,
	}
}

func sold(it model.Item, price string) model.Item {
	p := dec(price)
	it.SalePrice = &p
	it.SaleDate = "01/06/2024"
	return it
}

func ids(items []model.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	items := []model.Item{
		item(1, "Watch", "Watches", "100", "150"),
		item(2, "Camera", "Cameras", "100", "150"),
		item(3, "Old coin", "watch accessories", "100", "150"),
	}

	got := Apply(items, Params{Search: "wat"})
	if !reflect.DeepEqual(ids(got), []int64{3, 1}) { // default order: newest first
		t.Errorf("expected name OR category match, got %v", ids(got))
	}

	if got := Apply(items, Params{Search: ""}); len(got) != 3 {
		t.Errorf("empty search must match everything, got %d", len(got))
	}
}

func TestSaleFilter(t *testing.T) {
	items := []model.Item{
		item(1, "A", "X", "100", "150"),
		sold(item(2, "B", "X", "100", "150"), "120"),
		item(3, "C", "X", "100", "150"),
	}

	if got := Apply(items, Params{Sale: SaleSold}); !reflect.DeepEqual(ids(got), []int64{2}) {
		t.Errorf("sold filter: got %v", ids(got))
	}
	if got := Apply(items, Params{Sale: SaleUnsold}); !reflect.DeepEqual(ids(got), []int64{3, 1}) {
		t.Errorf("unsold filter: got %v", ids(got))
	}
	if got := Apply(items, Params{Sale: SaleAll}); len(got) != 3 {
		t.Errorf("all filter: got %v", ids(got))
	}
}

func TestCategoryFilterExactMatch(t *testing.T) {
	items := []model.Item{
		item(1, "A", "Watches", "100", "150"),
		item(2, "B", "Watch", "100", "150"),
	}

	got := Apply(items, Params{Category: "Watch"})
	if !reflect.DeepEqual(ids(got), []int64{2}) {
		t.Errorf("expected exact category match only, got %v", ids(got))
	}

	if got := Apply(items, Params{Category: "all"}); len(got) != 2 {
		t.Errorf("category 'all' must match everything, got %v", ids(got))
	}
}

func TestSortCreatedAtDefaultNewestFirst(t *testing.T) {
	items := []model.Item{
		item(1, "t1", "X", "100", "150"),
		item(2, "t2", "X", "100", "150"),
		item(3, "t3", "X", "100", "150"),
	}

	got := Apply(items, Params{Sort: SortCreatedAt, Direction: DirectionDesc})
	if !reflect.DeepEqual(ids(got), []int64{3, 2, 1}) {
		t.Errorf("createdAt desc: got %v", ids(got))
	}

	got = Apply(items, Params{Sort: SortCreatedAt, Direction: DirectionAsc})
	if !reflect.DeepEqual(ids(got), []int64{1, 2, 3}) {
		t.Errorf("createdAt asc: got %v", ids(got))
	}

	// Defaults: createdAt descending.
	got = Apply(items, Params{})
	if !reflect.DeepEqual(ids(got), []int64{3, 2, 1}) {
		t.Errorf("defaults: got %v", ids(got))
	}
}

func TestSortProfit(t *testing.T) {
	items := []model.Item{
		item(1, "small", "X", "100", "110"), // profit 10
		item(2, "big", "X", "100", "200"),   // profit 100
		sold(item(3, "loss", "X", "100", "150"), "80"), // profit -20
	}

	got := Apply(items, Params{Sort: SortProfit, Direction: DirectionDesc})
	if !reflect.DeepEqual(ids(got), []int64{2, 1, 3}) {
		t.Errorf("profit desc: got %v", ids(got))
	}

	got = Apply(items, Params{Sort: SortProfit, Direction: DirectionAsc})
	if !reflect.DeepEqual(ids(got), []int64{3, 1, 2}) {
		t.Errorf("profit asc: got %v", ids(got))
	}
}

func TestSortProfitPercentage(t *testing.T) {
	items := []model.Item{
		item(1, "ten", "X", "100", "110"),     // 10%
		item(2, "fifty", "X", "100", "150"),   // 50%
		item(3, "no pct", "X", "0", "150"),    // unavailable
	}

	got := Apply(items, Params{Sort: SortProfitPercentage, Direction: DirectionDesc})
	if !reflect.DeepEqual(ids(got), []int64{2, 1, 3}) {
		t.Errorf("percentage desc: got %v", ids(got))
	}
}

func TestSortPurchaseDate(t *testing.T) {
	a := item(1, "old", "X", "100", "150")
	a.PurchaseDate = "05/01/2020"
	b := item(2, "new", "X", "100", "150")
	b.PurchaseDate = "05/01/2024"
	c := item(3, "broken", "X", "100", "150")
	c.PurchaseDate = "garbage"

	got := Apply([]model.Item{a, b, c}, Params{Sort: SortPurchaseDate, Direction: DirectionAsc})
	if !reflect.DeepEqual(ids(got), []int64{3, 1, 2}) {
		t.Errorf("purchaseDate asc: got %v", ids(got))
	}
}

func TestStableTiesKeepSourceOrder(t *testing.T) {
	items := []model.Item{
		item(1, "A", "X", "100", "150"),
		item(2, "B", "X", "100", "150"),
		item(3, "C", "X", "100", "150"),
	}

	// All profits are equal; source order must survive.
	got := Apply(items, Params{Sort: SortProfit, Direction: DirectionDesc})
	if !reflect.DeepEqual(ids(got), []int64{1, 2, 3}) {
		t.Errorf("equal keys must keep source order, got %v", ids(got))
	}
}

func TestApplyIsPureAndIdempotent(t *testing.T) {
	items := []model.Item{
		item(2, "B", "X", "100", "200"),
		item(1, "A", "X", "100", "150"),
	}
	original := make([]model.Item, len(items))
	copy(original, items)

	p := Params{Sort: SortProfit, Direction: DirectionDesc}
	first := Apply(items, p)
	second := Apply(items, p)

	if !reflect.DeepEqual(items, original) {
		t.Error("Apply must not mutate its input")
	}
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Errorf("Apply must be idempotent: %v vs %v", ids(first), ids(second))
	}
}
