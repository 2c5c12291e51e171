package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the display form used for purchase and sale dates.
const DateLayout = "02/01/2006"

// PlaceholderImage is used when an item has no picture reference.
const PlaceholderImage = "/static/placeholder.png"

// MinYear is the oldest accepted production year.
const MinYear = 1800

// Item represents a single tracked collectible. The store holds the only
// mutable copy; everything handed out is a value copy.
type Item struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Year          string           `json:"year"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	PurchaseDate  string           `json:"purchase_date"`
	CurrentValue  decimal.Decimal  `json:"current_value"`
	Image         string           `json:"image"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	SaleDate      string           `json:"sale_date,omitempty"`
	CreatedAt     int64            `json:"created_at"`
}

// Sold reports whether the item has been sold. An item is sold exactly when
// a sale price is recorded.
func (i *Item) Sold() bool {
	return i.SalePrice != nil
}

// ParseDate parses a dd/mm/yyyy display date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a time in dd/mm/yyyy display form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
