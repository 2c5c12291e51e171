package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ItemDraft is a working copy of an item's editable fields, used by add and
// edit before anything touches the collection. Money fields are pointers so
// an absent value stays distinguishable from zero.
type ItemDraft struct {
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Year          string           `json:"year"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	PurchaseDate  string           `json:"purchase_date"`
	CurrentValue  *decimal.Decimal `json:"current_value"`
	Image         string           `json:"image"`
}

// Validate checks the draft and returns a map naming every failing field,
// keyed by the field's JSON name so clients can highlight form inputs
// without translating. A nil map means the draft is valid. The draft never carries id, createdAt
// or sale fields, so those are not inspected here.
func (d *ItemDraft) Validate(now time.Time) map[string]bool {
	failed := make(map[string]bool)

	if d.Name == "" {
		failed["name"] = true
	}
	if d.Category == "" {
		failed["category"] = true
	}

	year, err := strconv.Atoi(d.Year)
	if d.Year == "" || err != nil || year < MinYear || year > now.Year() {
		failed["year"] = true
	}

	if d.PurchasePrice == nil || d.PurchasePrice.IsNegative() {
		failed["purchase_price"] = true
	}
	if d.CurrentValue == nil {
		failed["current_value"] = true
	}

	// A purchase date of today parses to midnight, which is not after now.
	if t, err := ParseDate(d.PurchaseDate); err != nil || t.After(now) {
		failed["purchase_date"] = true
	}

	if len(failed) == 0 {
		return nil
	}
	return failed
}

// Apply writes the draft's editable fields onto an item. The caller must
// have validated the draft first; id, createdAt and sale fields are left
// untouched so an edit is a full replacement of everything the user can
// change and nothing else.
func (d *ItemDraft) Apply(item *Item) {
	item.Name = d.Name
	item.Category = d.Category
	item.Year = d.Year
	item.PurchasePrice = *d.PurchasePrice
	item.PurchaseDate = d.PurchaseDate
	item.CurrentValue = *d.CurrentValue
	item.Image = d.Image
	if item.Image == "" {
		item.Image = PlaceholderImage
	}
}
