package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlovrec/curio/internal/model"
	"github.com/mlovrec/curio/internal/query"
	"github.com/mlovrec/curio/internal/store"
)

// ItemsHandler handles item CRUD and lifecycle endpoints.
type ItemsHandler struct {
	Store *store.Store
}

// itemView is an item plus its derived metrics, ready for display.
type itemView struct {
	model.Item
	Profit           string `json:"profit"`
	ProfitPercentage string `json:"profit_percentage,omitempty"`
	HoldingDuration  string `json:"holding_duration,omitempty"`
}

func newItemView(it model.Item, now time.Time) itemView {
	v := itemView{
		Item:            it,
		Profit:          it.Profit().StringFixed(2),
		HoldingDuration: it.HoldingDuration(now),
	}
	if pct, ok := it.ProfitPercentage(); ok {
		v.ProfitPercentage = pct.StringFixed(1)
	}
	return v
}

// queryParams reads the five pipeline inputs from the URL query.
func queryParams(r *http.Request) query.Params {
	q := r.URL.Query()
	return query.Params{
		Search:    q.Get("search"),
		Sale:      q.Get("sale"),
		Category:  q.Get("category"),
		Sort:      q.Get("sort"),
		Direction: q.Get("dir"),
	}
}

func itemID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items := query.Apply(h.Store.Items(), queryParams(r))

	now := time.Now()
	views := make([]itemView, len(items))
	for i, it := range items {
		views[i] = newItemView(it, now)
	}
	jsonResponse(w, http.StatusOK, views)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft model.ItemDraft
	if err := decodeJSON(r, &draft); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, failed, err := h.Store.Add(r.Context(), draft)
	if failed != nil {
		jsonFieldErrors(w, failed)
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	jsonResponse(w, http.StatusCreated, newItemView(*item, time.Now()))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, ok := h.Store.Get(id)
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(item, time.Now()))
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var draft model.ItemDraft
	if err := decodeJSON(r, &draft); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, failed, err := h.Store.Update(r.Context(), id, draft)
	if failed != nil {
		jsonFieldErrors(w, failed)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	jsonResponse(w, http.StatusOK, newItemView(*item, time.Now()))
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Store.Remove(r.Context(), id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

type sellRequest struct {
	SalePrice decimal.Decimal `json:"sale_price"`
}

// Sell handles POST /api/items/{id}/sell.
func (h *ItemsHandler) Sell(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req sellRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Store.Sell(r.Context(), id, req.SalePrice)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to sell item")
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(*item, time.Now()))
}

type revalueRequest struct {
	CurrentValue decimal.Decimal `json:"current_value"`
}

// Revalue handles POST /api/items/{id}/value.
func (h *ItemsHandler) Revalue(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req revalueRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Store.Revalue(r.Context(), id, req.CurrentValue)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to revalue item")
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(*item, time.Now()))
}

// Categories handles GET /api/categories.
func (h *ItemsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Store.Categories())
}
