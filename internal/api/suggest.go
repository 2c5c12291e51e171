package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mlovrec/curio/internal/store"
	"github.com/mlovrec/curio/internal/suggest"
)

// SuggestHandler serves price and field suggestions. Results are for the
// client's pending edit buffer; nothing here writes to the store. One
// suggestion per key runs at a time, duplicates get 409; there is no
// cancellation, a late answer for a closed dialog is simply discarded by
// the client.
type SuggestHandler struct {
	Store  *store.Store
	Client *suggest.Client

	mu       sync.Mutex
	inflight map[string]bool
}

// begin marks a suggestion key as running. Returns false when one is
// already in flight.
func (h *SuggestHandler) begin(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inflight[key] {
		return false
	}
	if h.inflight == nil {
		h.inflight = make(map[string]bool)
	}
	h.inflight[key] = true
	return true
}

func (h *SuggestHandler) end(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inflight, key)
}

type priceRequest struct {
	ID int64 `json:"id"`
}

type priceResponse struct {
	Price    decimal.Decimal `json:"price"`
	Fallback bool            `json:"fallback,omitempty"`
	Notice   string          `json:"notice,omitempty"`
}

// Price handles POST /api/suggest/price.
func (h *SuggestHandler) Price(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		jsonError(w, http.StatusServiceUnavailable, "suggestions are not configured")
		return
	}

	var req priceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, ok := h.Store.Get(req.ID)
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	key := "price:" + strconv.FormatInt(req.ID, 10)
	if !h.begin(key) {
		jsonError(w, http.StatusConflict, "a suggestion for this item is already running")
		return
	}
	defer h.end(key)

	price, err := h.Client.SuggestPrice(r.Context(), item)

	var parseErr *suggest.ParseError
	if errors.As(err, &parseErr) {
		// No usable answer; keep the item's own estimate as the fallback.
		jsonResponse(w, http.StatusOK, priceResponse{
			Price:    item.CurrentValue,
			Fallback: true,
			Notice:   "the suggestion service returned no usable price",
		})
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadGateway, "suggestion service unreachable")
		return
	}

	jsonResponse(w, http.StatusOK, priceResponse{Price: decimal.NewFromInt(price)})
}

type fieldsRequest struct {
	Name string `json:"name"`
}

// Fields handles POST /api/suggest/fields.
func (h *SuggestHandler) Fields(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		jsonError(w, http.StatusServiceUnavailable, "suggestions are not configured")
		return
	}

	var req fieldsRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	key := "fields:" + req.Name
	if !h.begin(key) {
		jsonError(w, http.StatusConflict, "a suggestion for this name is already running")
		return
	}
	defer h.end(key)

	fields, err := h.Client.SuggestFields(r.Context(), req.Name)

	var parseErr *suggest.ParseError
	if errors.As(err, &parseErr) {
		jsonError(w, http.StatusUnprocessableEntity, "the suggestion service returned no usable fields")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadGateway, "suggestion service unreachable")
		return
	}

	jsonResponse(w, http.StatusOK, fields)
}
