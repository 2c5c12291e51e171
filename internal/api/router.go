package api

import (
	"net/http"

	"github.com/mlovrec/curio/internal/store"
	"github.com/mlovrec/curio/internal/suggest"
)

// NewRouter creates the API router with all routes registered.
func NewRouter(st *store.Store, client *suggest.Client, photoDir string) http.Handler {
	items := &ItemsHandler{Store: st}
	statsH := &StatsHandler{Store: st}
	photos := &PhotosHandler{Store: st, Dir: photoDir}
	suggestH := &SuggestHandler{Store: st, Client: client}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/items", items.List)
	mux.HandleFunc("POST /api/items", items.Create)
	mux.HandleFunc("GET /api/items/{id}", items.Get)
	mux.HandleFunc("PUT /api/items/{id}", items.Update)
	mux.HandleFunc("DELETE /api/items/{id}", items.Delete)
	mux.HandleFunc("POST /api/items/{id}/sell", items.Sell)
	mux.HandleFunc("POST /api/items/{id}/value", items.Revalue)

	mux.HandleFunc("PUT /api/items/{id}/photo", photos.Upload)
	mux.HandleFunc("GET /api/items/{id}/photo", photos.Get)

	mux.HandleFunc("GET /api/categories", items.Categories)
	mux.HandleFunc("GET /api/stats", statsH.Get)

	mux.HandleFunc("POST /api/suggest/price", suggestH.Price)
	mux.HandleFunc("POST /api/suggest/fields", suggestH.Fields)

	return RequestIDMiddleware(LoggingMiddleware(mux))
}
