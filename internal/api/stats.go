package api

import (
	"net/http"

	"github.com/mlovrec/curio/internal/query"
	"github.com/mlovrec/curio/internal/stats"
	"github.com/mlovrec/curio/internal/store"
)

// StatsHandler serves aggregate statistics.
type StatsHandler struct {
	Store *store.Store
}

// Get handles GET /api/stats. It accepts the same query parameters as the
// item list, so the statistics always describe the visible selection.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	items := query.Apply(h.Store.Items(), queryParams(r))
	jsonResponse(w, http.StatusOK, stats.Compute(items))
}
