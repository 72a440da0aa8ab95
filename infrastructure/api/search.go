package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vexdb/vexdb/application/service"
	"github.com/vexdb/vexdb/domain/document"
	domainsearch "github.com/vexdb/vexdb/domain/search"
	"github.com/vexdb/vexdb/infrastructure/api/middleware"
)

// SearchRouter handles the nearest-neighbor search endpoint.
type SearchRouter struct {
	search *service.SearchService
	logger *slog.Logger
}

// NewSearchRouter creates a SearchRouter.
func NewSearchRouter(search *service.SearchService, logger *slog.Logger) *SearchRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchRouter{
		search: search,
		logger: logger,
	}
}

// FindNearest handles POST /find_nearest. The same handler also serves
// POST /search: older clients disagree on the path, so both routes are
// bound and /find_nearest is the canonical one.
func (rt *SearchRouter) FindNearest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body FindNearestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, r, fmt.Errorf("%w: malformed JSON body: %v", document.ErrValidation, err), rt.logger)
		return
	}

	metric, err := domainsearch.ParseMetric(body.Metric)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	filter := ""
	if body.MetadataFilter != nil {
		filter = *body.MetadataFilter
	}

	req := domainsearch.NewRequest(body.Query, body.N, metric, filter)
	matches, err := rt.search.FindNearest(ctx, req)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	resp := make([]MatchResponse, len(matches))
	for i, m := range matches {
		resp[i] = MatchResponse{
			ID:       m.ID(),
			Distance: m.Score(),
			Metadata: m.Metadata(),
			Content:  m.Content(),
		}
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}
