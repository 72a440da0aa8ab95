package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vexdb/vexdb/domain/document"
	domainsearch "github.com/vexdb/vexdb/domain/search"
	"github.com/vexdb/vexdb/infrastructure/search"
)

// SearchService coordinates a nearest-neighbor query: it validates the
// request, narrows candidates by metadata filter, ranks them, and
// truncates to the requested count.
//
// The service is stateless between calls. Each call ranks over a single
// snapshot taken from the store, so results are internally consistent
// even while concurrent writes proceed.
type SearchService struct {
	store  document.Store
	logger *slog.Logger
}

// NewSearchService creates a SearchService.
func NewSearchService(store document.Store, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		store:  store,
		logger: logger,
	}
}

// FindNearest returns up to req.TopN() documents ranked best-first under
// the request's metric, restricted to documents whose metadata satisfies
// the filter. An empty store or an empty post-filter candidate set
// yields an empty result, not an error.
func (s *SearchService) FindNearest(ctx context.Context, req domainsearch.Request) ([]domainsearch.Match, error) {
	if req.TopN() <= 0 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", document.ErrValidation, req.TopN())
	}
	if len(req.Query()) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", document.ErrValidation)
	}

	snapshot, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(snapshot) == 0 {
		return []domainsearch.Match{}, nil
	}

	predicate := domainsearch.CompileFilter(req.Filter())
	candidates := snapshot[:0:0]
	for _, doc := range snapshot {
		if predicate(doc.Metadata()) {
			candidates = append(candidates, doc)
		}
	}
	if len(candidates) == 0 {
		return []domainsearch.Match{}, nil
	}

	matches, err := search.Rank(req.Query(), req.Metric(), candidates)
	if err != nil {
		return nil, err
	}

	if n := req.TopN(); n < len(matches) {
		matches = matches[:n]
	}

	s.logger.DebugContext(ctx, "search completed",
		slog.String("metric", req.Metric().String()),
		slog.Int("candidates", len(candidates)),
		slog.Int("results", len(matches)),
	)
	return matches, nil
}
