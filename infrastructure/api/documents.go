package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vexdb/vexdb/application/service"
	"github.com/vexdb/vexdb/domain/document"
	"github.com/vexdb/vexdb/infrastructure/api/middleware"
)

// DocumentsRouter handles document endpoints.
type DocumentsRouter struct {
	documents *service.DocumentService
	logger    *slog.Logger
}

// NewDocumentsRouter creates a DocumentsRouter.
func NewDocumentsRouter(documents *service.DocumentService, logger *slog.Logger) *DocumentsRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentsRouter{
		documents: documents,
		logger:    logger,
	}
}

// Routes returns the chi router for /documents.
func (rt *DocumentsRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{id}", rt.GetDocument)
	router.Delete("/{id}", rt.DeleteDocument)
	return router
}

// AddDocument handles POST /add_document.
func (rt *DocumentsRouter) AddDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body AddDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, r, fmt.Errorf("%w: malformed JSON body: %v", document.ErrValidation, err), rt.logger)
		return
	}
	if body.ID == nil {
		middleware.WriteError(w, r, fmt.Errorf("%w: missing id field", document.ErrValidation), rt.logger)
		return
	}

	if err := rt.documents.Add(ctx, *body.ID, body.Embedding, body.Metadata, body.Content); err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, AddDocumentResponse{
		Status: "ok",
		ID:     *body.ID,
	})
}

// GetDocument handles GET /documents/{id}.
func (rt *DocumentsRouter) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	doc, err := rt.documents.Get(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, DocumentResponse{
		ID:        doc.ID(),
		Embedding: doc.Embedding(),
		Metadata:  doc.Metadata(),
		Content:   doc.Content(),
	})
}

// DeleteDocument handles DELETE /documents/{id}.
func (rt *DocumentsRouter) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	removed, err := rt.documents.Remove(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}
	if !removed {
		middleware.WriteError(w, r, fmt.Errorf("%w: id %d", document.ErrNotFound, id), rt.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /stats.
func (rt *DocumentsRouter) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.documents.Stats(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	resp := StatsResponse{Size: stats.Size()}
	if dim, ok := stats.Dimension(); ok {
		resp.Dimension = &dim
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid document id %q", document.ErrValidation, raw)
	}
	return id, nil
}
