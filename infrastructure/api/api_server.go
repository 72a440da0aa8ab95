package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vexdb/vexdb/application/service"
	apimiddleware "github.com/vexdb/vexdb/infrastructure/api/middleware"
)

// APIServer provides the HTTP API over the document and search
// services.
//
// Route map:
//
//	POST   /add_document     store a document (write-protected)
//	POST   /find_nearest     nearest-neighbor search (canonical)
//	POST   /search           alias for /find_nearest
//	GET    /documents/{id}   fetch a document
//	DELETE /documents/{id}   remove a document (write-protected)
//	GET    /stats            store size and dimensionality
//	GET    /health, /healthz liveness
//	GET    /docs             API documentation
type APIServer struct {
	documents *service.DocumentService
	search    *service.SearchService
	apiKeys   []string
	server    *Server
	logger    *slog.Logger
}

// NewAPIServer creates an APIServer. When apiKeys is non-empty, the
// mutating routes require a valid X-API-KEY header; search and reads
// stay open.
func NewAPIServer(documents *service.DocumentService, search *service.SearchService, apiKeys []string, logger *slog.Logger) *APIServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIServer{
		documents: documents,
		search:    search,
		apiKeys:   apiKeys,
		logger:    logger,
	}
}

// MountRoutes wires all routes onto the given router.
func (a *APIServer) MountRoutes(router chi.Router) {
	docsRouter := NewDocumentsRouter(a.documents, a.logger)
	searchRouter := NewSearchRouter(a.search, a.logger)

	router.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		// Open routes: search is a read-only POST.
		r.Post("/find_nearest", searchRouter.FindNearest)
		r.Post("/search", searchRouter.FindNearest)
		r.Get("/stats", docsRouter.Stats)

		// Write-protected routes.
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.WriteProtect(apimiddleware.NewAuthConfig(a.apiKeys)))
			r.Post("/add_document", docsRouter.AddDocument)
			r.Mount("/documents", docsRouter.Routes())
		})
	})

	router.Get("/health", healthHandler)
	router.Get("/healthz", healthHandler)
}

// ListenAndServe starts the HTTP server on the given address and blocks
// until shutdown.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	router := server.Router()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-KEY"},
		MaxAge:         300,
	}))
	router.Use(apimiddleware.Logging(a.logger))

	a.MountRoutes(router)
	router.Get("/", bannerHandler)
	router.Mount("/docs", NewDocsRouter("/docs/openapi.json").Routes())

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func bannerHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, `{"name":"vexdb","docs":"/docs"}`)
}
