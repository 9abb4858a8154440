package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/watercoolerhq/watercooler/internal/threadservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *threadservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Board and repos.
	r.Get("/repos", h.ListRepos)
	r.Get("/threads", h.Dashboard)

	// Single thread.
	r.Get("/threads/*", h.GetThread)
	r.Patch("/threads/*", h.UpdateMetadata)

	// Search.
	r.Get("/search", h.Search)

	// Display order preferences.
	r.Post("/repo-order", h.SetRepoOrder)
	r.Post("/thread-order", h.SetThreadOrder)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
