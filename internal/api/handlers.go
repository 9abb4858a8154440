package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/watercoolerhq/watercooler/internal/apperr"
	"github.com/watercoolerhq/watercooler/internal/threadservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *threadservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *threadservice.Service) *Handler {
	return &Handler{svc: svc}
}

// threadPath extracts the thread path from the URL (everything after
// /api/threads/). Supports encoded slashes from OpenAPI clients
// (e.g. acme-threads%2Flaunch.md).
func threadPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListRepos handles GET /api/repos.
//
//	@Summary		List thread repositories in display order
//	@Tags			repos
//	@Produce		json
//	@Success		200	{object}	RepoListResponse
//	@Security		BearerAuth
//	@Router			/repos [get]
func (h *Handler) ListRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.svc.ListRepos(r.Context())
	if err != nil {
		slog.Error("list repos failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"repos": repos,
	})
}

// Dashboard handles GET /api/threads.
//
//	@Summary		Get the board: every repo with its threads plus status counts
//	@Tags			threads
//	@Produce		json
//	@Success		200	{object}	threadservice.Dashboard
//	@Security		BearerAuth
//	@Router			/threads [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context())
	if err != nil {
		slog.Error("dashboard failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// GetThread handles GET /api/threads/*.
//
//	@Summary		Get a single thread by path
//	@Tags			threads
//	@Produce		json
//	@Param			path	path		string	true	"Thread path"
//	@Success		200		{object}	ThreadDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/threads/{path} [get]
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	path := threadPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	detail, err := h.svc.GetThread(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get thread failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// UpdateMetadata handles PATCH /api/threads/*.
//
//	@Summary		Update header fields of a thread
//	@Tags			threads
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string					true	"Thread path"
//	@Param			body	body		UpdateMetadataRequest	true	"Fields to set; null removes"
//	@Success		200		{object}	UpdateMetadataResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/threads/{path} [patch]
func (h *Handler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	path := threadPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}

	var req UpdateMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(req.Updates) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("updates are required"))
		return
	}

	detail, warning, err := h.svc.UpdateMetadata(r.Context(), path, req.Updates)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorBody("updates are required"))
		default:
			slog.Error("update thread failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, UpdateMetadataResponse{Thread: detail, Warning: warning})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across threads
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// SetRepoOrder handles POST /api/repo-order.
//
//	@Summary		Store the preferred repository display order
//	@Tags			repos
//	@Accept			json
//	@Param			body	body	SetRepoOrderRequest	true	"Repo names in display order"
//	@Success		204		"Order stored"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/repo-order [post]
func (h *Handler) SetRepoOrder(w http.ResponseWriter, r *http.Request) {
	var req SetRepoOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Order == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("order is required"))
		return
	}
	if err := h.svc.SetRepoOrder(r.Context(), req.Order); err != nil {
		slog.Error("set repo order failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetThreadOrder handles POST /api/thread-order.
//
//	@Summary		Store the preferred thread order for one repository
//	@Tags			threads
//	@Accept			json
//	@Param			body	body	SetThreadOrderRequest	true	"Repo and topics in display order"
//	@Success		204		"Order stored"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/thread-order [post]
func (h *Handler) SetThreadOrder(w http.ResponseWriter, r *http.Request) {
	var req SetThreadOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Repo == "" || req.Order == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("repo and order are required"))
		return
	}
	if err := h.svc.SetThreadOrder(r.Context(), req.Repo, req.Order); err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody("repo and order are required"))
			return
		}
		slog.Error("set thread order failed", slog.String("repo", req.Repo), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
