package api

import (
	"github.com/watercoolerhq/watercooler/internal/threadservice"
)

// UpdateMetadataRequest is the request body for PATCH /threads/{path}.
// A null value removes the field; Status and Priority are upper-cased.
type UpdateMetadataRequest struct {
	Updates map[string]*string `json:"updates" validate:"required"`
}

// UpdateMetadataResponse wraps the rewritten thread and an optional
// warning (e.g. committed locally but push failed).
type UpdateMetadataResponse struct {
	Thread  *ThreadDetail `json:"thread" validate:"required"`
	Warning string        `json:"warning,omitempty" example:"push failed: no upstream"`
}

// SetRepoOrderRequest is the request body for POST /repo-order.
type SetRepoOrderRequest struct {
	Order []string `json:"order" example:"acme,infra" validate:"required"`
}

// SetThreadOrderRequest is the request body for POST /thread-order.
type SetThreadOrderRequest struct {
	Repo  string   `json:"repo" example:"acme" validate:"required"`
	Order []string `json:"order" example:"launch,billing" validate:"required"`
}

// ThreadDetail is the full thread response type (aliased from the domain layer).
type ThreadDetail = threadservice.ThreadDetail

// RepoListResponse wraps the repository listing.
type RepoListResponse struct {
	Repos []threadservice.RepoThreads `json:"repos" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"acme-threads/launch.md" validate:"required"`
	Repo    string `json:"repo" example:"acme" validate:"required"`
	Topic   string `json:"topic" example:"launch" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}
