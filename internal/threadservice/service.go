// Package threadservice coordinates storage, parsing, indexing and git
// operations behind the HTTP and MCP surfaces.
package threadservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/watercoolerhq/watercooler/internal/apperr"
	"github.com/watercoolerhq/watercooler/internal/checksum"
	"github.com/watercoolerhq/watercooler/internal/gitops"
	"github.com/watercoolerhq/watercooler/internal/index"
	"github.com/watercoolerhq/watercooler/internal/storage"
	"github.com/watercoolerhq/watercooler/internal/thread"
)

// ThreadDetail is the full representation of a thread document.
type ThreadDetail struct {
	Path     string           `json:"path"`
	Repo     string           `json:"repo"`
	Checksum string           `json:"checksum"`
	Document *thread.Document `json:"document"`
	Content  string           `json:"content"`
}

// RepoThreads holds one repository's threads in display order.
type RepoThreads struct {
	Repo    string            `json:"repo"`
	Dir     string            `json:"dir"`
	Threads []index.ThreadRow `json:"threads"`
}

// StatusSummary carries aggregate counts for the dashboard header.
type StatusSummary struct {
	Total    int `json:"total"`
	Open     int `json:"open"`
	InReview int `json:"in_review"`
	Blocked  int `json:"blocked"`
	Closed   int `json:"closed"`
}

// Dashboard is the board payload: per-repo thread lists plus counts.
type Dashboard struct {
	Summary StatusSummary `json:"summary"`
	Repos   []RepoThreads `json:"repos"`
}

// Service coordinates storage, index and git operations.
type Service struct {
	store storage.Provider
	db    *index.DB
	git   *gitops.Client
}

// NewService creates a new thread service.
func NewService(store storage.Provider, db *index.DB, git *gitops.Client) *Service {
	return &Service{store: store, db: db, git: git}
}

// GetThread reads a thread file from storage and parses it.
func (s *Service) GetThread(_ context.Context, path string) (*ThreadDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildDetail(path, data), nil
}

// ListRepos returns the thread repositories in preferred display order.
func (s *Service) ListRepos(_ context.Context) ([]RepoThreads, error) {
	repos, err := s.store.Repos()
	if err != nil {
		return nil, err
	}
	order, err := s.db.RepoOrder()
	if err != nil {
		return nil, err
	}

	out := make([]RepoThreads, 0, len(repos))
	for _, r := range repos {
		out = append(out, RepoThreads{Repo: r.Name, Dir: r.Dir, Threads: []index.ThreadRow{}})
	}
	sortByPreference(out, order, func(r RepoThreads) string { return r.Repo })
	return out, nil
}

// Dashboard builds the board payload: every repo with its threads in
// preferred order, plus status counts across all threads.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	repos, err := s.ListRepos(ctx)
	if err != nil {
		return nil, err
	}

	var summary StatusSummary
	for i := range repos {
		rows, err := s.db.ListThreads(repos[i].Repo)
		if err != nil {
			return nil, err
		}

		order, err := s.db.ThreadOrder(repos[i].Repo)
		if err != nil {
			return nil, err
		}
		sortByPreference(rows, order, func(r index.ThreadRow) string { return r.Topic })
		repos[i].Threads = rows

		for _, row := range rows {
			summary.Total++
			switch strings.ToUpper(row.Status) {
			case "OPEN":
				summary.Open++
			case "IN_REVIEW":
				summary.InReview++
			case "BLOCKED":
				summary.Blocked++
			case "CLOSED":
				summary.Closed++
			}
		}
	}

	return &Dashboard{Summary: summary, Repos: repos}, nil
}

// UpdateMetadata rewrites the header fields of a thread file, persists
// the result, refreshes the index and commits the change. A failed push
// is reported as a warning, never as an error: the local write and
// commit already happened and are not rolled back.
func (s *Service) UpdateMetadata(ctx context.Context, path string, updates map[string]*string) (*ThreadDetail, string, error) {
	if len(updates) == 0 {
		return nil, "", apperr.ErrValidation
	}

	raw, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", apperr.ErrNotFound
		}
		return nil, "", err
	}

	updated := thread.Rewrite(raw, thread.Topic(path), updates)
	if err := s.store.Write(path, updated); err != nil {
		return nil, "", err
	}

	// Read back what was written so the response reflects the file on
	// disk, not the in-memory rendering.
	persisted, err := s.store.Read(path)
	if err != nil {
		return nil, "", err
	}
	if err := index.IndexThread(s.db, path, persisted); err != nil {
		return nil, "", err
	}

	warning := s.commitChange(ctx, path, updates)
	return s.buildDetail(path, persisted), warning, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// SetRepoOrder stores the preferred repository display order.
func (s *Service) SetRepoOrder(_ context.Context, order []string) error {
	return s.db.SetRepoOrder(order)
}

// SetThreadOrder stores the preferred thread order for one repository.
func (s *Service) SetThreadOrder(_ context.Context, repo string, order []string) error {
	if repo == "" {
		return apperr.ErrValidation
	}
	return s.db.SetThreadOrder(repo, order)
}

// commitChange commits and pushes the updated file. Returns a warning
// string when the change could not be shared, empty on success.
func (s *Service) commitChange(ctx context.Context, path string, updates map[string]*string) string {
	if s.git == nil {
		return ""
	}

	repoDir, rel, ok := splitRepoPath(path)
	if !ok {
		return ""
	}
	absDir, err := s.store.Abs(repoDir)
	if err != nil {
		return fmt.Sprintf("commit skipped: %v", err)
	}
	if !s.git.IsRepo(ctx, absDir) {
		return ""
	}

	msg := commitMessage(thread.Topic(path), updates)
	warning, err := s.git.CommitAndPush(ctx, absDir, rel, msg)
	if err != nil {
		return fmt.Sprintf("commit failed: %v", err)
	}
	return warning
}

// commitMessage builds a message like "Update launch metadata: Ball, Status".
func commitMessage(topic string, updates map[string]*string) string {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("Update %s metadata: %s", topic, strings.Join(keys, ", "))
}

// splitRepoPath splits "acme-threads/launch.md" into the repo directory
// and the path relative to it.
func splitRepoPath(path string) (dir, rel string, ok bool) {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (s *Service) buildDetail(path string, data []byte) *ThreadDetail {
	doc := thread.Parse(data, thread.Topic(path))
	doc.SourcePath = path
	return &ThreadDetail{
		Path:     path,
		Repo:     repoName(path),
		Checksum: checksum.Sum(data),
		Document: doc,
		Content:  string(data),
	}
}

func repoName(path string) string {
	dir, _, ok := splitRepoPath(path)
	if !ok {
		return ""
	}
	return strings.TrimSuffix(dir, "-threads")
}

// sortByPreference reorders items so that those named in order come
// first, in that order, followed by the rest in their existing order.
func sortByPreference[T any](items []T, order []string, key func(T) string) {
	if len(order) == 0 {
		return
	}
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, iok := rank[key(items[i])]
		rj, jok := rank[key(items[j])]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		default:
			return false
		}
	})
}
