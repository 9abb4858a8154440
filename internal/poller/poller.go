// Package poller periodically fetches thread repositories from their
// remotes so externally pushed entries appear without manual refreshes.
package poller

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/watercoolerhq/watercooler/internal/storage"
)

// Fetcher pulls remote changes into a repository work tree and reports
// whether anything changed.
type Fetcher interface {
	Fetch(ctx context.Context, dir string) (bool, error)
}

// Poller drives a fetch loop across every discovered thread repository.
type Poller struct {
	fetcher  Fetcher
	store    storage.Provider
	baseDir  string
	interval time.Duration
	logger   *slog.Logger
	onChange func(repo string)
}

// New creates a poller. onChange (if non-nil) is invoked with the repo
// display name after a fetch that changed the work tree.
func New(fetcher Fetcher, store storage.Provider, baseDir string, interval time.Duration, logger *slog.Logger, onChange func(repo string)) *Poller {
	if interval <= 0 {
		interval = 20 * time.Second
	}
	return &Poller{
		fetcher:  fetcher,
		store:    store,
		baseDir:  baseDir,
		interval: interval,
		logger:   logger,
		onChange: onChange,
	}
}

// Run polls until ctx is cancelled. One slow or failing repository never
// blocks the others longer than its own fetch takes.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("poller: started", slog.Duration("interval", p.interval))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller: stopped")
			return nil
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	repos, err := p.store.Repos()
	if err != nil {
		p.logger.Warn("poller: repo discovery failed", slog.String("error", err.Error()))
		return
	}

	for _, repo := range repos {
		dir := filepath.Join(p.baseDir, repo.Dir)
		changed, err := p.fetcher.Fetch(ctx, dir)
		if err != nil {
			p.logger.Warn("poller: fetch failed",
				slog.String("repo", repo.Dir),
				slog.String("error", err.Error()))
			continue
		}
		if !changed {
			continue
		}
		p.logger.Info("poller: remote changes pulled", slog.String("repo", repo.Dir))
		if p.onChange != nil {
			p.onChange(repo.Name)
		}
	}
}
