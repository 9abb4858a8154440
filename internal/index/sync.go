package index

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/watercoolerhq/watercooler/internal/checksum"
	"github.com/watercoolerhq/watercooler/internal/storage"
	"github.com/watercoolerhq/watercooler/internal/thread"
)

// Sync walks every thread repository and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	repos, err := store.Repos()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{})
	for _, repo := range repos {
		metas, err := store.List(repo.Dir)
		if err != nil {
			logger.Warn("sync: list failed", slog.String("repo", repo.Dir), slog.String("error", err.Error()))
			continue
		}
		for _, m := range metas {
			disk[m.Path] = struct{}{}

			if checksums[m.Path] == m.Checksum {
				continue
			}

			data, err := store.Read(m.Path)
			if err != nil {
				logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
				continue
			}
			if err := IndexThread(db, m.Path, data); err != nil {
				logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: indexed", slog.String("path", m.Path))
			}
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteThread(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexThread parses data and upserts the derived summary into the DB.
// Used by sync, the watcher, and the service layer after writes.
func IndexThread(db *DB, path string, data []byte) error {
	doc := thread.Parse(data, thread.Topic(path))

	row := ThreadRow{
		Path:       path,
		Repo:       repoForPath(path),
		Topic:      thread.Topic(path),
		Title:      doc.Title,
		Status:     doc.Metadata["Status"],
		Priority:   doc.Metadata["Priority"],
		Ball:       doc.Metadata["Ball"],
		Created:    doc.Metadata["Created"],
		LastUpdate: doc.LastUpdate,
		LastTitle:  doc.LastTitle,
		EntryCount: doc.EntryCount,
		HasNew:     doc.HasNew,
		Checksum:   checksum.Sum(data),
		UpdatedAt:  time.Now(),
	}
	return db.UpsertThread(row, string(data))
}

// repoForPath derives the repo display name from the first path segment,
// or empty string when the file is not inside a *-threads directory.
func repoForPath(rel string) string {
	first := strings.Split(filepath.ToSlash(rel), "/")[0]
	if !strings.HasSuffix(first, "-threads") {
		return ""
	}
	return strings.TrimSuffix(first, "-threads")
}
