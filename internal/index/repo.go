package index

import (
	"fmt"
	"time"
)

// ThreadRow represents a row in the threads table: the summary a front
// end needs without re-parsing the file.
type ThreadRow struct {
	Path       string    `json:"path"`
	Repo       string    `json:"repo"`
	Topic      string    `json:"topic"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority,omitempty"`
	Ball       string    `json:"ball"`
	Created    string    `json:"created,omitempty"`
	LastUpdate string    `json:"last_update,omitempty"`
	LastTitle  string    `json:"last_title,omitempty"`
	EntryCount int       `json:"entry_count"`
	HasNew     bool      `json:"has_new"`
	Checksum   string    `json:"checksum"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Repo    string `json:"repo"`
	Topic   string `json:"topic"`
	Snippet string `json:"snippet"`
}

const threadColumns = `path, repo, topic, title, status, priority, ball, created,
	last_update, last_title, entry_count, has_new, checksum, updated_at`

// UpsertThread inserts or replaces a thread summary and its FTS entry
// within a transaction. body is stored for search only.
func (db *DB) UpsertThread(row ThreadRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO threads (path, repo, topic, title, status, priority, ball, created,
			last_update, last_title, entry_count, has_new, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			repo        = excluded.repo,
			topic       = excluded.topic,
			title       = excluded.title,
			status      = excluded.status,
			priority    = excluded.priority,
			ball        = excluded.ball,
			created     = excluded.created,
			last_update = excluded.last_update,
			last_title  = excluded.last_title,
			entry_count = excluded.entry_count,
			has_new     = excluded.has_new,
			checksum    = excluded.checksum,
			body        = excluded.body,
			updated_at  = excluded.updated_at
	`, row.Path, row.Repo, row.Topic, row.Title, row.Status, row.Priority, row.Ball,
		row.Created, row.LastUpdate, row.LastTitle, row.EntryCount, row.HasNew,
		row.Checksum, body, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert thread: %w", err)
	}

	if err := ftsUpsert(tx, row.Path, row.Topic, row.Title, body); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteThread removes a thread summary and its FTS entry.
func (db *DB) DeleteThread(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM threads WHERE path = ?`, path)

	return tx.Commit()
}

// GetThread returns the summary row for a path, or nil when absent.
func (db *DB) GetThread(path string) (*ThreadRow, error) {
	row := db.conn.QueryRow(`SELECT `+threadColumns+` FROM threads WHERE path = ?`, path)
	t, err := scanThread(row)
	if err != nil {
		return nil, nil //nolint:nilerr // absence is not an error
	}
	return &t, nil
}

// ListThreads returns summaries, optionally filtered to one repo, sorted
// by topic (case-insensitive) to match the dashboard's default ordering.
func (db *DB) ListThreads(repo string) ([]ThreadRow, error) {
	query := `SELECT ` + threadColumns + ` FROM threads`
	args := []any{}
	if repo != "" {
		query += ` WHERE repo = ?`
		args = append(args, repo)
	}
	query += ` ORDER BY lower(topic)`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: list threads: %w", err)
	}
	defer rows.Close()

	var out []ThreadRow
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetChecksum returns the stored checksum for a thread, or empty string
// if not indexed.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM threads WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns path -> checksum for every indexed thread.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM threads`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanThread(s scanner) (ThreadRow, error) {
	var t ThreadRow
	err := s.Scan(&t.Path, &t.Repo, &t.Topic, &t.Title, &t.Status, &t.Priority,
		&t.Ball, &t.Created, &t.LastUpdate, &t.LastTitle, &t.EntryCount,
		&t.HasNew, &t.Checksum, &t.UpdatedAt)
	return t, err
}
