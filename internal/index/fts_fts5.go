//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS threads_fts USING fts5(
			path UNINDEXED,
			topic,
			title,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, path, topic, title, body string) error {
	_, _ = tx.Exec(`DELETE FROM threads_fts WHERE path = ?`, path)
	_, err := tx.Exec(`INSERT INTO threads_fts (path, topic, title, body) VALUES (?, ?, ?, ?)`,
		path, topic, title, body)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM threads_fts WHERE path = ?`, path)
}

// Search performs an FTS5 full-text search and returns matching threads
// with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.path,
		       t.repo,
		       f.topic,
		       snippet(threads_fts, 3, '<b>', '</b>', '...', 64)
		FROM threads_fts f
		JOIN threads t ON t.path = f.path
		WHERE threads_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.Repo, &r.Topic, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
