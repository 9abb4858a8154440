package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Pref keys. Thread orderings are stored per repo.
const (
	prefRepoOrder   = "repo_order"
	prefThreadOrder = "thread_order:" // + repo name
)

// RepoOrder returns the persisted repository display order.
func (db *DB) RepoOrder() ([]string, error) {
	return db.getOrder(prefRepoOrder)
}

// SetRepoOrder persists the repository display order.
func (db *DB) SetRepoOrder(order []string) error {
	return db.setOrder(prefRepoOrder, order)
}

// ThreadOrder returns the persisted thread order for a repo.
func (db *DB) ThreadOrder(repo string) ([]string, error) {
	return db.getOrder(prefThreadOrder + repo)
}

// SetThreadOrder persists the thread order for a repo.
func (db *DB) SetThreadOrder(repo string, order []string) error {
	return db.setOrder(prefThreadOrder+repo, order)
}

func (db *DB) getOrder(key string) ([]string, error) {
	var raw string
	err := db.conn.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get pref %s: %w", key, err)
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// Malformed pref value; treat as unset.
		return nil, nil
	}
	return out, nil
}

func (db *DB) setOrder(key string, order []string) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("index: marshal pref %s: %w", key, err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("index: set pref %s: %w", key, err)
	}
	return nil
}
