package index

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "watercooler-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRow(path, repo, topic string) ThreadRow {
	return ThreadRow{
		Path:       path,
		Repo:       repo,
		Topic:      topic,
		Title:      topic,
		Status:     "OPEN",
		Ball:       "alice",
		EntryCount: 1,
		Checksum:   "cs-" + topic,
		UpdatedAt:  time.Now(),
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM threads`).Scan(&count); err != nil {
		t.Fatalf("threads table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM prefs`).Scan(&count); err != nil {
		t.Fatalf("prefs table missing: %v", err)
	}
}

func TestUpsertAndGetThread(t *testing.T) {
	db := testDB(t)
	row := sampleRow("acme-threads/billing.md", "acme", "billing")
	row.HasNew = true
	row.LastUpdate = "2024-01-02T03:04:05Z"
	if err := db.UpsertThread(row, "body text"); err != nil {
		t.Fatalf("UpsertThread: %v", err)
	}

	got, err := db.GetThread("acme-threads/billing.md")
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if got == nil {
		t.Fatal("GetThread returned nil")
	}
	if got.Status != "OPEN" || !got.HasNew || got.LastUpdate != "2024-01-02T03:04:05Z" {
		t.Errorf("row = %+v", got)
	}
}

func TestGetThreadAbsent(t *testing.T) {
	db := testDB(t)
	got, err := db.GetThread("nope.md")
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent thread, got %+v", got)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	row := sampleRow("acme-threads/t.md", "acme", "t")
	_ = db.UpsertThread(row, "v1")

	row.Status = "CLOSED"
	row.Checksum = "cs2"
	if err := db.UpsertThread(row, "v2"); err != nil {
		t.Fatalf("UpsertThread: %v", err)
	}

	got, _ := db.GetThread("acme-threads/t.md")
	if got.Status != "CLOSED" || got.Checksum != "cs2" {
		t.Errorf("row = %+v", got)
	}

	var count int
	_ = db.conn.QueryRow(`SELECT count(*) FROM threads`).Scan(&count)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestListThreadsByRepo(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertThread(sampleRow("acme-threads/zeta.md", "acme", "zeta"), "")
	_ = db.UpsertThread(sampleRow("acme-threads/Alpha.md", "acme", "Alpha"), "")
	_ = db.UpsertThread(sampleRow("beta-threads/b.md", "beta", "b"), "")

	rows, err := db.ListThreads("acme")
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	// Case-insensitive topic ordering.
	if rows[0].Topic != "Alpha" || rows[1].Topic != "zeta" {
		t.Errorf("order = %v, %v", rows[0].Topic, rows[1].Topic)
	}

	all, err := db.ListThreads("")
	if err != nil {
		t.Fatalf("ListThreads all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}
}

func TestDeleteThread(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertThread(sampleRow("acme-threads/del.md", "acme", "del"), "body")

	if err := db.DeleteThread("acme-threads/del.md"); err != nil {
		t.Fatalf("DeleteThread: %v", err)
	}
	cs, _ := db.GetChecksum("acme-threads/del.md")
	if cs != "" {
		t.Errorf("deleted thread still has checksum %q", cs)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertThread(sampleRow("acme-threads/a.md", "acme", "a"), "")
	_ = db.UpsertThread(sampleRow("acme-threads/b.md", "acme", "b"), "")

	cs, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(cs) != 2 || cs["acme-threads/a.md"] != "cs-a" {
		t.Errorf("checksums = %v", cs)
	}
}

func TestSearchFallback(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertThread(sampleRow("acme-threads/billing.md", "acme", "billing"),
		"# Billing\n---\nEntry: alice 2024-01-01T00:00:00Z\n\ninvoice pipeline broken")
	_ = db.UpsertThread(sampleRow("acme-threads/other.md", "acme", "other"), "nothing relevant")

	hits, err := db.Search("invoice", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Path != "acme-threads/billing.md" {
		t.Errorf("hits = %v", hits)
	}
	if hits[0].Repo != "acme" {
		t.Errorf("repo = %q", hits[0].Repo)
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	db := testDB(t)

	order, err := db.RepoOrder()
	if err != nil {
		t.Fatalf("RepoOrder: %v", err)
	}
	if order != nil {
		t.Errorf("unset order = %v, want nil", order)
	}

	if err := db.SetRepoOrder([]string{"beta", "acme"}); err != nil {
		t.Fatalf("SetRepoOrder: %v", err)
	}
	order, _ = db.RepoOrder()
	if len(order) != 2 || order[0] != "beta" {
		t.Errorf("order = %v", order)
	}

	if err := db.SetThreadOrder("acme", []string{"z", "a"}); err != nil {
		t.Fatalf("SetThreadOrder: %v", err)
	}
	threads, _ := db.ThreadOrder("acme")
	if len(threads) != 2 || threads[0] != "z" {
		t.Errorf("threads = %v", threads)
	}
	other, _ := db.ThreadOrder("beta")
	if other != nil {
		t.Errorf("beta order = %v, want nil", other)
	}
}

func TestRepoForPath(t *testing.T) {
	if got := repoForPath("acme-threads/sub/t.md"); got != "acme" {
		t.Errorf("repoForPath = %q, want acme", got)
	}
	if got := repoForPath("plain/t.md"); got != "" {
		t.Errorf("repoForPath = %q, want empty", got)
	}
}
