package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/watercoolerhq/watercooler/internal/storage"
)

const watchedDoc = "# Billing\nStatus: OPEN\nBall: alice\n\n---\nEntry: bob 2024-01-02T03:04:05Z\n\nhello\n"

// watcherTestEnv sets up a threads base, storage, and DB for watcher tests.
func watcherTestEnv(t *testing.T) (string, storage.Provider, *DB) {
	t.Helper()
	baseDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(baseDir, "acme-threads"), 0o755); err != nil {
		t.Fatal(err)
	}
	store, err := storage.NewFS(baseDir)
	if err != nil {
		t.Fatal(err)
	}
	dbFile, err := os.CreateTemp("", "watercooler-watcher-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })
	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return baseDir, store, db
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_NewThreadIndexed(t *testing.T) {
	baseDir, store, db := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, db, store, baseDir, logger, func(kind, path string) {
		mu.Lock()
		events = append(events, kind+":"+path)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	rel := filepath.Join("acme-threads", "new.md")
	_ = os.WriteFile(filepath.Join(baseDir, rel), []byte(watchedDoc), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum(rel)
		return cs != ""
	}, "new thread not indexed by watcher")

	row, _ := db.GetThread(rel)
	if row == nil || row.Repo != "acme" || !row.HasNew {
		t.Errorf("row = %+v", row)
	}

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "created:"+rel {
				return true
			}
		}
		return false
	}, "created event not delivered")
}

func TestWatcher_ReadmeIgnored(t *testing.T) {
	baseDir, store, db := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, db, store, baseDir, logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(baseDir, "acme-threads", "README.md"), []byte("# readme"), 0o644)
	_ = os.WriteFile(filepath.Join(baseDir, "loose.md"), []byte("# not in a repo"), 0o644)

	time.Sleep(300 * time.Millisecond)

	all, _ := db.AllChecksums()
	if len(all) != 0 {
		t.Errorf("expected nothing indexed, got %v", all)
	}
}

func TestWatcher_RemoveDeletesEntry(t *testing.T) {
	baseDir, store, db := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	rel := filepath.Join("acme-threads", "gone.md")
	_ = os.WriteFile(filepath.Join(baseDir, rel), []byte(watchedDoc), 0o644)
	if err := IndexThread(db, rel, []byte(watchedDoc)); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, db, store, baseDir, logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Remove(filepath.Join(baseDir, rel))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum(rel)
		return cs == ""
	}, "removed thread still indexed")
}

func TestSyncIndexesAndPrunes(t *testing.T) {
	baseDir, store, db := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	_ = os.WriteFile(filepath.Join(baseDir, "acme-threads", "a.md"), []byte(watchedDoc), 0o644)
	_ = os.WriteFile(filepath.Join(baseDir, "acme-threads", "README.md"), []byte("# readme"), 0o644)

	// Pre-seed a stale entry that no longer exists on disk.
	_ = db.UpsertThread(ThreadRow{Path: "acme-threads/stale.md", Repo: "acme", Checksum: "x", UpdatedAt: time.Now()}, "")

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	all, _ := db.AllChecksums()
	if len(all) != 1 {
		t.Fatalf("checksums = %v, want only a.md", all)
	}
	if _, ok := all[filepath.Join("acme-threads", "a.md")]; !ok {
		t.Errorf("a.md not indexed: %v", all)
	}

	row, _ := db.GetThread(filepath.Join("acme-threads", "a.md"))
	if row == nil || row.EntryCount != 1 || row.Status != "OPEN" {
		t.Errorf("row = %+v", row)
	}
}
