package gitops

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func gitAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.name", "tester"},
		{"config", "user.email", "tester@example.com"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	return dir
}

func testClient() *Client {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New("Watercooler", "dashboard@watercooler.dev", logger)
}

func TestIsRepo(t *testing.T) {
	gitAvailable(t)
	c := testClient()
	ctx := context.Background()

	repo := initRepo(t)
	if !c.IsRepo(ctx, repo) {
		t.Error("expected repo to be detected")
	}
	if c.IsRepo(ctx, t.TempDir()) {
		t.Error("plain dir detected as repo")
	}
}

func TestCommitAndPush_LocalCommit(t *testing.T) {
	gitAvailable(t)
	c := testClient()
	ctx := context.Background()
	repo := initRepo(t)

	path := filepath.Join(repo, "topic.md")
	if err := os.WriteFile(path, []byte("# Topic\nStatus: OPEN\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	warning, err := c.CommitAndPush(ctx, repo, "topic.md", "Update topic metadata")
	if err != nil {
		t.Fatalf("CommitAndPush: %v", err)
	}
	// No remote configured: committed locally, no push warning.
	if warning != "" {
		t.Errorf("warning = %q, want empty", warning)
	}

	out, err := c.run(ctx, repo, "log", "--oneline")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if out == "" {
		t.Error("expected a commit in the log")
	}
}

func TestCommitAndPush_NoChanges(t *testing.T) {
	gitAvailable(t)
	c := testClient()
	ctx := context.Background()
	repo := initRepo(t)

	path := filepath.Join(repo, "topic.md")
	_ = os.WriteFile(path, []byte("v1"), 0o644)
	if _, err := c.CommitAndPush(ctx, repo, "topic.md", "first"); err != nil {
		t.Fatal(err)
	}

	// Committing the same content again is a no-op, not an error.
	warning, err := c.CommitAndPush(ctx, repo, "topic.md", "second")
	if err != nil {
		t.Fatalf("CommitAndPush: %v", err)
	}
	if warning != "" {
		t.Errorf("warning = %q", warning)
	}
}

func TestFetch_NoUpstream(t *testing.T) {
	gitAvailable(t)
	c := testClient()
	ctx := context.Background()
	repo := initRepo(t)

	_ = os.WriteFile(filepath.Join(repo, "a.md"), []byte("a"), 0o644)
	if _, err := c.CommitAndPush(ctx, repo, "a.md", "seed"); err != nil {
		t.Fatal(err)
	}

	changed, err := c.Fetch(ctx, repo)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if changed {
		t.Error("repo without upstream reported a change")
	}
}
