// Package gitops commits, pushes, and fetches thread repositories via
// the git command line.
package gitops

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Client runs git operations inside thread repositories. The zero value
// is not usable; construct with New.
type Client struct {
	authorName  string
	authorEmail string
	logger      *slog.Logger
}

// New creates a git client. authorName/authorEmail override the commit
// author when non-empty; otherwise the repository's own config applies.
func New(authorName, authorEmail string, logger *slog.Logger) *Client {
	return &Client{authorName: authorName, authorEmail: authorEmail, logger: logger}
}

// IsRepo reports whether dir is inside a git work tree.
func (c *Client) IsRepo(ctx context.Context, dir string) bool {
	_, err := c.run(ctx, dir, "rev-parse", "--git-dir")
	return err == nil
}

// CommitAndPush stages relPath, commits it with message, and pushes when
// a remote is configured. A push failure after a successful commit is
// reported as a non-empty warning, not an error; the caller's in-memory
// result is already committed locally and must not be rolled back.
func (c *Client) CommitAndPush(ctx context.Context, dir, relPath, message string) (warning string, err error) {
	if _, err := c.run(ctx, dir, "add", "--", relPath); err != nil {
		return "", fmt.Errorf("gitops: stage %s: %w", relPath, err)
	}

	// Nothing staged means nothing to commit, which is not an error.
	if _, err := c.run(ctx, dir, "diff", "--cached", "--quiet"); err == nil {
		c.logger.Debug("gitops: no changes to commit", slog.String("path", relPath))
		return "", nil
	}

	args := []string{"commit", "-m", message}
	if c.authorName != "" {
		email := c.authorEmail
		if email == "" {
			email = "dashboard@watercooler.dev"
		}
		args = append(args, "--author", fmt.Sprintf("%s <%s>", c.authorName, email))
	}
	if _, err := c.run(ctx, dir, args...); err != nil {
		return "", fmt.Errorf("gitops: commit: %w", err)
	}
	c.logger.Info("gitops: committed", slog.String("path", relPath), slog.String("message", message))

	remotes, err := c.run(ctx, dir, "remote")
	if err != nil || strings.TrimSpace(remotes) == "" {
		c.logger.Debug("gitops: no remotes configured", slog.String("dir", dir))
		return "", nil
	}

	if _, err := c.run(ctx, dir, "push"); err != nil {
		c.logger.Warn("gitops: push failed", slog.String("dir", dir), slog.String("error", err.Error()))
		return fmt.Sprintf("committed but push failed: %v", err), nil
	}
	return "", nil
}

// Fetch pulls remote changes into dir with a fast-forward-only merge and
// reports whether the work tree changed. A repo without an upstream is
// not an error; it simply never changes via Fetch.
func (c *Client) Fetch(ctx context.Context, dir string) (changed bool, err error) {
	remotes, err := c.run(ctx, dir, "remote")
	if err != nil || strings.TrimSpace(remotes) == "" {
		return false, nil
	}
	if _, err := c.run(ctx, dir, "fetch", "--quiet"); err != nil {
		return false, fmt.Errorf("gitops: fetch: %w", err)
	}

	local, err := c.run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return false, fmt.Errorf("gitops: rev-parse HEAD: %w", err)
	}
	upstream, err := c.run(ctx, dir, "rev-parse", "@{u}")
	if err != nil {
		// No upstream configured.
		return false, nil
	}
	if strings.TrimSpace(local) == strings.TrimSpace(upstream) {
		return false, nil
	}

	if _, err := c.run(ctx, dir, "merge", "--ff-only", "@{u}"); err != nil {
		return false, fmt.Errorf("gitops: fast-forward: %w", err)
	}
	return true, nil
}

func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errOut.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return out.String(), nil
}
