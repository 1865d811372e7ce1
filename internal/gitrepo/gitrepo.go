// Package gitrepo wraps the git CLI for the handful of repository views the
// background operations need: working-tree diffs, commit history since the
// last release tag, and tag creation.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

type Repo struct {
	dir string
}

// Open verifies dir is inside a git work tree.
func Open(dir string) (*Repo, error) {
	r := &Repo{dir: dir}
	out, err := r.git(context.Background(), "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	if strings.TrimSpace(out) != "true" {
		return nil, errors.New("not a git repository")
	}
	return r, nil
}

func (r *Repo) Dir() string { return r.dir }

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return string(out), nil
}

// DetailedChanges returns the staged diff, the unstaged diff and the list of
// untracked files as one annotated text block. An empty string means the
// working tree is clean.
func (r *Repo) DetailedChanges(ctx context.Context) (string, error) {
	var b strings.Builder

	staged, err := r.git(ctx, "diff", "--cached")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(staged) != "" {
		b.WriteString("=== STAGED CHANGES ===\n")
		b.WriteString(staged)
		b.WriteString("\n")
	}

	unstaged, err := r.git(ctx, "diff")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(unstaged) != "" {
		b.WriteString("=== UNSTAGED CHANGES ===\n")
		b.WriteString(unstaged)
		b.WriteString("\n")
	}

	untracked, err := r.git(ctx, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(untracked) != "" {
		b.WriteString("=== UNTRACKED FILES ===\n")
		for _, file := range strings.Split(strings.TrimSpace(untracked), "\n") {
			fmt.Fprintf(&b, "new file: %s\n", file)
		}
	}

	return strings.TrimSpace(b.String()), nil
}

// LastTag returns the most recent annotated or lightweight tag reachable
// from HEAD, or "" when the repository has no tags yet.
func (r *Repo) LastTag(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "describe", "--tags", "--abbrev=0")
	if err != nil {
		// git describe fails on a repo without tags; treat that as "no tag".
		if strings.Contains(err.Error(), "No names found") ||
			strings.Contains(err.Error(), "cannot describe") ||
			strings.Contains(err.Error(), "No tags") {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// logFormat uses unit/record separators so commit bodies with blank lines
// survive parsing.
const logFormat = "%H%x1f%an%x1f%aI%x1f%s%x1f%b%x1e"

// CommitsSinceTag lists non-merge commits in tag..HEAD, newest first. An
// empty tag means the full history.
func (r *Repo) CommitsSinceTag(ctx context.Context, tag string) ([]Commit, error) {
	args := []string{"log", "--no-merges", "--pretty=format:" + logFormat}
	if tag != "" {
		args = append(args, tag+"..HEAD")
	}
	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	var commits []Commit
	for _, record := range strings.Split(out, "\x1e") {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.SplitN(record, "\x1f", 5)
		if len(fields) < 5 {
			continue
		}
		commits = append(commits, ParseCommit(fields[0], fields[1], fields[2], fields[3], fields[4]))
	}
	return commits, nil
}

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// StageAll stages every change in the work tree.
func (r *Repo) StageAll(ctx context.Context) error {
	_, err := r.git(ctx, "add", "-A")
	return err
}

// Commit records the staged changes with the given message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	_, err := r.git(ctx, "commit", "-m", message)
	return err
}

// CreateTag creates an annotated tag at HEAD.
func (r *Repo) CreateTag(ctx context.Context, name, message string) error {
	_, err := r.git(ctx, "tag", "-a", name, "-m", message)
	return err
}
