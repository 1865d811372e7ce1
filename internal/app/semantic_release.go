package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"shipmate/internal/gitrepo"
	"shipmate/internal/ops"
)

// semanticReleaseTask computes the next version from the commits since the
// last tag, prepends a changelog section, and tags the release. In dry-run
// mode it stops after reporting what would happen.
type semanticReleaseTask struct {
	repo          *gitrepo.Repo
	lastTag       string
	branch        string
	commits       []gitrepo.Commit
	changelogPath string
	dryRun        bool
	now           func() time.Time

	version string
	result  string
}

func (t *semanticReleaseTask) Kind() ops.Kind { return ops.KindSemanticRelease }

func (t *semanticReleaseTask) Steps() []ops.Step {
	steps := []ops.Step{
		{Name: "Computing next version", Run: t.compute},
	}
	if t.dryRun {
		steps = append(steps, ops.Step{Name: "Previewing release", Run: t.preview})
		return steps
	}
	return append(steps,
		ops.Step{Name: "Updating changelog", Run: t.updateChangelog},
		ops.Step{Name: "Committing and tagging", Run: t.tag},
	)
}

func (t *semanticReleaseTask) Result() string { return t.result }

func (t *semanticReleaseTask) compute(context.Context) error {
	if len(t.commits) == 0 {
		return fmt.Errorf("no commits since %s, nothing to release", t.baseline())
	}
	t.version = gitrepo.NextVersion(t.lastTag, t.commits)
	return nil
}

func (t *semanticReleaseTask) preview(context.Context) error {
	t.result = fmt.Sprintf("Dry run: would release %s from %s (%s bump, %d commits since %s)",
		t.version, t.branch, gitrepo.BumpFor(t.commits), len(t.commits), t.baseline())
	return nil
}

func (t *semanticReleaseTask) updateChangelog(context.Context) error {
	section := changelogSection(t.version, t.now().Format("2006-01-02"), t.commits)

	existing, err := os.ReadFile(t.changelogPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	var b strings.Builder
	b.WriteString(section)
	if len(existing) > 0 {
		b.WriteString("\n")
		b.Write(existing)
	}
	return os.WriteFile(t.changelogPath, []byte(b.String()), 0o644)
}

func (t *semanticReleaseTask) tag(ctx context.Context) error {
	if err := t.repo.StageAll(ctx); err != nil {
		return err
	}
	msg := fmt.Sprintf("chore(release): %s", t.version)
	if err := t.repo.Commit(ctx, msg); err != nil {
		return err
	}
	if err := t.repo.CreateTag(ctx, t.version, "Release "+t.version); err != nil {
		return err
	}
	t.result = fmt.Sprintf("Released %s from %s (%s bump, %d commits since %s)",
		t.version, t.branch, gitrepo.BumpFor(t.commits), len(t.commits), t.baseline())
	return nil
}

func (t *semanticReleaseTask) baseline() string {
	if t.lastTag == "" {
		return "the initial commit"
	}
	return t.lastTag
}

func changelogSection(version, date string, commits []gitrepo.Commit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)\n\n", version, date)
	for _, c := range commits {
		line := c.Subject
		if c.Type != "" {
			line = c.Description
			if c.Scope != "" {
				line = fmt.Sprintf("%s: %s", c.Scope, line)
			}
			line = fmt.Sprintf("%s: %s", c.Type, line)
		}
		fmt.Fprintf(&b, "- %s (%s)\n", line, c.ShortHash())
	}
	return b.String()
}

// StartSemanticRelease snapshots the history since the last tag and starts
// the release operation.
func (a *Application) StartSemanticRelease(dryRun bool) (ops.OperationID, error) {
	tag, commits, err := a.snapshotHistory()
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	branch, err := a.Repo.CurrentBranch(ctx)
	if err != nil {
		return "", err
	}
	path := a.Config.ChangelogPath
	if path == "" {
		path = "CHANGELOG.md"
	}
	return a.Dispatcher.Start(&semanticReleaseTask{
		repo:          a.Repo,
		lastTag:       tag,
		branch:        branch,
		commits:       commits,
		changelogPath: path,
		dryRun:        dryRun,
		now:           time.Now,
	})
}
