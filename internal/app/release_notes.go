package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shipmate/internal/ai"
	"shipmate/internal/gitrepo"
	"shipmate/internal/ops"
)

// releaseNotesTask builds a draft document from the commits since the last
// tag, has the AI polish it, and writes RELEASE_NOTES_<version>.md.
type releaseNotesTask struct {
	client   ai.Client
	lastTag  string
	commits  []gitrepo.Commit
	notesDir string

	version  string
	document string
	result   string
}

func (t *releaseNotesTask) Kind() ops.Kind { return ops.KindReleaseNotes }

func (t *releaseNotesTask) Steps() []ops.Step {
	return []ops.Step{
		{Name: "Collecting commits since last release", Run: t.collect},
		{Name: "Polishing release notes", Run: t.polish},
		{Name: "Writing notes file", Run: t.write},
	}
}

func (t *releaseNotesTask) Result() string { return t.result }

func (t *releaseNotesTask) collect(context.Context) error {
	if len(t.commits) == 0 {
		return fmt.Errorf("no commits since %s", t.baseline())
	}
	t.version = gitrepo.NextVersion(t.lastTag, t.commits)
	t.document = draftReleaseNotes(t.version, t.lastTag, t.commits)
	return nil
}

func (t *releaseNotesTask) polish(ctx context.Context) error {
	out, err := t.client.GenerateText(ctx, ai.ReleaseNotesPrompt(t.document))
	if err != nil {
		return err
	}
	t.document = strings.TrimSpace(out) + "\n"
	return nil
}

func (t *releaseNotesTask) write(context.Context) error {
	name := fmt.Sprintf("RELEASE_NOTES_%s.md", t.version)
	path := filepath.Join(t.notesDir, name)
	if err := os.WriteFile(path, []byte(t.document), 0o644); err != nil {
		return err
	}
	t.result = fmt.Sprintf("Release notes for %s written to %s\n\n%s", t.version, path, t.document)
	return nil
}

func (t *releaseNotesTask) baseline() string {
	if t.lastTag == "" {
		return "the initial commit"
	}
	return t.lastTag
}

// draftReleaseNotes renders the raw changelog the AI will rewrite. Commits
// are grouped by conventional type; unknown types end up under "Other".
func draftReleaseNotes(version, lastTag string, commits []gitrepo.Commit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Release %s\n\n", version)
	if lastTag != "" {
		fmt.Fprintf(&b, "Changes since %s.\n\n", lastTag)
	}

	groups := map[string][]gitrepo.Commit{}
	var breaking []string
	for _, c := range commits {
		key := "other"
		switch c.Type {
		case "feat":
			key = "feat"
		case "fix":
			key = "fix"
		}
		groups[key] = append(groups[key], c)
		if c.Breaking {
			note := c.Description
			if len(c.Notes) > 0 {
				note = strings.Join(c.Notes, "; ")
			}
			breaking = append(breaking, fmt.Sprintf("%s (%s)", note, c.ShortHash()))
		}
	}

	sections := []struct {
		key   string
		title string
	}{
		{"feat", "Features"},
		{"fix", "Fixes"},
		{"other", "Other"},
	}
	for _, s := range sections {
		entries := groups[s.key]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", s.title)
		for _, c := range entries {
			line := c.Description
			if c.Scope != "" {
				line = fmt.Sprintf("**%s**: %s", c.Scope, line)
			}
			fmt.Fprintf(&b, "- %s (%s)", line, c.ShortHash())
			if len(c.IssueKeys) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(c.IssueKeys, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(breaking) > 0 {
		b.WriteString("## Breaking Changes\n\n")
		for _, note := range breaking {
			fmt.Fprintf(&b, "- %s\n", note)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// StartReleaseNotes snapshots the history since the last tag and starts the
// release notes operation.
func (a *Application) StartReleaseNotes() (ops.OperationID, error) {
	tag, commits, err := a.snapshotHistory()
	if err != nil {
		return "", err
	}
	dir := a.Config.NotesDir
	if dir == "" {
		dir = "."
	}
	return a.Dispatcher.Start(&releaseNotesTask{
		client:   a.AI,
		lastTag:  tag,
		commits:  commits,
		notesDir: dir,
	})
}
