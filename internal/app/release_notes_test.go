package app

import (
	"strings"
	"testing"
	"time"
)

func TestDraftReleaseNotesGrouping(t *testing.T) {
	commits := parsedCommits(t,
		"feat(search): add tracker search\nPROJ-1",
		"fix: handle empty diff",
		"chore: bump deps",
		"feat!: drop yaml v2 config\n\nBREAKING CHANGE: config files must use the v3 schema",
	)
	doc := draftReleaseNotes("v2.0.0", "v1.4.0", commits)

	for _, want := range []string{
		"# Release v2.0.0",
		"Changes since v1.4.0.",
		"## Features",
		"**search**: add tracker search",
		"[PROJ-1]",
		"## Fixes",
		"handle empty diff",
		"## Other",
		"bump deps",
		"## Breaking Changes",
		"config files must use the v3 schema",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("draft missing %q:\n%s", want, doc)
		}
	}
}

func TestDraftReleaseNotesNoTag(t *testing.T) {
	doc := draftReleaseNotes("v0.1.0", "", parsedCommits(t, "feat: first"))
	if strings.Contains(doc, "Changes since") {
		t.Errorf("draft for untagged repo should not mention a baseline:\n%s", doc)
	}
}

func TestChangelogSection(t *testing.T) {
	commits := parsedCommits(t,
		"feat(api): add endpoint",
		"not a conventional subject",
	)
	section := changelogSection("v1.1.0", "2026-08-25", commits)

	if !strings.HasPrefix(section, "## v1.1.0 (2026-08-25)\n") {
		t.Errorf("section header wrong:\n%s", section)
	}
	if !strings.Contains(section, "feat: api: add endpoint") {
		t.Errorf("conventional commit not rendered:\n%s", section)
	}
	if !strings.Contains(section, "not a conventional subject") {
		t.Errorf("plain subject not kept verbatim:\n%s", section)
	}
}

func TestSemanticReleaseSteps(t *testing.T) {
	dry := &semanticReleaseTask{dryRun: true, now: time.Now}
	if n := len(dry.Steps()); n != 2 {
		t.Errorf("dry-run steps = %d, want 2", n)
	}
	full := &semanticReleaseTask{now: time.Now}
	if n := len(full.Steps()); n != 3 {
		t.Errorf("full release steps = %d, want 3", n)
	}
}
