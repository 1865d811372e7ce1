package ai

import "fmt"

// AnalysisPrompt asks for a structured review of the current work-tree
// changes.
func AnalysisPrompt(changes string) string {
	return fmt.Sprintf(`You are reviewing pending changes in a git repository.

Analyze the changes below and reply with:
1. A one-paragraph summary of what changed.
2. The risk level (low/medium/high) with a short justification.
3. Suggested conventional commit type and scope.
4. Anything that looks unintentional (debug code, secrets, leftover files).

Changes:
%s`, changes)
}

// CommitMessagePrompt asks for a conventional commit message describing the
// given changes.
func CommitMessagePrompt(changes string) string {
	return fmt.Sprintf(`Write a conventional commit message for the changes below.

Rules:
- First line: type(scope): short imperative description, at most 72 characters.
- Then a blank line and a body explaining what and why, wrapped at 80 columns.
- Mention breaking changes in a "BREAKING CHANGE:" footer when applicable.
- Reply with the commit message only, no surrounding commentary.

Changes:
%s`, changes)
}

// ReleaseNotesPrompt asks the model to polish a pre-built release document
// into publishable notes.
func ReleaseNotesPrompt(document string) string {
	return fmt.Sprintf(`You are preparing release notes for end users.

Rewrite the draft below into clear, well-organized markdown release notes:
- Group entries under "Features", "Fixes" and "Breaking Changes" headings.
- Keep commit references and issue keys exactly as written.
- Drop internal chores that carry no user-visible effect.
- Reply with the final markdown document only.

Draft:
%s`, document)
}
