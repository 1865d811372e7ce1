package gitrepo

import (
	"regexp"
	"strings"
	"time"
)

// Commit is one parsed history entry with its conventional-commit fields
// extracted. Type/Scope/Description are empty when the subject does not
// follow the convention; Description then falls back to the raw subject.
type Commit struct {
	Hash        string
	Author      string
	Date        time.Time
	Subject     string
	Body        string
	Type        string
	Scope       string
	Description string
	Breaking    bool
	Notes       []string // BREAKING CHANGE footer lines
	IssueKeys   []string // referenced tracker keys, e.g. PROJ-123
}

// ShortHash returns the abbreviated commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

var (
	subjectRe  = regexp.MustCompile(`^([a-zA-Z]+)(?:\(([^)]*)\))?(!)?:\s*(.+)$`)
	issueKeyRe = regexp.MustCompile(`\b[A-Z][A-Z0-9]+-\d+\b`)
)

// ParseCommit builds a Commit from the raw log fields. dateISO is the
// author date in RFC 3339; an unparsable date is left zero rather than
// failing the whole history walk.
func ParseCommit(hash, author, dateISO, subject, body string) Commit {
	c := Commit{
		Hash:        hash,
		Author:      author,
		Subject:     strings.TrimSpace(subject),
		Body:        strings.TrimSpace(body),
		Description: strings.TrimSpace(subject),
	}
	if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(dateISO)); err == nil {
		c.Date = ts
	}

	if m := subjectRe.FindStringSubmatch(c.Subject); m != nil {
		c.Type = strings.ToLower(m[1])
		c.Scope = m[2]
		c.Description = m[4]
		if m[3] == "!" {
			c.Breaking = true
		}
	}

	c.Notes = breakingNotes(c.Body)
	if len(c.Notes) > 0 {
		c.Breaking = true
	}
	seen := make(map[string]bool)
	for _, key := range issueKeyRe.FindAllString(c.Subject+"\n"+c.Body, -1) {
		if !seen[key] {
			seen[key] = true
			c.IssueKeys = append(c.IssueKeys, key)
		}
	}
	return c
}

func breakingNotes(body string) []string {
	var notes []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range []string{"BREAKING CHANGE:", "BREAKING-CHANGE:"} {
			if strings.HasPrefix(trimmed, prefix) {
				note := strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
				if note != "" {
					notes = append(notes, note)
				}
			}
		}
	}
	return notes
}
