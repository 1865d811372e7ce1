package gitrepo

import (
	"fmt"
	"strconv"
	"strings"
)

// Bump levels, strongest first.
const (
	BumpMajor = "major"
	BumpMinor = "minor"
	BumpPatch = "patch"
)

// BumpFor derives the semantic-release bump level from a commit range:
// any breaking change forces a major bump, any feat a minor one, everything
// else is a patch.
func BumpFor(commits []Commit) string {
	bump := BumpPatch
	for _, c := range commits {
		if c.Breaking {
			return BumpMajor
		}
		if c.Type == "feat" {
			bump = BumpMinor
		}
	}
	return bump
}

// ParseVersion splits a vMAJOR.MINOR.PATCH (or MAJOR.MINOR.PATCH) string.
func ParseVersion(s string) (major, minor, patch int, err error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.SplitN(trimmed, ".", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid version %q", s)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		// Tolerate pre-release or build suffixes on the last component.
		if i == 2 {
			if idx := strings.IndexAny(part, "-+"); idx >= 0 {
				part = part[:idx]
			}
		}
		n, convErr := strconv.Atoi(part)
		if convErr != nil || n < 0 {
			return 0, 0, 0, fmt.Errorf("invalid version %q", s)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

// NextVersion computes the release that the given commit range warrants on
// top of current. An empty or unparsable current version starts from v0.0.0.
func NextVersion(current string, commits []Commit) string {
	major, minor, patch, err := ParseVersion(current)
	if err != nil {
		major, minor, patch = 0, 0, 0
	}
	switch BumpFor(commits) {
	case BumpMajor:
		major, minor, patch = major+1, 0, 0
	case BumpMinor:
		minor, patch = minor+1, 0
	default:
		patch++
	}
	return fmt.Sprintf("v%d.%d.%d", major, minor, patch)
}
