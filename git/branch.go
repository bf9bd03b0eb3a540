package git

import (
	"regexp"
	"strings"
)

var (
	invalidRunes = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a branch-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = invalidRunes.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CleanBranch ensures a branch name is valid: collapses hyphen runs and
// trims trailing hyphens from each path segment.
func CleanBranch(s string) string {
	s = hyphenRuns.ReplaceAllString(s, "-")

	parts := strings.Split(s, "/")
	for i, part := range parts {
		parts[i] = strings.Trim(part, "-")
	}
	return strings.Join(parts, "/")
}
