package testhelper

import (
	"regexp"
	"strings"
	"testing"
)

var (
	whiteSpaces = regexp.MustCompile(`(\s+)`)
	leadingTabs = regexp.MustCompile(`^(\t+)`)
)

func replaceTab(match string) string {
	return strings.Repeat("  ", strings.Count(match, "\t"))
}

// TrimIndent removes the indentation of the first content line from every line
// of a raw string literal and drops the leading newline. Remaining leading tabs
// become two spaces each, matching the indentation of generated code.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")

	var indent string
	if len(lines) > 1 {
		indent = whiteSpaces.FindString(lines[1])
	}

	for i, line := range lines {
		line = strings.TrimPrefix(line, indent)
		lines[i] = leadingTabs.ReplaceAllStringFunc(line, replaceTab)
	}

	return strings.TrimRight(strings.Join(lines[1:], "\n"), " ")
}

// CollapseSpace folds runs of whitespace into one space so generated code can
// be compared without caring about line breaks.
func CollapseSpace(s string) string {
	return strings.TrimSpace(whiteSpaces.ReplaceAllString(s, " "))
}
