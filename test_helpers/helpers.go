// Package test_helpers has utilities shared by tests.
package test_helpers

import (
	"strings"
)

func leadingBlanks(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// Dedent removes the indentation shared by every non-blank line. Useful to remove
// indentation that is present only because of a `backtick` string indentation level.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")
	prefix, found := "", false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		blanks := leadingBlanks(line)
		if !found {
			prefix, found = blanks, true
			continue
		}
		for !strings.HasPrefix(blanks, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
