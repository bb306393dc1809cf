package core

import (
	"path"
	"strings"
	"unicode"
)

// DefaultOutputName is the suggested download name.
const DefaultOutputName = "output_gpio.h"

// NoCommentColumn is the form value meaning "no comment column".
const NoCommentColumn = "None"

// SanitizeFileName reduces a user supplied name to a safe attachment name.
// Directory parts, quotes and control characters are dropped. Returns
// fallback when nothing usable is left.
func SanitizeFileName(name, fallback string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(strings.TrimSpace(name))

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '"' || r == '\'' || r == ';' {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == "/" || name == ".." {
		return fallback
	}
	return name
}

// dedupe drops repeated names, keeping first occurrences.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
