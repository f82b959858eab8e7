package token

import "strings"

// legacyTokens are pre-AIM metadata markers. A line beginning with any of
// them is a hard error at every nesting depth.
var legacyTokens = [...]string{
	":::AIL_METADATA",
	"FEATURE:",
	"FACET:",
	"VERSION:",
}

// LegacyPrefix returns the legacy marker the line starts with, if any.
// Callers pass the line with leading horizontal whitespace already skipped:
// an indented marker is still a marker, whatever the nesting depth.
func LegacyPrefix(line string) (string, bool) {
	for _, tok := range legacyTokens {
		if strings.HasPrefix(line, tok) {
			return tok, true
		}
	}
	return "", false
}
