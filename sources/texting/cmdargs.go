package texting

import (
	"strings"
	"unicode"
)

// ParseCmdArgs splits command arguments on whitespace, newlines included.
// Single or double quotes group words; a backslash escapes the next quote or
// backslash and is kept before anything else.
func ParseCmdArgs(args string) []string {
	var (
		result  []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)

	flush := func() {
		if started && strings.TrimSpace(current.String()) != "" {
			result = append(result, current.String())
		}
		current.Reset()
		started = false
	}

	for _, ch := range args {
		switch {
		case escaped:
			if ch != '\'' && ch != '"' && ch != '\\' {
				current.WriteRune('\\')
			}
			current.WriteRune(ch)
			escaped = false
		case ch == '\\':
			escaped = true
			started = true
		case quote != 0 && ch == quote:
			quote = 0
		case quote == 0 && (ch == '\'' || ch == '"'):
			quote = ch
			started = true
		case quote == 0 && unicode.IsSpace(ch):
			flush()
		default:
			current.WriteRune(ch)
			started = true
		}
	}
	flush()

	return result
}
