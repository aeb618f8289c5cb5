package transform

import (
	"strings"
	"unicode"
)

const ellipsis = "…"

// SmartTruncate shortens text to at most maxLen runes, cutting at the last
// space or comma when there is one, and marks the cut with an ellipsis.
func SmartTruncate(text string, maxLen int) string {
	runes := []rune(text)
	if maxLen <= 0 || len(runes) <= maxLen {
		return text
	}

	truncated := runes[:maxLen]
	for i := len(truncated) - 1; i > 0; i-- {
		if unicode.IsSpace(truncated[i]) || truncated[i] == ',' {
			truncated = truncated[:i]
			break
		}
	}

	return strings.TrimRight(string(truncated), " ,") + ellipsis
}
