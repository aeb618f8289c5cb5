package texting

import "strings"

const markdownSpecial = "\\_*[]()~`>#+-=|{}.!"

var markdownEscaper = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(markdownSpecial))
	for _, ch := range markdownSpecial {
		pairs = append(pairs, string(ch), "\\"+string(ch))
	}
	return strings.NewReplacer(pairs...)
}()

// EscapeMarkdown escapes every MarkdownV2 special character of input.
func EscapeMarkdown(input string) string {
	return markdownEscaper.Replace(input)
}

// EscapedWidth is the number of runes r takes once escaped.
func EscapedWidth(r rune) int {
	if strings.ContainsRune(markdownSpecial, r) {
		return 2
	}
	return 1
}
