package transform

// Chunks splits text into pieces of at most cs runes, preferring to cut after
// a newline in the second half of a piece.
func Chunks(text string, cs int) []string {
	return ChunksBy(text, cs, func(rune) int { return 1 })
}

// ChunksBy is Chunks with every rune counted as width(r). A single rune wider
// than cs still gets a piece of its own.
func ChunksBy(text string, cs int, width func(rune) int) []string {
	if cs <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	var chunks []string
	for len(runes) > 0 {
		end, used, cut := 0, 0, 0
		for end < len(runes) {
			w := width(runes[end])
			if end > 0 && used+w > cs {
				break
			}
			used += w
			end++
			if runes[end-1] == '\n' && used > cs/2 {
				cut = end
			}
		}

		if end < len(runes) && cut > 0 {
			end = cut
		}

		chunks = append(chunks, string(runes[:end]))
		runes = runes[end:]
	}
	return chunks
}
