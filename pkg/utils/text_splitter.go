package utils

import "strings"

// SplitText splits a long string into chunks of approximately 'chunkSize'
// characters with 'overlap' characters carried between neighbours. Chunk ends
// snap back to the nearest space when one is close, and each following chunk
// starts on a word boundary, so words are not cut in half.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	i := 0
	for i < totalLen {
		end := i + chunkSize
		if end >= totalLen {
			end = totalLen
		} else {
			// Walk back at most 80 runes looking for a space to break on.
			limit := end - 80
			if limit < i+1 {
				limit = i + 1
			}
			for j := end; j > limit; j-- {
				if runes[j-1] == ' ' || runes[j-1] == '\n' {
					end = j
					break
				}
			}
		}

		chunk := strings.TrimSpace(string(runes[i:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == totalLen {
			break
		}

		// Back up by the overlap from the snapped end, then advance to the
		// next word boundary so the chunk never starts mid-word. When the
		// overlap swallows the whole chunk, continue from the end instead.
		next := end - overlap
		if next <= i {
			next = end
		}
		for next < end && runes[next-1] != ' ' && runes[next-1] != '\n' {
			next++
		}
		i = next
	}

	return chunks
}
