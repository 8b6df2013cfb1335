package splitter

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var sentenceSeps = []string{". ", "! ", "? ", "\n"}

// Split cuts text into chunks of at most chunkSize bytes, stepping each new
// window back by overlap bytes. Before cutting, the right boundary is pulled
// back to the last paragraph break inside the window, or failing that the
// last sentence-ending separator, so chunks end on natural boundaries when
// one exists. Runes are never split, so a chunk holds at least one whole rune
// even when chunkSize is narrower than it. Emitted chunks are trimmed; empty
// ones are dropped.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, errors.New("splitter: chunk size must be positive")
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, errors.New("splitter: overlap must be non-negative and smaller than chunk size")
	}

	var chunks []string
	prev := ""
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			if p := strings.LastIndex(text[start:end], "\n\n"); p > 0 {
				end = start + p
			} else {
				cut := false
				for _, sep := range sentenceSeps {
					if p := strings.LastIndex(text[start:end], sep); p > 0 {
						end = start + p + len(sep)
						cut = true
						break
					}
				}
				if !cut {
					// hard cut; never land inside a multi-byte rune
					for end > start && !utf8.RuneStart(text[end]) {
						end--
					}
					if end == start {
						// window narrower than the rune at start: take the
						// whole rune so the walk always advances
						_, w := utf8.DecodeRuneInString(text[start:])
						end = start + w
					}
				}
			}
		}

		piece := strings.TrimSpace(text[start:end])
		if piece != "" && piece != prev {
			chunks = append(chunks, piece)
			prev = piece
		}

		if end >= len(text) {
			break
		}
		next := end - overlap
		if next <= start {
			// window collapsed onto itself (tiny chunks, large boundary step-back)
			next = end
		}
		for next < len(text) && !utf8.RuneStart(text[next]) {
			next++
		}
		start = next
	}
	return chunks, nil
}
