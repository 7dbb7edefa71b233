package main

import (
	"strings"
	"unicode/utf8"
)

// Separator hierarchy tried when splitting: paragraph breaks first, then
// lines, then words, then a plain rune window.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// textSplitter splits text recursively on the separator hierarchy into
// chunks of at most chunkSize runes, with chunkOverlap runes carried between
// adjacent chunks.
type textSplitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func newTextSplitter(chunkSize, chunkOverlap int) *textSplitter {
	if chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &textSplitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// Split returns the chunks of text, each at most chunkSize runes.
func (s *textSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *textSplitter) split(text string, separators []string) []string {
	sep := ""
	var rest []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var parts []string
	if sep == "" {
		parts = splitByWidth(text, s.chunkSize)
	} else {
		parts = strings.Split(text, sep)
	}

	var chunks []string
	var pending []string
	flush := func() {
		if len(pending) > 0 {
			chunks = append(chunks, s.merge(pending, sep)...)
			pending = nil
		}
	}

	for _, part := range parts {
		if part == "" {
			continue
		}
		if utf8.RuneCountInString(part) < s.chunkSize {
			pending = append(pending, part)
			continue
		}
		// Oversize part: emit what we have, then split it on the finer
		// separators.
		flush()
		if len(rest) == 0 {
			chunks = append(chunks, splitByWidth(part, s.chunkSize)...)
		} else {
			chunks = append(chunks, s.split(part, rest)...)
		}
	}
	flush()
	return chunks
}

// merge greedily joins adjacent splits into chunks no longer than chunkSize,
// keeping up to chunkOverlap trailing runes as the start of the next chunk.
func (s *textSplitter) merge(splits []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)

	var chunks []string
	var window []string
	total := 0

	emit := func() {
		chunk := strings.TrimSpace(strings.Join(window, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, piece := range splits {
		pieceLen := utf8.RuneCountInString(piece)
		if len(window) > 0 && total+sepLen+pieceLen > s.chunkSize {
			emit()
			// Trim until the retained overlap plus the incoming piece fits
			// back under the cap.
			for len(window) > 0 && (total > s.chunkOverlap || total+sepLen+pieceLen > s.chunkSize) {
				total -= utf8.RuneCountInString(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}
		if len(window) > 0 {
			total += sepLen
		}
		window = append(window, piece)
		total += pieceLen
	}
	if len(window) > 0 {
		emit()
	}
	return chunks
}

// splitByWidth cuts text into fixed rune windows; the final resort when no
// separator fits.
func splitByWidth(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	var parts []string
	for start := 0; start < len(runes); start += width {
		end := start + width
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}

// splitDocuments chunks every document's content, each chunk inheriting its
// parent's metadata unchanged.
func splitDocuments(docs []Document, chunkSize, chunkOverlap int) []Document {
	splitter := newTextSplitter(chunkSize, chunkOverlap)
	var out []Document
	for _, doc := range docs {
		for _, chunk := range splitter.Split(doc.Content) {
			out = append(out, Document{Content: chunk, Metadata: doc.Metadata})
		}
	}
	return out
}
