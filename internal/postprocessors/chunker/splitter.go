package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// Separators are tried in order: paragraph, line, sentence, word, character.
var Separators = []string{"\n\n", "\n", ". ", " ", ""}

var (
	hyphenBreak = regexp.MustCompile(`(\w+)-\s*\n\s*(\w+)`)
	whitespace  = regexp.MustCompile(`\s+`)
	unreadable  = regexp.MustCompile(`[^a-zA-Z0-9.,;:\-'"()\[\] ]`)
)

// Clean normalises extracted text: words split across lines by a hyphen
// are rejoined, whitespace runs become one space, and everything outside
// letters, digits, basic punctuation and brackets is dropped.
func Clean(text string) string {
	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	text = whitespace.ReplaceAllString(text, " ")
	text = unreadable.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Validate checks 0 <= overlap < chunkSize.
func Validate(chunkSize, overlap int) error {
	if chunkSize <= 0 || overlap < 0 {
		return fmt.Errorf("%w: chunk size %d, overlap %d must not be negative", domain.ErrInvalidChunkConfig, chunkSize, overlap)
	}
	if overlap >= chunkSize {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", domain.ErrInvalidChunkConfig, overlap, chunkSize)
	}
	return nil
}

// Split breaks text into chunks of at most chunkSize characters.
// Consecutive chunks share a tail of at most overlap characters.
// Empty text yields no chunks.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if err := Validate(chunkSize, overlap); err != nil {
		return nil, err
	}
	s := splitter{size: chunkSize, overlap: overlap}
	return s.split(text, Separators), nil
}

type splitter struct {
	size    int
	overlap int
}

// split picks the first separator present in text, cuts text on it and
// recurses into pieces that are still too long.
func (s splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var (
		chunks []string
		good   []string
	)
	for _, piece := range cut(text, separator) {
		if length(piece) < s.size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, piece)
			continue
		}
		chunks = append(chunks, s.split(piece, rest)...)
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(good)...)
	}
	return chunks
}

// merge packs pieces greedily into chunks. When a chunk is emitted, the
// trailing pieces that fit in the overlap are carried into the next one.
func (s splitter) merge(pieces []string) []string {
	var (
		chunks  []string
		current []string
		total   int
	)
	for _, piece := range pieces {
		n := length(piece)
		if total+n > s.size && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.overlap || (total+n > s.size && total > 0) {
				total -= length(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// cut splits text on sep, keeping the separator at the start of the
// following piece so no characters are lost. An empty sep cuts runes.
func cut(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
