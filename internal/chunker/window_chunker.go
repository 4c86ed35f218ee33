package chunker

import (
	"strings"

	"confchat/internal/domain"
)

// WindowChunker splits text into fixed-size character windows with overlap.
// Sizes are measured in runes so multi-byte scripts chunk the same way as
// ASCII. Boundaries are computed on the raw text; callers normalize the
// stored content afterwards.
type WindowChunker struct {
	size    int
	overlap int
}

func NewWindowChunker(size, overlap int) *WindowChunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &WindowChunker{size: size, overlap: overlap}
}

// Size returns the configured window size in runes.
func (c *WindowChunker) Size() int { return c.size }

// Overlap returns the configured overlap in runes.
func (c *WindowChunker) Overlap() int { return c.overlap }

func (c *WindowChunker) Split(text string) []domain.Segment {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	step := c.size - c.overlap
	var segments []domain.Segment
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		segments = append(segments, domain.Segment{
			Text:  string(runes[start:end]),
			Start: start,
		})
		if end == len(runes) {
			break
		}
	}
	return segments
}

// Normalize collapses all runs of whitespace to single spaces and trims the
// ends. Applied to chunk content before persistence.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
