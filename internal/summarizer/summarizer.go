package summarizer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Result holds a produced summary together with counts recomputed from the
// summary text itself.
type Result struct {
	Summary        string `json:"summary"`
	WordCount      int    `json:"word_count"`
	CharacterCount int    `json:"character_count"`
}

// Engine turns text into a summary. Implementations must be safe for
// concurrent use.
type Engine interface {
	Summarize(ctx context.Context, text, length, style string) (Result, error)
}

// Length multipliers: the fraction of input words kept per summary length.
const (
	shortMultiplier  = 0.2
	mediumMultiplier = 0.4
	longMultiplier   = 0.6

	// minTargetWords is the floor applied to the target regardless of input size
	minTargetWords = 10
)

// MockEngine is the deterministic word-slicing summarizer. It does no I/O
// and never fails.
type MockEngine struct{}

// NewMockEngine creates the word-slicing engine
func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

// Summarize implements Engine
func (e *MockEngine) Summarize(_ context.Context, text, length, style string) (Result, error) {
	words := strings.Fields(text)
	targetWords := int(float64(len(words)) * lengthMultiplier(length))
	if targetWords < minTargetWords {
		targetWords = minTargetWords
	}

	var summary string
	switch style {
	case "bullet", "bullets":
		summary = renderChunks(words, targetWords, clamp(targetWords/10, 3, 5), func(int) string { return "• " })
	case "numbered", "outline":
		summary = renderChunks(words, targetWords, clamp(targetWords/15, 2, 4), func(i int) string {
			return fmt.Sprintf("%d. ", i+1)
		})
	default: // paragraph
		n := targetWords
		if n > len(words) {
			n = len(words)
		}
		summary = strings.Join(words[:n], " ")
		if len(words) > targetWords {
			summary += "..."
		}
	}

	return Result{
		Summary:        summary,
		WordCount:      len(strings.Fields(summary)),
		CharacterCount: utf8.RuneCountInString(summary),
	}, nil
}

func lengthMultiplier(length string) float64 {
	switch length {
	case "short":
		return shortMultiplier
	case "long":
		return longMultiplier
	default:
		return mediumMultiplier
	}
}

// renderChunks partitions the first targetWords words into count chunks, one
// line per chunk with its prefix. Chunk bounds are clamped to the available
// words, so short inputs yield shorter (possibly empty) trailing chunks.
func renderChunks(words []string, targetWords, count int, prefix func(i int) string) string {
	chunkLen := targetWords / count
	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		start := i * chunkLen
		end := start + chunkLen
		if start > len(words) {
			start = len(words)
		}
		if end > len(words) {
			end = len(words)
		}
		lines = append(lines, prefix(i)+strings.Join(words[start:end], " "))
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
