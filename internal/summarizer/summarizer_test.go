package summarizer

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordsOfLength(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "word"
	}
	return strings.Join(words, " ")
}

func TestMockEngine_ParagraphTruncation(t *testing.T) {
	engine := NewMockEngine()

	res, err := engine.Summarize(context.Background(), wordsOfLength(50), "medium", "paragraph")
	require.NoError(t, err)

	// 50 words at the medium multiplier keeps 20
	assert.Equal(t, 20, len(strings.Fields(res.Summary)))
	assert.True(t, strings.HasSuffix(res.Summary, "..."))
	assert.Equal(t, 20, res.WordCount)
	assert.Equal(t, utf8.RuneCountInString(res.Summary), res.CharacterCount)
}

func TestMockEngine_ShortInputKeptWhole(t *testing.T) {
	engine := NewMockEngine()

	text := "one two three four five six seven eight nine"
	res, err := engine.Summarize(context.Background(), text, "short", "paragraph")
	require.NoError(t, err)

	// 9 words is under the 10-word floor, so nothing is cut and no
	// ellipsis is appended
	assert.Equal(t, text, res.Summary)
	assert.Equal(t, 9, res.WordCount)
}

func TestMockEngine_ExactTargetHasNoEllipsis(t *testing.T) {
	engine := NewMockEngine()

	res, err := engine.Summarize(context.Background(), wordsOfLength(10), "short", "paragraph")
	require.NoError(t, err)
	assert.False(t, strings.HasSuffix(res.Summary, "..."))
}

func TestMockEngine_BulletStyle(t *testing.T) {
	engine := NewMockEngine()

	res, err := engine.Summarize(context.Background(), wordsOfLength(50), "medium", "bullets")
	require.NoError(t, err)

	lines := strings.Split(res.Summary, "\n")
	// target 20 words, 20/10 clamped to [3,5] gives 3 bullets
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "• "), "line %q", line)
	}
}

func TestMockEngine_NumberedStyle(t *testing.T) {
	engine := NewMockEngine()

	res, err := engine.Summarize(context.Background(), wordsOfLength(50), "medium", "outline")
	require.NoError(t, err)

	lines := strings.Split(res.Summary, "\n")
	// target 20 words, 20/15 clamped to [2,4] gives 2 items
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1. "))
	assert.True(t, strings.HasPrefix(lines[1], "2. "))
}

func TestMockEngine_LengthOrdering(t *testing.T) {
	engine := NewMockEngine()
	text := wordsOfLength(200)

	short, err := engine.Summarize(context.Background(), text, "short", "paragraph")
	require.NoError(t, err)
	medium, err := engine.Summarize(context.Background(), text, "medium", "paragraph")
	require.NoError(t, err)
	long, err := engine.Summarize(context.Background(), text, "long", "paragraph")
	require.NoError(t, err)

	assert.Less(t, short.WordCount, medium.WordCount)
	assert.Less(t, medium.WordCount, long.WordCount)
}

func TestMockEngine_UnknownLengthFallsBackToMedium(t *testing.T) {
	engine := NewMockEngine()
	text := wordsOfLength(100)

	medium, err := engine.Summarize(context.Background(), text, "medium", "paragraph")
	require.NoError(t, err)
	unknown, err := engine.Summarize(context.Background(), text, "whatever", "paragraph")
	require.NoError(t, err)

	assert.Equal(t, medium.Summary, unknown.Summary)
}
