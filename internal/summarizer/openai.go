package summarizer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
)

// OpenAIEngine produces summaries through the OpenAI chat completion API.
// It is the drop-in replacement for MockEngine when a real model is wanted.
type OpenAIEngine struct {
	client *openai.Client
	model  string
}

// NewOpenAIEngine creates an OpenAI-backed summarizer
func NewOpenAIEngine(apiKey, model string) *OpenAIEngine {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAIEngine{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

var styleInstructions = map[string]string{
	"paragraph": "a single flowing paragraph",
	"bullet":    "3 to 5 bullet points, one per line, each starting with •",
	"bullets":   "3 to 5 bullet points, one per line, each starting with •",
	"numbered":  "2 to 4 numbered sections, one per line",
	"outline":   "2 to 4 numbered sections, one per line",
}

var lengthInstructions = map[string]string{
	"short":  "very brief, about a fifth of the original length",
	"medium": "moderately detailed, about two fifths of the original length",
	"long":   "detailed, about three fifths of the original length",
}

// Summarize implements Engine
func (e *OpenAIEngine) Summarize(ctx context.Context, text, length, style string) (Result, error) {
	styleHint, ok := styleInstructions[style]
	if !ok {
		styleHint = styleInstructions["paragraph"]
	}
	lengthHint, ok := lengthInstructions[length]
	if !ok {
		lengthHint = lengthInstructions["medium"]
	}

	prompt := fmt.Sprintf("Summarize the following text as %s. Keep it %s. Respond with the summary only.\n\n%s",
		styleHint, lengthHint, text)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("openai summarization failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("openai summarization returned no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	return Result{
		Summary:        summary,
		WordCount:      len(strings.Fields(summary)),
		CharacterCount: utf8.RuneCountInString(summary),
	}, nil
}
