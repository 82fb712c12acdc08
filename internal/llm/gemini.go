package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// GeminiGenerator implements Generator against the Google Gemini API.
// The underlying client is created lazily on first use so the server can be
// constructed (and tested) without network access.
type GeminiGenerator struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a Gemini-backed generator. An empty model falls
// back to DefaultModel.
func NewGeminiGenerator(apiKey, model string) *GeminiGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{apiKey: apiKey, model: model}
}

func (g *GeminiGenerator) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

// Generate sends the prompt, plus inline audio when provided, and returns
// the concatenated text parts of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, audio []byte) (string, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{{Text: prompt}}
	if len(audio) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: "audio/mp3",
				Data:     audio,
			},
		})
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	result, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	var b strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text content in gemini response")
	}

	return b.String(), nil
}
