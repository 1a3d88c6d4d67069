package narrative

import (
	"context"
	"fmt"
	"strings"

	domsvc "CollegeROI/internal/domain/service"

	"google.golang.org/genai"
)

const (
	ProviderGemini     = "gemini"
	defaultGeminiModel = "gemini-2.0-flash"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiNarrator asks a Gemini model to explain a result.
type GeminiNarrator struct {
	models    contentGenerator
	model     string
	maxTokens int32
}

var _ domsvc.Narrator = (*GeminiNarrator)(nil)

func NewGeminiNarrator(ctx context.Context, apiKey, model string, maxTokens int) (*GeminiNarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiNarrator(client.Models, model, maxTokens), nil
}

func newGeminiNarrator(m contentGenerator, model string, maxTokens int) *GeminiNarrator {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiNarrator{models: m, model: model, maxTokens: int32(maxTokens)}
}

func (g *GeminiNarrator) Name() string { return ProviderGemini }

func (g *GeminiNarrator) Narrate(ctx context.Context, in domsvc.NarrativeInput) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0.3)),
		MaxOutputTokens: g.maxTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	result, err := g.models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(in)), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}
