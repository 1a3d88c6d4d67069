package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	domsvc "CollegeROI/internal/domain/service"
	xhttp "CollegeROI/pkg/http"
)

const (
	ProviderOpenAI     = "openai"
	defaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4o-mini"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAINarrator talks to any OpenAI compatible chat completions endpoint.
type OpenAINarrator struct {
	client    *xhttp.Client
	url       string
	model     string
	maxTokens int
}

var _ domsvc.Narrator = (*OpenAINarrator)(nil)

func NewOpenAINarrator(apiKey, apiURL, model string, maxTokens int, timeout time.Duration) (*OpenAINarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key is empty")
	}
	if apiURL == "" {
		apiURL = defaultOpenAIURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAINarrator{
		client: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithHeader("Authorization", "Bearer "+apiKey),
		),
		url:       apiURL,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (o *OpenAINarrator) Name() string { return ProviderOpenAI }

func (o *OpenAINarrator) Narrate(ctx context.Context, in domsvc.NarrativeInput) (string, error) {
	req := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(in)},
		},
		MaxTokens: o.maxTokens,
	}

	var resp chatResponse
	if err := o.client.PostJSON(ctx, o.url, req, &resp); err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: no choices in response")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai chat: empty message")
	}
	return text, nil
}
