package provider

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// contentGenerator is the part of model.LLM the adapter needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error]
}

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	HTTPClient  *http.Client
}

// GeminiCompleter sends one user content to a Gemini model, non-streaming.
type GeminiCompleter struct {
	llm         contentGenerator
	model       string
	temperature float32
	maxTokens   int
}

// NewGeminiCompleter creates a Completer backed by the Gemini API.
func NewGeminiCompleter(ctx context.Context, cfg GeminiConfig) (*GeminiCompleter, error) {
	llm, err := gemini.NewModel(ctx, cfg.Model, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return newGeminiCompleter(llm, cfg), nil
}

func newGeminiCompleter(llm contentGenerator, cfg GeminiConfig) *GeminiCompleter {
	return &GeminiCompleter{
		llm:         llm,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Name identifies the provider in logs and metrics.
func (c *GeminiCompleter) Name() string {
	return "gemini"
}

// Complete sends prompt as a single user turn and joins the text parts of the reply.
func (c *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	req := &model.LLMRequest{
		Model: c.model,
		Contents: []*genai.Content{
			{
				Role:  "user",
				Parts: []*genai.Part{{Text: prompt}},
			},
		},
		Config: c.generateConfig(),
	}

	var reply strings.Builder
	for resp, err := range c.llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
		if resp == nil || resp.Content == nil {
			continue
		}
		for _, part := range resp.Content.Parts {
			if part != nil && part.Text != "" {
				reply.WriteString(part.Text)
			}
		}
	}

	if reply.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return reply.String(), nil
}

func (c *GeminiCompleter) generateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{CandidateCount: 1}
	if c.temperature > 0 {
		cfg.Temperature = genai.Ptr(c.temperature)
	}
	if c.maxTokens > 0 {
		cfg.MaxOutputTokens = int32(c.maxTokens)
	}
	return cfg
}
