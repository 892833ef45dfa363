package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/amishk599/talentscout/internal/model"
)

// generativeModels is the subset of *genai.Models used by GeminiProvider.
type generativeModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider calls the Gemini API through the Google GenAI SDK.
type GeminiProvider struct {
	models generativeModels
	model  string
}

// NewGeminiProvider creates a provider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel(KindGemini)
	}
	return &GeminiProvider{models: client.Models, model: model}, nil
}

// Complete sends req as a single user turn with a system instruction and
// returns the concatenated text parts of the response.
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(req.User), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &model.HTTPError{StatusCode: apiErr.Code, Err: err}
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(part.Text)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return out, nil
}
