package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amishk599/talentscout/internal/llm"
	"github.com/amishk599/talentscout/internal/model"
)

// FallbackQuestion is returned in place of real questions when generation fails.
const FallbackQuestion = "Error generating questions. Please try again later."

const (
	extractTemperature   = 0.2
	extractMaxTokens     = 100
	questionsTemperature = 0.7
	questionsMaxTokens   = 1024
)

var (
	// ErrNotFound means the model found nothing usable for the field.
	ErrNotFound = errors.New("field not found")
	// ErrInvalidFormat means the model answered, but an email or phone
	// failed its pattern check. It matches ErrNotFound under errors.Is.
	ErrInvalidFormat = fmt.Errorf("%w: invalid format", ErrNotFound)
)

// ProviderError wraps a failed LLM call made on behalf of an operation.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: provider: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Client turns free text into candidate fields and a tech stack into
// screening questions, delegating the language work to an llm.Provider.
type Client struct {
	provider     llm.Provider
	timeout      time.Duration
	maxQuestions int
	logger       *slog.Logger
}

// NewClient creates an extraction client. timeout bounds each provider call
// (zero means no extra bound); maxQuestions <= 0 selects DefaultMaxQuestions.
func NewClient(provider llm.Provider, timeout time.Duration, maxQuestions int, logger *slog.Logger) *Client {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		provider:     provider,
		timeout:      timeout,
		maxQuestions: maxQuestions,
		logger:       logger,
	}
}

// ExtractField asks the model for a single field value found in utterance.
// It returns ErrNotFound (possibly wrapped) when nothing usable came back and
// a *ProviderError when the call itself failed.
func (c *Client) ExtractField(ctx context.Context, utterance string, field model.Field) (string, error) {
	if _, ok := fieldGuidance[field]; !ok {
		return "", fmt.Errorf("extract %q: unknown field", field)
	}

	prompt, err := renderFieldPrompt(utterance, field)
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", field, err)
	}

	raw, err := c.complete(ctx, llm.Request{
		System:      SystemPrompt(),
		User:        prompt,
		Temperature: extractTemperature,
		MaxTokens:   extractMaxTokens,
	})
	if err != nil {
		return "", &ProviderError{Op: "extract " + string(field), Err: err}
	}

	value := strings.TrimSpace(raw)
	if value == "" || isSentinel(value) {
		return "", ErrNotFound
	}

	switch field {
	case model.FieldEmail:
		if !ValidEmail(value) {
			return "", ErrInvalidFormat
		}
	case model.FieldPhone:
		if !ValidPhone(value) {
			return "", ErrInvalidFormat
		}
	}

	c.logger.Debug("field extracted", "field", field, "length", len(value))
	return value, nil
}

// GenerateTechnicalQuestions asks the model for screening questions about
// techStack. On provider failure it returns a single FallbackQuestion so the
// interview can continue; the result is empty only when the model produced
// no usable lines.
func (c *Client) GenerateTechnicalQuestions(ctx context.Context, techStack string) []string {
	prompt, err := renderQuestionsPrompt(techStack, c.maxQuestions)
	if err != nil {
		c.logger.Error("render questions prompt", "error", err)
		return []string{FallbackQuestion}
	}

	raw, err := c.complete(ctx, llm.Request{
		System:      SystemPrompt(),
		User:        prompt,
		Temperature: questionsTemperature,
		MaxTokens:   questionsMaxTokens,
	})
	if err != nil {
		c.logger.Warn("question generation failed", "error", &ProviderError{Op: "generate questions", Err: err})
		return []string{FallbackQuestion}
	}

	questions := ParseQuestions(strings.TrimSpace(raw), c.maxQuestions)
	c.logger.Debug("questions generated", "count", len(questions))
	return questions
}

func (c *Client) complete(ctx context.Context, req llm.Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.provider.Complete(ctx, req)
}

// isSentinel matches NOT_FOUND the way models tend to echo it back:
// any case, quoted, with trailing punctuation, or with a space for the underscore.
func isSentinel(s string) bool {
	s = strings.Trim(s, "\"'`. ")
	s = strings.ReplaceAll(s, " ", "_")
	return strings.EqualFold(s, NotFoundSentinel)
}
