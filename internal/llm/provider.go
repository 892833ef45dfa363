package llm

import "context"

// Request is a single chat completion: one system instruction, one user turn.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Provider sends a request to an LLM and returns the raw text completion.
// Implementations must be safe for concurrent use; one provider is shared by
// every interview session.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Kind names a supported provider backend.
type Kind string

const (
	KindGroq   Kind = "groq"
	KindOpenAI Kind = "openai"
	KindGemini Kind = "gemini"
)

const (
	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// DefaultModel returns the model used when none is configured.
func DefaultModel(k Kind) string {
	switch k {
	case KindOpenAI:
		return "gpt-4o-mini"
	case KindGemini:
		return "gemini-2.5-flash"
	default:
		return "llama-3.3-70b-versatile"
	}
}

// DefaultBaseURL returns the API root for OpenAI-compatible kinds.
func DefaultBaseURL(k Kind) string {
	switch k {
	case KindOpenAI:
		return DefaultOpenAIBaseURL
	case KindGroq:
		return DefaultGroqBaseURL
	}
	return ""
}

// APIKeyEnv is the environment variable conventionally holding the key for k.
func APIKeyEnv(k Kind) string {
	switch k {
	case KindOpenAI:
		return "OPENAI_API_KEY"
	case KindGemini:
		return "GEMINI_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}
