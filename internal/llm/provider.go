package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over the external text-quality judge.
// The analysis engine only ever sees this interface; provider selection,
// retries and any multi-backend fallback live behind it.
type Provider interface {
	// Generate sends a prompt to the judge and returns its output.
	// When the request carries a Schema, the provider uses its native
	// structured-output mechanism and the response Content is the
	// validated JSON. Without a Schema, Content is raw text and the
	// caller is responsible for defensive parsing (see ExtractJSON).
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the judge.
type Request struct {
	// System sets the judge's role and constraints.
	System string

	// Messages is the conversation. Scoring and concept extraction are
	// single-turn, so this is almost always one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to, when set.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness. Scoring runs at 0 so that reruns
	// over identical input stay comparable.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the judge.
type Schema struct {
	// Name identifies this schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "batch-scores".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the judge's output.
type Response struct {
	// Content is the generated output. Validated JSON when a Schema was
	// requested, raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens", "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
