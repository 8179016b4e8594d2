package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/collabwrite/collabwrite/internal/config"
)

// Message is one turn of the assistant conversation as submitted by the UI.
// Messages are ephemeral; nothing here is persisted.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Gateway turns a user message plus the current document text into a
// streamed assistant reply from an external text-generation provider.
type Gateway struct {
	llm       llms.Model
	maxTokens int
	timeout   time.Duration
}

// NewGateway creates a Gateway for the configured provider.
func NewGateway(cfg config.AssistantConfig) (*Gateway, error) {
	var model llms.Model
	var err error

	switch cfg.Provider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
	case config.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.APIKey),
			anthropic.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s", cfg.Provider)
	}

	gw := NewGatewayWithModel(model, cfg.MaxTokens)
	gw.timeout = cfg.Timeout
	return gw, nil
}

// NewGatewayWithModel wires an existing model; used by tests.
func NewGatewayWithModel(model llms.Model, maxTokens int) *Gateway {
	if maxTokens <= 0 {
		maxTokens = 500
	}
	return &Gateway{llm: model, maxTokens: maxTokens}
}

// Stream forwards the most recent message to the provider and relays output
// chunks to emit as they are produced. Prior turns are not sent as
// conversation context. Canceling ctx (client disconnect) stops the stream;
// a provider error is returned as-is and never retried.
func (g *Gateway) Stream(ctx context.Context, messages []Message, documentContent string, emit func(chunk []byte) error) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var last string
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt(documentContent)),
		llms.TextParts(llms.ChatMessageTypeHuman, last),
	}

	_, err := g.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(g.maxTokens),
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return emit(chunk)
		}),
	)
	if err != nil {
		return fmt.Errorf("assistant generate: %w", err)
	}
	return nil
}
