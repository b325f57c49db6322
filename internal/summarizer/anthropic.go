package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

const anthropicMaxTokens = 512

// AnthropicProvider completes prompts against the Anthropic Messages API.
// The API key is read from the ANTHROPIC_API_KEY environment variable.
//
// Requests carry no tool definitions: the model can only ever reply with
// text, which keeps summarization a pure phrasing step.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider creates a provider for the given model name.
func NewAnthropicProvider(model string) *AnthropicProvider {
	return &AnthropicProvider{
		client: anthropic.NewClient(),
		model:  model,
	}
}

// Complete implements Provider.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var parts []string
	for i := range resp.Content {
		if resp.Content[i].Type == "text" {
			parts = append(parts, resp.Content[i].Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}
