package oracle

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/scaile-group/keywords-cli/pkg/anthropic"
)

const anthropicMaxTokens = 8192

// anthropicBackend completes prompts against the Anthropic messages API.
// It has no search grounding, so research calls fall back to the model's
// own knowledge.
type anthropicBackend struct {
	client anthropic.Client
	model  string
}

// NewAnthropic returns an Oracle backed by the Anthropic messages API.
func NewAnthropic(client anthropic.Client, model string, opts ...Option) Oracle {
	return newLLMOracle(&anthropicBackend{client: client, model: model}, opts...)
}

func (b *anthropicBackend) Name() string {
	return "anthropic"
}

func (b *anthropicBackend) Complete(ctx context.Context, req completionRequest) (string, error) {
	resp, err := b.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       b.model,
		MaxTokens:   anthropicMaxTokens,
		System:      "You are an SEO research assistant. Always respond with valid JSON and nothing else.",
		Temperature: req.temperature,
		Messages: []anthropic.Message{
			{Role: "user", Content: req.prompt},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "anthropic complete")
	}

	resp.Usage.LogCost(b.model, "oracle")

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
