package oracle

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/pkg/gemini"
)

// geminiBackend completes prompts against the Gemini generateContent API.
type geminiBackend struct {
	client gemini.Client
	model  string
	// researchModel is used for search-grounded calls; empty falls back
	// to model.
	researchModel string
}

// NewGemini returns an Oracle backed by Gemini. Research and analyze calls
// use the google_search tool for grounding and the research model;
// everything else requests a plain JSON response from the base model.
func NewGemini(client gemini.Client, model, researchModel string, opts ...Option) Oracle {
	return newLLMOracle(&geminiBackend{client: client, model: model, researchModel: researchModel}, opts...)
}

func (b *geminiBackend) Name() string {
	return "gemini"
}

func (b *geminiBackend) Complete(ctx context.Context, req completionRequest) (string, error) {
	model := b.model
	if req.search && b.researchModel != "" {
		model = b.researchModel
	}

	resp, err := b.client.GenerateContent(ctx, gemini.GenerateRequest{
		Model:       model,
		Prompt:      req.prompt,
		Temperature: req.temperature,
		// Search grounding and forced JSON mime are mutually exclusive on
		// the API; grounded calls rely on the prompt's JSON instruction.
		JSONResponse: !req.search,
		GoogleSearch: req.search,
	})
	if err != nil {
		return "", eris.Wrap(err, "gemini complete")
	}

	zap.L().Debug("gemini completion",
		zap.String("model", model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("output_tokens", resp.Usage.CandidatesTokens))

	return resp.Text, nil
}
