// LLM-backed line generation. Wraps an ai.LLMProvider behind the
// LineProducer interface so the personality can fall back to static
// tables when no provider is configured or a call fails.
package dialogue

import (
	"context"
	"fmt"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/ai"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/logger"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/metrics"
)

// LLMDialogue turns game state into short in-character lines via an LLM.
type LLMDialogue struct {
	provider     ai.LLMProvider
	systemPrompt string
	log          *logger.Logger
}

// NewLLMDialogue builds a generator for one game. Trait values are baked
// into the system prompt so the LLM stays in character for the whole run.
// Returns nil when the provider is missing or unconfigured, which the
// personality treats as "static lines only".
func NewLLMDialogue(provider ai.LLMProvider, greed, deceptiveness, adaptiveness float64, log *logger.Logger) *LLMDialogue {
	if provider == nil || !provider.IsAvailable() {
		return nil
	}
	return &LLMDialogue{
		provider:     provider,
		systemPrompt: ai.FormatSystemPrompt(greed, deceptiveness, adaptiveness),
		log:          log,
	}
}

// ProduceLine implements LineProducer.
func (d *LLMDialogue) ProduceLine(ctx context.Context, gc ai.GameContext) (string, error) {
	costBefore := d.provider.GetUsageStats().TotalCostUSD
	resp, err := d.provider.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: d.systemPrompt},
			{Role: "user", Content: ai.BuildContextPrompt(gc)},
		},
		MaxTokens:   100,
		Temperature: 0.9,
	})
	if err != nil {
		if d.log != nil {
			d.log.Debug("llm dialogue call failed: %v", err)
		}
		return "", err
	}

	metrics.Get().RecordLLMCall(resp.TotalTokens, d.provider.GetUsageStats().TotalCostUSD-costBefore, resp.Latency)

	line := ai.SanitizeLine(resp.Content)
	if line == "" {
		return "", fmt.Errorf("llm returned empty line")
	}
	return line, nil
}

var _ LineProducer = (*LLMDialogue)(nil)
