package metrics

import (
	"context"

	"github.com/lifepilot/lifepilot/ai/core/llm"
)

// instrumentedLLM decorates a completion service so every call's token
// usage lands on the exporter.
type instrumentedLLM struct {
	svc      llm.Service
	exporter *PrometheusExporter
	model    string
}

// InstrumentLLM wraps svc so the token usage of each completion is
// recorded under the given model label. Calls without usage data (errors,
// providers that omit it) record nothing.
func InstrumentLLM(svc llm.Service, exporter *PrometheusExporter, model string) llm.Service {
	return &instrumentedLLM{svc: svc, exporter: exporter, model: model}
}

func (l *instrumentedLLM) Complete(ctx context.Context, prompt string, opts llm.Options) (string, *llm.CallStats, error) {
	text, stats, err := l.svc.Complete(ctx, prompt, opts)
	if stats != nil {
		l.exporter.RecordLLMTokens(l.model, "prompt", stats.PromptTokens)
		l.exporter.RecordLLMTokens(l.model, "completion", stats.CompletionTokens)
	}
	return text, stats, err
}
