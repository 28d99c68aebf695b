package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lifepilot/lifepilot/ai/core/llm"
)

func TestRecordRun(t *testing.T) {
	e := NewPrometheusExporter(Config{})

	e.RecordRun("ok", 2*time.Second)
	e.RecordRun("ok", time.Second)
	e.RecordRun("partial", time.Second)

	if got := testutil.ToFloat64(e.runs.WithLabelValues("ok")); got != 2 {
		t.Errorf("runs{status=ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(e.runs.WithLabelValues("partial")); got != 1 {
		t.Errorf("runs{status=partial} = %v, want 1", got)
	}
}

func TestRecordFallbackAndClarification(t *testing.T) {
	e := NewPrometheusExporter(Config{})

	e.RecordFallback("meal")
	e.RecordFallback("meal")
	e.RecordClarification("travel")

	if got := testutil.ToFloat64(e.fallbacks.WithLabelValues("meal")); got != 2 {
		t.Errorf("fallbacks{agent=meal} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(e.clarifications.WithLabelValues("travel")); got != 1 {
		t.Errorf("clarifications{agent=travel} = %v, want 1", got)
	}
}

func TestRecordLLMTokens(t *testing.T) {
	e := NewPrometheusExporter(Config{})

	e.RecordLLMTokens("gpt-4o-mini", "prompt", 120)
	e.RecordLLMTokens("gpt-4o-mini", "prompt", 80)

	if got := testutil.ToFloat64(e.llmTokens.WithLabelValues("gpt-4o-mini", "prompt")); got != 200 {
		t.Errorf("llm tokens = %v, want 200", got)
	}
}

type stubLLM struct {
	stats *llm.CallStats
}

func (s *stubLLM) Complete(ctx context.Context, prompt string, opts llm.Options) (string, *llm.CallStats, error) {
	return "ok", s.stats, nil
}

func TestInstrumentLLMRecordsTokenUsage(t *testing.T) {
	e := NewPrometheusExporter(Config{})
	svc := InstrumentLLM(&stubLLM{stats: &llm.CallStats{
		PromptTokens:     12,
		CompletionTokens: 30,
		TotalTokens:      42,
	}}, e, "gpt-4o-mini")

	if _, _, err := svc.Complete(context.Background(), "plan my week", llm.Options{}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got := testutil.ToFloat64(e.llmTokens.WithLabelValues("gpt-4o-mini", "prompt")); got != 12 {
		t.Errorf("llm tokens{prompt} = %v, want 12", got)
	}
	if got := testutil.ToFloat64(e.llmTokens.WithLabelValues("gpt-4o-mini", "completion")); got != 30 {
		t.Errorf("llm tokens{completion} = %v, want 30", got)
	}
}

func TestInstrumentLLMSkipsMissingUsage(t *testing.T) {
	e := NewPrometheusExporter(Config{})
	svc := InstrumentLLM(&stubLLM{}, e, "gpt-4o-mini")

	if _, _, err := svc.Complete(context.Background(), "plan my week", llm.Options{}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got := testutil.ToFloat64(e.llmTokens.WithLabelValues("gpt-4o-mini", "prompt")); got != 0 {
		t.Errorf("llm tokens{prompt} = %v, want 0", got)
	}
}
