// Package agenttest provides configurable mock collaborators for agent and
// orchestrator tests.
package agenttest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lifepilot/lifepilot/ai/core/llm"
	"github.com/lifepilot/lifepilot/ai/memory"
	"github.com/lifepilot/lifepilot/pricing"
)

// MockLLM is a configurable mock completion service.
type MockLLM struct {
	mu              sync.Mutex
	rules           []rule
	queue           []string
	err             error
	defaultResponse string
	calls           int
}

type rule struct {
	substr string
	output string
}

// NewMockLLM creates a mock with a generic default response.
func NewMockLLM() *MockLLM {
	return &MockLLM{defaultResponse: "Mock response"}
}

// WithResponse returns output for any prompt containing substr. Rules match
// in insertion order.
func (m *MockLLM) WithResponse(substr, output string) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule{substr: substr, output: output})
	return m
}

// WithQueue returns the given outputs one per call, before rule matching.
func (m *MockLLM) WithQueue(outputs ...string) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, outputs...)
	return m
}

// WithDefaultResponse sets the response when nothing else matches.
func (m *MockLLM) WithDefaultResponse(output string) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResponse = output
	return m
}

// WithError makes every call fail with err.
func (m *MockLLM) WithError(err error) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Calls returns how many completions were requested.
func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Complete implements llm.Service.
func (m *MockLLM) Complete(ctx context.Context, prompt string, opts llm.Options) (string, *llm.CallStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	stats := &llm.CallStats{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}

	if m.err != nil {
		return "", nil, m.err
	}
	if len(m.queue) > 0 {
		out := m.queue[0]
		m.queue = m.queue[1:]
		return out, stats, nil
	}
	for _, r := range m.rules {
		if strings.Contains(prompt, r.substr) {
			return r.output, stats, nil
		}
	}
	return m.defaultResponse, stats, nil
}

// MockMemory is an in-memory memory.Service. Retrieval scores by shared
// lowercase words between query and text.
type MockMemory struct {
	mu          sync.Mutex
	records     []memory.Record
	err         error
	retrieveErr error
	nextID      int
}

// NewMockMemory creates an empty mock memory.
func NewMockMemory() *MockMemory {
	return &MockMemory{}
}

// WithError makes Store fail and Retrieve degrade to empty.
func (m *MockMemory) WithError(err error) *MockMemory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithRetrieveError makes Retrieve fail outright, for exercising callers
// that must survive a retrieval error from a non-degrading implementation.
func (m *MockMemory) WithRetrieveError(err error) *MockMemory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retrieveErr = err
	return m
}

// Seed adds a record directly.
func (m *MockMemory) Seed(text, tag string) *MockMemory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.records = append(m.records, memory.Record{
		ID:        "seed-" + strings.Repeat("x", m.nextID),
		Text:      text,
		Tag:       tag,
		Timestamp: time.Now(),
	})
	return m
}

// Records returns all stored records.
func (m *MockMemory) Records() []memory.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]memory.Record, len(m.records))
	copy(out, m.records)
	return out
}

// Store implements memory.Service.
func (m *MockMemory) Store(ctx context.Context, text, tag string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.nextID++
	rec := memory.Record{
		ID:        "rec-" + strings.Repeat("x", m.nextID),
		Text:      text,
		Tag:       tag,
		Timestamp: time.Now(),
	}
	m.records = append(m.records, rec)
	return rec.ID, nil
}

// Retrieve implements memory.Service.
func (m *MockMemory) Retrieve(ctx context.Context, query string, k int) ([]memory.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	if m.err != nil {
		// Degraded retrieval, mirroring the real service.
		return []memory.Record{}, nil
	}

	queryWords := strings.Fields(strings.ToLower(query))
	scored := make([]memory.Record, 0, len(m.records))
	for _, rec := range m.records {
		lower := strings.ToLower(rec.Text)
		var score float32
		for _, w := range queryWords {
			if strings.Contains(lower, w) {
				score++
			}
		}
		rec.Score = score
		scored = append(scored, rec)
	}
	for i := 0; i < len(scored); i++ {
		for j := i + 1; j < len(scored); j++ {
			if scored[j].Score > scored[i].Score {
				scored[i], scored[j] = scored[j], scored[i]
			}
		}
	}
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// MockLookuper is a configurable pricing.Lookuper.
type MockLookuper struct {
	Quote *pricing.Quote
	Err   error
}

// Lookup implements pricing.Lookuper.
func (m *MockLookuper) Lookup(ctx context.Context, items []string) (*pricing.Quote, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Quote == nil {
		return &pricing.Quote{Prices: map[string]pricing.ItemPrice{}}, nil
	}
	return m.Quote, nil
}
