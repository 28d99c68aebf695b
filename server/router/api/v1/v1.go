// Package v1 wires the agent pipeline behind the HTTP API.
package v1

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifepilot/lifepilot/ai/agents/meal"
	"github.com/lifepilot/lifepilot/ai/agents/orchestrator"
	"github.com/lifepilot/lifepilot/ai/agents/shopping"
	"github.com/lifepilot/lifepilot/ai/agents/travel"
	"github.com/lifepilot/lifepilot/ai/core/embedding"
	"github.com/lifepilot/lifepilot/ai/core/llm"
	"github.com/lifepilot/lifepilot/ai/memory"
	"github.com/lifepilot/lifepilot/ai/metrics"
	"github.com/lifepilot/lifepilot/internal/profile"
	"github.com/lifepilot/lifepilot/plugin/markdown"
	"github.com/lifepilot/lifepilot/pricing"
	"github.com/lifepilot/lifepilot/store"
)

// APIV1Service owns the HTTP-facing services and their collaborators.
type APIV1Service struct {
	Profile      *profile.Profile
	Store        *store.Store
	Orchestrator *orchestrator.Orchestrator
	Markdown     markdown.Service
	Exporter     *metrics.PrometheusExporter
}

// NewAPIV1Service builds the full agent pipeline from the profile: the LLM
// and embedding services, memory, the pricing client, the three agents, and
// the orchestrator on top.
func NewAPIV1Service(p *profile.Profile, st *store.Store) (*APIV1Service, error) {
	llmService, err := llm.NewService(&llm.Config{
		Provider:    p.LLMProvider,
		Model:       p.LLMModel,
		APIKey:      p.LLMAPIKey,
		BaseURL:     p.LLMBaseURL,
		MaxTokens:   p.LLMMaxTokens,
		Temperature: p.LLMTemperature,
		Timeout:     p.LLMTimeout,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("llm service initialized", "provider", p.LLMProvider, "model", p.LLMModel)

	embedder, err := embedding.NewService(&embedding.Config{
		Model:      p.EmbeddingModel,
		APIKey:     p.EmbeddingAPIKey,
		BaseURL:    p.EmbeddingBaseURL,
		Dimensions: p.EmbeddingDimensions,
	})
	if err != nil {
		return nil, err
	}

	memoryService := memory.NewService(embedder, st)
	prices := pricing.NewClient(p.PriceLookupURL, 10*time.Second)
	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())
	llmService = metrics.InstrumentLLM(llmService, exporter, p.LLMModel)

	o := orchestrator.New(
		meal.NewAgent(llmService, memoryService),
		shopping.NewAgent(llmService, memoryService, prices),
		travel.NewAgent(llmService, memoryService, p.TravelMaxIterations),
		st,
		exporter,
	)

	return &APIV1Service{
		Profile:      p,
		Store:        st,
		Orchestrator: o,
		Markdown:     markdown.NewService(),
		Exporter:     exporter,
	}, nil
}

// RegisterRoutes mounts the v1 API on the echo group.
func (s *APIV1Service) RegisterRoutes(g *echo.Group) {
	g.POST("/runs", s.createRun)
	g.POST("/runs/:id/answer", s.answerRun)
	g.GET("/runs/:id", s.getRun)
}
