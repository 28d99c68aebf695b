package profile

import (
	"os"
	"testing"
)

func clearEnvVars() {
	vars := []string{
		"LIFEPILOT_LLM_PROVIDER",
		"LIFEPILOT_LLM_API_KEY",
		"LIFEPILOT_LLM_BASE_URL",
		"LIFEPILOT_LLM_MODEL",
		"LIFEPILOT_LLM_TIMEOUT_SECONDS",
		"LIFEPILOT_LLM_MAX_TOKENS",
		"LIFEPILOT_LLM_TEMPERATURE",
		"LIFEPILOT_EMBEDDING_PROVIDER",
		"LIFEPILOT_EMBEDDING_MODEL",
		"LIFEPILOT_EMBEDDING_API_KEY",
		"LIFEPILOT_EMBEDDING_BASE_URL",
		"LIFEPILOT_EMBEDDING_DIMENSIONS",
		"LIFEPILOT_PRICE_LOOKUP_URL",
		"LIFEPILOT_MEMORY_MAX_RECORDS",
		"LIFEPILOT_TRAVEL_MAX_ITERATIONS",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnvVars()

	p := &Profile{}
	p.FromEnv()

	if p.LLMProvider != "openai" {
		t.Errorf("LLMProvider = %q, want openai", p.LLMProvider)
	}
	if p.LLMBaseURL != "https://api.openai.com/v1" {
		t.Errorf("LLMBaseURL = %q, want openai default", p.LLMBaseURL)
	}
	if p.LLMModel != "gpt-4o-mini" {
		t.Errorf("LLMModel = %q, want gpt-4o-mini", p.LLMModel)
	}
	if p.LLMTimeout != 60 {
		t.Errorf("LLMTimeout = %d, want 60", p.LLMTimeout)
	}
	if p.EmbeddingModel != "BAAI/bge-m3" {
		t.Errorf("EmbeddingModel = %q, want BAAI/bge-m3", p.EmbeddingModel)
	}
	if p.MemoryMaxRecords != 1024 {
		t.Errorf("MemoryMaxRecords = %d, want 1024", p.MemoryMaxRecords)
	}
	if p.TravelMaxIterations != 3 {
		t.Errorf("TravelMaxIterations = %d, want 3", p.TravelMaxIterations)
	}
}

func TestFromEnvProviderDefaults(t *testing.T) {
	clearEnvVars()
	os.Setenv("LIFEPILOT_LLM_PROVIDER", "deepseek")
	defer clearEnvVars()

	p := &Profile{}
	p.FromEnv()

	if p.LLMBaseURL != "https://api.deepseek.com" {
		t.Errorf("LLMBaseURL = %q, want deepseek default", p.LLMBaseURL)
	}
	if p.LLMModel != "deepseek-chat" {
		t.Errorf("LLMModel = %q, want deepseek-chat", p.LLMModel)
	}
}

func TestFromEnvUnknownProviderFallsBack(t *testing.T) {
	clearEnvVars()
	os.Setenv("LIFEPILOT_LLM_PROVIDER", "not-a-provider")
	defer clearEnvVars()

	p := &Profile{}
	p.FromEnv()

	if p.LLMProvider != "openai" {
		t.Errorf("LLMProvider = %q, want openai fallback", p.LLMProvider)
	}
}

func TestFromEnvEmbeddingKeyInheritsLLMKey(t *testing.T) {
	clearEnvVars()
	os.Setenv("LIFEPILOT_LLM_API_KEY", "test-key")
	defer clearEnvVars()

	p := &Profile{}
	p.FromEnv()

	if p.EmbeddingAPIKey != "test-key" {
		t.Errorf("EmbeddingAPIKey = %q, want inherited test-key", p.EmbeddingAPIKey)
	}
}

func TestValidateMissingAPIKey(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "sqlite"}
	if err := p.Validate(); err == nil {
		t.Error("Validate() with empty API key should return error")
	}
}

func TestValidateUnknownDriver(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "mysql", LLMAPIKey: "k"}
	if err := p.Validate(); err == nil {
		t.Error("Validate() with unknown driver should return error")
	}
}

func TestValidatePostgresRequiresDSN(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "postgres", LLMAPIKey: "k"}
	if err := p.Validate(); err == nil {
		t.Error("Validate() with postgres driver and empty DSN should return error")
	}
}

func TestValidateSQLiteDefaultDSN(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "sqlite", LLMAPIKey: "k", Data: t.TempDir()}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.DSN == "" {
		t.Error("Validate() should derive a sqlite DSN from the data dir")
	}
}
