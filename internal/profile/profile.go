package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start the main server.
type Profile struct {
	// Unified LLM configuration (OpenAI-compatible protocol).
	// All providers (openai, deepseek, siliconflow, openrouter, ollama) use the same config.
	LLMProvider    string  // Provider identifier: openai, deepseek, siliconflow, openrouter, ollama
	LLMAPIKey      string  // LLM API key, required
	LLMBaseURL     string  // LLM base URL (optional, has default per provider)
	LLMModel       string  // Model name: gpt-4o-mini, deepseek-chat, etc.
	LLMTimeout     int     // LLM request timeout in seconds (default: 60)
	LLMMaxTokens   int     // Completion truncation limit (default: 1024)
	LLMTemperature float32 // Sampling randomness (default: 0.4)

	// Embedding configuration
	EmbeddingProvider   string
	EmbeddingModel      string
	EmbeddingAPIKey     string
	EmbeddingBaseURL    string
	EmbeddingDimensions int

	// Price lookup collaborator endpoint (optional; shopping degrades without it)
	PriceLookupURL string

	// Memory store retention cap, oldest records pruned first (default: 1024)
	MemoryMaxRecords int

	// Travel agent refinement loop cap (default: 3)
	TravelMaxIterations int

	// Server / storage
	Mode    string
	Addr    string
	Port    int
	Data    string
	Driver  string
	DSN     string
	Version string
}

// Provider default configurations for LLM.
// Used when LIFEPILOT_LLM_BASE_URL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"siliconflow": {
		BaseURL: "https://api.siliconflow.cn/v1",
		Model:   "Qwen/Qwen2.5-72B-Instruct",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "deepseek/deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("LIFEPILOT_LLM_PROVIDER", "openai")
	p.LLMAPIKey = getEnvOrDefault("LIFEPILOT_LLM_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("LIFEPILOT_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("LIFEPILOT_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("LIFEPILOT_LLM_TIMEOUT_SECONDS", 60)
	p.LLMMaxTokens = getEnvOrDefaultInt("LIFEPILOT_LLM_MAX_TOKENS", 1024)
	if v := os.Getenv("LIFEPILOT_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			p.LLMTemperature = float32(f)
		}
	}
	if p.LLMTemperature == 0 {
		p.LLMTemperature = 0.4
	}

	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		// Unknown providers fall through to the generic OpenAI-compatible path.
		p.LLMProvider = "openai"
	}
	if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
		if p.LLMBaseURL == "" {
			p.LLMBaseURL = defaults.BaseURL
		}
		if p.LLMModel == "" {
			p.LLMModel = defaults.Model
		}
	}

	p.EmbeddingProvider = getEnvOrDefault("LIFEPILOT_EMBEDDING_PROVIDER", "siliconflow")
	p.EmbeddingModel = getEnvOrDefault("LIFEPILOT_EMBEDDING_MODEL", "BAAI/bge-m3")
	p.EmbeddingAPIKey = getEnvOrDefault("LIFEPILOT_EMBEDDING_API_KEY", "")
	p.EmbeddingBaseURL = getEnvOrDefault("LIFEPILOT_EMBEDDING_BASE_URL", "https://api.siliconflow.cn/v1")
	p.EmbeddingDimensions = getEnvOrDefaultInt("LIFEPILOT_EMBEDDING_DIMENSIONS", 1024)
	if p.EmbeddingAPIKey == "" {
		p.EmbeddingAPIKey = p.LLMAPIKey
	}

	p.PriceLookupURL = getEnvOrDefault("LIFEPILOT_PRICE_LOOKUP_URL", "")

	p.MemoryMaxRecords = getEnvOrDefaultInt("LIFEPILOT_MEMORY_MAX_RECORDS", 1024)
	p.TravelMaxIterations = getEnvOrDefaultInt("LIFEPILOT_TRAVEL_MAX_ITERATIONS", 3)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies.
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate checks the profile for fatal misconfiguration. A missing LLM API
// key is a startup error: no partial run is attempted without it.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.LLMAPIKey == "" {
		return errors.New("LLM API key is required (set LIFEPILOT_LLM_API_KEY)")
	}

	switch p.Driver {
	case "sqlite", "postgres":
	default:
		return errors.Errorf("unknown database driver %q (want sqlite or postgres)", p.Driver)
	}

	if p.Driver == "sqlite" && p.DSN == "" {
		if p.Data == "" {
			p.Data = "."
		}
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			return err
		}
		p.Data = dataDir
		p.DSN = filepath.Join(dataDir, fmt.Sprintf("lifepilot_%s.db", p.Mode))
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	if p.MemoryMaxRecords <= 0 {
		p.MemoryMaxRecords = 1024
	}
	if p.TravelMaxIterations <= 0 {
		p.TravelMaxIterations = 3
	}

	return nil
}
