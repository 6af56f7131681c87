package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string
	LLMProvider     string
	LLMModel        string
	LLMBaseURL      string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	LLMTimeout      time.Duration
	AnalysisProfile string
	FallbackPolicy  string
	ExposeRawOutput bool
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxUploadBytes  int64
	MaxTextBytes    int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience; real env wins.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))

	return Config{
		Port:            getEnv("PORT", "3001"),
		Env:             env,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		LLMProvider:     normalizeProvider(getEnv("LLM_PROVIDER", ProviderGemini)),
		LLMModel:        getEnv("LLM_MODEL", ""),
		LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		LLMTimeout:      time.Duration(getInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		AnalysisProfile: getEnv("ANALYSIS_PROFILE", "analyzer"),
		FallbackPolicy:  getEnv("FALLBACK_POLICY", "none"),
		ExposeRawOutput: getBool("EXPOSE_RAW_OUTPUT", env != "production"),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 10),
		MaxUploadBytes:  int64(getInt("MAX_UPLOAD_BYTES", 5<<20)),
		MaxTextBytes:    int64(getInt("MAX_TEXT_BYTES", 64<<10)),
	}
}

// Validate reports configuration that must stop the process at startup.
func (c Config) Validate() error {
	var errs []error
	switch c.LLMProvider {
	case ProviderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is missing"))
		}
	case ProviderOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is missing"))
		}
		if strings.TrimSpace(c.LLMModel) == "" {
			errs = append(errs, errors.New("LLM_MODEL is required for OpenAI"))
		}
	case ProviderNone:
		if c.Env == "production" {
			errs = append(errs, errors.New("LLM_PROVIDER=none is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, errors.New("LLM_TIMEOUT_SECONDS must be positive"))
	}
	return errors.Join(errs...)
}

// APIKey returns the credential for the selected provider.
func (c Config) APIKey() string {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return ""
	}
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// godotenv.Load never overrides variables already set.
		_ = godotenv.Load(path)
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return parsed
		}
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return ProviderGemini
	case "openai":
		return ProviderOpenAI
	case "none", "placeholder":
		return ProviderNone
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}
