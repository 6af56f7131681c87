package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tone-backend/internal/llm"
	"tone-backend/internal/llm/gemini"
	"tone-backend/internal/llm/openai"
	"tone-backend/internal/shared/config"
)

func devConfig(provider string) config.Config {
	return config.Config{
		Env:             "dev",
		LLMProvider:     provider,
		LLMTimeout:      5 * time.Second,
		AnalysisProfile: "analyzer",
		FallbackPolicy:  "none",
	}
}

func TestBuildGemini(t *testing.T) {
	cfg := devConfig(config.ProviderGemini)
	cfg.GeminiAPIKey = "key"

	app, err := Build(cfg)
	require.NoError(t, err)
	_, ok := app.Generator.(*gemini.Client)
	assert.True(t, ok)
	assert.NotNil(t, app.Router)
}

func TestBuildOpenAI(t *testing.T) {
	cfg := devConfig(config.ProviderOpenAI)
	cfg.OpenAIAPIKey = "key"
	cfg.LLMModel = "gpt-4o-mini"

	app, err := Build(cfg)
	require.NoError(t, err)
	_, ok := app.Generator.(*openai.Client)
	assert.True(t, ok)
}

func TestBuildMissingKeyFails(t *testing.T) {
	_, err := Build(devConfig(config.ProviderGemini))
	assert.Error(t, err)
}

func TestBuildPlaceholderInDev(t *testing.T) {
	app, err := Build(devConfig(config.ProviderNone))
	require.NoError(t, err)
	_, ok := app.Generator.(llm.PlaceholderGenerator)
	assert.True(t, ok)

	cfg := devConfig(config.ProviderNone)
	cfg.Env = "production"
	_, err = Build(cfg)
	assert.Error(t, err)
}

func TestBuildRejectsUnknownProfileAndPolicy(t *testing.T) {
	cfg := devConfig(config.ProviderNone)
	cfg.AnalysisProfile = "poetic"
	_, err := Build(cfg)
	assert.Error(t, err)

	cfg = devConfig(config.ProviderNone)
	cfg.FallbackPolicy = "maybe"
	_, err = Build(cfg)
	assert.Error(t, err)
}

func TestBuildServesFallbackWhenConfigured(t *testing.T) {
	cfg := devConfig(config.ProviderNone)
	cfg.FallbackPolicy = "unknown"
	app, err := Build(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"text":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"rewrite":"Model could not analyze."`)
}
