package bootstrap

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"tone-backend/internal/analysis"
	"tone-backend/internal/llm"
	"tone-backend/internal/llm/gemini"
	"tone-backend/internal/llm/openai"
	"tone-backend/internal/services/health"
	"tone-backend/internal/shared/config"
	"tone-backend/internal/shared/server"
	"tone-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Generator       llm.Generator
	AnalysisService *analysis.Service
	AnalysisHandler *analysis.Handler
	Health          *health.Service
}

// Build wires the generator, analysis service and router from cfg.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	profile, err := analysis.ParseProfile(cfg.AnalysisProfile)
	if err != nil {
		return nil, err
	}
	fallback, err := analysis.ParseFallbackPolicy(cfg.FallbackPolicy)
	if err != nil {
		return nil, err
	}
	gen, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	svc := analysis.NewService(gen, profile, cfg.LLMProvider)
	handler := analysis.NewHandler(svc, fallback, cfg.ExposeRawOutput)
	handler.MaxUploadBytes = cfg.MaxUploadBytes
	handler.MaxTextBytes = cfg.MaxTextBytes
	healthSvc := health.NewService(cfg.LLMProvider, profile.Prompt.Name)

	app := &App{
		Config:          cfg,
		Generator:       gen,
		AnalysisService: svc,
		AnalysisHandler: handler,
		Health:          healthSvc,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: handler,
		Health:          healthSvc,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":      cfg.Env,
		"provider": cfg.LLMProvider,
		"model":    cfg.LLMModel,
		"profile":  profile.Prompt.Name,
		"fallback": string(fallback),
	})
	return app, nil
}

func buildGenerator(cfg config.Config) (llm.Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		var opts []gemini.Option
		if cfg.LLMBaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.LLMBaseURL))
		}
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOpenAI:
		var opts []openai.Option
		if cfg.LLMBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.LLMBaseURL))
		}
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderNone:
		if isDevLike(cfg.Env) {
			return llm.PlaceholderGenerator{}, nil
		}
		return nil, fmt.Errorf("LLM_PROVIDER=none is only allowed in dev")
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
