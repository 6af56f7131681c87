package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"tone-backend/internal/llm"
	"tone-backend/internal/shared/metrics"
	"tone-backend/internal/shared/telemetry"
)

const (
	outcomeSucceeded     = "succeeded"
	outcomeEmptyInput    = "empty_input"
	outcomeUnavailable   = "model_unavailable"
	outcomeInvalidOutput = "invalid_model_output"
)

// Service turns free text into a structured tone/intent/impact/rewrite Result
// through one generation call. It holds no per-call state.
type Service struct {
	Generator llm.Generator
	Profile   Profile
	Provider  string
}

// NewService constructs a Service. A zero Profile selects DefaultProfile.
func NewService(gen llm.Generator, profile Profile, provider string) *Service {
	if profile.Prompt.Body == "" {
		profile = DefaultProfile()
	}
	return &Service{Generator: gen, Profile: profile, Provider: provider}
}

// Analyze validates the input, prompts the model once and parses its reply.
// Failures are *Error values of kind EmptyInput, ModelUnavailable or
// InvalidModelOutput; no fallback is applied here.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		metrics.CountOutcome(outcomeEmptyInput)
		return Result{}, emptyInput()
	}
	if s.Generator == nil {
		metrics.CountOutcome(outcomeUnavailable)
		return Result{}, modelUnavailable(llm.ErrNotConfigured)
	}

	start := time.Now()
	requestID := telemetry.RequestIDFromContext(ctx)
	prompt := s.Profile.Prompt.Render(req.Text)

	resp, err := s.Generator.Generate(ctx, prompt)
	if err != nil {
		s.finish(start, outcomeUnavailable)
		telemetry.Error("analysis.model_unavailable", map[string]any{
			"request_id": requestID,
			"provider":   s.Provider,
			"profile":    s.Profile.Prompt.Name,
			"timeout":    errors.Is(err, context.DeadlineExceeded),
			"error":      err,
		})
		return Result{}, modelUnavailable(err)
	}

	text := Normalize(llm.ExtractText(resp), s.Profile.Rules)
	result, err := ParseResult(text)
	if err != nil {
		s.finish(start, outcomeInvalidOutput)
		telemetry.Error("analysis.invalid_model_output", map[string]any{
			"request_id": requestID,
			"provider":   s.Provider,
			"model":      resp.Model,
			"raw":        text,
			"error":      err,
		})
		return Result{}, err
	}

	s.finish(start, outcomeSucceeded)
	fields := map[string]any{
		"request_id": requestID,
		"provider":   s.Provider,
		"model":      resp.Model,
		"profile":    s.Profile.Prompt.Name,
	}
	if resp.Usage != nil {
		fields["prompt_tokens"] = resp.Usage.PromptTokens
		fields["completion_tokens"] = resp.Usage.CompletionTokens
		fields["total_tokens"] = resp.Usage.TotalTokens
	}
	telemetry.Info("analysis.complete", fields)
	return result, nil
}

func (s *Service) finish(start time.Time, outcome string) {
	metrics.ObserveAnalysis(s.Provider, outcome, time.Since(start))
}
