package llm

import (
	"context"
	"errors"
	"strings"
)

// Generator abstracts text-generation providers: prompt in, loosely shaped response out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Response, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (Response, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (Response, error) {
	return f(ctx, prompt)
}

// Response is the provider payload as far as the analysis core cares about it.
// Providers fill whichever shape they natively return; nothing here is guaranteed present.
type Response struct {
	Candidates []Candidate `json:"candidates,omitempty"`
	Output     []Candidate `json:"output,omitempty"`
	Text       string      `json:"text,omitempty"`
	Model      string      `json:"model,omitempty"`
	Usage      *Usage      `json:"usage,omitempty"`
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// Content groups the parts of a candidate.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is a single text fragment.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Usage carries token accounting when the provider reports it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ExtractText returns the first candidate's first text fragment, then the
// alternate output path, then the flat text. Any missing link yields "".
func ExtractText(resp Response) string {
	if text, ok := firstText(resp.Candidates); ok {
		return text
	}
	if text, ok := firstText(resp.Output); ok {
		return text
	}
	return resp.Text
}

func firstText(candidates []Candidate) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	content := candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}
	text := content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// ErrNotConfigured is returned by the placeholder generator.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderGenerator stands in when no provider is wired (dev only).
type PlaceholderGenerator struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderGenerator) Generate(ctx context.Context, prompt string) (Response, error) {
	_ = ctx
	_ = prompt
	return Response{}, ErrNotConfigured
}
