package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"tone-backend/internal/llm"
)

const (
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 60 * time.Second
)

// Client implements llm.Generator on top of the Gemini Developer API SDK.
type Client struct {
	model  string
	client *genai.Client
}

type settings struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*settings)

// WithBaseURL points the SDK at a different API host (tests, proxies).
// The API version segment is added by the SDK.
func WithBaseURL(raw string) Option {
	return func(s *settings) {
		if trimmed := strings.TrimRight(strings.TrimSpace(raw), "/"); trimmed != "" {
			s.baseURL = trimmed + "/"
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// NewClient constructs a Gemini client. An empty model falls back to gemini-1.5-flash.
func NewClient(apiKey, model string, timeout time.Duration, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	s := settings{httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(&s)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      strings.TrimSpace(apiKey),
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  s.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: s.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{model: strings.TrimSpace(model), client: client}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends the prompt as a single user turn and maps the candidates.
func (c *Client) Generate(ctx context.Context, prompt string) (llm.Response, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return llm.Response{}, fmt.Errorf("gemini request timeout: %w", err)
		}
		return llm.Response{}, fmt.Errorf("gemini generate: %w", err)
	}
	return toResponse(resp, c.model), nil
}

func toResponse(resp *genai.GenerateContentResponse, model string) llm.Response {
	out := llm.Response{Model: model}
	if resp == nil {
		return out
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		mapped := llm.Candidate{FinishReason: string(cand.FinishReason)}
		if cand.Content != nil {
			content := &llm.Content{Role: cand.Content.Role}
			for _, p := range cand.Content.Parts {
				// thought summaries are not part of the answer
				if p == nil || p.Thought {
					continue
				}
				content.Parts = append(content.Parts, llm.Part{Text: p.Text})
			}
			mapped.Content = content
		}
		out.Candidates = append(out.Candidates, mapped)
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out
}

var _ llm.Generator = (*Client)(nil)
