package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"tone-backend/internal/llm"
)

type wireRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  ", "", time.Second); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestNewClientDefaultsModel(t *testing.T) {
	c, err := NewClient("key", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != "gemini-1.5-flash" {
		t.Fatalf("expected default model, got %q", c.Model())
	}
}

func TestGenerateDecodesCandidates(t *testing.T) {
	var gotPath, gotKey string
	var gotBody wireRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates":[{"content":{"role":"model","parts":[{"text":"{\"tone\":\"Neutral\"}"}]},"finishReason":"STOP"}],
			"usageMetadata":{"promptTokenCount":10,"candidatesTokenCount":5,"totalTokenCount":15},
			"modelVersion":"gemini-1.5-flash-002"
		}`))
	}))
	defer srv.Close()

	c, err := NewClient("secret", "gemini-1.5-flash", time.Second, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := c.Generate(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !strings.HasSuffix(gotPath, "/models/gemini-1.5-flash:generateContent") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 || gotBody.Contents[0].Parts[0].Text != "analyze this" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
	if got := llm.ExtractText(resp); got != `{"tone":"Neutral"}` {
		t.Fatalf("unexpected text %q", got)
	}
	if resp.Model != "gemini-1.5-flash-002" {
		t.Fatalf("unexpected model %q", resp.Model)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 15 || resp.Usage.CompletionTokens != 5 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
}

func TestGenerateProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c, err := NewClient("secret", "", time.Second, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.Generate(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") || !strings.Contains(err.Error(), "429") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c, err := NewClient("secret", "", time.Second, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Generate(context.Background(), "x"); err == nil || !strings.HasPrefix(err.Error(), "gemini") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateHonorsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := NewClient("secret", "", 5*time.Second, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Generate(ctx, "x"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestToResponseSkipsThoughtsAndNils(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{
				Content: &genai.Content{Role: "model", Parts: []*genai.Part{
					{Text: "thinking...", Thought: true},
					nil,
					{Text: `{"tone":"Calm"}`},
				}},
				FinishReason: genai.FinishReasonStop,
			},
		},
	}

	got := toResponse(resp, "gemini-1.5-flash")

	if got.Model != "gemini-1.5-flash" {
		t.Fatalf("expected configured model, got %q", got.Model)
	}
	if text := llm.ExtractText(got); text != `{"tone":"Calm"}` {
		t.Fatalf("unexpected text %q", text)
	}
	if got.Candidates[0].FinishReason != "STOP" {
		t.Fatalf("unexpected finish reason %q", got.Candidates[0].FinishReason)
	}
	if got.Usage != nil {
		t.Fatalf("expected no usage, got %+v", got.Usage)
	}
}

func TestToResponseNil(t *testing.T) {
	if got := llm.ExtractText(toResponse(nil, "m")); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}
