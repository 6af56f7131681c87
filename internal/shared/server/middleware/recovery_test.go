package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRecoveryKeepsStartedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_ = captureLogs(t)
	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late failure")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected original status, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "Unexpected server error") {
		t.Fatalf("error body appended to started response: %q", resp.Body.String())
	}
}

func TestRecoveryReraisesAbortHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery())
	router.GET("/abort", func(c *gin.Context) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
	t.Fatal("expected panic")
}

func TestRecoveryLogsRouteAndOutcome(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)
	router := gin.New()
	router.Use(RequestID(), Logging(), Recovery())
	router.POST("/api/analyze", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req.Header.Set("X-Request-Id", "req-panic")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var panicLine, completeLine map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("decode log line: %v", err)
		}
		switch entry["msg"] {
		case "http.panic":
			panicLine = entry
		case "request.complete":
			completeLine = entry
		}
	}
	if panicLine == nil || panicLine["route"] != "/api/analyze" || panicLine["request_id"] != "req-panic" {
		t.Fatalf("unexpected panic log: %v", panicLine)
	}
	if completeLine == nil || completeLine["outcome"] != "panic" {
		t.Fatalf("expected outcome panic on request log, got %v", completeLine)
	}
}
