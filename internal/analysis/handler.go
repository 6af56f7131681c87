package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tone-backend/internal/extract"
	"tone-backend/internal/shared/metrics"
	"tone-backend/internal/shared/server/respond"
	"tone-backend/internal/shared/telemetry"
	"tone-backend/internal/shared/util"
)

const (
	outcomeKey      = "analysisOutcome"
	textLengthKey   = "textLength"
	outcomeFallback = "fallback"

	// JSON escaping grows a byte to at most six (\u00XX); the slack covers the envelope.
	jsonEscapeFactor = 6
	jsonBodySlack    = 1024
)

// Analyzer is the behavior the HTTP handler needs from Service.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Result, error)
}

// Handler wires HTTP routes to an Analyzer.
type Handler struct {
	Svc            Analyzer
	Fallback       FallbackPolicy
	ExposeRaw      bool
	MaxUploadBytes int64
	MaxTextBytes   int64
}

// NewHandler constructs a Handler with the given fallback policy.
func NewHandler(svc Analyzer, fallback FallbackPolicy, exposeRaw bool) *Handler {
	return &Handler{Svc: svc, Fallback: fallback, ExposeRaw: exposeRaw}
}

// RegisterRoutes attaches the analyze routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/analyze", h.analyzeText)
	rg.POST("/analyze/file", h.analyzeFile)
}

func (h *Handler) analyzeText(c *gin.Context) {
	if limit := h.textBodyLimit(); limit > 0 {
		if c.Request.ContentLength > limit {
			h.rejectTextTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	var req Request
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.rejectTextTooLarge(c)
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_body", respond.ErrorBody{Error: "invalid request body"})
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			respond.Error(c, http.StatusBadRequest, "invalid_body", respond.ErrorBody{Error: "invalid request body"})
			return
		}
	}
	h.run(c, req.Text)
}

func (h *Handler) analyzeFile(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		if c.Request.ContentLength > h.MaxUploadBytes {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", respond.ErrorBody{Error: "File too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", respond.ErrorBody{Error: "File too large"})
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_body", respond.ErrorBody{Error: "file is required"})
		return
	}
	if h.MaxUploadBytes > 0 && fileHeader.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", respond.ErrorBody{Error: "File too large"})
		return
	}

	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", respond.ErrorBody{Error: "invalid file name"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", respond.ErrorBody{Error: "failed to read file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", respond.ErrorBody{Error: "failed to read file"})
		return
	}

	mimeType := extract.DetectMimeType(fileHeader.Header.Get("Content-Type"), fileName, data)
	text, err := extract.TextFromBytes(c.Request.Context(), data, mimeType, fileName)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", respond.ErrorBody{Error: "Unsupported file type", Details: mimeType})
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", respond.ErrorBody{Error: "Could not read file", Details: err.Error()})
		return
	}
	h.run(c, text)
}

func (h *Handler) run(c *gin.Context, text string) {
	c.Set(textLengthKey, len(text))
	if h.MaxTextBytes > 0 && int64(len(text)) > h.MaxTextBytes {
		h.rejectTextTooLarge(c)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), Request{Text: text})
	if err == nil {
		c.Set(outcomeKey, outcomeSucceeded)
		respond.JSON(c, http.StatusOK, result)
		return
	}

	if placeholder, ok := h.Fallback.Degrade(err); ok {
		c.Set(outcomeKey, outcomeFallback)
		metrics.IncFallback()
		telemetry.Warn("analysis.fallback_served", map[string]any{
			"request_id": telemetry.RequestIDFromContext(c.Request.Context()),
			"policy":     string(h.Fallback),
			"error":      err,
		})
		respond.JSON(c, http.StatusOK, placeholder)
		return
	}

	switch KindOf(err) {
	case KindEmptyInput:
		c.Set(outcomeKey, outcomeEmptyInput)
		respond.Error(c, http.StatusBadRequest, "empty_input", respond.ErrorBody{Error: "No text provided"})
	case KindModelUnavailable:
		c.Set(outcomeKey, outcomeUnavailable)
		respond.Error(c, http.StatusBadGateway, "model_unavailable", respond.ErrorBody{
			Error:   "Model failed",
			Details: causeMessage(err),
		})
	case KindInvalidModelOutput:
		c.Set(outcomeKey, outcomeInvalidOutput)
		body := respond.ErrorBody{Error: "Invalid AI JSON"}
		if raw, ok := RawOutput(err); ok && h.ExposeRaw {
			body.Raw = raw
		}
		respond.Error(c, http.StatusBadGateway, "invalid_model_output", body)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", respond.ErrorBody{Error: "Unexpected server error"})
	}
}

// textBodyLimit bounds the raw JSON body for a text of MaxTextBytes; 0 means unbounded.
func (h *Handler) textBodyLimit() int64 {
	if h.MaxTextBytes <= 0 {
		return 0
	}
	return h.MaxTextBytes*jsonEscapeFactor + jsonBodySlack
}

func (h *Handler) rejectTextTooLarge(c *gin.Context) {
	c.Set(outcomeKey, "text_too_large")
	respond.Error(c, http.StatusRequestEntityTooLarge, "text_too_large", respond.ErrorBody{Error: "Text too large"})
}

func causeMessage(err error) string {
	if cause := errors.Unwrap(err); cause != nil {
		return cause.Error()
	}
	return err.Error()
}
