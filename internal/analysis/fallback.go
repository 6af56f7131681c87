package analysis

import (
	"errors"
	"strings"
)

// FallbackPolicy decides whether a failure is replaced by a placeholder
// Result at the HTTP boundary. Service.Analyze never applies it.
type FallbackPolicy string

const (
	// FallbackNone surfaces every failure as an error response.
	FallbackNone FallbackPolicy = "none"
	// FallbackUnknown answers ModelUnavailable with UnknownResult.
	FallbackUnknown FallbackPolicy = "unknown"
)

// UnknownResult is the placeholder served under FallbackUnknown.
func UnknownResult() Result {
	return Result{
		Tone:    "Unknown",
		Intent:  "Unknown",
		Impact:  "Unknown",
		Rewrite: "Model could not analyze.",
	}
}

// ParseFallbackPolicy normalizes a policy name. Empty means FallbackNone.
func ParseFallbackPolicy(raw string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(FallbackNone):
		return FallbackNone, nil
	case string(FallbackUnknown):
		return FallbackUnknown, nil
	default:
		return "", errors.New("fallback policy is invalid")
	}
}

// Degrade returns the placeholder for err when the policy covers it.
// Invalid input and invalid model output are never degraded.
func (p FallbackPolicy) Degrade(err error) (Result, bool) {
	if p != FallbackUnknown || err == nil {
		return Result{}, false
	}
	if !errors.Is(err, ErrModelUnavailable) {
		return Result{}, false
	}
	return UnknownResult(), true
}
