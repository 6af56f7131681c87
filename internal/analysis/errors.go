package analysis

import (
	"errors"
	"fmt"
)

// Kind classifies analysis failures.
type Kind string

const (
	KindEmptyInput         Kind = "EMPTY_INPUT"
	KindModelUnavailable   Kind = "MODEL_UNAVAILABLE"
	KindInvalidModelOutput Kind = "INVALID_MODEL_OUTPUT"
)

var (
	ErrEmptyInput         = errors.New("no text provided")
	ErrModelUnavailable   = errors.New("model unavailable")
	ErrInvalidModelOutput = errors.New("invalid model output")
)

// Error is the typed failure returned by Service.Analyze.
// Raw is set for KindInvalidModelOutput and holds the normalized model text.
type Error struct {
	Kind Kind
	Raw  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindEmptyInput:
		return ErrEmptyInput
	case KindModelUnavailable:
		return ErrModelUnavailable
	default:
		return ErrInvalidModelOutput
	}
}

// KindOf returns the Kind of an analysis error, or "" for anything else.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// RawOutput returns the diagnostic model text carried by err, if any.
func RawOutput(err error) (string, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind == KindInvalidModelOutput {
		return ae.Raw, true
	}
	return "", false
}

func emptyInput() error {
	return &Error{Kind: KindEmptyInput}
}

func modelUnavailable(cause error) error {
	return &Error{Kind: KindModelUnavailable, Err: cause}
}

func invalidOutput(raw string, cause error) error {
	return &Error{Kind: KindInvalidModelOutput, Raw: raw, Err: cause}
}
