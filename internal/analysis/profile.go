package analysis

import (
	"errors"
	"strings"
)

// Profile pairs a prompt template with the normalization applied to model output.
type Profile struct {
	Prompt PromptTemplate
	Rules  []NormalizationRule
}

const (
	ProfileNameClassic  = "classic"
	ProfileNameAnalyzer = "analyzer"
)

// ClassicProfile asks for one-word tone and short lines per field.
func ClassicProfile() Profile {
	return Profile{
		Prompt: PromptTemplate{Name: ProfileNameClassic, Body: promptClassic},
		Rules:  append([]NormalizationRule(nil), FenceRules...),
	}
}

// AnalyzerProfile frames the model as a tone/intent/impact analyzer.
func AnalyzerProfile() Profile {
	return Profile{
		Prompt: PromptTemplate{Name: ProfileNameAnalyzer, Body: promptAnalyzer},
		Rules:  append([]NormalizationRule(nil), FenceRules...),
	}
}

// DefaultProfile is used when no profile is configured.
func DefaultProfile() Profile {
	return AnalyzerProfile()
}

// ParseProfile resolves a profile by name. Empty selects the default.
func ParseProfile(raw string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultProfile(), nil
	case ProfileNameAnalyzer:
		return AnalyzerProfile(), nil
	case ProfileNameClassic:
		return ClassicProfile(), nil
	default:
		return Profile{}, errors.New("analysis profile is invalid")
	}
}
