package analysis

import (
	"strings"
	"unicode"
)

// NormalizationRule strips a wrapper from model text. Suffix is only removed
// when Prefix matched, or when Prefix is empty. With DropTag set, a language
// tag directly after the prefix (```json, ```jsonc, ```js) is removed too.
type NormalizationRule struct {
	Prefix  string
	Suffix  string
	DropTag bool
}

// FenceRules strip fenced-code wrappers with or without a language tag.
var FenceRules = []NormalizationRule{
	{Prefix: "```", Suffix: "```", DropTag: true},
}

// Normalize trims whitespace and applies rules in order, trimming again after each.
func Normalize(raw string, rules []NormalizationRule) string {
	out := strings.TrimSpace(raw)
	for _, rule := range rules {
		if rule.Prefix != "" && strings.HasPrefix(out, rule.Prefix) {
			out = strings.TrimPrefix(out, rule.Prefix)
			if rule.DropTag {
				out = dropLanguageTag(out)
			}
			if rule.Suffix != "" {
				out = strings.TrimSuffix(strings.TrimSpace(out), rule.Suffix)
			}
			out = strings.TrimSpace(out)
			continue
		}
		if rule.Prefix == "" && rule.Suffix != "" {
			out = strings.TrimSpace(strings.TrimSuffix(out, rule.Suffix))
		}
	}
	return out
}

// dropLanguageTag removes a leading info-string word ending at whitespace,
// '{' or '['. Anything else is left alone.
func dropLanguageTag(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("+-_.", r))
	})
	if end <= 0 {
		return s
	}
	switch s[end] {
	case ' ', '\t', '\r', '\n', '{', '[':
		return s[end:]
	default:
		return s
	}
}
