package analysis

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/classic.txt
	promptClassic string
	//go:embed prompts/analyzer.txt
	promptAnalyzer string
)

const textPlaceholder = "{{TEXT}}"

// PromptTemplate is a named instruction body with a {{TEXT}} slot.
type PromptTemplate struct {
	Name string
	Body string
}

// Render embeds the escaped text into the template. Placeholders inside the
// user text are not expanded.
func (p PromptTemplate) Render(text string) string {
	return strings.NewReplacer(textPlaceholder, EscapeText(text)).Replace(p.Body)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// EscapeText escapes backslashes and double quotes so the text stays inside
// the quoted slot of the prompt.
func EscapeText(text string) string {
	return quoteEscaper.Replace(text)
}
