// Package translation talks to the external translation backend and owns the
// language plumbing around it: source normalization, detection fallback and
// the per-request token budget.
package translation

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Targets are fixed: every message is translated to French, English and
// Vietnamese in one pipeline run.
var Targets = []string{LangFr, LangEn, LangVn}

const (
	LangFr = "fr"
	LangEn = "en"
	LangVn = "vn"
)

// aliases maps locale codes accepted on the client side to the canonical
// codes the backend understands.
var aliases = map[string]string{
	"vn": "vi",
}

// NormalizeLang applies the alias table before a request is dispatched.
func NormalizeLang(code string) string {
	if canonical, ok := aliases[strings.ToLower(code)]; ok {
		return canonical
	}
	return strings.ToLower(code)
}

// DetectLang guesses the language of a text when the sender has no preferred
// language on file. Falls back to English when detection is unreliable.
func DetectLang(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return LangEn
	}
	if code := info.Lang.Iso6391(); code != "" {
		return code
	}
	return LangEn
}

// TokenBudget caps the response size of one translation request as a linear
// function of the input word count. Chat translations roughly preserve
// length; the constant headroom absorbs short inputs.
func TokenBudget(text string) int {
	return len(strings.Fields(text))*4 + 30
}
