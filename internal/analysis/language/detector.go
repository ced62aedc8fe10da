// Package language identifies the language of a text. Consumers treat
// it as an opaque classifier: it returns the unknown sentinel instead of
// erroring, so detection never fails on unclassifiable input.
package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// MinTextLength is the shortest text the classifier will attempt.
// Anything below reports unknown rather than a noisy guess.
const MinTextLength = 10

// Detector identifies the language of a text via trigram analysis.
type Detector struct{}

// NewDetector creates a language detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the identified language, or the unknown sentinel for
// short or unclassifiable text. It never returns an error.
func (d *Detector) Detect(text string) domain.Language {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinTextLength {
		return domain.UnknownLang()
	}

	info := whatlanggo.Detect(trimmed)
	if info.Lang == -1 || !info.IsReliable() {
		return domain.UnknownLang()
	}

	code := whatlanggo.LangToStringShort(info.Lang)
	if code == "" {
		// No ISO 639-1 code for this language; fall back to 639-3.
		code = whatlanggo.LangToString(info.Lang)
	}
	if code == "" {
		return domain.UnknownLang()
	}

	name := whatlanggo.Langs[info.Lang]
	if name == "" {
		name = strings.ToUpper(code)
	}

	return domain.Language{Code: code, Name: name}
}
