// Package stylometry computes surface writing-style metrics. The
// metrics ride along on every detection result but never influence
// ranking; their trust is tuned separately by the calibration engine.
package stylometry

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// Analyzer segments text into sentences and words and derives
// sentence-length and vocabulary-richness statistics.
type Analyzer struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewAnalyzer creates a stylometric analyzer with the English
// punkt-style sentence tokenizer. The tokenizer is language-agnostic
// enough for sentence boundaries in most Latin-script text.
func NewAnalyzer() (*Analyzer, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("build sentence tokenizer: %w", err)
	}
	return &Analyzer{tokenizer: tokenizer}, nil
}

// Analyze returns style metrics for the text. Blank or whitespace-only
// input yields a zeroed record, never an error.
func (a *Analyzer) Analyze(text string) domain.StyleMetrics {
	if strings.TrimSpace(text) == "" {
		return domain.StyleMetrics{}
	}

	sents := a.tokenizer.Tokenize(text)
	if len(sents) == 0 {
		return domain.StyleMetrics{}
	}

	// Average sentence length over alphanumeric words only.
	var lengthSum, sentencesWithWords int
	for _, s := range sents {
		n := len(words(s.Text))
		if n > 0 {
			lengthSum += n
			sentencesWithWords++
		}
	}

	avgLen := 0.0
	if sentencesWithWords > 0 {
		avgLen = float64(lengthSum) / float64(sentencesWithWords)
	}

	// Vocabulary richness: type-token ratio over lowercased words.
	allWords := words(text)
	unique := make(map[string]struct{}, len(allWords))
	for _, w := range allWords {
		unique[strings.ToLower(w)] = struct{}{}
	}

	ttr := 0.0
	if len(allWords) > 0 {
		ttr = float64(len(unique)) / float64(len(allWords))
	}

	return domain.StyleMetrics{
		AvgSentenceLength:  round2(avgLen),
		VocabularyRichness: round2(ttr),
		TotalSentences:     len(sents),
		TotalWords:         len(allWords),
	}
}

// words splits text into maximal runs of letters and digits.
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
