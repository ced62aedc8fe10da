package domain

// UnknownLanguage is the code reported when identification is impossible
// (short text, internal failure). Two unknown codes never count as a
// cross-language pair.
const UnknownLanguage = "unknown"

// SnippetLength is the number of characters of matched text returned per match.
const SnippetLength = 200

// Language is an identified language code/name pair.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// UnknownLang returns the sentinel for undetectable text.
func UnknownLang() Language {
	return Language{Code: UnknownLanguage, Name: "Unknown"}
}

// IsUnknown reports whether the language could not be identified.
func (l Language) IsUnknown() bool { return l.Code == UnknownLanguage || l.Code == "" }

// CrossLanguage reports whether two identified codes form a
// cross-language pair. Unknown codes never assert cross-language.
func CrossLanguage(a, b string) bool {
	if a == UnknownLanguage || a == "" || b == UnknownLanguage || b == "" {
		return false
	}
	return a != b
}

// StyleMetrics is the surface stylometric profile of a text. Attached to
// every detection result; not used in ranking.
type StyleMetrics struct {
	AvgSentenceLength  float64 `json:"avg_sentence_length"`
	VocabularyRichness float64 `json:"vocabulary_richness"` // type-token ratio, 0-1
	TotalSentences     int     `json:"total_sentences"`
	TotalWords         int     `json:"total_words"`
}

// Match is one candidate above the detection threshold.
type Match struct {
	DocID           string  `json:"doc_id"`
	Score           float64 `json:"score"` // similarity × 100, rounded to 2 decimals
	Snippet         string  `json:"snippet"`
	Language        string  `json:"language"`
	IsCrossLanguage bool    `json:"is_cross_language"`
	Owner           string  `json:"owner,omitempty"` // cross-user mode only
}

// DetectionResult is the outcome of one detection call. Always
// well-formed: an unavailable corpus yields zero matches and score 0,
// with stylometry and query language still populated.
type DetectionResult struct {
	MaxScore             float64      `json:"max_score"`
	Matches              []Match      `json:"matches"`
	Stylometry           StyleMetrics `json:"stylometry"`
	QueryLanguage        Language     `json:"query_language"`
	CrossLanguageEnabled bool         `json:"cross_language_enabled"`
	CrossLanguageMatches int          `json:"cross_language_matches"`
	// TotalDocumentsChecked distinguishes "checked zero documents" from
	// "checked many, zero matched" in cross-user mode. Serialized even
	// at zero: omitting it would erase exactly that distinction.
	TotalDocumentsChecked int `json:"total_documents_checked"`
}
