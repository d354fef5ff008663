package services

import (
	"regexp"
	"strings"
	"unicode"

	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

// Extraction constants. The length score peaks at optimalTextLength and
// falls off symmetrically with absolute distance from it.
const (
	optimalTextLength   = 280
	maxExclamations     = 2
	neutralGrammarScore = 0.5
)

// SignalExtractor converts raw text into a SignalSet. It performs no I/O
// and is safe for concurrent use; all patterns are compiled once.
type SignalExtractor struct {
	logger *logger.Logger

	phonePattern *regexp.Regexp
	emailPattern *regexp.Regexp
	urlPattern   *regexp.Regexp
}

// Keyword lists behind the normalized category sub-scores. A sub-score is
// hits divided by category size, capped at 1.0.
var (
	urgencyKeywords = []string{
		"urgent", "immediately", "act now", "right away", "expires", "final notice",
	}
	fearKeywords = []string{
		"suspended", "legal action", "arrest", "penalty", "compromised", "locked",
	}
	impersonationKeywords = []string{
		"social security", "irs", "government", "federal", "microsoft", "law enforcement",
	}
	financialKeywords = []string{
		"payment", "wire transfer", "gift card", "account information", "bitcoin", "processing fee",
	}

	// Frequent scam-text misspellings; each occurrence penalizes grammar quality
	commonMisspellings = []string{
		"recieve", "seperate", "occured", "untill", "acount", "verfiy", "informations",
	}
)

// NewSignalExtractor creates a new signal extractor
func NewSignalExtractor(log *logger.Logger) *SignalExtractor {
	return &SignalExtractor{
		logger:       log.WithComponent("signal-extractor"),
		phonePattern: regexp.MustCompile(`\+?\d{1,2}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		emailPattern: regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		urlPattern:   regexp.MustCompile(`https?://[^\s<>"]+|www\.[^\s<>"]+`),
	}
}

// Extract computes the SignalSet for a text. It is total: any input,
// including the empty string, yields a well-formed result. Empty text
// yields the zero vector except grammar quality, which stays neutral.
func (e *SignalExtractor) Extract(text string) models.SignalSet {
	if text == "" {
		return models.SignalSet{GrammarQuality: neutralGrammarScore}
	}

	lower := strings.ToLower(text)

	return models.SignalSet{
		Urgency:          keywordScore(lower, urgencyKeywords),
		FearLanguage:     keywordScore(lower, fearKeywords),
		Impersonation:    keywordScore(lower, impersonationKeywords),
		FinancialRequest: keywordScore(lower, financialKeywords),
		GrammarQuality:   e.grammarQuality(text, lower),
		LengthScore:      lengthScore(len(text)),
		CapsRatio:        capsScore(text),
		PhoneNumbers:     e.phonePattern.FindAllString(text, -1),
		EmailAddresses:   e.emailPattern.FindAllString(text, -1),
		URLs:             e.urlPattern.FindAllString(text, -1),
	}
}

// keywordScore returns category hits normalized by category size, capped at 1.0
func keywordScore(lower string, keywords []string) float64 {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	score := float64(hits) / float64(len(keywords))
	return clamp(score, 0, 1)
}

// grammarQuality starts at 1.0 and is penalized for missing terminal
// punctuation, excessive exclamation marks, and common misspellings
func (e *SignalExtractor) grammarQuality(text, lower string) float64 {
	score := 1.0

	trimmed := strings.TrimRight(text, " \t\n")
	if trimmed == "" || !strings.ContainsRune(".!?", rune(trimmed[len(trimmed)-1])) {
		score -= 0.2
	}

	if strings.Count(text, "!") > maxExclamations {
		score -= 0.2
	}

	for _, word := range commonMisspellings {
		if strings.Contains(lower, word) {
			score -= 0.15
		}
	}

	return clamp(score, 0, 1)
}

// lengthScore peaks at the optimal length and falls off symmetrically
func lengthScore(length int) float64 {
	dist := length - optimalTextLength
	if dist < 0 {
		dist = -dist
	}
	return clamp(1-float64(dist)/optimalTextLength, 0, 1)
}

// capsScore maps the uppercase-letter fraction through a step function:
// shouting-level ratios saturate, moderate ratios get a fixed bump, and
// anything below that scales linearly
func capsScore(text string) float64 {
	var upper, letters int
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}

	ratio := float64(upper) / float64(letters)
	switch {
	case ratio > 0.3:
		return 1.0
	case ratio > 0.2:
		return 0.7
	default:
		return clamp(ratio/0.3, 0, 1)
	}
}
