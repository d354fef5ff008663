package services

import (
	"regexp"

	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

// Pattern category names. These share the weight namespace with signal
// features, so they must not collide with the names in models/signal.go.
const (
	CategoryUrgentAction      = "urgent_action"
	CategoryAuthorityImperson = "authority_impersonation"
	CategoryFearTactics       = "fear_tactics"
	CategoryFinancialLure     = "financial_lure"
	CategoryVerification      = "verification_request"
	CategoryContactPressure   = "contact_pressure"
	CategoryTechSupport       = "tech_support"
	CategoryPrizeLottery      = "prize_lottery"
)

// PatternRegistry holds the fixed set of named detectors. Each category is
// backed by one compiled case-insensitive pattern evaluated against the
// whole input; evaluation is linear in text length per category. The
// registry is immutable after construction and safe for concurrent use.
type PatternRegistry struct {
	logger    *logger.Logger
	detectors []detector
}

type detector struct {
	category string
	pattern  *regexp.Regexp
}

// NewPatternRegistry compiles the default detector set
func NewPatternRegistry(log *logger.Logger) *PatternRegistry {
	specs := []struct {
		category string
		expr     string
	}{
		{CategoryUrgentAction, `urgent|immediately|act now|right away|asap|don'?t delay|final notice|last chance`},
		{CategoryAuthorityImperson, `social security|internal revenue|\birs\b|medicare|federal agent|government agency|law enforcement|police department|microsoft support|apple support`},
		{CategoryFearTactics, `suspended|terminated|legal action|arrest warrant|compromised|unauthorized|lawsuit`},
		{CategoryFinancialLure, `wire transfer|gift card|bitcoin|cryptocurrency|processing fee|bank details|send money|payment required`},
		{CategoryVerification, `verify your|confirm your|validate your|update your (account|information|details)`},
		{CategoryContactPressure, `call (now|immediately|us|this number|today)|call 1[-\s]?8\d{2}|reply immediately|respond within`},
		{CategoryTechSupport, `virus detected|malware|remote access|teamviewer|anydesk|tech support|computer is infected`},
		{CategoryPrizeLottery, `you have won|you'?ve won|congratulations|lottery|claim your prize|winning ticket|lucky winner|you'?ve been selected`},
	}

	detectors := make([]detector, 0, len(specs))
	for _, s := range specs {
		detectors = append(detectors, detector{
			category: s.category,
			pattern:  regexp.MustCompile(`(?i)` + s.expr),
		})
	}

	return &PatternRegistry{
		logger:    log.WithComponent("pattern-registry"),
		detectors: detectors,
	}
}

// Categories returns the registered category names in evaluation order
func (r *PatternRegistry) Categories() []string {
	names := make([]string, len(r.detectors))
	for i, d := range r.detectors {
		names[i] = d.category
	}
	return names
}

// MatchCounts returns the raw, uncapped match count per category. The
// risk model scales these; the registry itself never caps them.
func (r *PatternRegistry) MatchCounts(text string) map[string]int {
	counts := make(map[string]int, len(r.detectors))
	for _, d := range r.detectors {
		counts[d.category] = len(d.pattern.FindAllString(text, -1))
	}
	return counts
}

// Match returns the categories that fired, with the matched substrings
// kept as evidence
func (r *PatternRegistry) Match(text string) []models.PatternMatch {
	var matches []models.PatternMatch
	for _, d := range r.detectors {
		found := d.pattern.FindAllString(text, -1)
		if len(found) == 0 {
			continue
		}
		matches = append(matches, models.PatternMatch{
			Category: d.category,
			Matches:  found,
			Count:    len(found),
		})
	}
	return matches
}
