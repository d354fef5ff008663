package models

// SignalSet is the fixed-shape feature record derived from a single text.
// Each sub-score is bounded to [0,1]; the raw entity lists carry whatever
// the extraction patterns found. A SignalSet is computed fresh per request
// and never mutated afterward.
type SignalSet struct {
	Urgency          float64 `json:"urgency"`
	FearLanguage     float64 `json:"fear_language"`
	Impersonation    float64 `json:"impersonation"`
	FinancialRequest float64 `json:"financial_request"`
	GrammarQuality   float64 `json:"grammar_quality"`
	LengthScore      float64 `json:"length_score"`
	CapsRatio        float64 `json:"caps_ratio"`

	PhoneNumbers   []string `json:"phone_numbers,omitempty"`
	EmailAddresses []string `json:"email_addresses,omitempty"`
	URLs           []string `json:"urls,omitempty"`
}

// Signal feature names as seen by the risk model and the weight table.
const (
	SignalUrgency          = "urgency"
	SignalFearLanguage     = "fear_language"
	SignalImpersonation    = "impersonation"
	SignalFinancialRequest = "financial_request"
	SignalGrammarQuality   = "grammar_quality"
	SignalLengthScore      = "length_score"
	SignalCapsRatio        = "caps_ratio"
	SignalPhoneNumbers     = "phone_numbers"
	SignalEmailAddresses   = "email_addresses"
	SignalURLs             = "urls"
)

// Named returns the sub-scores keyed by feature name. Entity counts are
// not included; the model scales those separately from Counts.
func (s SignalSet) Named() map[string]float64 {
	return map[string]float64{
		SignalUrgency:          s.Urgency,
		SignalFearLanguage:     s.FearLanguage,
		SignalImpersonation:    s.Impersonation,
		SignalFinancialRequest: s.FinancialRequest,
		SignalGrammarQuality:   s.GrammarQuality,
		SignalLengthScore:      s.LengthScore,
		SignalCapsRatio:        s.CapsRatio,
	}
}

// Counts returns the raw entity counts keyed by feature name.
func (s SignalSet) Counts() map[string]int {
	return map[string]int{
		SignalPhoneNumbers:   len(s.PhoneNumbers),
		SignalEmailAddresses: len(s.EmailAddresses),
		SignalURLs:           len(s.URLs),
	}
}

// PatternMatch is the result of one detector category against one text.
type PatternMatch struct {
	Category string   `json:"category"`
	Matches  []string `json:"matches,omitempty"`
	Count    int      `json:"count"`
}
