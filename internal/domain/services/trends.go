package services

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

// ErrTrendNotFound is returned when an update references an unknown trend
var ErrTrendNotFound = errors.New("trend not found")

const matchScoreThreshold = 2

// tacticPhrases maps a tactic name to example phrasings. A tactic counts
// as hit when any one of its phrases appears in the text.
var tacticPhrases = map[string][]string{
	"urgency creation":        {"urgent", "immediately", "act now", "expires", "right away"},
	"authority impersonation": {"social security", "irs", "government", "federal", "law enforcement"},
	"fear induction":          {"suspended", "arrest", "legal action", "penalty", "locked"},
	"verification request":    {"verify your", "confirm your", "validate your"},
	"remote access":           {"remote access", "teamviewer", "anydesk", "screen share"},
	"advance fee":             {"processing fee", "transfer fee", "pay to receive", "clearance fee"},
	"payment redirection":     {"wire transfer", "gift card", "bitcoin", "zelle", "cryptocurrency"},
	"emotional manipulation":  {"i love you", "soulmate", "my love", "meant to be"},
	"guaranteed returns":      {"guaranteed", "double your", "risk-free", "returns of"},
	"delivery pretext":        {"package", "delivery", "customs fee", "redelivery", "shipment"},
}

// SeedTrends returns the initial trend catalog contents
func SeedTrends() []*models.ScamTrend {
	now := time.Now().UTC()
	return []*models.ScamTrend{
		{
			ID:          "gov-benefits-suspension",
			Title:       "Government Benefits Suspension Scam",
			Description: "Callers and texts impersonating the SSA or IRS claim benefits will be suspended unless the target verifies personal details or pays immediately.",
			RiskLevel:   models.RiskLevelCritical,
			Keywords:    []string{"social security", "benefits", "suspended", "irs", "ssn"},
			Tactics:     []string{"urgency creation", "authority impersonation", "fear induction", "verification request"},
			TargetDemographics: []string{"seniors", "recent immigrants"},
			ReportedCases:      18400,
			FirstSeen:          now.AddDate(0, -14, 0),
			LastUpdated:        now.AddDate(0, 0, -2),
			Regions:            []string{"US", "CA"},
			Examples: []string{
				"URGENT: Your Social Security number has been suspended due to suspicious activity.",
			},
			PreventionTips: []string{
				"Government agencies never suspend benefits by phone or text.",
				"Hang up and call the agency's published number directly.",
			},
		},
		{
			ID:          "tech-support-refund",
			Title:       "Tech Support Refund Scam",
			Description: "Fake refund notices for antivirus or support subscriptions lure targets into granting remote access so the scammer can drain accounts.",
			RiskLevel:   models.RiskLevelHigh,
			Keywords:    []string{"refund", "subscription", "antivirus", "microsoft", "remote access"},
			Tactics:     []string{"remote access", "urgency creation", "payment redirection"},
			TargetDemographics: []string{"seniors"},
			ReportedCases:      9650,
			FirstSeen:          now.AddDate(0, -20, 0),
			LastUpdated:        now.AddDate(0, 0, -9),
			Regions:            []string{"US", "UK", "AU"},
			PreventionTips: []string{
				"Never install remote-access software at a caller's request.",
			},
		},
		{
			ID:          "crypto-investment-guarantee",
			Title:       "Guaranteed-Return Crypto Investment Scheme",
			Description: "Social media ads and group chats promise guaranteed daily returns on cryptocurrency deposits, then block withdrawals.",
			RiskLevel:   models.RiskLevelHigh,
			Keywords:    []string{"investment", "crypto", "bitcoin", "guaranteed", "returns"},
			Tactics:     []string{"guaranteed returns", "urgency creation", "payment redirection"},
			TargetDemographics: []string{"young adults"},
			ReportedCases:      12700,
			FirstSeen:          now.AddDate(0, -10, 0),
			LastUpdated:        now.AddDate(0, 0, -4),
			Regions:            []string{"US", "EU", "SG"},
		},
		{
			ID:          "romance-military",
			Title:       "Overseas Military Romance Scam",
			Description: "Long-con romance profiles claiming overseas deployment build trust for weeks before urgent money requests begin.",
			RiskLevel:   models.RiskLevelMedium,
			Keywords:    []string{"deployed", "overseas", "soulmate", "wire transfer", "emergency"},
			Tactics:     []string{"emotional manipulation", "payment redirection"},
			TargetDemographics: []string{"widowed", "divorced"},
			ReportedCases:      5300,
			FirstSeen:          now.AddDate(0, -30, 0),
			LastUpdated:        now.AddDate(0, 0, -21),
			Regions:            []string{"US", "UK"},
		},
		{
			ID:          "delivery-fee-smishing",
			Title:       "Package Delivery Fee Smishing",
			Description: "Mass SMS campaigns claim a package is held pending a small customs or redelivery fee, harvesting card details on a fake carrier site.",
			RiskLevel:   models.RiskLevelHigh,
			Keywords:    []string{"package", "delivery", "customs", "tracking", "redelivery"},
			Tactics:     []string{"delivery pretext", "urgency creation", "verification request"},
			ReportedCases:      22100,
			FirstSeen:          now.AddDate(0, -7, 0),
			LastUpdated:        now.AddDate(0, 0, -1),
			Regions:            []string{"US", "UK", "EU"},
		},
		{
			ID:          "prize-advance-fee",
			Title:       "Lottery Prize Advance-Fee Scam",
			Description: "Winner notifications for lotteries the target never entered, requiring a processing fee before the prize can be released.",
			RiskLevel:   models.RiskLevelMedium,
			Keywords:    []string{"winner", "lottery", "prize", "claim", "processing fee"},
			Tactics:     []string{"advance fee", "urgency creation"},
			TargetDemographics: []string{"seniors"},
			ReportedCases:      4100,
			FirstSeen:          now.AddDate(0, -26, 0),
			LastUpdated:        now.AddDate(0, 0, -30),
			Regions:            []string{"US"},
		},
	}
}

// TrendCatalog holds the known scam trends. Trends are seeded at
// construction and mutated only by ApplyUpdate, atomically per trend.
type TrendCatalog struct {
	mu     sync.RWMutex
	trends map[string]*models.ScamTrend
	deltas map[string]models.TrendDelta
	logger *logger.Logger
}

// NewTrendCatalog builds a catalog from the given trends, or the seed
// set when trends is nil
func NewTrendCatalog(trends []*models.ScamTrend, log *logger.Logger) *TrendCatalog {
	if trends == nil {
		trends = SeedTrends()
	}
	byID := make(map[string]*models.ScamTrend, len(trends))
	for _, t := range trends {
		byID[t.ID] = t
	}
	return &TrendCatalog{
		trends: byID,
		deltas: make(map[string]models.TrendDelta),
		logger: log.WithComponent("trend-catalog"),
	}
}

// List returns copies of all trends sorted by reported cases descending
func (c *TrendCatalog) List() []*models.ScamTrend {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*models.ScamTrend, 0, len(c.trends))
	for _, t := range c.trends {
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReportedCases > out[j].ReportedCases
	})
	return out
}

// Get returns a copy of one trend by ID
func (c *TrendCatalog) Get(id string) (*models.ScamTrend, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.trends[id]
	if !ok {
		return nil, false
	}
	copied := *t
	return &copied, true
}

// Search returns trends whose title, description, keywords or tactics
// contain the query, case-insensitively
func (c *TrendCatalog) Search(query string) []*models.ScamTrend {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*models.ScamTrend
	for _, t := range c.trends {
		if c.matchesQuery(t, query) {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReportedCases > out[j].ReportedCases
	})
	return out
}

func (c *TrendCatalog) matchesQuery(t *models.ScamTrend, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	for _, kw := range t.Keywords {
		if strings.Contains(strings.ToLower(kw), query) {
			return true
		}
	}
	for _, tactic := range t.Tactics {
		if strings.Contains(strings.ToLower(tactic), query) {
			return true
		}
	}
	return false
}

// ApplyUpdate applies one external update event atomically to its trend.
// Events for unknown trends are rejected with ErrTrendNotFound; callers
// log and drop them.
func (c *TrendCatalog) ApplyUpdate(event *models.TrendUpdateEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.trends[event.TrendID]
	if !ok {
		return ErrTrendNotFound
	}

	var addedTactics []string
	for _, tactic := range event.NewTactics {
		if !containsString(t.Tactics, tactic) {
			t.Tactics = append(t.Tactics, tactic)
			addedTactics = append(addedTactics, tactic)
		}
	}
	for _, region := range event.Regions {
		if !containsString(t.Regions, region) {
			t.Regions = append(t.Regions, region)
		}
	}
	t.ReportedCases += event.NewCases

	when := event.Timestamp
	if when.IsZero() {
		when = time.Now().UTC()
	}
	t.LastUpdated = when

	c.deltas[t.ID] = models.TrendDelta{
		CasesAdded: event.NewCases,
		NewTactics: addedTactics,
		AppliedAt:  when,
	}

	c.logger.Info().
		Str("trend_id", t.ID).
		Int("new_cases", event.NewCases).
		Int("new_tactics", len(addedTactics)).
		Msg("trend update applied")
	return nil
}

// LastDelta returns what the most recent update changed for a trend
func (c *TrendCatalog) LastDelta(id string) (models.TrendDelta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	delta, ok := c.deltas[id]
	return delta, ok
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// TrendMatcher correlates input text with cataloged trends
type TrendMatcher struct {
	catalog *TrendCatalog
	logger  *logger.Logger
}

// NewTrendMatcher creates a matcher over the given catalog
func NewTrendMatcher(catalog *TrendCatalog, log *logger.Logger) *TrendMatcher {
	return &TrendMatcher{
		catalog: catalog,
		logger:  log.WithComponent("trend-matcher"),
	}
}

// Match scores text against every cataloged trend. Keyword hits count
// double; each tactic counts once when any of its example phrasings
// appears. Trends scoring at least the threshold are returned sorted by
// reported cases descending, surfacing the most widely reported campaign
// first regardless of textual match strength.
func (m *TrendMatcher) Match(text string) []models.TrendMatch {
	lowered := strings.ToLower(text)
	if strings.TrimSpace(lowered) == "" {
		return nil
	}

	var matches []models.TrendMatch
	for _, trend := range m.catalog.List() {
		var matchedKeywords []string
		for _, kw := range trend.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				matchedKeywords = append(matchedKeywords, kw)
			}
		}

		var matchedTactics []string
		for _, tactic := range trend.Tactics {
			for _, phrase := range tacticPhrases[strings.ToLower(tactic)] {
				if strings.Contains(lowered, phrase) {
					matchedTactics = append(matchedTactics, tactic)
					break
				}
			}
		}

		score := 2*len(matchedKeywords) + len(matchedTactics)
		if score < matchScoreThreshold {
			continue
		}
		matches = append(matches, models.TrendMatch{
			TrendID:         trend.ID,
			Title:           trend.Title,
			MatchScore:      score,
			MatchedKeywords: matchedKeywords,
			MatchedTactics:  matchedTactics,
			ReportedCases:   trend.ReportedCases,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ReportedCases > matches[j].ReportedCases
	})
	return matches
}
