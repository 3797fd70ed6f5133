// Package model holds the lead record and enrichment bookkeeping shared by
// every pipeline stage.
package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Strategy identifies one enrichment source.
type Strategy string

const (
	StrategyGoogle        Strategy = "google"
	StrategyWebsiteScrape Strategy = "website_scrape"
	StrategyHunter        Strategy = "hunter"
	StrategyApollo        Strategy = "apollo"
	StrategyPattern       Strategy = "pattern"
)

// Strategies lists all enrichment strategies in cascade order.
var Strategies = []Strategy{
	StrategyGoogle,
	StrategyWebsiteScrape,
	StrategyHunter,
	StrategyApollo,
	StrategyPattern,
}

// Attempt records whether a strategy has run for a lead and whether it
// produced a value. Attempted is set at most once per pass.
type Attempt struct {
	Attempted bool `json:"attempted"`
	Succeeded bool `json:"succeeded"`
}

// EnrichmentStatus is the per-lead record of which strategies have been
// tried. It replaces the loose boolean flags the CRM carries: the booleans
// exported to CSV/CRM are derived from this record.
type EnrichmentStatus struct {
	Google        Attempt `json:"google"`
	WebsiteScrape Attempt `json:"website_scrape"`
	Hunter        Attempt `json:"hunter"`
	Apollo        Attempt `json:"apollo"`
	Pattern       Attempt `json:"pattern"`
}

func (e *EnrichmentStatus) slot(s Strategy) *Attempt {
	switch s {
	case StrategyGoogle:
		return &e.Google
	case StrategyWebsiteScrape:
		return &e.WebsiteScrape
	case StrategyHunter:
		return &e.Hunter
	case StrategyApollo:
		return &e.Apollo
	case StrategyPattern:
		return &e.Pattern
	}
	return nil
}

// Mark records that a strategy has been attempted. Once attempted, a later
// Mark cannot clear the flag; Succeeded upgrades from false to true only.
func (e *EnrichmentStatus) Mark(s Strategy, succeeded bool) {
	a := e.slot(s)
	if a == nil {
		return
	}
	a.Attempted = true
	if succeeded {
		a.Succeeded = true
	}
}

// Attempted reports whether the strategy has already run for this lead.
func (e EnrichmentStatus) Attempted(s Strategy) bool {
	a := e.slot(s)
	return a != nil && a.Attempted
}

// Succeeded reports whether the strategy produced a value for this lead.
func (e EnrichmentStatus) Succeeded(s Strategy) bool {
	a := e.slot(s)
	return a != nil && a.Succeeded
}

// EmailConfidence qualifies how an email was obtained.
type EmailConfidence string

const (
	// EmailConfidenceUnset means the email came from a direct source.
	EmailConfidenceUnset EmailConfidence = ""
	// EmailConfidenceInferred marks a pattern-guessed address that was never
	// observed anywhere, only MX-checked.
	EmailConfidenceInferred EmailConfidence = "inferred"
)

// Category tags which search vertical discovered a lead.
type Category string

const (
	CategoryDanceStudio Category = "dance_studio"
	CategoryDaycare     Category = "daycare"
	CategorySchool      Category = "school"
	CategorySports      Category = "sports"
)

// Categories lists every known category.
var Categories = []Category{CategoryDanceStudio, CategoryDaycare, CategorySchool, CategorySports}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Business statuses as reported by the place-search provider.
const (
	BusinessStatusOperational       = "OPERATIONAL"
	BusinessStatusClosedPermanently = "CLOSED_PERMANENTLY"
)

// Lead is a prospective business record. It is created by the search stage
// and mutated in place by every downstream stage.
type Lead struct {
	PlaceID         string           `json:"place_id"`
	Name            string           `json:"name"`
	Address         string           `json:"address,omitempty"`
	Phone           string           `json:"phone,omitempty"`
	Website         string           `json:"website,omitempty"`
	Email           string           `json:"email,omitempty"`
	ContactName     string           `json:"contact_name,omitempty"`
	ContactTitle    string           `json:"contact_title,omitempty"`
	EmailConfidence EmailConfidence  `json:"email_confidence,omitempty"`
	Category        Category         `json:"category"`
	Rating          float64          `json:"rating,omitempty"`
	TotalRatings    int              `json:"total_ratings"`
	BusinessStatus  string           `json:"business_status,omitempty"`
	Lat             float64          `json:"lat,omitempty"`
	Lng             float64          `json:"lng,omitempty"`
	MapsURL         string           `json:"maps_url,omitempty"`
	LeadScore       int              `json:"lead_score"`
	Enrichment      EnrichmentStatus `json:"enrichment"`

	// cachedEmailPattern holds the organization-level address pattern
	// reported by the domain-search provider. Unexported so it never
	// reaches persisted output.
	cachedEmailPattern string
}

// SetCachedEmailPattern stores the provider-reported address pattern for
// this lead. The value is process-internal and excluded from serialization.
func (l *Lead) SetCachedEmailPattern(p string) { l.cachedEmailPattern = p }

// CachedEmailPattern returns the stored address pattern, if any.
func (l *Lead) CachedEmailPattern() string { return l.cachedEmailPattern }

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName canonicalizes a business name for duplicate matching:
// trimmed, lower-cased, diacritics folded. "Café Dance" and "cafe dance"
// produce the same key.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		return name
	}
	return folded
}
