// Package export writes lead batches to CSV for outreach and JSON for
// re-processing.
package export

import (
	"encoding/csv"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sapictureday/leadgen/internal/model"
)

// csvRow flattens a lead for spreadsheet use. Column order matches how the
// sheet is worked: score first, then identity and contact fields.
type csvRow struct {
	LeadScore       int     `csv:"lead_score"`
	Name            string  `csv:"name"`
	Category        string  `csv:"category"`
	Address         string  `csv:"address"`
	Phone           string  `csv:"phone"`
	Email           string  `csv:"email"`
	Website         string  `csv:"website"`
	ContactName     string  `csv:"contact_name"`
	ContactTitle    string  `csv:"contact_title"`
	Rating          float64 `csv:"rating"`
	TotalRatings    int     `csv:"total_ratings"`
	BusinessStatus  string  `csv:"business_status"`
	MapsURL         string  `csv:"maps_url"`
	EmailConfidence string  `csv:"email_confidence"`
	EnrichedGoogle  bool    `csv:"enriched_google"`
	EnrichedHunter  bool    `csv:"enriched_hunter"`
	EnrichedApollo  bool    `csv:"enriched_apollo"`
	EnrichedPattern bool    `csv:"enriched_pattern"`
	EnrichedScrape  bool    `csv:"enriched_website_scrape"`
}

func toRow(l *model.Lead) csvRow {
	return csvRow{
		LeadScore:       l.LeadScore,
		Name:            l.Name,
		Category:        string(l.Category),
		Address:         l.Address,
		Phone:           l.Phone,
		Email:           l.Email,
		Website:         l.Website,
		ContactName:     l.ContactName,
		ContactTitle:    l.ContactTitle,
		Rating:          l.Rating,
		TotalRatings:    l.TotalRatings,
		BusinessStatus:  l.BusinessStatus,
		MapsURL:         l.MapsURL,
		EmailConfidence: string(l.EmailConfidence),
		EnrichedGoogle:  l.Enrichment.Attempted(model.StrategyGoogle),
		EnrichedHunter:  l.Enrichment.Attempted(model.StrategyHunter),
		EnrichedApollo:  l.Enrichment.Attempted(model.StrategyApollo),
		EnrichedPattern: l.Enrichment.Attempted(model.StrategyPattern),
		EnrichedScrape:  l.Enrichment.Attempted(model.StrategyWebsiteScrape),
	}
}

// WriteCSV writes leads to path in their current order, header included.
func WriteCSV(path string, leads []*model.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)

	if len(leads) == 0 {
		if err := enc.EncodeHeader(csvRow{}); err != nil {
			return eris.Wrap(err, "export: encode csv header")
		}
	}

	for _, l := range leads {
		if err := enc.Encode(toRow(l)); err != nil {
			return eris.Wrap(err, "export: encode csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return f.Close()
}
