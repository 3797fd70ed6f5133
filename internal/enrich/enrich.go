package enrich

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sapictureday/leadgen/internal/model"
)

// Usage tracks per-run consumption of metered enrichment sources.
type Usage struct {
	HunterCalls int
	HunterLimit int
	ApolloCalls int
	EmailsFound int
	Scraped     int
	Inferred    int
}

// HunterExhausted reports whether the domain-search quota for this run
// has been spent.
func (u Usage) HunterExhausted() bool {
	return u.HunterLimit > 0 && u.HunterCalls >= u.HunterLimit
}

// HunterUsage renders domain-search consumption against its ceiling,
// e.g. "3/25". With no ceiling configured only the count is shown.
func (u Usage) HunterUsage() string {
	if u.HunterLimit <= 0 {
		return strconv.Itoa(u.HunterCalls)
	}
	return fmt.Sprintf("%d/%d", u.HunterCalls, u.HunterLimit)
}

// Strategy is one email-enrichment source. Strategies run in cascade order
// and the first one that produces an address short-circuits the rest.
type Strategy interface {
	Name() model.Strategy
	// Applicable reports whether the strategy can run for this lead given
	// current usage. Inapplicable strategies are not marked as attempted.
	Applicable(l *model.Lead, u *Usage) bool
	// Run attempts enrichment, mutating the lead on success. It returns
	// whether an email was produced. Errors are logged and treated as a
	// failed attempt.
	Run(ctx context.Context, l *model.Lead, u *Usage) (bool, error)
}

// Enricher drives the strategy cascade over a batch of leads.
type Enricher struct {
	strategies []Strategy
	usage      Usage
}

// New creates an Enricher running the given strategies in order.
// hunterLimit caps domain-search calls for the run; zero means unlimited.
func New(hunterLimit int, strategies ...Strategy) *Enricher {
	return &Enricher{
		strategies: strategies,
		usage:      Usage{HunterLimit: hunterLimit},
	}
}

// Usage returns the metered-source counters accumulated so far.
func (e *Enricher) Usage() Usage { return e.usage }

// EnrichAll runs the cascade for each lead. Leads that already carry an
// email are skipped unless force is set. Each strategy is marked attempted
// at most once per lead.
func (e *Enricher) EnrichAll(ctx context.Context, leads []*model.Lead, force bool) error {
	for i, lead := range leads {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lead.Email != "" && !force {
			continue
		}

		e.enrichLead(ctx, lead, force)

		if (i+1)%10 == 0 {
			zap.L().Info("enrichment progress",
				zap.Int("done", i+1),
				zap.Int("total", len(leads)),
				zap.Int("emails_found", e.usage.EmailsFound),
			)
		}
	}

	e.logReport(len(leads))
	return nil
}

func (e *Enricher) enrichLead(ctx context.Context, lead *model.Lead, force bool) {
	start := time.Now()
	for _, st := range e.strategies {
		if lead.Email != "" {
			return
		}
		if lead.Enrichment.Attempted(st.Name()) && !force {
			continue
		}
		if !st.Applicable(lead, &e.usage) {
			continue
		}

		found, err := st.Run(ctx, lead, &e.usage)
		if err != nil {
			zap.L().Warn("enrichment strategy failed",
				zap.String("strategy", string(st.Name())),
				zap.String("name", lead.Name),
				zap.Error(err),
			)
			found = false
		}
		lead.Enrichment.Mark(st.Name(), found)

		if found {
			e.usage.EmailsFound++
			zap.L().Debug("email found",
				zap.String("strategy", string(st.Name())),
				zap.String("name", lead.Name),
				zap.String("email", lead.Email),
				zap.Duration("elapsed", time.Since(start)),
			)
			return
		}
	}
}

func (e *Enricher) logReport(total int) {
	zap.L().Info("enrichment complete",
		zap.Int("leads", total),
		zap.Int("emails_found", e.usage.EmailsFound),
		zap.Int("scraped", e.usage.Scraped),
		zap.String("hunter_calls", e.usage.HunterUsage()),
		zap.Int("apollo_calls", e.usage.ApolloCalls),
		zap.Int("inferred", e.usage.Inferred),
	)
}
