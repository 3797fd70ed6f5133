package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/pkg/hunter"
)

// HunterStrategy finds addresses through the domain-search API. Calls are
// metered against the run quota because the free tier is small.
type HunterStrategy struct {
	client hunter.Client
	delay  time.Duration
}

// NewHunterStrategy creates the domain-search strategy with default pacing.
func NewHunterStrategy(client hunter.Client) *HunterStrategy {
	return &HunterStrategy{client: client, delay: time.Second}
}

// WithDelay overrides the pacing after each call.
func (h *HunterStrategy) WithDelay(d time.Duration) *HunterStrategy {
	h.delay = d
	return h
}

func (h *HunterStrategy) Name() model.Strategy { return model.StrategyHunter }

func (h *HunterStrategy) Applicable(l *model.Lead, u *Usage) bool {
	return l.Website != "" && !u.HunterExhausted()
}

// Run searches the lead's domain and keeps the highest-confidence usable
// address. The provider's organization-level address pattern, when
// reported, is cached on the lead as an internal field.
func (h *HunterStrategy) Run(ctx context.Context, l *model.Lead, u *Usage) (bool, error) {
	domain := websiteDomain(l.Website)
	if domain == "" || isIgnoredDomain(domain) {
		return false, nil
	}

	u.HunterCalls++
	resp, err := h.client.DomainSearch(ctx, domain)
	sleepCtx(ctx, h.delay)
	if err != nil {
		return false, eris.Wrap(err, "enrich: domain search")
	}

	if resp.Data.Pattern != "" {
		l.SetCachedEmailPattern(resp.Data.Pattern)
	}

	var best *hunter.Email
	for i := range resp.Data.Emails {
		e := &resp.Data.Emails[i]
		if rankEmail(e.Value) == rankUnusable {
			continue
		}
		if best == nil || e.Confidence > best.Confidence {
			best = e
		}
	}
	if best == nil {
		return false, nil
	}

	l.Email = strings.ToLower(best.Value)
	if l.ContactName == "" && best.FirstName != "" {
		l.ContactName = strings.TrimSpace(best.FirstName + " " + best.LastName)
		l.ContactTitle = best.Position
	}
	return true, nil
}
