package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/pkg/places"
)

// Searcher discovers leads by running text queries against the place-search
// API, following pagination tokens and deduplicating across queries by
// place ID.
type Searcher struct {
	client   places.Client
	location string
	radiusM  int

	queryDelay time.Duration
	pageDelay  time.Duration
}

// NewSearcher creates a Searcher scoped to one location and radius.
func NewSearcher(client places.Client, location string, radiusM int) *Searcher {
	return &Searcher{
		client:     client,
		location:   location,
		radiusM:    radiusM,
		queryDelay: 500 * time.Millisecond,
		// Continuation tokens need a couple of seconds to become valid.
		pageDelay: 2 * time.Second,
	}
}

// WithDelays overrides the pacing between queries and before page-token
// fetches. Used by tests to keep runs fast.
func (s *Searcher) WithDelays(query, page time.Duration) *Searcher {
	s.queryDelay = query
	s.pageDelay = page
	return s
}

// SearchAll runs every query in order and returns the combined leads.
// Each query is capped at maxPerQuery results; places already seen under an
// earlier query are skipped. A failing query is logged and abandoned without
// aborting the remaining queries.
func (s *Searcher) SearchAll(ctx context.Context, queries []Query, maxPerQuery int) ([]*model.Lead, error) {
	seen := make(map[string]bool)
	var leads []*model.Lead

	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return leads, err
		}

		found := s.searchQuery(ctx, q, maxPerQuery, seen)
		leads = append(leads, found...)

		zap.L().Info("query complete",
			zap.String("query", q.Text),
			zap.String("category", string(q.Category)),
			zap.Int("new_leads", len(found)),
			zap.Int("total_leads", len(leads)),
		)

		if i < len(queries)-1 {
			sleep(ctx, s.queryDelay)
		}
	}

	return leads, nil
}

// searchQuery pages through one text query until the result cap, the last
// page, or an error is reached.
func (s *Searcher) searchQuery(ctx context.Context, q Query, maxResults int, seen map[string]bool) []*model.Lead {
	fullQuery := q.Text + " in " + s.location

	var leads []*model.Lead
	resp, err := s.client.TextSearch(ctx, fullQuery, s.radiusM)
	for {
		if err != nil {
			zap.L().Error("text search failed", zap.String("query", fullQuery), zap.Error(err))
			return leads
		}

		switch resp.Status {
		case places.StatusOK:
		case places.StatusZeroResults:
			return leads
		default:
			zap.L().Error("text search returned error status",
				zap.String("query", fullQuery),
				zap.String("status", resp.Status),
				zap.String("message", resp.ErrorMessage),
			)
			return leads
		}

		for _, p := range resp.Results {
			if len(leads) >= maxResults {
				return leads
			}
			if seen[p.PlaceID] {
				continue
			}
			seen[p.PlaceID] = true
			leads = append(leads, newLead(p, q.Category))
		}

		if resp.NextPageToken == "" || len(leads) >= maxResults {
			return leads
		}

		sleep(ctx, s.pageDelay)
		if ctx.Err() != nil {
			return leads
		}
		resp, err = s.client.TextSearchPage(ctx, resp.NextPageToken)
	}
}

func newLead(p places.Place, category model.Category) *model.Lead {
	l := &model.Lead{
		PlaceID:        p.PlaceID,
		Name:           p.Name,
		Address:        p.FormattedAddress,
		Category:       category,
		Rating:         p.Rating,
		TotalRatings:   p.UserRatingsTotal,
		BusinessStatus: p.BusinessStatus,
		Lat:            p.Geometry.Location.Lat,
		Lng:            p.Geometry.Location.Lng,
	}
	l.Enrichment.Mark(model.StrategyGoogle, true)
	return l
}

// sleep waits for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
