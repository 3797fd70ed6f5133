package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/internal/resilience"
	"github.com/sapictureday/leadgen/pkg/places"
)

// DetailEnricher fills in phone, website, and maps URL for each lead via
// the place-details endpoint.
type DetailEnricher struct {
	client places.Client
	delay  time.Duration
}

// NewDetailEnricher creates a DetailEnricher with the default pacing
// between detail requests.
func NewDetailEnricher(client places.Client) *DetailEnricher {
	return &DetailEnricher{client: client, delay: 300 * time.Millisecond}
}

// WithDelay overrides the pacing between detail requests.
func (d *DetailEnricher) WithDelay(delay time.Duration) *DetailEnricher {
	d.delay = delay
	return d
}

// EnrichAll fetches details for every lead in place. A lead whose detail
// fetch fails after retries keeps its search-stage fields and the run
// continues.
func (d *DetailEnricher) EnrichAll(ctx context.Context, leads []*model.Lead) error {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("places", "details")

	for i, lead := range leads {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*places.DetailsResponse, error) {
			return d.client.Details(ctx, lead.PlaceID)
		})
		if err != nil {
			zap.L().Warn("details fetch failed",
				zap.String("name", lead.Name),
				zap.String("place_id", lead.PlaceID),
				zap.Error(err),
			)
		} else if resp.Status != places.StatusOK {
			zap.L().Warn("details returned error status",
				zap.String("name", lead.Name),
				zap.String("status", resp.Status),
			)
		} else {
			if resp.Result.FormattedPhoneNumber != "" {
				lead.Phone = model.FormatPhone(resp.Result.FormattedPhoneNumber)
			}
			if resp.Result.Website != "" {
				lead.Website = resp.Result.Website
			}
			if resp.Result.URL != "" {
				lead.MapsURL = resp.Result.URL
			}
		}

		if (i+1)%25 == 0 {
			zap.L().Info("detail enrichment progress", zap.Int("done", i+1), zap.Int("total", len(leads)))
		}

		if i < len(leads)-1 {
			sleep(ctx, d.delay)
		}
	}

	return nil
}
