// Package crm pushes scored leads into the Bigin CRM, guarding against
// duplicate contacts by normalized business name.
package crm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/internal/resilience"
	"github.com/sapictureday/leadgen/pkg/bigin"
)

const indexPageSize = 200

// DuplicateIndex maps normalized company names to existing CRM record IDs.
// It is built once per run and kept current as new records are created, so
// a batch containing the same business twice produces one create and one
// duplicate.
type DuplicateIndex struct {
	client    bigin.Client
	byName    map[string]string
	pageDelay time.Duration
}

// NewDuplicateIndex creates an empty index. Call Build before lookups.
func NewDuplicateIndex(client bigin.Client) *DuplicateIndex {
	return &DuplicateIndex{
		client:    client,
		byName:    make(map[string]string),
		pageDelay: 300 * time.Millisecond,
	}
}

// WithPageDelay overrides the pacing between listing pages.
func (d *DuplicateIndex) WithPageDelay(delay time.Duration) *DuplicateIndex {
	d.pageDelay = delay
	return d
}

// Build pages through every existing contact and indexes them by
// normalized company name.
func (d *DuplicateIndex) Build(ctx context.Context) error {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("bigin", "list contacts")

	for page := 1; ; page++ {
		resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*bigin.ListContactsResponse, error) {
			return d.client.ListContacts(ctx, page, indexPageSize)
		})
		if err != nil {
			return eris.Wrapf(err, "crm: list contacts page %d", page)
		}

		for _, c := range resp.Data {
			if c.CompanyName == "" {
				continue
			}
			key := model.NormalizeName(c.CompanyName)
			if _, exists := d.byName[key]; !exists {
				d.byName[key] = c.ID
			}
		}

		if !resp.Info.MoreRecords {
			break
		}
		sleepCtx(ctx, d.pageDelay)
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	zap.L().Info("duplicate index built", zap.Int("existing_contacts", len(d.byName)))
	return nil
}

// Refresh discards the index and rebuilds it from the CRM.
func (d *DuplicateIndex) Refresh(ctx context.Context) error {
	d.byName = make(map[string]string)
	return d.Build(ctx)
}

// Lookup returns the record ID for a business name, if one exists.
func (d *DuplicateIndex) Lookup(name string) (string, bool) {
	id, ok := d.byName[model.NormalizeName(name)]
	return id, ok
}

// Add records a newly created contact so later leads in the same batch
// match against it.
func (d *DuplicateIndex) Add(name, recordID string) {
	d.byName[model.NormalizeName(name)] = recordID
}

// Size returns the number of indexed companies.
func (d *DuplicateIndex) Size() int { return len(d.byName) }

func sleepCtx(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
