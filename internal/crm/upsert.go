package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/pkg/bigin"
)

// Outcome classifies what happened to one lead during upsert.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeError     Outcome = "error"
	OutcomeSimulated Outcome = "simulated"
)

// Result is the per-lead upsert outcome.
type Result struct {
	Lead     *model.Lead
	Outcome  Outcome
	RecordID string
	Payload  map[string]any
	Err      error
}

// Summary aggregates outcomes across a batch.
type Summary struct {
	Created    int
	Duplicates int
	Errors     int
	Simulated  int
}

// Upserter writes leads to the CRM as contacts. In simulate mode every
// payload is built and returned but nothing is sent.
type Upserter struct {
	client     bigin.Client
	index      *DuplicateIndex
	simulate   bool
	writeDelay time.Duration
}

// NewUpserter creates an Upserter. The index must already be built.
func NewUpserter(client bigin.Client, index *DuplicateIndex, simulate bool) *Upserter {
	return &Upserter{
		client:     client,
		index:      index,
		simulate:   simulate,
		writeDelay: 500 * time.Millisecond,
	}
}

// WithWriteDelay overrides the pacing between live create calls.
func (u *Upserter) WithWriteDelay(d time.Duration) *Upserter {
	u.writeDelay = d
	return u
}

// UpsertAll processes leads in order. Duplicates are detected against the
// index, which is updated after each successful create so repeats within
// the batch also match. A per-lead failure is recorded and the batch
// continues.
func (u *Upserter) UpsertAll(ctx context.Context, leads []*model.Lead) ([]Result, Summary) {
	results := make([]Result, 0, len(leads))
	var summary Summary

	for i, lead := range leads {
		if ctx.Err() != nil {
			break
		}

		res := u.upsertOne(ctx, lead)
		results = append(results, res)

		switch res.Outcome {
		case OutcomeCreated:
			summary.Created++
		case OutcomeDuplicate:
			summary.Duplicates++
		case OutcomeError:
			summary.Errors++
			zap.L().Warn("crm create failed", zap.String("name", lead.Name), zap.Error(res.Err))
		case OutcomeSimulated:
			summary.Simulated++
		}

		if !u.simulate && res.Outcome != OutcomeDuplicate && i < len(leads)-1 {
			sleepCtx(ctx, u.writeDelay)
		}
	}

	zap.L().Info("crm upsert complete",
		zap.Int("created", summary.Created),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("errors", summary.Errors),
		zap.Int("simulated", summary.Simulated),
	)
	return results, summary
}

func (u *Upserter) upsertOne(ctx context.Context, lead *model.Lead) Result {
	if id, exists := u.index.Lookup(lead.Name); exists {
		return Result{Lead: lead, Outcome: OutcomeDuplicate, RecordID: id}
	}

	payload := BuildPayload(lead)
	if u.simulate {
		return Result{Lead: lead, Outcome: OutcomeSimulated, Payload: payload}
	}

	rec, err := u.client.CreateContact(ctx, payload)
	if err != nil {
		return Result{Lead: lead, Outcome: OutcomeError, Payload: payload, Err: err}
	}
	if !rec.Success() {
		return Result{
			Lead:    lead,
			Outcome: OutcomeError,
			Payload: payload,
			Err:     eris.Errorf("crm: create rejected: %s (%s)", rec.Message, rec.Code),
		}
	}

	u.index.Add(lead.Name, rec.Details.ID)
	return Result{Lead: lead, Outcome: OutcomeCreated, RecordID: rec.Details.ID, Payload: payload}
}

// BuildPayload maps a lead onto Bigin contact fields. The contact name is
// split first token / remainder; with no contact the business name fills
// the mandatory Last_Name field.
func BuildPayload(lead *model.Lead) map[string]any {
	firstName, lastName := "", lead.Name
	if lead.ContactName != "" {
		parts := strings.Fields(lead.ContactName)
		firstName = parts[0]
		if len(parts) > 1 {
			lastName = strings.Join(parts[1:], " ")
		} else {
			lastName = lead.Name
		}
	}

	payload := map[string]any{
		"First_Name":   firstName,
		"Last_Name":    lastName,
		"Company_Name": lead.Name,
		"Lead_Source":  "Lead Generator",
		"Description":  buildDescription(lead),

		"Enriched_Google":         lead.Enrichment.Attempted(model.StrategyGoogle),
		"Enriched_Website_Scrape": lead.Enrichment.Attempted(model.StrategyWebsiteScrape),
		"Enriched_Hunter":         lead.Enrichment.Attempted(model.StrategyHunter),
		"Enriched_Apollo":         lead.Enrichment.Attempted(model.StrategyApollo),
		"Enriched_Pattern":        lead.Enrichment.Attempted(model.StrategyPattern),
	}

	if lead.Phone != "" {
		payload["Phone"] = lead.Phone
	}
	if lead.Email != "" {
		payload["Email"] = lead.Email
	}
	if lead.Website != "" {
		payload["Website"] = lead.Website
	}
	if lead.Address != "" {
		payload["Mailing_Street"] = lead.Address
	}
	if lead.ContactTitle != "" {
		payload["Title"] = lead.ContactTitle
	}

	return payload
}

func buildDescription(lead *model.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s | Lead Score: %d", lead.Category, lead.LeadScore)
	if lead.Rating > 0 {
		fmt.Fprintf(&b, " | Rating: %.1f (%d reviews)", lead.Rating, lead.TotalRatings)
	}
	if lead.EmailConfidence == model.EmailConfidenceInferred {
		b.WriteString(" | Email inferred, verify before outreach")
	}
	b.WriteString(" | Source: automated lead generation")
	return b.String()
}
