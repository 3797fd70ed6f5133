package crm

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/pkg/bigin"
)

func builtIndex(t *testing.T, stub *stubBigin) *DuplicateIndex {
	t.Helper()
	idx := NewDuplicateIndex(stub).WithPageDelay(0)
	require.NoError(t, idx.Build(context.Background()))
	return idx
}

func TestUpsertAll_CreatesNewLead(t *testing.T) {
	t.Parallel()

	stub := &stubBigin{
		createRes: &bigin.RecordResult{Code: bigin.CodeSuccess, Details: bigin.RecordDetails{ID: "500"}},
	}
	idx := builtIndex(t, stub)

	lead := &model.Lead{Name: "Starlight Dance", Email: "maria@starlight.example"}
	u := NewUpserter(stub, idx, false).WithWriteDelay(0)

	results, summary := u.UpsertAll(context.Background(), []*model.Lead{lead})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeCreated, results[0].Outcome)
	assert.Equal(t, "500", results[0].RecordID)
	assert.Equal(t, 1, summary.Created)
}

func TestUpsertAll_SameNameTwiceInBatch(t *testing.T) {
	t.Parallel()

	stub := &stubBigin{
		createRes: &bigin.RecordResult{Code: bigin.CodeSuccess, Details: bigin.RecordDetails{ID: "500"}},
	}
	idx := builtIndex(t, stub)

	leads := []*model.Lead{
		{Name: "Starlight Dance"},
		{Name: "STARLIGHT DANCE"},
	}
	u := NewUpserter(stub, idx, false).WithWriteDelay(0)

	results, summary := u.UpsertAll(context.Background(), leads)

	require.Len(t, results, 2)
	assert.Equal(t, OutcomeCreated, results[0].Outcome)
	assert.Equal(t, OutcomeDuplicate, results[1].Outcome)
	assert.Equal(t, "500", results[1].RecordID)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Len(t, stub.createCalls, 1)
}

func TestUpsertAll_ExistingContactIsDuplicate(t *testing.T) {
	t.Parallel()

	stub := &stubBigin{pages: []*bigin.ListContactsResponse{
		{Data: []bigin.Contact{{ID: "7", CompanyName: "Starlight Dance"}}},
	}}
	idx := builtIndex(t, stub)

	u := NewUpserter(stub, idx, false).WithWriteDelay(0)
	results, summary := u.UpsertAll(context.Background(), []*model.Lead{{Name: "starlight dance"}})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeDuplicate, results[0].Outcome)
	assert.Equal(t, "7", results[0].RecordID)
	assert.Zero(t, summary.Created)
	assert.Empty(t, stub.createCalls)
}

func TestUpsertAll_SimulateBuildsPayloadWithoutNetwork(t *testing.T) {
	t.Parallel()

	stub := &stubBigin{}
	idx := builtIndex(t, stub)

	lead := &model.Lead{
		Name:     "Starlight Dance",
		Email:    "maria@starlight.example",
		Category: model.CategoryDanceStudio,
	}
	u := NewUpserter(stub, idx, true)

	results, summary := u.UpsertAll(context.Background(), []*model.Lead{lead})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeSimulated, results[0].Outcome)
	assert.Equal(t, "Starlight Dance", results[0].Payload["Company_Name"])
	assert.Equal(t, 1, summary.Simulated)
	assert.Empty(t, stub.createCalls)
}

func TestUpsertAll_RejectedRecord(t *testing.T) {
	t.Parallel()

	stub := &stubBigin{
		createRes: &bigin.RecordResult{Code: "MANDATORY_NOT_FOUND", Message: "Last Name is required"},
	}
	idx := builtIndex(t, stub)

	u := NewUpserter(stub, idx, false).WithWriteDelay(0)
	results, summary := u.UpsertAll(context.Background(), []*model.Lead{{Name: "Broken Lead"}})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeError, results[0].Outcome)
	assert.ErrorContains(t, results[0].Err, "Last Name is required")
	assert.Equal(t, 1, summary.Errors)

	_, ok := idx.Lookup("Broken Lead")
	assert.False(t, ok, "failed creates are not indexed")
}

func TestUpsertAll_TransportErrorContinuesBatch(t *testing.T) {
	t.Parallel()

	stub := &stubBigin{createErr: eris.New("bigin: send request")}
	idx := builtIndex(t, stub)

	u := NewUpserter(stub, idx, false).WithWriteDelay(0)
	results, summary := u.UpsertAll(context.Background(), []*model.Lead{
		{Name: "First"},
		{Name: "Second"},
	})

	require.Len(t, results, 2)
	assert.Equal(t, OutcomeError, results[0].Outcome)
	assert.Equal(t, OutcomeError, results[1].Outcome)
	assert.Equal(t, 2, summary.Errors)
}

func TestBuildPayload_ContactNameSplit(t *testing.T) {
	t.Parallel()

	lead := &model.Lead{
		Name:         "Starlight Dance",
		ContactName:  "Maria Elena Lopez",
		ContactTitle: "Owner",
		Phone:        "(210) 555-0101",
		Email:        "maria@starlight.example",
		Website:      "https://starlight.example",
		Address:      "1 Main St, San Antonio, TX",
	}
	lead.Enrichment.Mark(model.StrategyGoogle, true)
	lead.Enrichment.Mark(model.StrategyHunter, true)

	p := BuildPayload(lead)

	assert.Equal(t, "Maria", p["First_Name"])
	assert.Equal(t, "Elena Lopez", p["Last_Name"])
	assert.Equal(t, "Starlight Dance", p["Company_Name"])
	assert.Equal(t, "Owner", p["Title"])
	assert.Equal(t, "1 Main St, San Antonio, TX", p["Mailing_Street"])
	assert.Equal(t, "Lead Generator", p["Lead_Source"])
	assert.Equal(t, true, p["Enriched_Google"])
	assert.Equal(t, true, p["Enriched_Hunter"])
	assert.Equal(t, false, p["Enriched_Apollo"])
}

func TestBuildPayload_FlagsCoverFailedAttempts(t *testing.T) {
	t.Parallel()

	lead := &model.Lead{Name: "Starlight Dance"}
	lead.Enrichment.Mark(model.StrategyHunter, false)
	lead.Enrichment.Mark(model.StrategyWebsiteScrape, false)

	p := BuildPayload(lead)

	assert.Equal(t, true, p["Enriched_Hunter"], "attempted strategies are flagged even without an email")
	assert.Equal(t, true, p["Enriched_Website_Scrape"])
	assert.Equal(t, false, p["Enriched_Pattern"])
	assert.Equal(t, false, p["Enriched_Apollo"])
}

func TestBuildPayload_BusinessNameFallback(t *testing.T) {
	t.Parallel()

	p := BuildPayload(&model.Lead{Name: "Starlight Dance"})

	assert.Equal(t, "", p["First_Name"])
	assert.Equal(t, "Starlight Dance", p["Last_Name"])
	assert.NotContains(t, p, "Email")
	assert.NotContains(t, p, "Phone")
}

func TestBuildPayload_SingleWordContactName(t *testing.T) {
	t.Parallel()

	p := BuildPayload(&model.Lead{Name: "Starlight Dance", ContactName: "Maria"})

	assert.Equal(t, "Maria", p["First_Name"])
	assert.Equal(t, "Starlight Dance", p["Last_Name"])
}

func TestBuildPayload_DescriptionFlagsInferredEmail(t *testing.T) {
	t.Parallel()

	lead := &model.Lead{
		Name:            "Acme Dance",
		Category:        model.CategoryDanceStudio,
		LeadScore:       85,
		Rating:          4.5,
		TotalRatings:    120,
		Email:           "info@acme.test",
		EmailConfidence: model.EmailConfidenceInferred,
	}

	desc, ok := BuildPayload(lead)["Description"].(string)
	require.True(t, ok)
	assert.Contains(t, desc, "Category: dance_studio")
	assert.Contains(t, desc, "Lead Score: 85")
	assert.Contains(t, desc, "Rating: 4.5 (120 reviews)")
	assert.Contains(t, desc, "inferred")
}
