package enrich

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/pkg/hunter"
)

type stubHunter struct {
	resp    *hunter.DomainSearchResponse
	err     error
	domains []string
}

func (s *stubHunter) DomainSearch(_ context.Context, domain string) (*hunter.DomainSearchResponse, error) {
	s.domains = append(s.domains, domain)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestHunterStrategy_PicksHighestConfidence(t *testing.T) {
	t.Parallel()

	stub := &stubHunter{resp: &hunter.DomainSearchResponse{
		Data: hunter.DomainSearchData{
			Domain:  "starlight.example",
			Pattern: "{first}",
			Emails: []hunter.Email{
				{Value: "frontdesk@starlight.example", Confidence: 60},
				{Value: "Maria@starlight.example", Confidence: 92, FirstName: "Maria", LastName: "Lopez", Position: "Owner"},
			},
		},
	}}

	lead := &model.Lead{Name: "Starlight Dance", Website: "https://www.starlight.example/home"}
	var usage Usage
	h := NewHunterStrategy(stub).WithDelay(0)

	found, err := h.Run(context.Background(), lead, &usage)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "maria@starlight.example", lead.Email)
	assert.Equal(t, "Maria Lopez", lead.ContactName)
	assert.Equal(t, "Owner", lead.ContactTitle)
	assert.Equal(t, "{first}", lead.CachedEmailPattern())
	assert.Equal(t, []string{"starlight.example"}, stub.domains)
	assert.Equal(t, 1, usage.HunterCalls)
}

func TestHunterStrategy_CachesPatternEvenWithoutEmails(t *testing.T) {
	t.Parallel()

	stub := &stubHunter{resp: &hunter.DomainSearchResponse{
		Data: hunter.DomainSearchData{Pattern: "{f}{last}"},
	}}

	lead := &model.Lead{Website: "https://starlight.example"}
	var usage Usage
	h := NewHunterStrategy(stub).WithDelay(0)

	found, err := h.Run(context.Background(), lead, &usage)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "{f}{last}", lead.CachedEmailPattern())
}

func TestHunterStrategy_SkipsIgnoredDomain(t *testing.T) {
	t.Parallel()

	stub := &stubHunter{}
	lead := &model.Lead{Website: "https://mysite.wix.com/studio"}
	var usage Usage
	h := NewHunterStrategy(stub).WithDelay(0)

	found, err := h.Run(context.Background(), lead, &usage)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, stub.domains)
	assert.Zero(t, usage.HunterCalls)
}

func TestHunterStrategy_APIErrorCountsAgainstQuota(t *testing.T) {
	t.Parallel()

	stub := &stubHunter{err: eris.New("hunter: unexpected status 429")}
	lead := &model.Lead{Website: "https://starlight.example"}
	var usage Usage
	h := NewHunterStrategy(stub).WithDelay(0)

	found, err := h.Run(context.Background(), lead, &usage)

	require.Error(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, usage.HunterCalls)
}

func TestHunterStrategy_Applicable(t *testing.T) {
	t.Parallel()

	h := NewHunterStrategy(&stubHunter{})
	withSite := &model.Lead{Website: "https://x.example"}

	assert.True(t, h.Applicable(withSite, &Usage{HunterLimit: 25}))
	assert.False(t, h.Applicable(&model.Lead{}, &Usage{HunterLimit: 25}))
	assert.False(t, h.Applicable(withSite, &Usage{HunterCalls: 25, HunterLimit: 25}))
	assert.True(t, h.Applicable(withSite, &Usage{HunterCalls: 100}))
}
