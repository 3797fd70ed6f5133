package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/pkg/apollo"
)

// decisionMakerTitles are the job titles searched for at each organization.
var decisionMakerTitles = []string{"owner", "director", "principal", "manager", "founder"}

// ApolloStrategy resolves the business to an organization record and looks
// up a decision maker's address there. As a side effect it backfills
// website and phone when the place data lacked them.
type ApolloStrategy struct {
	client   apollo.Client
	location string
	delay    time.Duration
}

// NewApolloStrategy creates the people-search strategy scoped to one
// geography.
func NewApolloStrategy(client apollo.Client, location string) *ApolloStrategy {
	return &ApolloStrategy{client: client, location: location, delay: 500 * time.Millisecond}
}

// WithDelay overrides the pacing after the call pair.
func (a *ApolloStrategy) WithDelay(d time.Duration) *ApolloStrategy {
	a.delay = d
	return a
}

func (a *ApolloStrategy) Name() model.Strategy { return model.StrategyApollo }

func (a *ApolloStrategy) Applicable(_ *model.Lead, _ *Usage) bool { return true }

func (a *ApolloStrategy) Run(ctx context.Context, l *model.Lead, u *Usage) (bool, error) {
	u.ApolloCalls++
	orgs, err := a.client.SearchOrganizations(ctx, l.Name, a.location)
	if err != nil {
		sleepCtx(ctx, a.delay)
		return false, eris.Wrap(err, "enrich: organization search")
	}
	if len(orgs.Organizations) == 0 {
		sleepCtx(ctx, a.delay)
		return false, nil
	}

	org := orgs.Organizations[0]
	if l.Website == "" && org.WebsiteURL != "" {
		l.Website = org.WebsiteURL
	}
	if l.Phone == "" && org.Phone != "" {
		l.Phone = model.FormatPhone(org.Phone)
	}

	u.ApolloCalls++
	people, err := a.client.SearchPeople(ctx, org.ID, decisionMakerTitles)
	sleepCtx(ctx, a.delay)
	if err != nil {
		return false, eris.Wrap(err, "enrich: people search")
	}

	for _, p := range people.People {
		if p.Email == "" || rankEmail(p.Email) == rankUnusable {
			continue
		}
		l.Email = strings.ToLower(p.Email)
		if l.ContactName == "" {
			l.ContactName = strings.TrimSpace(p.FirstName + " " + p.LastName)
			l.ContactTitle = p.Title
		}
		return true, nil
	}

	return false, nil
}
