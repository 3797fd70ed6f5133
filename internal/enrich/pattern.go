package enrich

import (
	"context"
	"errors"
	"net"
	"strings"

	"go.uber.org/zap"

	"github.com/sapictureday/leadgen/internal/model"
)

// MXChecker verifies that a domain can receive mail.
type MXChecker interface {
	HasMX(ctx context.Context, domain string) (bool, error)
}

type resolverMXChecker struct {
	resolver *net.Resolver
}

// NewMXChecker returns an MXChecker backed by the system DNS resolver.
func NewMXChecker() MXChecker {
	return resolverMXChecker{resolver: net.DefaultResolver}
}

func (r resolverMXChecker) HasMX(ctx context.Context, domain string) (bool, error) {
	records, err := r.resolver.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return false, nil
		}
		return false, err
	}
	return len(records) > 0, nil
}

// genericGuessLocals are role inboxes guessed when no contact name is
// known. Ordered by how commonly small studios use them.
var genericGuessLocals = []string{"info", "contact", "hello", "office", "studio", "admin"}

// PatternStrategy guesses an address on the lead's own domain when every
// direct source came up empty. Guesses are gated on the domain having MX
// records and are flagged as inferred so outreach can treat them
// accordingly.
type PatternStrategy struct {
	checker MXChecker
}

// NewPatternStrategy creates the inference strategy.
func NewPatternStrategy(checker MXChecker) *PatternStrategy {
	return &PatternStrategy{checker: checker}
}

func (p *PatternStrategy) Name() model.Strategy { return model.StrategyPattern }

func (p *PatternStrategy) Applicable(l *model.Lead, _ *Usage) bool {
	return l.Website != ""
}

func (p *PatternStrategy) Run(ctx context.Context, l *model.Lead, u *Usage) (bool, error) {
	domain := websiteDomain(l.Website)
	if domain == "" || isIgnoredDomain(domain) || isFreeMail(domain) {
		return false, nil
	}

	hasMX, err := p.checker.HasMX(ctx, domain)
	if err != nil {
		// A failed lookup is not proof the domain is dead; assume it
		// can receive mail.
		zap.L().Debug("mx lookup failed", zap.String("domain", domain), zap.Error(err))
	} else if !hasMX {
		return false, nil
	}

	candidates := patternCandidates(l, domain)
	if len(candidates) == 0 {
		return false, nil
	}

	l.Email = candidates[0]
	l.EmailConfidence = model.EmailConfidenceInferred
	u.Inferred++
	return true, nil
}

// patternCandidates builds guesses in priority order: common personal
// layouts when a contact name is known, then role inboxes.
func patternCandidates(l *model.Lead, domain string) []string {
	var candidates []string

	first, last := splitContactName(l.ContactName)
	if first != "" {
		candidates = append(candidates, first+"@"+domain)
		if last != "" {
			candidates = append(candidates,
				first+"."+last+"@"+domain,
				first[:1]+last+"@"+domain,
				first+last[:1]+"@"+domain,
				first+"_"+last+"@"+domain,
			)
		}
	}

	for _, g := range genericGuessLocals {
		candidates = append(candidates, g+"@"+domain)
	}
	return candidates
}

func splitContactName(name string) (first, last string) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	if len(fields) == 0 {
		return "", ""
	}
	first = fields[0]
	if len(fields) > 1 {
		last = fields[len(fields)-1]
	}
	return first, last
}
