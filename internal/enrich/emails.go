// Package enrich implements the email-enrichment cascade: website scrape,
// domain search, people search, and pattern inference, tried in order until
// one produces an address.
package enrich

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// ignoredDomains are platform and infrastructure domains that show up in
// page source but never belong to the business itself.
var ignoredDomains = []string{
	"wix.com",
	"wordpress.com",
	"squarespace.com",
	"godaddy.com",
	"example.com",
	"email.com",
	"sentry.io",
	"googleapis.com",
}

// freeMailDomains are consumer providers. Addresses there are usable but
// rank below anything on the business's own domain.
var freeMailDomains = []string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"aol.com",
}

// genericLocalParts are role inboxes. On a business domain they rank below
// a personal address.
var genericLocalParts = []string{"info", "contact", "hello", "admin", "office", "support"}

// Email quality ranks, higher is better.
const (
	rankUnusable         = 0
	rankFreeMail         = 1
	rankBusinessGeneric  = 2
	rankBusinessPersonal = 3
)

func domainOf(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

func localPartOf(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[:at])
}

func isIgnoredDomain(domain string) bool {
	for _, d := range ignoredDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

func isFreeMail(domain string) bool {
	for _, d := range freeMailDomains {
		if domain == d {
			return true
		}
	}
	return false
}

func isGenericLocal(local string) bool {
	for _, g := range genericLocalParts {
		if local == g {
			return true
		}
	}
	return false
}

// rankEmail buckets an address by how likely it reaches a decision maker.
func rankEmail(email string) int {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return rankUnusable
	}
	domain := domainOf(email)
	if domain == "" || isIgnoredDomain(domain) {
		return rankUnusable
	}
	// Image filenames occasionally match the address pattern.
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"} {
		if strings.HasSuffix(email, ext) {
			return rankUnusable
		}
	}
	if isFreeMail(domain) {
		return rankFreeMail
	}
	if isGenericLocal(localPartOf(email)) {
		return rankBusinessGeneric
	}
	return rankBusinessPersonal
}

// bestEmail returns the highest-ranked usable candidate, preserving first
// occurrence among equals, or "" if none are usable.
func bestEmail(candidates []string) string {
	best := ""
	bestRank := rankUnusable
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if r := rankEmail(c); r > bestRank {
			best, bestRank = c, r
		}
	}
	return best
}

// websiteDomain extracts the bare domain from a website URL, dropping
// scheme, leading www, path, and port.
func websiteDomain(website string) string {
	s := strings.TrimSpace(strings.ToLower(website))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	return s
}
