package enrich

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sapictureday/leadgen/internal/model"
)

var titleCaser = cases.Title(language.English)

// scrapePaths are the pages checked on each site, in order. Contact pages
// carry addresses far more often than homepages.
var scrapePaths = []string{"", "/contact", "/about", "/contact-us", "/about-us"}

var (
	nameThenTitleRe = regexp.MustCompile(`([A-Z][a-z]+(?: [A-Z][a-z]+)+)\s*[,:\-]\s*((?i:owner|director|principal|founder|manager|proprietor))`)
	titleThenNameRe = regexp.MustCompile(`((?i:owner|director|principal|founder|manager|proprietor))\s*[,:\-]?\s*([A-Z][a-z]+(?: [A-Z][a-z]+)+)`)
)

// WebsiteScraper finds email addresses and contact names in a lead's own
// website markup.
type WebsiteScraper struct {
	http  *http.Client
	delay time.Duration
}

// NewWebsiteScraper creates a scraper with default pacing between pages.
func NewWebsiteScraper() *WebsiteScraper {
	return &WebsiteScraper{
		http:  &http.Client{Timeout: 10 * time.Second},
		delay: 500 * time.Millisecond,
	}
}

// WithHTTPClient overrides the default http.Client.
func (s *WebsiteScraper) WithHTTPClient(hc *http.Client) *WebsiteScraper {
	s.http = hc
	return s
}

// WithDelay overrides the pacing between page fetches.
func (s *WebsiteScraper) WithDelay(d time.Duration) *WebsiteScraper {
	s.delay = d
	return s
}

func (s *WebsiteScraper) Name() model.Strategy { return model.StrategyWebsiteScrape }

func (s *WebsiteScraper) Applicable(l *model.Lead, _ *Usage) bool {
	return l.Website != ""
}

// Run fetches the site's likely contact pages and keeps the best-ranked
// address found. A personal address on the business domain stops the page
// walk early.
func (s *WebsiteScraper) Run(ctx context.Context, l *model.Lead, u *Usage) (bool, error) {
	base := strings.TrimRight(l.Website, "/")

	var candidates []string
	var contactName, contactTitle string

	for i, path := range scrapePaths {
		if err := ctx.Err(); err != nil {
			break
		}
		if i > 0 {
			sleepCtx(ctx, s.delay)
		}

		page, err := s.fetch(ctx, base+path)
		if err != nil {
			zap.L().Debug("page fetch failed", zap.String("url", base+path), zap.Error(err))
			continue
		}

		emails, name, title := extractContacts(page)
		candidates = append(candidates, emails...)
		if contactName == "" && name != "" {
			contactName, contactTitle = name, title
		}

		if rankEmail(bestEmail(candidates)) == rankBusinessPersonal {
			break
		}
	}

	email := bestEmail(candidates)
	if email == "" {
		return false, nil
	}

	l.Email = email
	if l.ContactName == "" && contactName != "" {
		l.ContactName = contactName
		l.ContactTitle = titleCaser.String(strings.ToLower(contactTitle))
	}
	u.Scraped++
	return true, nil
}

func (s *WebsiteScraper) fetch(ctx context.Context, url string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; leadgen/1.0)")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: fetch page")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("scrape: status %d for %s", resp.StatusCode, url)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse html")
	}
	return doc, nil
}

// extractContacts walks the document collecting address candidates from
// visible text and mailto links, plus the first name/title pairing the
// page text yields.
func extractContacts(doc *html.Node) (emails []string, contactName, contactTitle string) {
	var text strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "a":
				for _, attr := range n.Attr {
					if attr.Key == "href" && strings.HasPrefix(strings.ToLower(attr.Val), "mailto:") {
						addr := strings.TrimPrefix(attr.Val, "mailto:")
						if i := strings.IndexAny(addr, "?&"); i >= 0 {
							addr = addr[:i]
						}
						emails = append(emails, addr)
					}
				}
			}
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	body := text.String()
	emails = append(emails, emailRe.FindAllString(body, -1)...)

	if m := nameThenTitleRe.FindStringSubmatch(body); m != nil {
		contactName, contactTitle = m[1], m[2]
	} else if m := titleThenNameRe.FindStringSubmatch(body); m != nil {
		contactName, contactTitle = m[2], m[1]
	}

	return emails, contactName, contactTitle
}

func sleepCtx(ctx context.Context, d time.Duration) {
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
