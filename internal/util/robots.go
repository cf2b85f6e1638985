package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether a corpus URL may be fetched politely.
// Rulesets are cached per scheme+host for the life of the checker, so a
// batch that samples many pages from one site reads robots.txt once.
type RobotsChecker struct {
	mu       sync.RWMutex
	rulesets map[string]*robotstxt.RobotsData
	client   *http.Client
	agent    string
}

// NewRobotsChecker creates a checker matching rules against the given
// product token (see NormalizeUserAgent).
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		rulesets: make(map[string]*robotstxt.RobotsData),
		client:   &http.Client{Timeout: timeout},
		agent:    userAgent,
	}
}

// CanFetch reports whether rawURL may be fetched and the crawl delay the
// site requests for our agent. Hosts whose robots.txt cannot be reached
// are treated as allowing everything.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	rules := r.rules(ctx, target)

	var delay time.Duration
	if group := rules.FindGroup(r.agent); group != nil {
		delay = group.CrawlDelay
	}
	return rules.TestAgent(target.Path, r.agent), delay, nil
}

// rules returns the cached ruleset for the target's site, fetching
// robots.txt on first use.
func (r *RobotsChecker) rules(ctx context.Context, target *url.URL) *robotstxt.RobotsData {
	site := target.Scheme + "://" + target.Host

	r.mu.RLock()
	rules, ok := r.rulesets[site]
	r.mu.RUnlock()
	if ok {
		return rules
	}

	rules = r.fetch(ctx, site)

	r.mu.Lock()
	r.rulesets[site] = rules
	r.mu.Unlock()
	return rules
}

// fetch retrieves and parses a site's robots.txt. Every failure mode maps
// to a usable ruleset: unreachable hosts and missing files allow all,
// while the robotstxt library applies the 4xx/5xx conventions itself.
func (r *RobotsChecker) fetch(ctx context.Context, site string) *robotstxt.RobotsData {
	allowAll, _ := robotstxt.FromStatusAndBytes(404, nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, site+"/robots.txt", nil)
	if err != nil {
		return allowAll
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.client.Do(req)
	if err != nil {
		return allowAll
	}
	defer func() { _ = resp.Body.Close() }()

	rules, err := robotstxt.FromResponse(resp)
	if err != nil {
		return allowAll
	}
	return rules
}

// NormalizeUserAgent reduces a full User-Agent string to the product
// token that robots.txt groups match against: "termtrack/0.3 (+url)"
// becomes "termtrack".
func NormalizeUserAgent(ua string) string {
	token := ua
	if fields := strings.Fields(ua); len(fields) > 0 {
		token = fields[0]
	}
	product, _, _ := strings.Cut(token, "/")
	if product == "" {
		return ua
	}
	return product
}
