package worker

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces outbound requests per target host, shared by batch
// provider calls and corpus URL fetches.
type Limiter struct {
	mu      sync.Mutex
	perHost map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

// NewLimiter allows requestsPerSecond per host with the given burst
// headroom.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 5
	}
	return &Limiter{
		perHost: make(map[string]*rate.Limiter),
		rps:     rate.Limit(requestsPerSecond),
		burst:   burst,
	}
}

// Wait blocks until the host behind rawURL has clearance or ctx ends.
// An unparseable URL fails rather than bypassing the limit. Batch
// provider calls all pass the same key, so they pace as one host.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	return l.pace(u.Host).Wait(ctx)
}

func (l *Limiter) pace(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.perHost[host]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.perHost[host] = lim
	}
	return lim
}
