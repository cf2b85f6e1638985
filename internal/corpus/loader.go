package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/util"
)

// Pacer paces outbound fetches per host. *worker.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context, rawURL string) error
}

// Loader turns files and URLs into plain-text corpus samples for
// neologism detection.
type Loader struct {
	fetcher *Fetcher
	robots  *util.RobotsChecker
	pacer   Pacer
}

// NewLoader creates a Loader from corpus configuration
func NewLoader(cfg model.CorpusConfig) *Loader {
	l := &Loader{
		fetcher: NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
	}
	if cfg.RespectRobots {
		l.robots = util.NewRobotsChecker(util.NormalizeUserAgent(cfg.UserAgent), cfg.Timeout)
	}
	return l
}

// WithPacer adds per-host pacing to URL fetches
func (l *Loader) WithPacer(p Pacer) *Loader {
	l.pacer = p
	return l
}

// FromFile reads a corpus sample from disk. HTML files are reduced to
// their visible text.
func (l *Loader) FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read corpus file: %w", err)
	}

	text := string(data)
	if looksLikeHTML(path, text) {
		extracted, err := ExtractText(text)
		if err != nil {
			return "", fmt.Errorf("extract text: %w", err)
		}
		return extracted, nil
	}

	return strings.TrimSpace(text), nil
}

// FromURL fetches a corpus sample from the web, honoring robots.txt
// when configured.
func (l *Loader) FromURL(ctx context.Context, rawURL string) (string, error) {
	if l.robots != nil {
		allowed, crawlDelay, err := l.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return "", fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return "", fmt.Errorf("robots.txt disallows fetching %s", rawURL)
		}
		if crawlDelay > 0 {
			select {
			case <-time.After(crawlDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	if l.pacer != nil {
		if err := l.pacer.Wait(ctx, rawURL); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	result, err := l.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if strings.Contains(result.ContentType, "text/html") || looksLikeHTML(result.FinalURL, result.Body) {
		extracted, err := ExtractText(result.Body)
		if err != nil {
			return "", fmt.Errorf("extract text: %w", err)
		}
		return extracted, nil
	}

	return strings.TrimSpace(result.Body), nil
}

// looksLikeHTML guesses whether content is an HTML document
func looksLikeHTML(name, content string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	}

	head := strings.ToLower(strings.TrimSpace(content))
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
