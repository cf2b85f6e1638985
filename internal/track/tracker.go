package track

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/cache"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/llm"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

// Tracker orchestrates analysis requests: it builds prompts, makes one
// provider call per request, and validates the loosely typed model output
// into typed reports. The provider (and with it the API credential) is
// injected at construction and never read from the environment mid-call.
type Tracker struct {
	provider llm.Provider // nil when no credential is configured
	cache    cache.Cache  // nil when caching is disabled

	defaultDomain  string
	defaultPeriods []string
	model          string
	maxTokens      int
}

// Options configures a Tracker
type Options struct {
	// DefaultDomain applies when a request names none (falls back to "general")
	DefaultDomain string

	// DefaultPeriods apply when a request names none
	// (falls back to model.DefaultPeriods)
	DefaultPeriods []string

	// Cache, when set, is consulted before every provider call
	Cache cache.Cache

	// Model and MaxTokens ride on every provider request
	Model     string
	MaxTokens int
}

// New creates a tracker backed by the given provider. A nil provider means
// no credential was configured: every analysis call then fails with
// ErrMissingCredential before any network activity.
func New(provider llm.Provider, opts Options) *Tracker {
	domain := opts.DefaultDomain
	if domain == "" {
		domain = "general"
	}
	periods := opts.DefaultPeriods
	if len(periods) == 0 {
		periods = model.DefaultPeriods
	}

	return &Tracker{
		provider:       provider,
		cache:          opts.Cache,
		defaultDomain:  domain,
		defaultPeriods: periods,
		model:          opts.Model,
		maxTokens:      opts.MaxTokens,
	}
}

// FromConfig builds a tracker from configuration: the provider from the LLM
// section (left nil when a key-requiring provider has no key) and the
// layered cache from the cache section.
func FromConfig(cfg *model.Config) (*Tracker, error) {
	var provider llm.Provider

	needsKey := cfg.LLM.Provider == "mistral" || cfg.LLM.Provider == "openai"
	if !needsKey || cfg.LLM.APIKey != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, fmt.Errorf("configure provider: %w", err)
		}
		provider = p
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return New(provider, Options{
		DefaultDomain:  cfg.Analysis.DefaultDomain,
		DefaultPeriods: cfg.Analysis.DefaultPeriods,
		Cache:          c,
		Model:          cfg.LLM.Model,
		MaxTokens:      cfg.LLM.MaxTokens,
	}), nil
}

// Available reports whether a provider is configured and reachable
func (t *Tracker) Available(ctx context.Context) bool {
	return t.provider != nil && t.provider.IsAvailable(ctx)
}

// ProviderName returns the configured provider's name, or "" without one
func (t *Tracker) ProviderName() string {
	if t.provider == nil {
		return ""
	}
	return t.provider.Name()
}

// AnalyzeRequest describes one term-evolution analysis
type AnalyzeRequest struct {
	Term         string
	Domain       string
	Periods      []string
	Observations []model.Observation // optional (period, text sample) pairs
	Bilingual    bool
	NoCache      bool
}

// Analyze runs one term-evolution analysis: build the prompt, make a single
// provider call, validate the output into a TermRecord carrying the
// unmodified raw model text.
func (t *Tracker) Analyze(ctx context.Context, req AnalyzeRequest) (*model.TermRecord, error) {
	if t.provider == nil {
		return nil, fmt.Errorf("%w: configure a provider API key", ErrMissingCredential)
	}

	term := strings.TrimSpace(req.Term)
	if term == "" {
		return nil, fmt.Errorf("%w: term is required", ErrEmptyInput)
	}

	domain := req.Domain
	if domain == "" {
		domain = t.defaultDomain
	}
	periods := req.Periods
	if len(periods) == 0 {
		periods = t.defaultPeriods
	}

	key := cache.CacheKey("analyze", term, domain,
		strings.Join(periods, "|"), observationsKey(req.Observations),
		strconv.FormatBool(req.Bilingual), t.model)
	if rec, ok := t.cachedRecord(key, req.NoCache); ok {
		return rec, nil
	}

	prompt, err := llm.BuildEvolutionPrompt(llm.EvolutionPromptData{
		Term:         term,
		Domain:       domain,
		Periods:      periods,
		Observations: req.Observations,
		Bilingual:    req.Bilingual,
	})
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := t.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	rec, err := decodeRecord(resp.Text, term, domain)
	if err != nil {
		return nil, err
	}
	rec.AnalyzedAt = time.Now().UTC()
	rec.Provider = t.provider.Name()
	rec.Model = resp.Model
	rec.TokensUsed = resp.TokensUsed

	t.storeRecord(key, rec, req.NoCache)
	return rec, nil
}

// AnalyzeAll runs Analyze for each term in order, collecting successful
// records and per-term errors. The worker package provides the concurrent
// variant; this sequential helper preserves submission order.
func (t *Tracker) AnalyzeAll(ctx context.Context, terms []string, base AnalyzeRequest) ([]*model.TermRecord, map[string]error) {
	records := make([]*model.TermRecord, 0, len(terms))
	var errs map[string]error

	for _, term := range terms {
		if err := ctx.Err(); err != nil {
			if errs == nil {
				errs = make(map[string]error)
			}
			errs[term] = err
			continue
		}

		req := base
		req.Term = term
		rec, err := t.Analyze(ctx, req)
		if err != nil {
			if errs == nil {
				errs = make(map[string]error)
			}
			errs[term] = err
			continue
		}
		records = append(records, rec)
	}

	return records, errs
}

// CompareRequest describes one multi-term comparison
type CompareRequest struct {
	Terms     []string
	Domain    string
	Bilingual bool
	NoCache   bool
}

// Compare analyzes how two or more terms evolved relative to each other
func (t *Tracker) Compare(ctx context.Context, req CompareRequest) (*model.ComparisonReport, error) {
	if t.provider == nil {
		return nil, fmt.Errorf("%w: configure a provider API key", ErrMissingCredential)
	}

	terms := make([]string, 0, len(req.Terms))
	for _, term := range req.Terms {
		if trimmed := strings.TrimSpace(term); trimmed != "" {
			terms = append(terms, trimmed)
		}
	}
	if len(terms) < 2 {
		return nil, fmt.Errorf("%w: at least two terms are required", ErrEmptyInput)
	}

	domain := req.Domain
	if domain == "" {
		domain = t.defaultDomain
	}

	key := cache.CacheKey("compare", strings.Join(terms, "|"), domain,
		strconv.FormatBool(req.Bilingual), t.model)
	if !req.NoCache && t.cache != nil {
		if data, found := t.cache.Get(key); found {
			var env comparisonEnvelope
			if err := json.Unmarshal(data, &env); err == nil && env.Report != nil {
				env.Report.Raw = env.Raw
				return env.Report, nil
			}
		}
	}

	prompt, err := llm.BuildComparisonPrompt(llm.ComparisonPromptData{
		Terms:     terms,
		Domain:    domain,
		Bilingual: req.Bilingual,
	})
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := t.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	rep, err := decodeComparison(resp.Text, terms, domain)
	if err != nil {
		return nil, err
	}
	rep.AnalyzedAt = time.Now().UTC()
	rep.Provider = t.provider.Name()
	rep.Model = resp.Model

	if !req.NoCache && t.cache != nil {
		if data, err := json.Marshal(comparisonEnvelope{Report: rep, Raw: rep.Raw}); err == nil {
			_ = t.cache.Set(key, data, 0)
		}
	}
	return rep, nil
}

// NeologismRequest describes one corpus scan for newly coined terms
type NeologismRequest struct {
	Text            string
	Domain          string
	ReferencePeriod string // terms new since this period, default "2020"
	Bilingual       bool
	NoCache         bool
}

// DetectNeologisms scans corpus text for new or recently coined terms
func (t *Tracker) DetectNeologisms(ctx context.Context, req NeologismRequest) (*model.NeologismReport, error) {
	if t.provider == nil {
		return nil, fmt.Errorf("%w: configure a provider API key", ErrMissingCredential)
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: corpus text is required", ErrEmptyInput)
	}

	domain := req.Domain
	if domain == "" {
		domain = t.defaultDomain
	}
	since := req.ReferencePeriod
	if since == "" {
		since = "2020"
	}

	key := cache.CacheKey("neologisms", text, domain, since,
		strconv.FormatBool(req.Bilingual), t.model)
	if !req.NoCache && t.cache != nil {
		if data, found := t.cache.Get(key); found {
			var env neologismEnvelope
			if err := json.Unmarshal(data, &env); err == nil && env.Report != nil {
				env.Report.Raw = env.Raw
				return env.Report, nil
			}
		}
	}

	prompt, err := llm.BuildNeologismPrompt(llm.NeologismPromptData{
		Text:            text,
		Domain:          domain,
		ReferencePeriod: since,
		Bilingual:       req.Bilingual,
	})
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := t.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	rep, err := decodeNeologisms(resp.Text, domain, since)
	if err != nil {
		return nil, err
	}
	rep.AnalyzedAt = time.Now().UTC()
	rep.Provider = t.provider.Name()
	rep.Model = resp.Model

	if !req.NoCache && t.cache != nil {
		if data, err := json.Marshal(neologismEnvelope{Report: rep, Raw: rep.Raw}); err == nil {
			_ = t.cache.Set(key, data, 0)
		}
	}
	return rep, nil
}

// complete makes the single provider call for a request. No retries: a
// failed attempt surfaces immediately as ErrUpstream.
func (t *Tracker) complete(ctx context.Context, prompt string) (*llm.Response, error) {
	resp, err := t.provider.Complete(ctx, llm.Request{
		Prompt:    prompt,
		Model:     t.model,
		MaxTokens: t.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return resp, nil
}

// Cache envelopes keep the raw model text next to the typed report, since
// the Raw fields are excluded from JSON marshaling.
type recordEnvelope struct {
	Record *model.TermRecord `json:"record"`
	Raw    string            `json:"raw"`
}

type comparisonEnvelope struct {
	Report *model.ComparisonReport `json:"report"`
	Raw    string                  `json:"raw"`
}

type neologismEnvelope struct {
	Report *model.NeologismReport `json:"report"`
	Raw    string                 `json:"raw"`
}

func (t *Tracker) cachedRecord(key string, noCache bool) (*model.TermRecord, bool) {
	if noCache || t.cache == nil {
		return nil, false
	}
	data, found := t.cache.Get(key)
	if !found {
		return nil, false
	}
	var env recordEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.Record == nil {
		return nil, false
	}
	env.Record.Raw = env.Raw
	return env.Record, true
}

func (t *Tracker) storeRecord(key string, rec *model.TermRecord, noCache bool) {
	if noCache || t.cache == nil {
		return
	}
	if data, err := json.Marshal(recordEnvelope{Record: rec, Raw: rec.Raw}); err == nil {
		_ = t.cache.Set(key, data, 0)
	}
}

// observationsKey folds the optional period samples into the cache key
func observationsKey(obs []model.Observation) string {
	if len(obs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(obs))
	for _, o := range obs {
		parts = append(parts, o.Period+"="+o.Text)
	}
	return strings.Join(parts, "|")
}
