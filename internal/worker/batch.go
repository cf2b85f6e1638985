package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/track"
)

// Analyzer runs a single term evolution analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req track.AnalyzeRequest) (*model.TermRecord, error)
}

// AnalyzeJob analyzes one term with the shared base request.
type AnalyzeJob struct {
	Term     string
	Base     track.AnalyzeRequest
	Analyzer Analyzer
	Limiter  *Limiter
}

// Execute runs the analysis. Failures land in the result, never abort the
// batch.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		// All batch jobs target one provider endpoint, so they pace
		// under a single shared key.
		if err := j.Limiter.Wait(ctx, ""); err != nil {
			return &AnalyzeResult{Term: j.Term, Error: err}
		}
	}

	req := j.Base
	req.Term = j.Term

	record, err := j.Analyzer.Analyze(ctx, req)
	return &AnalyzeResult{Term: j.Term, Record: record, Error: err}
}

// AnalyzeResult is the outcome of one term analysis job.
type AnalyzeResult struct {
	Term   string
	Record *model.TermRecord
	Error  error
}

func (r *AnalyzeResult) GetError() error { return r.Error }

// BatchProcessor fans term analyses out across a worker pool.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. A positive
// requestsPerSecond paces the provider calls; zero disables pacing.
func NewBatchProcessor(analyzer Analyzer, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	b := &BatchProcessor{analyzer: analyzer, concurrency: concurrency}
	if requestsPerSecond > 0 {
		b.limiter = NewLimiter(requestsPerSecond, burst)
	}
	return b
}

// ProcessTerms analyzes the terms concurrently. Each term inherits the
// base request's domain, periods and flags. Results arrive in completion
// order.
func (b *BatchProcessor) ProcessTerms(ctx context.Context, terms []string, base track.AnalyzeRequest) []*AnalyzeResult {
	if len(terms) == 0 {
		return nil
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, term := range terms {
		if ctx.Err() != nil {
			break
		}
		pool.Submit(&AnalyzeJob{
			Term:     term,
			Base:     base,
			Analyzer: b.analyzer,
			Limiter:  b.limiter,
		})
	}

	out := make([]*AnalyzeResult, 0, len(terms))
	for _, res := range pool.Wait() {
		out = append(out, res.(*AnalyzeResult))
	}
	return out
}

// ProcessFile reads a term list from a file and analyzes it concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, base track.AnalyzeRequest) ([]*AnalyzeResult, error) {
	terms, err := ReadTermsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read terms: %w", err)
	}
	return b.ProcessTerms(ctx, terms, base), nil
}

// ReadTermsFromFile reads one term per line. Blank lines and # comments
// are skipped; duplicates (case-insensitive) keep their first spelling.
func ReadTermsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var terms []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term == "" || strings.HasPrefix(term, "#") {
			continue
		}

		key := strings.ToLower(term)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		terms = append(terms, term)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return terms, nil
}
