package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/render"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/track"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple terms from a file",
	Long: `Batch analyzes many terms in one run:
- Read terms from the input file (one per line, # comments skipped)
- Analyze terms in parallel with a configurable worker count
- Pace provider calls with the configured rate limit
- Write JSON and report files for each term into the output directory

With --concurrency 1 the terms are analyzed sequentially in file order.

Example:
  termtrack batch terms.txt
  termtrack batch terms.txt --concurrency 8 --output-dir ./reports
  termtrack batch terms.txt --domain technology --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent analyses")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./termtrack-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "total timeout for batch processing")

	// Analysis flags shared with analyze
	batchCmd.Flags().StringVar(&domainFlag, "domain", "", "domain/field of the terms (default: from config)")
	batchCmd.Flags().StringSliceVar(&periodsFlag, "periods", nil, "time periods to cover (default: from config)")
	batchCmd.Flags().BoolVar(&bilingualFlag, "bilingual", true, "request Traditional Chinese alongside English")
	batchCmd.Flags().StringVar(&providerFlag, "provider", "", "LLM provider (mistral, openai, ollama)")
	batchCmd.Flags().StringVar(&modelFlag, "model", "", "model name override")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	batchCmd.Flags().BoolVar(&noStore, "no-store", false, "skip archiving results to history")
}

// banner frames a section title on stderr.
func banner(title string) {
	rule := strings.Repeat("═", 59)
	fmt.Fprintf(os.Stderr, "\n%s\n  %s\n%s\n\n", rule, title, rule)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := analysisConfig(cmd)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	banner("termtrack Batch Analysis")
	fmt.Fprintf(os.Stderr, "  Terms file: %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:    %d (timeout %v)\n", cfg.Concurrency.Workers, batchTimeout)
	fmt.Fprintf(os.Stderr, "  Reports:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Provider:   %s/%s\n\n", cfg.LLM.Provider, cfg.LLM.Model)

	tracker, err := track.FromConfig(cfg)
	if err != nil {
		return err
	}

	st := openHistory(cfg)
	if st != nil {
		defer func() { _ = st.Close() }()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	base := track.AnalyzeRequest{
		Domain:    domainFlag,
		Periods:   periodsFlag,
		Bilingual: cfg.Analysis.Bilingual,
		NoCache:   noCache,
	}

	fmt.Fprintf(os.Stderr, "⚙️  Reading terms from file...\n")
	terms, err := worker.ReadTermsFromFile(file)
	if err != nil {
		return fmt.Errorf("read terms: %w", err)
	}
	if len(terms) == 0 {
		return fmt.Errorf("no terms found in %s", file)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d terms\n\n", len(terms))
	fmt.Fprintf(os.Stderr, "⚙️  Analyzing with %d workers...\n\n", cfg.Concurrency.Workers)

	results := collectResults(ctx, tracker, cfg, terms, base)

	renderer := render.NewRenderer(cfg.Output.IncludeFooter)

	var succeeded, failed int
	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Term, result.Error)
			continue
		}

		succeeded++
		archiveRecord(ctx, st, result.Record)

		slug := sanitizeFilename(result.Term)
		jsonPath := filepath.Join(outputDir, slug+".json")
		reportPath := filepath.Join(outputDir, slug+".txt")

		if err := renderer.RenderJSON(result.Record, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Term, err)
			continue
		}
		if err := renderer.RenderRecord(result.Record, reportPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", result.Term, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d snapshots, %d shifts)\n",
			result.Record.Term, len(result.Record.Snapshots), len(result.Record.SemanticShifts))
	}

	banner("Batch Complete")
	fmt.Fprintf(os.Stderr, "  Analyzed: %d terms (%d succeeded, %d failed)\n", len(results), succeeded, failed)
	fmt.Fprintf(os.Stderr, "  Reports:  %s\n\n", outputDir)

	if succeeded == 0 && failed > 0 {
		return fmt.Errorf("all %d analyses failed", failed)
	}
	return nil
}

// collectResults runs the batch: a single worker analyzes sequentially in
// file order, several workers go through the pool with rate limiting.
func collectResults(ctx context.Context, tracker *track.Tracker, cfg *model.Config, terms []string, base track.AnalyzeRequest) []*worker.AnalyzeResult {
	if cfg.Concurrency.Workers <= 1 {
		// AnalyzeAll keeps submission order for successes, so one index
		// walks the records while the error map covers the rest.
		records, errs := tracker.AnalyzeAll(ctx, terms, base)

		results := make([]*worker.AnalyzeResult, 0, len(terms))
		next := 0
		for _, term := range terms {
			if err, ok := errs[term]; ok {
				results = append(results, &worker.AnalyzeResult{Term: term, Error: err})
				continue
			}
			if next < len(records) {
				results = append(results, &worker.AnalyzeResult{Term: term, Record: records[next]})
				next++
			}
		}
		return results
	}

	processor := worker.NewBatchProcessor(tracker, cfg.Concurrency.Workers,
		cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	return processor.ProcessTerms(ctx, terms, base)
}

// sanitizeFilename makes a term safe to use as a file name on any OS.
func sanitizeFilename(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		case ' ':
			return '-'
		}
		return r
	}, strings.TrimSpace(s))

	if len(mapped) > 100 {
		mapped = mapped[:100]
	}
	if mapped == "" {
		return "term"
	}
	return mapped
}
