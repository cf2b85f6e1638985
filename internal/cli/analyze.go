package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/render"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/store"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/track"
)

var (
	domainFlag    string
	periodsFlag   []string
	periodSamples []string
	bilingualFlag bool
	providerFlag  string
	modelFlag     string
	outJSON       string
	outMD         string
	outTimeline   string
	timeout       time.Duration
	noCache       bool
	noStore       bool
	offline       bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <term>...",
	Short: "Analyze how a term's meaning evolved across time periods",
	Long: `Analyze asks the configured language model for a term's evolution:
- Etymology and origin (bilingual EN / 繁體中文)
- A snapshot of form, meaning, and usage per time period
- Semantic shifts (narrowing, broadening, metaphor, ...)
- Related terms, current status, and a future prediction

With several terms, each is analyzed in turn. Without a provider API key,
the built-in demo catalog still answers for its terms.

Example:
  termtrack analyze "artificial intelligence"
  termtrack analyze virus --domain technology --periods 1950-1980,1980-2000
  termtrack analyze mouse --period-sample "1990s=Click the mouse to select." --json mouse.json
  termtrack analyze computer --offline`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Analysis flags
	analyzeCmd.Flags().StringVar(&domainFlag, "domain", "", "domain/field of the term (default: from config)")
	analyzeCmd.Flags().StringSliceVar(&periodsFlag, "periods", nil, "time periods to cover (default: from config)")
	analyzeCmd.Flags().StringArrayVar(&periodSamples, "period-sample", nil, "period text sample as label=text (repeatable)")
	analyzeCmd.Flags().BoolVar(&bilingualFlag, "bilingual", true, "request Traditional Chinese alongside English")

	// Provider flags
	analyzeCmd.Flags().StringVar(&providerFlag, "provider", "", "LLM provider (mistral, openai, ollama)")
	analyzeCmd.Flags().StringVar(&modelFlag, "model", "", "model name override")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	analyzeCmd.Flags().BoolVar(&noStore, "no-store", false, "skip archiving the result to history")
	analyzeCmd.Flags().BoolVar(&offline, "offline", false, "no network: serve only the built-in demo catalog")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (single term)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output report path (single term)")
	analyzeCmd.Flags().StringVar(&outTimeline, "timeline", "", "output timeline JSON path for charting (single term)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := analysisConfig(cmd)

	observations, err := parsePeriodSamples(periodSamples)
	if err != nil {
		return err
	}

	tracker, err := track.FromConfig(cfg)
	if err != nil {
		return err
	}

	st := openHistory(cfg)
	if st != nil {
		defer func() { _ = st.Close() }()
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Provider: %s\n", orNone(tracker.ProviderName()))
		fmt.Fprintf(os.Stderr, "Domain: %s\n", cfg.Analysis.DefaultDomain)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	base := track.AnalyzeRequest{
		Domain:       domainFlag,
		Periods:      periodsFlag,
		Observations: observations,
		Bilingual:    cfg.Analysis.Bilingual,
		NoCache:      noCache,
	}

	renderer := render.NewRenderer(cfg.Output.IncludeFooter)

	if len(args) == 1 {
		base.Term = args[0]
		rec, err := analyzeWithDemo(ctx, tracker, base)
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
		archiveRecord(ctx, st, rec)
		return writeRecordOutputs(renderer, rec)
	}

	// Several terms: sequential analysis, reports to stdout
	if outJSON != "" || outMD != "" || outTimeline != "" {
		fmt.Fprintln(os.Stderr, "Ignoring --json/--md/--timeline: output paths apply to single-term runs")
	}

	failures := 0
	for _, term := range args {
		req := base
		req.Term = term

		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Analyzing %q...\n", term)
		}

		rec, err := analyzeWithDemo(ctx, tracker, req)
		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", term, err)
			continue
		}
		archiveRecord(ctx, st, rec)
		if err := renderer.WriteRecord(os.Stdout, rec); err != nil {
			return err
		}
		fmt.Println()
	}

	if failures == len(args) {
		return fmt.Errorf("all %d analyses failed", failures)
	}
	if failures > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d analyses failed\n", failures, len(args))
	}
	return nil
}

// analysisConfig layers analyze command flags over the loaded configuration
func analysisConfig(cmd *cobra.Command) *model.Config {
	cfg := loadConfig()

	if providerFlag != "" {
		cfg.LLM.Provider = providerFlag
	}
	if modelFlag != "" {
		cfg.LLM.Model = modelFlag
	}
	if domainFlag != "" {
		cfg.Analysis.DefaultDomain = domainFlag
	}
	if cmd.Flags().Changed("bilingual") {
		cfg.Analysis.Bilingual = bilingualFlag
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache

	if offline {
		// No provider at all: analysis falls through to the demo catalog
		cfg.LLM.Provider = ""
	} else {
		resolveCredential(cfg)
	}

	return cfg
}

// analyzeWithDemo runs one analysis, falling back to the built-in demo
// catalog when no credential is configured. The demo sits above the
// tracker: a keyless tracker still fails, the catalog answers instead.
func analyzeWithDemo(ctx context.Context, tracker *track.Tracker, req track.AnalyzeRequest) (*model.TermRecord, error) {
	rec, err := tracker.Analyze(ctx, req)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, track.ErrMissingCredential) {
		return nil, err
	}

	if demo, ok := track.DemoRecord(req.Term); ok {
		fmt.Fprintf(os.Stderr, "No provider configured; showing the built-in demo record for %q\n", req.Term)
		return demo, nil
	}
	if offline {
		return nil, fmt.Errorf("offline mode covers only the demo terms: %s", strings.Join(track.DemoTerms(), ", "))
	}
	return nil, fmt.Errorf("%w (set MISTRAL_API_KEY, or try a demo term: %s)", err, strings.Join(track.DemoTerms(), ", "))
}

// writeRecordOutputs writes the requested outputs for one record, or the
// text report to stdout when no paths were given.
func writeRecordOutputs(renderer *render.Renderer, rec *model.TermRecord) error {
	wrote := false

	if outJSON != "" {
		if err := renderer.RenderJSON(rec, outJSON); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		wrote = true
	}
	if outMD != "" {
		if err := renderer.RenderRecord(rec, outMD); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", outMD)
		wrote = true
	}
	if outTimeline != "" {
		if err := renderer.RenderJSON(track.Timeline(rec), outTimeline); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote timeline: %s\n", outTimeline)
		wrote = true
	}

	if !wrote {
		return renderer.WriteRecord(os.Stdout, rec)
	}
	return nil
}

// openHistory opens the history store, or returns nil when archiving is
// off. Open failures only warn: analysis is more important than history.
func openHistory(cfg *model.Config) *store.Store {
	if noStore || !cfg.Store.Enabled {
		return nil
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "History disabled: %v\n", err)
		return nil
	}
	return st
}

// archiveRecord saves a completed analysis. Demo records are not archived.
func archiveRecord(ctx context.Context, st *store.Store, rec *model.TermRecord) {
	if st == nil || rec.Provider == "demo" {
		return
	}
	if err := st.Save(ctx, rec); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to archive analysis: %v\n", err)
	} else if verbose {
		fmt.Fprintf(os.Stderr, "✓ Archived to history (%s)\n", rec.ID)
	}
}

// parsePeriodSamples parses repeated label=text flags into observations
func parsePeriodSamples(samples []string) ([]model.Observation, error) {
	if len(samples) == 0 {
		return nil, nil
	}

	observations := make([]model.Observation, 0, len(samples))
	for _, sample := range samples {
		label, text, found := strings.Cut(sample, "=")
		label = strings.TrimSpace(label)
		if !found || label == "" || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("invalid --period-sample %q (expected label=text)", sample)
		}
		observations = append(observations, model.Observation{
			Period: label,
			Text:   strings.TrimSpace(text),
		})
	}
	return observations, nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
