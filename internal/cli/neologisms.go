package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/corpus"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/render"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/track"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/worker"
)

var (
	corpusText string
	corpusFile string
	corpusURL  string
	sinceFlag  string
	maxChars   int
)

// neologismsCmd represents the neologisms command
var neologismsCmd = &cobra.Command{
	Use:   "neologisms",
	Short: "Detect newly coined terms in a text corpus",
	Long: `Neologisms scans corpus text for terms coined after a reference period:
- Formation type (compound, blend, acronym, borrowing, ...)
- Source elements, adoption level, predicted longevity
- Emerging naming trends across the corpus

The corpus comes from --text, a file (plain text or HTML), a URL, or stdin.
HTML is reduced to its visible text; URL fetches honor robots.txt.

Example:
  termtrack neologisms --text "The rizz of doomscrolling is unmatched."
  termtrack neologisms --file article.html --domain "internet culture"
  termtrack neologisms --url https://example.com/post --since 2015
  cat corpus.txt | termtrack neologisms`,
	Args: cobra.NoArgs,
	RunE: runNeologisms,
}

func init() {
	rootCmd.AddCommand(neologismsCmd)

	// Corpus input flags (first one set wins: text, file, url, stdin)
	neologismsCmd.Flags().StringVar(&corpusText, "text", "", "corpus text inline")
	neologismsCmd.Flags().StringVar(&corpusFile, "file", "", "corpus file (plain text or HTML)")
	neologismsCmd.Flags().StringVar(&corpusURL, "url", "", "corpus URL (fetched politely)")
	neologismsCmd.Flags().IntVar(&maxChars, "max-chars", 2000, "clip the corpus to this many characters before analysis")

	// Analysis flags
	neologismsCmd.Flags().StringVar(&domainFlag, "domain", "", "domain/field of the corpus (default: from config)")
	neologismsCmd.Flags().StringVar(&sinceFlag, "since", "2020", "reference period: report terms newer than this")
	neologismsCmd.Flags().BoolVar(&bilingualFlag, "bilingual", true, "request Traditional Chinese alongside English")
	neologismsCmd.Flags().StringVar(&providerFlag, "provider", "", "LLM provider (mistral, openai, ollama)")
	neologismsCmd.Flags().StringVar(&modelFlag, "model", "", "model name override")
	neologismsCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall detection timeout")
	neologismsCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")

	// Output flags
	neologismsCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	neologismsCmd.Flags().StringVar(&outMD, "md", "", "output report path")
}

func runNeologisms(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := analysisConfig(cmd)

	text, source, err := loadCorpus(ctx, cfg)
	if err != nil {
		return err
	}
	text = corpus.Clip(text, maxChars)

	tracker, err := track.FromConfig(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Corpus: %s (%d chars after clipping)\n", source, len(text))
		fmt.Fprintf(os.Stderr, "New since: %s\n", sinceFlag)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", orNone(tracker.ProviderName()))
		fmt.Fprintln(os.Stderr)
	}

	rep, err := tracker.DetectNeologisms(ctx, track.NeologismRequest{
		Text:            text,
		Domain:          domainFlag,
		ReferencePeriod: sinceFlag,
		Bilingual:       cfg.Analysis.Bilingual,
		NoCache:         noCache,
	})
	if err != nil {
		return fmt.Errorf("neologism detection failed: %w", err)
	}

	renderer := render.NewRenderer(cfg.Output.IncludeFooter)

	wrote := false
	if outJSON != "" {
		if err := renderer.RenderJSON(rep, outJSON); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		wrote = true
	}
	if outMD != "" {
		if err := renderer.RenderNeologisms(rep, outMD); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", outMD)
		wrote = true
	}
	if !wrote {
		return renderer.WriteNeologisms(os.Stdout, rep)
	}
	return nil
}

// loadCorpus resolves the corpus text from the input flags, falling back
// to stdin. Returns the text and a label describing where it came from.
func loadCorpus(ctx context.Context, cfg *model.Config) (string, string, error) {
	switch {
	case corpusText != "":
		return corpusText, "inline text", nil

	case corpusFile != "":
		text, err := corpus.NewLoader(cfg.Corpus).FromFile(corpusFile)
		if err != nil {
			return "", "", err
		}
		return text, corpusFile, nil

	case corpusURL != "":
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Fetching corpus from %s...\n", corpusURL)
		}
		loader := corpus.NewLoader(cfg.Corpus)
		if cfg.RateLimit.RequestsPerSecond > 0 {
			loader = loader.WithPacer(worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
		}
		text, err := loader.FromURL(ctx, corpusURL)
		if err != nil {
			return "", "", err
		}
		return text, corpusURL, nil

	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read corpus from stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
}
