package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/render"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/track"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <term> <term>...",
	Short: "Compare how two or more terms evolved relative to each other",
	Long: `Compare analyzes the relationship between terms over time:
- Emergence timeline (which term appeared when)
- Shared evolution patterns
- Replacement relationships (one term supplanting another)
- Semantic divergence of once-synonymous terms
- Current usage ranking and trend predictions

Example:
  termtrack compare telegram telephone email
  termtrack compare 人工智慧 AI --domain technology --json comparison.json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&domainFlag, "domain", "", "domain/field of the terms (default: from config)")
	compareCmd.Flags().BoolVar(&bilingualFlag, "bilingual", true, "request Traditional Chinese alongside English")
	compareCmd.Flags().StringVar(&providerFlag, "provider", "", "LLM provider (mistral, openai, ollama)")
	compareCmd.Flags().StringVar(&modelFlag, "model", "", "model name override")
	compareCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall comparison timeout")
	compareCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")

	compareCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	compareCmd.Flags().StringVar(&outMD, "md", "", "output report path")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := analysisConfig(cmd)

	tracker, err := track.FromConfig(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Comparing: %v\n", args)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", orNone(tracker.ProviderName()))
		fmt.Fprintln(os.Stderr)
	}

	rep, err := tracker.Compare(ctx, track.CompareRequest{
		Terms:     args,
		Domain:    domainFlag,
		Bilingual: cfg.Analysis.Bilingual,
		NoCache:   noCache,
	})
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
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
		if err := renderer.RenderComparison(rep, outMD); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", outMD)
		wrote = true
	}
	if !wrote {
		return renderer.WriteComparison(os.Stdout, rep)
	}
	return nil
}
