package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/render"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/store"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/track"
)

var (
	historyLimit int
	showRaw      bool
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived term analyses",
	Long: `History reads the local analysis archive. Every successful analyze
and batch run is stored there, so evolution records survive restarts.

The archive lives at ~/.termtrack/history.db by default (store.path in the
config file).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived analyses, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireHistory()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		summaries, err := st.List(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}

		if len(summaries) == 0 {
			fmt.Println("No archived analyses. Run 'termtrack analyze <term>' first.")
			return nil
		}

		fmt.Printf("%-24s %-16s %-10s %-22s %s\n", "TERM", "DOMAIN", "PROVIDER", "MODEL", "ANALYZED")
		for _, s := range summaries {
			fmt.Printf("%-24s %-16s %-10s %-22s %s\n",
				s.Term, s.Domain, s.Provider, s.Model,
				s.AnalyzedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <term>",
	Short: "Show the most recent analysis of a term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := args[0]

		st, err := requireHistory()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rec, err := st.GetLatest(context.Background(), term, domainFlag)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no archived analysis for %q (try 'termtrack analyze %s')", term, term)
		}
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}

		if showRaw {
			// The unmodified model output the record was parsed from
			fmt.Println(rec.Raw)
			return nil
		}

		cfg := loadConfig()
		renderer := render.NewRenderer(cfg.Output.IncludeFooter)
		if outJSON != "" {
			if err := renderer.RenderJSON(rec, outJSON); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
			return nil
		}
		return renderer.WriteRecord(os.Stdout, rec)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <term>",
	Short: "Export a term's analysis as JSON for external tools",
	Long: `Export writes the archived record as JSON. With --timeline the
flattened timeline feed (events, period bands, shift markers) is written
instead, ready for charting.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := args[0]

		st, err := requireHistory()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rec, err := st.GetLatest(context.Background(), term, domainFlag)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no archived analysis for %q", term)
		}
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}

		cfg := loadConfig()
		renderer := render.NewRenderer(cfg.Output.IncludeFooter)

		if outTimeline != "" {
			if err := renderer.RenderJSON(track.Timeline(rec), outTimeline); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ Wrote timeline: %s\n", outTimeline)
			return nil
		}

		path := outJSON
		if path == "" {
			path = sanitizeFilename(term) + ".json"
		}
		if err := renderer.RenderJSON(rec, path); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", path)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <term>",
	Short: "Delete a term's archived analyses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := args[0]

		st, err := requireHistory()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := st.Delete(context.Background(), term); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no archived analysis for %q", term)
			}
			return fmt.Errorf("delete history: %w", err)
		}

		fmt.Printf("✓ Deleted archived analyses of %q\n", term)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyListCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum rows to list")

	historyShowCmd.Flags().StringVar(&domainFlag, "domain", "", "restrict to one domain")
	historyShowCmd.Flags().StringVar(&outJSON, "json", "", "write JSON to path instead of a report")
	historyShowCmd.Flags().BoolVar(&showRaw, "raw", false, "print the raw model output")

	historyExportCmd.Flags().StringVar(&domainFlag, "domain", "", "restrict to one domain")
	historyExportCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default <term>.json)")
	historyExportCmd.Flags().StringVar(&outTimeline, "timeline", "", "write the timeline feed instead")
}

// requireHistory opens the history store; unlike analysis commands, the
// history commands cannot run without it.
func requireHistory() (*store.Store, error) {
	cfg := loadConfig()
	if !cfg.Store.Enabled {
		return nil, fmt.Errorf("history store is disabled in the configuration")
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return st, nil
}
