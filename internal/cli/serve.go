package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/server"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/track"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API for the interactive front end",
	Long: `Serve starts the HTTP API the interactive front end talks to:
  POST /api/analyze               run a term evolution analysis
  POST /api/compare               compare several terms
  POST /api/neologisms            detect new terms in corpus text
  GET  /api/terms                 list archived analyses
  GET  /api/terms/{term}          latest record for a term
  GET  /api/terms/{term}/timeline timeline feed for charting
  GET  /healthz                   provider and store status

The server answers JSON only; widgets and charts belong to the front end.
It shuts down gracefully on SIGINT/SIGTERM, letting in-flight analyses
finish.

Example:
  termtrack serve
  termtrack serve --addr :8080 --provider openai`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :7860)")
	serveCmd.Flags().StringVar(&providerFlag, "provider", "", "LLM provider (mistral, openai, ollama)")
	serveCmd.Flags().StringVar(&modelFlag, "model", "", "model name override")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	serveCmd.Flags().BoolVar(&noStore, "no-store", false, "disable the history endpoints")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := analysisConfig(cmd)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger, err := buildLogger(cfg.Server)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	tracker, err := track.FromConfig(cfg)
	if err != nil {
		return err
	}
	if tracker.ProviderName() == "" {
		logger.Warn("no provider credential configured; only the demo catalog will answer",
			zap.String("provider", cfg.LLM.Provider))
	} else {
		logger.Info("provider configured",
			zap.String("provider", tracker.ProviderName()),
			zap.String("model", cfg.LLM.Model))
	}

	st := openHistory(cfg)
	if st != nil {
		defer func() { _ = st.Close() }()
	} else {
		logger.Info("history store disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg.Server.Addr, tracker, st, logger)
	return srv.Run(ctx)
}

// buildLogger builds the server logger from configuration: human-readable
// by default, JSON when configured for log collection.
func buildLogger(cfg model.ServerConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		parsed, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("bad log level %q: %w", cfg.LogLevel, err)
		}
		level = parsed
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.LogJSON {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
