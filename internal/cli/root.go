package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

// version is stamped by the release build via -ldflags.
var version = "0.3.0"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "termtrack",
	Short: "termtrack - Diachronic terminology analysis",
	Long: `termtrack tracks how terms and their meanings evolve across time periods.

It asks a hosted language model for the linguistic analysis (etymology,
period snapshots, semantic shifts, predictions) and owns everything around
that call: validation of the loosely typed model output, caching, history,
batch processing, and bilingual (English / Traditional Chinese) reports.

A provider API key is read from the environment (MISTRAL_API_KEY,
OPENAI_API_KEY, or a local Ollama). Without one, a small built-in catalog
of demo terms is still available.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("termtrack v%s\n", version)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.termtrack/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig points viper at the config file and the TERMTRACK_*
// environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".termtrack"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	} else {
		fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		return
	}

	viper.SetEnvPrefix("TERMTRACK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file and TERMTRACK_* environment over the
// defaults. Command flags are applied on top by each command.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil && verbose {
		fmt.Fprintf(os.Stderr, "Ignoring malformed configuration: %v\n", err)
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg
}

// resolveCredential fills provider credentials from the environment. A
// missing key is not an error here: analysis then fails with the missing
// credential error, and demo terms still work.
func resolveCredential(cfg *model.Config) {
	switch cfg.LLM.Provider {
	case "mistral":
		cfg.LLM.APIKey = os.Getenv("MISTRAL_API_KEY")
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
}
