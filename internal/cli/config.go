package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage termtrack configuration",
	Long: `Manage termtrack configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (TERMTRACK_*)
3. Config file (~/.termtrack/config.yaml)
4. Defaults

API keys never live in the config file; they come from MISTRAL_API_KEY,
OPENAI_API_KEY, or OLLAMA_BASE_URL in the environment.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after the config file and environment are applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", file)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		// The APIKey field is yaml:"-", so credentials can never be echoed
		rendered, err := yaml.Marshal(loadConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(rendered))

		fmt.Println()
		fmt.Println("Precedence: flags > TERMTRACK_* environment > config file > defaults.")
		fmt.Println("Credentials: MISTRAL_API_KEY / OPENAI_API_KEY / OLLAMA_BASE_URL, environment only.")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.termtrack/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}
		dir := filepath.Join(home, ".termtrack")
		path := filepath.Join(dir, "config.yaml")

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'termtrack config show' to view it, or delete it first to recreate", path)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		defaults, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		var buf bytes.Buffer
		buf.WriteString("# termtrack configuration\n")
		buf.WriteString("#\n")
		buf.WriteString("# Precedence: CLI flags, then TERMTRACK_* environment variables,\n")
		buf.WriteString("# then this file, then built-in defaults.\n\n")
		buf.Write(defaults)
		buf.WriteString("\n# API keys stay in the environment, never in this file:\n")
		buf.WriteString("#   export MISTRAL_API_KEY=...\n")
		buf.WriteString("#   export OPENAI_API_KEY=sk-...\n")
		buf.WriteString("#   export OLLAMA_BASE_URL=http://localhost:11434\n")

		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", path)
		fmt.Println("\nTo view it:       termtrack config show")
		fmt.Printf("To customize it:  $EDITOR %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
