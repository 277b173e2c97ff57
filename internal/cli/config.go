package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/crosscheck/internal/model"
)

// envKeys are the config keys readable from CROSSCHECK_* variables
var envKeys = []string{
	"llm::provider",
	"llm::model",
	"llm::api_key",
	"llm::base_url",
	"llm::timeout",
	"cache::enabled",
	"cache::dir",
	"concurrency::workers",
	"verification::concurrency",
}

// comparatorFlags are the flags shared by verify and batch
type comparatorFlags struct {
	provider  string
	model     string
	noCache   bool
	noFooter  bool
	noResolve bool
	noFilter  bool
}

func (f *comparatorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "comparator backend (heuristic, openai, anthropic, gemini, ollama)")
	cmd.Flags().StringVar(&f.model, "model", "", "LLM model name (provider default if empty)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable comparator response cache")
	cmd.Flags().BoolVar(&f.noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().BoolVar(&f.noResolve, "no-resolve", false, "skip automatic conflict resolution")
	cmd.Flags().BoolVar(&f.noFilter, "no-filter", false, "skip filtering contradicted claims from the description")
}

// apply overrides cfg with the flags that were set
func (f *comparatorFlags) apply(cfg *model.Config) {
	if f.provider != "" {
		cfg.LLM.Provider = f.provider
	}
	if f.model != "" {
		cfg.LLM.Model = f.model
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	if f.noFooter {
		cfg.Output.IncludeFooter = false
	}
	if f.noResolve {
		cfg.Verification.AutoResolve = false
	}
	if f.noFilter {
		cfg.Verification.FilterClaims = false
	}
}

// loadConfig merges defaults, the config file, CROSSCHECK_* variables and
// flags, in increasing priority.
func loadConfig(flags *comparatorFlags) (*model.Config, error) {
	cfg, err := settingsConfig()
	if err != nil {
		return nil, err
	}

	if flags != nil {
		flags.apply(cfg)
	}
	cfg.Output.Verbose = verbose

	if err := applyProviderEnv(&cfg.LLM); err != nil {
		return nil, err
	}

	return cfg, nil
}

// settingsConfig decodes the config file and environment over the defaults.
// Maps such as trust.domains merge with the built-in entries.
func settingsConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := settings.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// applyProviderEnv fills credentials from the provider's conventional
// environment variables when the config does not set them.
func applyProviderEnv(cfg *model.LLMConfig) error {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "gemini", "google":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		}
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
		if cfg.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case "ollama":
		if cfg.BaseURL == "" {
			cfg.BaseURL = ollamaBaseURL(os.Getenv("OLLAMA_BASE_URL"))
		}
	}
	return nil
}

// ollamaBaseURL points a bare Ollama server URL at its OpenAI-compatible API
func ollamaBaseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" || strings.HasSuffix(raw, "/v1") {
		return raw
	}
	return raw + "/v1"
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage crosscheck configuration",
	Long: `Manage crosscheck configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CROSSCHECK_*)
3. Config file (~/.crosscheck/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file and environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := settingsConfig()
		if err != nil {
			return err
		}
		if cfg.LLM.APIKey != "" {
			cfg.LLM.APIKey = "****"
		}

		if configFile := settings.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, string(yamlData))
		fmt.Fprintln(out, "Configuration hierarchy (highest to lowest priority):")
		fmt.Fprintln(out, "  1. CLI flags")
		fmt.Fprintln(out, "  2. Environment variables (CROSSCHECK_*, OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY)")
		fmt.Fprintln(out, "  3. Config file (~/.crosscheck/config.yaml)")
		fmt.Fprintln(out, "  4. Defaults")

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.crosscheck/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configPath := filepath.Join(home, ".crosscheck", "config.yaml")
		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created default configuration: %s\n", configPath)
		fmt.Fprintf(out, "\nTo view the configuration:\n")
		fmt.Fprintf(out, "  crosscheck config show\n")
		return nil
	},
}

// writeDefaultConfig writes the commented default config to path. It never
// overwrites an existing file.
func writeDefaultConfig(path string) (err error) {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'crosscheck config show' to view it, or delete it first to recreate", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# crosscheck configuration\n")
	printf("#\n")
	printf("# Configuration hierarchy (highest to lowest priority):\n")
	printf("#   1. CLI flags\n")
	printf("#   2. Environment variables (CROSSCHECK_*)\n")
	printf("#   3. This config file\n")
	printf("#   4. Built-in defaults\n")
	printf("#\n")
	printf("# llm.provider: heuristic runs offline; openai, anthropic, gemini and ollama call an LLM.\n")
	printf("# trust.domains: higher ranks win automatic conflict resolution; \"default\" covers unknown domains.\n\n")
	printf("%s", yamlData)
	printf("\n# API keys (recommended to use environment variables instead):\n")
	printf("#   export OPENAI_API_KEY=sk-...\n")
	printf("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
	printf("#   export GEMINI_API_KEY=...\n")
	printf("#   export OLLAMA_BASE_URL=http://localhost:11434\n")

	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
