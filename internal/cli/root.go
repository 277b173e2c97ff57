package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time
var Version = "v0.1.0"

// ErrGateFailed is returned under --strict when a bundle fails verification
var ErrGateFailed = errors.New("verification gate failed")

// keyDelimiter separates nested config keys. Trust domains contain dots,
// so viper's default "." cannot be used.
const keyDelimiter = "::"

var (
	cfgFile  string
	verbose  bool
	logger   = zap.NewNop()
	settings = newSettings()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "crosscheck",
	Short: "Crosscheck - cross-source truth verification for product data",
	Long: `Crosscheck compares what several sources say about the same product.

It finds fields on which sources disagree, checks every claim of a merged
product description against each source, and reports whether the merged
record can be trusted.

Verdicts reflect agreement between the sources you supply. Crosscheck does
not decide what is true.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "crosscheck %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.crosscheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// newSettings returns a viper instance keyed by keyDelimiter that reads
// CROSSCHECK_* variables (CROSSCHECK_LLM_PROVIDER maps to llm::provider).
func newSettings() *viper.Viper {
	v := viper.NewWithOptions(
		viper.KeyDelimiter(keyDelimiter),
		viper.EnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_")),
	)
	v.SetEnvPrefix("CROSSCHECK")
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// initConfig reads .env and the config file
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	if cfgFile != "" {
		settings.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		settings.AddConfigPath(filepath.Join(home, ".crosscheck"))
		settings.SetConfigType("yaml")
		settings.SetConfigName("config")
	}

	if err := settings.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", settings.ConfigFileUsed())
	}
}

// newLogger builds a production logger, at debug level with --verbose
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
