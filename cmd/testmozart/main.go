package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/krishnaji/testmozart/internal/config"
	"github.com/krishnaji/testmozart/internal/logging"
)

var (
	// Global flags
	verbose    bool
	apiKey     string
	configPath string
	workspace  string
	plain      bool
	timeout    time.Duration

	// Logger
	logger *zap.Logger

	// Loaded configuration, available to every subcommand after PreRun.
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "testmozart",
	Short: "testmozart - automated test suite generation and refinement",
	Long: `testmozart generates unit test suites for your code.

It analyzes the structure of a source file, designs test scenarios with an
LLM, implements them as a runnable suite, executes the suite in a sandbox,
and iteratively refines failing tests until they pass or the retry budget
runs out. The final suite is printed and optionally written next to the
source file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, _ = os.Getwd()
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("file logging unavailable", zap.Error(err))
		}

		path := configPath
		if path == "" {
			path = config.DefaultPath(workspace)
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}
		if timeout > 0 {
			cfg.LLM.Timeout = timeout.String()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default .testmozart/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", "", "workspace directory (default current directory)")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "disable terminal markdown rendering")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-completion timeout override")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("testmozart %s\n", cfg.Version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
