// Package cmd implements the CLI commands for chunkpipe using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gaurav-prasanna/chunkpipe/config"
	"github.com/gaurav-prasanna/chunkpipe/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Shared state, set up by the root command before any subcommand runs.
var (
	appFs = afero.NewOsFs()
	cfg   *config.Config
	log   logger.Logger = logger.Discard()
)

// Persistent flag variables.
var (
	flagConfig   string
	flagLogLevel string
	flagLogJSON  bool
)

// flagToKey maps CLI flags onto configuration document keys.
var flagToKey = map[string]string{
	"chunk-size":     "chunk_size",
	"tolerance":      "chunk_tolerance",
	"min-threshold":  "chunk_min_threshold",
	"chunks-folder":  "chunks_folder",
	"prompts-folder": "prompts_folder",
	"model":          "model",
	"temperature":    "temperature",
	"delay":          "delay",
	"base-url":       "base_url",
}

var rootCmd = &cobra.Command{
	Use:   "chunkpipe",
	Short: "chunkpipe — split text into bounded chunks and run them through an LLM",
	Long: `chunkpipe splits a source text into size-bounded chunks written as
numbered files (01.txt, 02.txt, …), generates prompts from them and verifies
the results with an OpenAI-compatible text-generation service.

Usage:
  chunkpipe split [source] [flags]
  chunkpipe generate [flags]
  chunkpipe verify [folder] [flags]`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "Configuration document (JSON)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "Write logs as JSON")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup initializes logging and loads the configuration.
func setup(cmd *cobra.Command, _ []string) error {
	log = logger.New(&logger.Config{
		Level:      flagLogLevel,
		Output:     os.Stderr,
		JSON:       flagLogJSON,
		TimeFormat: "15:04:05",
	})

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	added, err := config.EnsureChunkerSettings(appFs, flagConfig)
	if err != nil {
		return err
	}
	for _, key := range added {
		log.Info("added configuration default", "key", key, "file", flagConfig)
	}

	required := cmd.Flags().Changed("config")
	loaded, err := config.NewLoader(appFs).Load(flagConfig, required, flagOverrides(cmd.Flags()))
	if err != nil {
		return err
	}
	cfg = loaded
	log.Debug("configuration loaded", "file", flagConfig, "chunk_size", cfg.ChunkSize, "model", cfg.Model)
	return nil
}

// flagOverrides collects explicitly set flags as configuration keys.
func flagOverrides(flags *pflag.FlagSet) map[string]any {
	overrides := make(map[string]any)
	for name, key := range flagToKey {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		overrides[key] = f.Value.String()
	}
	return overrides
}
