package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	Long: `Show prints the configuration after defaults, the configuration document,
CHUNKPIPE_* environment variables and flags have been applied. The API key
is never printed.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(cfg)
	},
}

func init() {
	configShowCmd.Flags().Int("chunk-size", 0, "Target chunk size in characters")
	configShowCmd.Flags().Float64("tolerance", 0, "Fraction a chunk may exceed the target size")
	configShowCmd.Flags().Float64("min-threshold", 0, "Fraction of the target size below which a chunk is merged")
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
