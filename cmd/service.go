package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/chunkpipe/core/batch"
	"github.com/gaurav-prasanna/chunkpipe/core/llm"
	"github.com/spf13/cobra"
)

var errNoAPIKey = errors.New("no API key: set GROQ_API_KEY (or CHUNKPIPE_API_KEY) in the environment or .env")

// addServiceFlags registers the flags shared by commands that call the
// text-generation service.
func addServiceFlags(c *cobra.Command) {
	c.Flags().String("model", "", "Model name")
	c.Flags().Float64("temperature", 0, "Sampling temperature")
	c.Flags().Int("delay", 0, "Pause between files in seconds")
	c.Flags().String("base-url", "", "Base URL of the OpenAI-compatible API")
}

// newClient builds the service client from the loaded configuration.
func newClient() (*llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, errNoAPIKey
	}
	return llm.New(llm.Options{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey}, log), nil
}

func newRunner() *batch.Runner {
	return batch.New(appFs, cfg.DelayDuration(), log)
}

// printProgress writes "[i/N] name" for every file of a batch.
func printProgress(index, total int, name string) {
	fmt.Fprintf(os.Stdout, "[%d/%d] %s\n", index, total, name)
}
