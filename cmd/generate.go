package cmd

import (
	"fmt"
	"os"

	"github.com/gaurav-prasanna/chunkpipe/core/batch"
	"github.com/gaurav-prasanna/chunkpipe/core/prompts"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate prompt files from the chunk files",
	Long: `Generate sends each chunk file to the text-generation service with the
configured system_prompt and writes the answer to the prompts folder under
the same name. {{ .Count }} in system_prompt expands to prompts_count.

Examples:
  chunkpipe generate
  chunkpipe generate --chunks-folder ./out --prompts-folder ./prompts --model llama-3.1-8b-instant`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("chunks-folder", "", "Folder holding the chunk files")
	generateCmd.Flags().String("prompts-folder", "", "Output folder for prompt files")
	addServiceFlags(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	system, err := prompts.RenderSystemPrompt(cfg.SystemPrompt, cfg.PromptsCount)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	g := prompts.New(appFs, client, newRunner(), log)
	g.Model = cfg.Model
	g.Temperature = cfg.Temperature

	log.Info("generating prompts", "chunks", cfg.ChunksFolder, "prompts", cfg.PromptsFolder, "model", cfg.Model)
	stats, err := g.GenerateFolder(cmd.Context(), cfg.ChunksFolder, cfg.PromptsFolder, system, printProgress)
	if stats.Total > 0 {
		fmt.Fprintln(os.Stdout, batch.FormatStats("Generation complete", stats, prompts.Outcomes...))
	}
	return err
}
