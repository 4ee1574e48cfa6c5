package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gaurav-prasanna/chunkpipe/core/batch"
	"github.com/gaurav-prasanna/chunkpipe/core/verify"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	flagPrompt     string
	flagPromptFile string
)

var verifyCmd = &cobra.Command{
	Use:   "verify [folder]",
	Short: "Check every file in a folder with the LLM and rewrite improved ones",
	Long: `Verify sends each .txt file of the folder (prompts_folder by default) to the
text-generation service with the given instruction. When the answer differs
from the file beyond whitespace, the file is replaced with the answer.

Examples:
  chunkpipe verify --prompt-file instructions.txt
  chunkpipe verify ./prompts --prompt "Fix grammar, keep the meaning." --delay 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&flagPrompt, "prompt", "", "Instruction prompt")
	verifyCmd.Flags().StringVar(&flagPromptFile, "prompt-file", "", "File holding the instruction prompt")
	verifyCmd.Flags().String("prompts-folder", "", "Folder to verify")
	verifyCmd.MarkFlagsMutuallyExclusive("prompt", "prompt-file")
	addServiceFlags(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir := cfg.PromptsFolder
	if len(args) == 1 {
		dir = args[0]
	}

	instruction, err := readInstruction()
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	v := verify.New(appFs, client, newRunner(), log)
	v.Model = cfg.Model
	v.Temperature = cfg.Temperature

	log.Info("verifying folder", "folder", dir, "model", cfg.Model)
	stats, err := v.VerifyFolder(cmd.Context(), dir, instruction, printProgress)
	if stats.Total > 0 {
		fmt.Fprintln(os.Stdout, batch.FormatStats("Verification complete", stats, verify.Outcomes...))
	}
	return err
}

func readInstruction() (string, error) {
	text := flagPrompt
	if flagPromptFile != "" {
		data, err := afero.ReadFile(appFs, flagPromptFile)
		if err != nil {
			return "", fmt.Errorf("reading prompt file: %w", err)
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("an instruction is required: use --prompt or --prompt-file")
	}
	return text, nil
}
