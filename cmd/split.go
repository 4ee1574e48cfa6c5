// Package cmd — split command.
// This is the main command that orchestrates the pipeline:
// fetch → (extract → normalize for HTML) → chunk → write → report.
//
// Nothing is written until the source has been read and chunked, and the
// chunk files are written all-or-nothing.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/gaurav-prasanna/chunkpipe/core"
	"github.com/gaurav-prasanna/chunkpipe/core/chunk"
	"github.com/gaurav-prasanna/chunkpipe/core/extract"
	"github.com/gaurav-prasanna/chunkpipe/core/fetch"
	"github.com/gaurav-prasanna/chunkpipe/core/normalize"
	"github.com/gaurav-prasanna/chunkpipe/core/output"
	"github.com/gaurav-prasanna/chunkpipe/core/render"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// errAborted is returned when the user declines to clear the chunks folder.
var errAborted = errors.New("aborted: chunks folder left untouched")

// Flag variables.
var (
	flagYes    bool
	flagDryRun bool
	flagReport string
)

var splitCmd = &cobra.Command{
	Use:   "split [source]",
	Short: "Split a text file or URL into numbered chunk files",
	Long: `Split reads the source text (a local file or an http(s) URL; HTML is reduced
to its main content), packs its paragraphs into chunks of about --chunk-size
characters and writes them as 01.txt, 02.txt, … into the chunks folder.

The source defaults to source_text_file from the configuration document.

Examples:
  chunkpipe split book.txt
  chunkpipe split book.txt --chunk-size 1500 --chunks-folder ./out --yes
  chunkpipe split https://example.com/story.html --report split.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().Int("chunk-size", chunk.DefaultMaxSize, "Target chunk size in characters")
	splitCmd.Flags().Float64("tolerance", chunk.DefaultTolerance, "Fraction a chunk may exceed the target size")
	splitCmd.Flags().Float64("min-threshold", chunk.DefaultMinThreshold, "Fraction of the target size below which a chunk is merged")
	splitCmd.Flags().String("chunks-folder", "", "Output folder for chunk files")

	splitCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Clear a non-empty chunks folder without asking")
	splitCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the chunk sizes without writing files")
	splitCmd.Flags().StringVar(&flagReport, "report", "", "Write a split report (.json, .md or .pdf)")
}

func runSplit(cmd *cobra.Command, args []string) error {
	source := cfg.SourceTextFile
	if len(args) == 1 {
		source = args[0]
	}
	if strings.TrimSpace(source) == "" {
		return errors.New("no source given: pass a file or URL, or set source_text_file")
	}

	params := cfg.ChunkParams()
	if err := params.Validate(); err != nil {
		return err
	}

	var renderer core.Renderer
	if flagReport != "" {
		r, err := render.ForPath(flagReport)
		if err != nil {
			return err
		}
		renderer = r
	}

	text, err := readSource(cmd.Context(), fetch.NewAuto(appFs), source)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("source is empty: %s", source)
	}

	chunks, merged := chunk.New(params).Split(text)
	log.Info("text split", "source", source, "chunks", len(chunks), "merged", merged,
		"max_allowed", params.MaxAllowed(), "min_size", params.MinSize())

	if flagDryRun {
		for i, c := range chunks {
			fmt.Fprintf(os.Stdout, "%s  %d characters\n", output.FileName(i+1), len([]rune(c)))
		}
		fmt.Fprintf(os.Stdout, "%d chunks, %d merged\n", len(chunks), merged)
		return nil
	}

	writer, err := output.New(appFs, cfg.ChunksFolder)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	if err := prepareFolder(writer); err != nil {
		return err
	}

	infos, err := writer.WriteChunks(chunks)
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Fprintf(os.Stdout, "✓ Written: %s (%d characters)\n", info.File, info.Length)
	}
	fmt.Fprintf(os.Stdout, "\n%d chunks written to %s, %d short chunks merged\n", len(infos), writer.Dir, merged)

	if renderer != nil {
		report := buildReport(source, params, merged, infos)
		if err := writeReport(renderer, report, flagReport); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✓ Report: %s\n", flagReport)
	}
	return nil
}

// readSource fetches the source and reduces HTML to Markdown text.
func readSource(ctx context.Context, fetcher core.Fetcher, location string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	if !fetch.IsHTML(src) {
		return src.Text, nil
	}

	log.Debug("HTML source, extracting main content", "source", location)
	content, err := extract.New().Extract(src.Text)
	if err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}
	markdown, err := normalize.New().Normalize(content)
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}
	return markdown, nil
}

// prepareFolder clears a non-empty chunks folder once the user agrees.
func prepareFolder(writer *output.Writer) error {
	empty, err := writer.IsEmpty()
	if err != nil || empty {
		return err
	}

	if !flagYes {
		ok, err := confirmClear(writer.Dir)
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}
	log.Info("clearing chunks folder", "folder", writer.Dir)
	return writer.Clear()
}

func confirmClear(dir string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("%w: %s (re-run with --yes to clear it)", output.ErrFolderNotEmpty, dir)
	}
	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("The folder %s is not empty. Delete its contents?", dir)).
		Affirmative("Clear").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirming: %w", err)
	}
	return ok, nil
}

func buildReport(source string, params chunk.Params, merged int, infos []core.ChunkInfo) core.SplitReport {
	return core.SplitReport{
		Source:       source,
		MaxSize:      params.MaxSize,
		Tolerance:    params.Tolerance,
		MinThreshold: params.MinThreshold,
		MaxAllowed:   params.MaxAllowed(),
		MinSize:      params.MinSize(),
		Merged:       merged,
		Chunks:       infos,
		CreatedAt:    time.Now().UTC(),
	}
}

func writeReport(renderer core.Renderer, report core.SplitReport, path string) error {
	data, err := renderer.Render(report)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := afero.WriteFile(appFs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
