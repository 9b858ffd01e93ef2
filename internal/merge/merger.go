// Package merge orchestrates one complete run: scanning, rendering the
// requested views, confirming with the operator, assembling the artifact, and
// delivering it to its destination.
package merge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/dirmerge/dirmerge/internal/output"
	"github.com/dirmerge/dirmerge/internal/render"
	"github.com/dirmerge/dirmerge/internal/sanitize"
	"github.com/dirmerge/dirmerge/internal/scanner"
	"github.com/dirmerge/dirmerge/internal/services/clipboard"
	"github.com/dirmerge/dirmerge/internal/tokenizer"
	"github.com/dirmerge/dirmerge/internal/types"
	"github.com/dirmerge/dirmerge/internal/utils"
)

// Request carries every per-run parameter the orchestrator needs.
type Request struct {
	RootDirectory   string
	OutputPath      string
	ToStdout        bool
	CopyToClipboard bool

	ShowTree  bool
	ShowList  bool
	ShowStats bool

	SkipConfirmation bool
	EnableSanitize   bool
	CustomRules      []sanitize.Rule

	HeadLines int
	TailLines int

	// IncludeMerge selects whether file bodies appear in the artifact.
	IncludeMerge bool
}

// Merger wires the scan, render, and output stages together.
type Merger struct {
	directoryScanner *scanner.Scanner
	generator        output.Generator
	treeBuilder      *render.TreeBuilder
	listBuilder      *render.ListBuilder
	clipboardCopier  clipboard.Copier
	tokenCounter     tokenizer.Counter

	// confirmationInput defaults to stdin; tests substitute a reader.
	confirmationInput io.Reader
	// statusOutput, when set, replaces the stdout/stderr status stream.
	statusOutput io.Writer
}

// New constructs a Merger. treeBuilder, listBuilder, clipboardCopier, and
// tokenCounter may be nil when the corresponding feature was not requested.
func New(directoryScanner *scanner.Scanner, generator output.Generator, treeBuilder *render.TreeBuilder, listBuilder *render.ListBuilder, clipboardCopier clipboard.Copier, tokenCounter tokenizer.Counter) *Merger {
	return &Merger{
		directoryScanner:  directoryScanner,
		generator:         generator,
		treeBuilder:       treeBuilder,
		listBuilder:       listBuilder,
		clipboardCopier:   clipboardCopier,
		tokenCounter:      tokenCounter,
		confirmationInput: os.Stdin,
	}
}

// SetConfirmationInput overrides the reader used for the confirmation prompt.
func (merger *Merger) SetConfirmationInput(reader io.Reader) {
	merger.confirmationInput = reader
}

// SetStatusOutput overrides the writer used for status and view output.
func (merger *Merger) SetStatusOutput(writer io.Writer) {
	merger.statusOutput = writer
}

// Run executes the full pipeline for one request. Validation has already
// happened at the CLI boundary; errors returned here are fatal write or
// delivery failures.
func (merger *Merger) Run(request Request) error {
	// Status lines go to stderr when the artifact itself streams to stdout.
	statusStream := io.Writer(os.Stdout)
	if request.ToStdout {
		statusStream = os.Stderr
	}
	if merger.statusOutput != nil {
		statusStream = merger.statusOutput
	}

	displayOnly := (request.ShowTree || request.ShowList || request.ShowStats) &&
		request.OutputPath == "" && !request.ToStdout && !request.CopyToClipboard

	fmt.Fprintln(statusStream, "Scanning files...")
	records, scanStatistics := merger.directoryScanner.Scan(request.RootDirectory)
	reportScanResults(statusStream, records, scanStatistics)

	var treeText string
	if request.ShowTree && merger.treeBuilder != nil {
		treeText = merger.treeBuilder.Render(request.RootDirectory)
	}
	var listText string
	if request.ShowList && merger.listBuilder != nil {
		listText = merger.listBuilder.Build(records)
	}

	if displayOnly {
		merger.renderViews(statusStream, request, records, treeText)
		return nil
	}

	if shouldConfirm(request) {
		confirmed, promptError := merger.confirmDestination(request.OutputPath)
		if promptError != nil {
			return promptError
		}
		if !confirmed {
			fmt.Fprintln(statusStream, "Cancelled")
			return nil
		}
	}

	var tokenTotal int
	if merger.tokenCounter != nil {
		tokenTotal = tokenizer.SumRecordTokens(merger.tokenCounter, records)
	}

	fmt.Fprintln(statusStream, "Merging...")
	content, sanitizeStatistics := merger.generator.Generate(records, request.RootDirectory, output.Options{
		IncludeStats:   request.ShowStats,
		IncludeTree:    request.ShowTree,
		IncludeList:    request.ShowList,
		IncludeMerge:   request.IncludeMerge,
		TreeText:       treeText,
		ListText:       listText,
		EnableSanitize: request.EnableSanitize,
		CustomRules:    request.CustomRules,
		HeadLines:      request.HeadLines,
		TailLines:      request.TailLines,
		TokenTotal:     tokenTotal,
	})

	if deliveryError := merger.deliver(request, content); deliveryError != nil {
		return deliveryError
	}

	reportCompletion(statusStream, request, len(records), sanitizeStatistics)
	return nil
}

// shouldConfirm reports whether the run pauses for operator confirmation.
// Streaming destinations and explicit bypass skip the prompt.
func shouldConfirm(request Request) bool {
	if request.SkipConfirmation || request.ToStdout || request.CopyToClipboard {
		return false
	}
	return request.OutputPath != ""
}

// confirmDestination prompts before overwriting the destination file.
func (merger *Merger) confirmDestination(outputPath string) (bool, error) {
	fmt.Print(color.YellowString("Merge into '%s'? (y/n): ", outputPath))

	lineReader := bufio.NewReader(merger.confirmationInput)
	responseLine, readError := lineReader.ReadString('\n')
	if readError != nil && responseLine == "" {
		return false, fmt.Errorf("reading confirmation: %w", readError)
	}

	response := strings.ToLower(strings.TrimSpace(responseLine))
	return response == "y" || response == "yes", nil
}

// deliver routes the assembled content to stdout, the clipboard, or the
// destination file. Write failures are fatal to the run.
func (merger *Merger) deliver(request Request, content string) error {
	if request.ToStdout {
		fmt.Println(content)
		return nil
	}

	if request.CopyToClipboard && merger.clipboardCopier != nil {
		if copyError := merger.clipboardCopier.Copy(content); copyError != nil {
			return fmt.Errorf("copying to clipboard: %w", copyError)
		}
		if request.OutputPath == "" {
			return nil
		}
	}

	if request.OutputPath != "" {
		if writeError := os.WriteFile(request.OutputPath, []byte(content), 0o644); writeError != nil {
			if os.IsPermission(writeError) {
				return fmt.Errorf("permission denied writing to '%s'", request.OutputPath)
			}
			return fmt.Errorf("cannot write to '%s': %w", request.OutputPath, writeError)
		}
	}

	return nil
}

// renderViews prints the requested views in display-only mode. The list view
// carries per-file size and line count here; the artifact's list section stays
// plain paths.
func (merger *Merger) renderViews(statusStream io.Writer, request Request, records []types.FileRecord, treeText string) {
	if request.ShowTree && treeText != "" {
		fmt.Fprintln(statusStream, "\nDirectory tree:")
		fmt.Fprintln(statusStream, treeText)
	}
	if request.ShowList && merger.listBuilder != nil {
		if detailedList := merger.listBuilder.BuildWithDetails(records); detailedList != "" {
			fmt.Fprintln(statusStream, "\nFile list:")
			fmt.Fprintln(statusStream, detailedList)
		}
	}
	if request.ShowStats {
		var tokenTotal int
		if merger.tokenCounter != nil {
			tokenTotal = tokenizer.SumRecordTokens(merger.tokenCounter, records)
		}
		printStatistics(statusStream, output.Summarize(records), tokenTotal)
	}
}

// reportScanResults prints the post-scan summary lines.
func reportScanResults(statusStream io.Writer, records []types.FileRecord, scanStatistics types.ScanStatistics) {
	fmt.Fprintf(statusStream, "Found %d files\n", len(records))
	if scanStatistics.GlobFiltered > 0 {
		fmt.Fprintf(statusStream, "Filtered by glob: %d files\n", scanStatistics.GlobFiltered)
	}
	if scanStatistics.Ignored > 0 {
		fmt.Fprintf(statusStream, "Ignored by patterns: %d files/directories\n", scanStatistics.Ignored)
	}
}

// reportCompletion prints the final status and the sanitize statistics report.
func reportCompletion(statusStream io.Writer, request Request, recordCount int, sanitizeStatistics types.SanitizeStats) {
	switch {
	case request.ToStdout:
		fmt.Fprintf(statusStream, "Done! %d files merged\n", recordCount)
	case request.OutputPath != "":
		fmt.Fprintln(statusStream)
		fmt.Fprintln(statusStream, color.GreenString("Done! %d files merged into '%s'", recordCount, request.OutputPath))
	default:
		fmt.Fprintln(statusStream, color.GreenString("Done! %d files copied to clipboard", recordCount))
	}

	if len(sanitizeStatistics) > 0 {
		categoryLabels := make([]string, 0, len(sanitizeStatistics))
		for categoryLabel := range sanitizeStatistics {
			categoryLabels = append(categoryLabels, categoryLabel)
		}
		sort.Strings(categoryLabels)

		fmt.Fprintln(statusStream, "\nSanitization stats:")
		for _, categoryLabel := range categoryLabels {
			fmt.Fprintf(statusStream, "  %s: %d\n", categoryLabel, sanitizeStatistics[categoryLabel])
		}
	}
}

// printStatistics renders the standalone statistics block for display-only mode.
func printStatistics(statusStream io.Writer, summary output.Summary, tokenTotal int) {
	banner := strings.Repeat("=", 50)
	fmt.Fprintln(statusStream)
	fmt.Fprintln(statusStream, banner)
	fmt.Fprintln(statusStream, "Statistics")
	fmt.Fprintln(statusStream, banner)
	fmt.Fprintf(statusStream, "Total files:  %s\n", utils.GroupDigits(summary.TotalFiles))
	fmt.Fprintf(statusStream, "Total lines:  %s\n", utils.GroupDigits(summary.TotalLines))
	fmt.Fprintf(statusStream, "Total size:   %s\n", utils.FormatSize(summary.TotalSize))
	if tokenTotal > 0 {
		fmt.Fprintf(statusStream, "Total tokens: %s\n", utils.GroupDigits(tokenTotal))
	}

	if len(summary.ByExtension) > 0 {
		fmt.Fprintln(statusStream, "\nBy extension:")
		for _, extensionStatistics := range summary.ByExtension {
			fmt.Fprintf(statusStream, "  %-15s %4d files  %6s lines  %10s\n",
				extensionStatistics.Extension,
				extensionStatistics.Count,
				utils.GroupDigits(extensionStatistics.Lines),
				utils.FormatSize(extensionStatistics.Size))
		}
	}
	fmt.Fprintln(statusStream, banner)
	fmt.Fprintln(statusStream)
}
