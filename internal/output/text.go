package output

import (
	"fmt"
	"strings"

	"github.com/dirmerge/dirmerge/internal/sanitize"
	"github.com/dirmerge/dirmerge/internal/types"
	"github.com/dirmerge/dirmerge/internal/utils"
)

// TextGenerator renders the artifact as plain delimited text.
type TextGenerator struct{}

// Generate assembles the plain text artifact.
func (generator *TextGenerator) Generate(records []types.FileRecord, rootDirectory string, options Options) (string, types.SanitizeStats) {
	var builder strings.Builder
	accumulatedCounts := types.SanitizeStats{}
	sanitizer := sanitize.New(options.EnableSanitize, options.CustomRules)

	if options.IncludeStats {
		writeTextStatistics(&builder, Summarize(records), options.TokenTotal)
	}

	if options.IncludeTree && options.TreeText != "" {
		builder.WriteString("=== Directory Structure ===\n")
		writeVerbatimSection(&builder, options.TreeText)
	}

	if options.IncludeList && options.ListText != "" {
		builder.WriteString("=== File List ===\n")
		writeVerbatimSection(&builder, options.ListText)
	}

	if options.IncludeMerge {
		for _, record := range records {
			displayPath := utils.DisplayPath(record.Path, rootDirectory)
			fmt.Fprintf(&builder, "--- %s ---\n", displayPath)

			fileContent, fileCounts, readError := loadFileBody(record.Path, sanitizer, options)
			if readError != nil {
				builder.WriteString(readErrorPlaceholder(record.Path, readError))
				builder.WriteString("\n\n")
				continue
			}
			accumulatedCounts.MergeCounts(fileCounts)

			builder.WriteString(fileContent)
			builder.WriteString("\n\n")
		}
	}

	return builder.String(), accumulatedCounts
}

// writeTextStatistics renders the aggregate statistics section including the
// per-extension breakdown table.
func writeTextStatistics(builder *strings.Builder, summary Summary, tokenTotal int) {
	builder.WriteString("=== Statistics ===\n")
	fmt.Fprintf(builder, "Total files: %s\n", utils.GroupDigits(summary.TotalFiles))
	fmt.Fprintf(builder, "Total lines: %s\n", utils.GroupDigits(summary.TotalLines))
	fmt.Fprintf(builder, "Total size: %s\n", utils.FormatSize(summary.TotalSize))
	if tokenTotal > 0 {
		fmt.Fprintf(builder, "Total tokens: %s\n", utils.GroupDigits(tokenTotal))
	}

	if len(summary.ByExtension) > 0 {
		builder.WriteString("\nBy extension:\n")
		for _, extensionStatistics := range summary.ByExtension {
			fmt.Fprintf(builder, "  %-15s %4d files  %6s lines  %10s\n",
				extensionStatistics.Extension,
				extensionStatistics.Count,
				utils.GroupDigits(extensionStatistics.Lines),
				utils.FormatSize(extensionStatistics.Size))
		}
	}

	builder.WriteString("\n")
}

// writeVerbatimSection appends a pre-rendered block, normalizing the trailing newline.
func writeVerbatimSection(builder *strings.Builder, sectionText string) {
	builder.WriteString(sectionText)
	if !strings.HasSuffix(sectionText, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
}
