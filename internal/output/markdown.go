package output

import (
	"fmt"
	"strings"

	"github.com/dirmerge/dirmerge/internal/sanitize"
	"github.com/dirmerge/dirmerge/internal/types"
	"github.com/dirmerge/dirmerge/internal/utils"
)

// MarkdownGenerator renders the artifact as Markdown with fenced code blocks.
type MarkdownGenerator struct{}

// Generate assembles the Markdown artifact.
func (generator *MarkdownGenerator) Generate(records []types.FileRecord, rootDirectory string, options Options) (string, types.SanitizeStats) {
	var builder strings.Builder
	accumulatedCounts := types.SanitizeStats{}
	sanitizer := sanitize.New(options.EnableSanitize, options.CustomRules)

	if options.IncludeStats {
		writeMarkdownStatistics(&builder, Summarize(records), options.TokenTotal)
	}

	if options.IncludeTree && options.TreeText != "" {
		builder.WriteString("## Directory Structure\n\n")
		writeFencedSection(&builder, options.TreeText)
	}

	if options.IncludeList && options.ListText != "" {
		builder.WriteString("## File List\n\n")
		writeFencedSection(&builder, options.ListText)
	}

	if options.IncludeMerge {
		builder.WriteString("## Files\n\n")

		for _, record := range records {
			displayPath := utils.DisplayPath(record.Path, rootDirectory)
			languageTag := LanguageForFile(record.Path)

			fmt.Fprintf(&builder, "### `%s`\n\n", displayPath)

			fileContent, fileCounts, readError := loadFileBody(record.Path, sanitizer, options)
			if readError != nil {
				fmt.Fprintf(&builder, "```text\n%s\n```\n\n", readErrorPlaceholder(record.Path, readError))
				continue
			}
			accumulatedCounts.MergeCounts(fileCounts)

			fmt.Fprintf(&builder, "```%s\n", languageTag)
			builder.WriteString(fileContent)
			if !strings.HasSuffix(fileContent, "\n") {
				builder.WriteString("\n")
			}
			builder.WriteString("```\n\n")
		}
	}

	return builder.String(), accumulatedCounts
}

// writeMarkdownStatistics renders the summary section with the per-extension table.
func writeMarkdownStatistics(builder *strings.Builder, summary Summary, tokenTotal int) {
	builder.WriteString("## Summary\n\n")
	fmt.Fprintf(builder, "- **Total files**: %d\n", summary.TotalFiles)
	fmt.Fprintf(builder, "- **Total lines**: %s\n", utils.GroupDigits(summary.TotalLines))
	fmt.Fprintf(builder, "- **Total size**: %s\n", utils.FormatSize(summary.TotalSize))
	if tokenTotal > 0 {
		fmt.Fprintf(builder, "- **Total tokens**: %s\n", utils.GroupDigits(tokenTotal))
	}
	builder.WriteString("\n")

	if len(summary.ByExtension) > 0 {
		builder.WriteString("### By Extension\n\n")
		builder.WriteString("| Extension | Files | Lines | Size |\n")
		builder.WriteString("|-----------|-------|-------|------|\n")
		for _, extensionStatistics := range summary.ByExtension {
			fmt.Fprintf(builder, "| %s | %d | %s | %s |\n",
				extensionStatistics.Extension,
				extensionStatistics.Count,
				utils.GroupDigits(extensionStatistics.Lines),
				utils.FormatSize(extensionStatistics.Size))
		}
		builder.WriteString("\n")
	}

	builder.WriteString("---\n\n")
}

// writeFencedSection appends a pre-rendered block inside a plain code fence.
func writeFencedSection(builder *strings.Builder, sectionText string) {
	builder.WriteString("```\n")
	builder.WriteString(sectionText)
	if !strings.HasSuffix(sectionText, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString("```\n\n")
	builder.WriteString("---\n\n")
}
