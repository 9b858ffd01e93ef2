// Package output assembles the final artifact from scanned file records. Two
// renderings exist, plain text and Markdown, behind a shared Generator
// interface; both apply content windowing and sanitization per file.
package output

import (
	"fmt"
	"os"

	"github.com/dirmerge/dirmerge/internal/sanitize"
	"github.com/dirmerge/dirmerge/internal/types"
	"github.com/dirmerge/dirmerge/internal/utils"
)

// Options controls which sections the assembled artifact contains and how the
// per-file content pipeline behaves.
type Options struct {
	IncludeStats bool
	IncludeTree  bool
	IncludeList  bool
	IncludeMerge bool

	// TreeText and ListText are pre-rendered views passed through verbatim.
	TreeText string
	ListText string

	EnableSanitize bool
	CustomRules    []sanitize.Rule

	HeadLines int
	TailLines int

	// TokenTotal, when positive, is reported in the statistics section.
	TokenTotal int
}

// Generator renders file records into one output artifact, returning the
// content together with the accumulated sanitize statistics.
type Generator interface {
	Generate(records []types.FileRecord, rootDirectory string, options Options) (string, types.SanitizeStats)
}

// NewGenerator returns the Generator for the requested format. Formats outside
// the known set fall back to plain text.
func NewGenerator(format string) Generator {
	if format == types.FormatMarkdown {
		return &MarkdownGenerator{}
	}
	return &TextGenerator{}
}

// loadFileBody runs the per-file content pipeline: lossy read, windowing, then
// sanitization. The returned counts are merged into the run-wide accumulator
// by the caller.
func loadFileBody(filePath string, sanitizer *sanitize.Sanitizer, options Options) (string, types.SanitizeStats, error) {
	fileContent, readError := utils.ReadTextFile(filePath)
	if readError != nil {
		return "", nil, readError
	}

	fileContent = ApplyWindow(fileContent, options.HeadLines, options.TailLines)
	fileContent, fileCounts := sanitizer.Sanitize(fileContent)
	return fileContent, fileCounts, nil
}

// readErrorPlaceholder renders the in-band placeholder for an unreadable file
// and emits the matching warning on the diagnostic stream.
func readErrorPlaceholder(filePath string, readError error) string {
	if os.IsPermission(readError) {
		fmt.Fprintf(os.Stderr, "Warning: permission denied reading %s\n", filePath)
		return fmt.Sprintf("[Error: Permission denied reading %s]", filePath)
	}
	fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", filePath, readError)
	return fmt.Sprintf("[Error reading %s: %v]", filePath, readError)
}
