// Package types defines the cross-package data structures used by the dirmerge CLI.
package types

const (
	// FormatText selects the plain text rendering.
	FormatText = "text"
	// FormatMarkdown selects the Markdown rendering.
	FormatMarkdown = "markdown"
)

// FileRecord describes one file accepted by the traversal engine.
// Records are created once during a scan and never mutated afterwards.
type FileRecord struct {
	Path      string
	Size      int64
	LineCount int
}

// ScanStatistics counts traversal outcomes for a single scan call.
type ScanStatistics struct {
	Scanned      int
	GlobFiltered int
	Ignored      int
	Included     int
}

// SanitizeStats maps a redaction category label to the number of distinct
// values replaced under that label across the whole run.
type SanitizeStats map[string]int

// MergeCounts sums per-file sanitize results into the run-wide accumulator.
func (accumulated SanitizeStats) MergeCounts(fileCounts SanitizeStats) {
	for categoryLabel, matchCount := range fileCounts {
		accumulated[categoryLabel] += matchCount
	}
}
