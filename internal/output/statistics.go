package output

import (
	"path/filepath"
	"sort"

	"github.com/dirmerge/dirmerge/internal/types"
)

// noExtensionLabel groups files without an extension in the breakdown table.
const noExtensionLabel = "(no extension)"

// ExtensionStatistics aggregates counts for one file extension.
type ExtensionStatistics struct {
	Extension string
	Count     int
	Lines     int
	Size      int64
}

// Summary holds the aggregate statistics for a set of file records.
type Summary struct {
	TotalFiles  int
	TotalLines  int
	TotalSize   int64
	TotalTokens int
	ByExtension []ExtensionStatistics
}

// Summarize computes aggregate statistics over the records. The per-extension
// breakdown is sorted by descending file count, ties broken by extension name
// for deterministic output.
func Summarize(records []types.FileRecord) Summary {
	summary := Summary{TotalFiles: len(records)}
	extensionIndex := make(map[string]int)

	for _, record := range records {
		summary.TotalLines += record.LineCount
		summary.TotalSize += record.Size

		extension := filepath.Ext(record.Path)
		if extension == "" {
			extension = noExtensionLabel
		}
		position, seen := extensionIndex[extension]
		if !seen {
			position = len(summary.ByExtension)
			extensionIndex[extension] = position
			summary.ByExtension = append(summary.ByExtension, ExtensionStatistics{Extension: extension})
		}
		summary.ByExtension[position].Count++
		summary.ByExtension[position].Lines += record.LineCount
		summary.ByExtension[position].Size += record.Size
	}

	sort.SliceStable(summary.ByExtension, func(left, right int) bool {
		if summary.ByExtension[left].Count != summary.ByExtension[right].Count {
			return summary.ByExtension[left].Count > summary.ByExtension[right].Count
		}
		return summary.ByExtension[left].Extension < summary.ByExtension[right].Extension
	})

	return summary
}
