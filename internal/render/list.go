package render

import (
	"fmt"
	"strings"

	"github.com/dirmerge/dirmerge/internal/types"
	"github.com/dirmerge/dirmerge/internal/utils"
)

// ListBuilder renders the flat file list view for scanned records.
type ListBuilder struct {
	rootDirectory string
}

// NewListBuilder constructs a ListBuilder anchored at rootDirectory.
func NewListBuilder(rootDirectory string) *ListBuilder {
	return &ListBuilder{rootDirectory: rootDirectory}
}

// Build renders one root-relative path per record, in record order.
func (listBuilder *ListBuilder) Build(records []types.FileRecord) string {
	var lines []string
	for _, record := range records {
		lines = append(lines, listBuilder.relativePath(record.Path))
	}
	return strings.Join(lines, "\n")
}

// BuildWithDetails renders each path with its size and line count.
func (listBuilder *ListBuilder) BuildWithDetails(records []types.FileRecord) string {
	var lines []string
	for _, record := range records {
		lines = append(lines, fmt.Sprintf("%s (%s, %s lines)",
			listBuilder.relativePath(record.Path),
			utils.FormatSize(record.Size),
			utils.GroupDigits(record.LineCount)))
	}
	return strings.Join(lines, "\n")
}

func (listBuilder *ListBuilder) relativePath(fullPath string) string {
	relativePath, hasRelative := utils.RelativeSlashPath(fullPath, listBuilder.rootDirectory)
	if !hasRelative {
		return fullPath
	}
	return relativePath
}
