// Package render produces the auxiliary views of a scanned directory: the
// hierarchical tree rendering and the flat file list.
package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dirmerge/dirmerge/internal/matcher"
	"github.com/dirmerge/dirmerge/internal/utils"
)

const (
	branchConnector     = "├── "
	terminalConnector   = "└── "
	continuationPrefix  = "│   "
	terminalPaddingText = "    "
)

// TreeBuilder renders a directory tree that mirrors the scan filters. It
// re-derives its own view of the tree: the exclude matcher applies to every
// entry, while files additionally pass the include matcher and a text-content
// probe. Binary files are omitted here even though the flat scan keeps them;
// the divergence between the two views is intentional.
type TreeBuilder struct {
	excludeMatcher *matcher.ExcludeMatcher
	includeMatcher *matcher.IncludeMatcher
}

// NewTreeBuilder constructs a TreeBuilder over the two matcher roles.
func NewTreeBuilder(excludeMatcher *matcher.ExcludeMatcher, includeMatcher *matcher.IncludeMatcher) *TreeBuilder {
	return &TreeBuilder{
		excludeMatcher: excludeMatcher,
		includeMatcher: includeMatcher,
	}
}

// Render returns the indented tree rendering rooted at rootDirectory.
func (treeBuilder *TreeBuilder) Render(rootDirectory string) string {
	var lines []string

	absoluteRoot, absoluteError := filepath.Abs(rootDirectory)
	if absoluteError != nil {
		absoluteRoot = rootDirectory
	}
	rootLabel := filepath.Base(absoluteRoot)
	if rootLabel == "" || rootLabel == string(filepath.Separator) {
		rootLabel = rootDirectory
	}
	lines = append(lines, rootLabel+"/")

	treeBuilder.renderDirectory(rootDirectory, "", &lines)

	return strings.Join(lines, "\n")
}

// renderDirectory lists one directory level: filtered directories first, then
// filtered files, each in lexicographic order. Unreadable directories render
// as empty.
func (treeBuilder *TreeBuilder) renderDirectory(currentDirectory string, linePrefix string, lines *[]string) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectory)
	if readDirectoryError != nil {
		return
	}

	var directoryNames []string
	var fileNames []string
	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(currentDirectory, directoryEntry.Name())

		if directoryEntry.Type()&os.ModeSymlink != 0 {
			continue
		}
		if !treeBuilder.excludeMatcher.ShouldInclude(entryPath) {
			continue
		}

		if directoryEntry.IsDir() {
			directoryNames = append(directoryNames, directoryEntry.Name())
			continue
		}
		if !treeBuilder.includeMatcher.ShouldInclude(entryPath) {
			continue
		}
		if utils.IsFileBinary(entryPath) {
			continue
		}
		fileNames = append(fileNames, directoryEntry.Name())
	}

	orderedEntries := append(append([]string{}, directoryNames...), fileNames...)
	for entryIndex, entryName := range orderedEntries {
		isLastEntry := entryIndex == len(orderedEntries)-1
		isDirectoryEntry := entryIndex < len(directoryNames)

		connector := branchConnector
		childPrefix := linePrefix + continuationPrefix
		if isLastEntry {
			connector = terminalConnector
			childPrefix = linePrefix + terminalPaddingText
		}

		renderedName := entryName
		if isDirectoryEntry {
			renderedName += "/"
		}
		*lines = append(*lines, linePrefix+connector+renderedName)

		if isDirectoryEntry {
			treeBuilder.renderDirectory(filepath.Join(currentDirectory, entryName), childPrefix, lines)
		}
	}
}
