// Package scanner walks a directory tree and collects the files that survive
// the include and exclude matchers, together with filtering statistics.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dirmerge/dirmerge/internal/matcher"
	"github.com/dirmerge/dirmerge/internal/types"
	"github.com/dirmerge/dirmerge/internal/utils"
)

const (
	// largeFileThresholdBytes marks the size beyond which an advisory warning is printed.
	largeFileThresholdBytes = 100 * 1024 * 1024

	warningLargeFileFormat   = "Warning: Large file detected (%s, %.1fMB)\n"
	warningLargeFileAdvisory = "         This may consume significant memory.\n"
)

// Scanner traverses a directory tree applying the configured matchers.
type Scanner struct {
	includeMatcher *matcher.IncludeMatcher
	excludeMatcher *matcher.ExcludeMatcher
	logger         *zap.Logger
}

// New constructs a Scanner from the two matcher roles.
func New(includeMatcher *matcher.IncludeMatcher, excludeMatcher *matcher.ExcludeMatcher, logger *zap.Logger) *Scanner {
	return &Scanner{
		includeMatcher: includeMatcher,
		excludeMatcher: excludeMatcher,
		logger:         logger,
	}
}

// Scan walks rootDirectory depth-first and returns the accepted file records in
// walk order plus the statistics for this single traversal. Symbolic links are
// never followed. Directories failing the exclude matcher are pruned without
// evaluating the files beneath them.
func (directoryScanner *Scanner) Scan(rootDirectory string) ([]types.FileRecord, types.ScanStatistics) {
	var records []types.FileRecord
	var statistics types.ScanStatistics
	directoryScanner.walkDirectory(rootDirectory, &records, &statistics)
	return records, statistics
}

// walkDirectory processes one directory level: files first, then recursion
// into the surviving subdirectories. Unreadable directories are skipped
// silently so that one permission failure cannot abort the scan.
func (directoryScanner *Scanner) walkDirectory(currentDirectory string, records *[]types.FileRecord, statistics *types.ScanStatistics) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectory)
	if readDirectoryError != nil {
		return
	}

	var subdirectories []string
	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(currentDirectory, directoryEntry.Name())

		if directoryEntry.Type()&os.ModeSymlink != 0 {
			if directoryScanner.logger != nil {
				directoryScanner.logger.Debug("skipped symlink", zap.String("path", entryPath))
			}
			continue
		}

		if directoryEntry.IsDir() {
			if directoryScanner.excludeMatcher.ShouldInclude(entryPath) {
				subdirectories = append(subdirectories, entryPath)
			} else {
				statistics.Ignored++
			}
			continue
		}

		statistics.Scanned++

		if !directoryScanner.includeMatcher.ShouldInclude(entryPath) {
			statistics.GlobFiltered++
			continue
		}
		if !directoryScanner.excludeMatcher.ShouldInclude(entryPath) {
			statistics.Ignored++
			continue
		}

		*records = append(*records, collectFileRecord(entryPath))
		statistics.Included++
		if directoryScanner.logger != nil {
			directoryScanner.logger.Debug("added", zap.String("path", entryPath))
		}
	}

	for _, subdirectory := range subdirectories {
		directoryScanner.walkDirectory(subdirectory, records, statistics)
	}
}

// collectFileRecord gathers size and line count for an accepted file. Any read
// failure yields a zeroed record rather than aborting the traversal.
func collectFileRecord(filePath string) types.FileRecord {
	record := types.FileRecord{Path: filePath}

	fileInformation, statError := os.Stat(filePath)
	if statError != nil {
		return record
	}
	record.Size = fileInformation.Size()

	if record.Size > largeFileThresholdBytes {
		fmt.Fprintf(os.Stderr, warningLargeFileFormat, filePath, float64(record.Size)/(1024*1024))
		fmt.Fprint(os.Stderr, warningLargeFileAdvisory)
	}

	fileContent, readError := utils.ReadTextFile(filePath)
	if readError != nil {
		return types.FileRecord{Path: filePath}
	}
	record.LineCount = utils.CountLines(fileContent)

	return record
}
