package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// GitIgnoreFileName is the ignore file auto-detected in the scan root.
const GitIgnoreFileName = ".gitignore"

// LoadIgnorePatterns reads one line-oriented ignore file. Blank lines and
// lines starting with '#' are skipped; every other line is one raw
// gitignore-style pattern.
func LoadIgnorePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openError := os.Open(ignoreFilePath)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	var patterns []string
	lineScanner := bufio.NewScanner(fileHandle)
	for lineScanner.Scan() {
		trimmedLine := strings.TrimSpace(lineScanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, scanError
	}

	return patterns, nil
}

// LoadPatternsFromFiles merges the patterns of several ignore files in order.
// Unreadable files contribute nothing.
func LoadPatternsFromFiles(ignoreFilePaths []string) []string {
	var mergedPatterns []string
	for _, ignoreFilePath := range ignoreFilePaths {
		patterns, loadError := LoadIgnorePatterns(ignoreFilePath)
		if loadError != nil {
			continue
		}
		mergedPatterns = append(mergedPatterns, patterns...)
	}
	return mergedPatterns
}

// AutoDetectIgnoreFile returns the path of the scan root's .gitignore when one
// exists, otherwise the empty string.
func AutoDetectIgnoreFile(rootDirectory string) string {
	candidatePath := filepath.Join(rootDirectory, GitIgnoreFileName)
	if _, statError := os.Stat(candidatePath); statError != nil {
		return ""
	}
	return candidatePath
}
