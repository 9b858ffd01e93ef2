// Package utils contains general helper functions used across the dirmerge tool.
package utils

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// RelativeSlashPath converts fullPath into a root-relative, forward-slash form.
// The second return value is false when no relative form exists, for example
// when the two paths live on different filesystem roots.
func RelativeSlashPath(fullPath string, rootDirectory string) (string, bool) {
	relativePath, relativeError := filepath.Rel(rootDirectory, fullPath)
	if relativeError != nil {
		return "", false
	}
	return filepath.ToSlash(relativePath), true
}

// DisplayPath renders fullPath the way the output artifact references files:
// root-relative, forward-slash separated, prefixed with a single leading slash.
// When no relative form exists the original path is returned unchanged.
func DisplayPath(fullPath string, rootDirectory string) string {
	relativePath, hasRelative := RelativeSlashPath(fullPath, rootDirectory)
	if !hasRelative {
		return fullPath
	}
	return "/" + relativePath
}

// GroupDigits formats a non-negative integer with comma thousands separators.
func GroupDigits(value int) string {
	digits := strconv.Itoa(value)
	if len(digits) <= 3 {
		return digits
	}
	var builder strings.Builder
	leadingDigitCount := len(digits) % 3
	if leadingDigitCount > 0 {
		builder.WriteString(digits[:leadingDigitCount])
	}
	for position := leadingDigitCount; position < len(digits); position += 3 {
		if builder.Len() > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(digits[position : position+3])
	}
	return builder.String()
}

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}
