// Package matcher evaluates include and exclude pattern sets against paths
// under a scan root using gitignore wildmatch semantics.
package matcher

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/dirmerge/dirmerge/internal/utils"
	"go.uber.org/zap"
)

// VCSPatterns lists the version-control housekeeping entries that are excluded
// automatically when an ignore file was auto-detected in the scan root.
var VCSPatterns = []string{
	".git/",
	".svn/",
	".hg/",
	".bzr/",
	".gitignore",
	".gitattributes",
	".gitmodules",
}

// IncludeMatcher restricts the scan to files matching at least one glob
// pattern. An empty pattern set matches every file. Directories always pass so
// that traversal can descend into them looking for matching files.
type IncludeMatcher struct {
	compiledPatterns *gitignore.GitIgnore
	rootDirectory    string
	logger           *zap.Logger
}

// NewIncludeMatcher compiles include patterns for the given root directory.
// Malformed pattern syntax is a construction error.
func NewIncludeMatcher(patterns []string, rootDirectory string, logger *zap.Logger) (*IncludeMatcher, error) {
	includeMatcher := &IncludeMatcher{rootDirectory: rootDirectory, logger: logger}
	if len(patterns) == 0 {
		return includeMatcher, nil
	}
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(normalizeForValidation(pattern)) {
			return nil, fmt.Errorf("invalid glob pattern: %q", pattern)
		}
	}
	includeMatcher.compiledPatterns = gitignore.CompileIgnoreLines(patterns...)
	return includeMatcher, nil
}

// ShouldInclude reports whether the path satisfies the include patterns.
// Directories always satisfy them; only plain files are tested.
func (includeMatcher *IncludeMatcher) ShouldInclude(path string) bool {
	if includeMatcher.compiledPatterns == nil {
		return true
	}
	if isDirectory(path) {
		return true
	}

	relativePath, hasRelative := utils.RelativeSlashPath(path, includeMatcher.rootDirectory)
	if !hasRelative {
		return false
	}

	matched := includeMatcher.compiledPatterns.MatchesPath(relativePath)
	if includeMatcher.logger != nil {
		if matched {
			includeMatcher.logger.Debug("glob matched", zap.String("path", relativePath))
		} else {
			includeMatcher.logger.Debug("glob not matched", zap.String("path", relativePath))
		}
	}
	return matched
}

// ExcludeMatcher drops paths matching any ignore pattern. Patterns combine
// ignore-file contents, command-level exclusions, and optionally the fixed
// version-control set.
type ExcludeMatcher struct {
	compiledPatterns *gitignore.GitIgnore
	rootDirectory    string
	logger           *zap.Logger
}

// NewExcludeMatcher compiles exclude patterns for the given root directory.
// Individual malformed patterns are dropped with a warning rather than
// failing the construction, since ignore files vary in quality.
func NewExcludeMatcher(patterns []string, rootDirectory string, autoVCSIgnore bool, logger *zap.Logger) *ExcludeMatcher {
	combinedPatterns := make([]string, 0, len(patterns)+len(VCSPatterns))
	if autoVCSIgnore {
		combinedPatterns = append(combinedPatterns, VCSPatterns...)
	}
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(normalizeForValidation(pattern)) {
			fmt.Fprintf(os.Stderr, "Warning: skipping malformed ignore pattern %q\n", pattern)
			continue
		}
		combinedPatterns = append(combinedPatterns, pattern)
	}

	return &ExcludeMatcher{
		compiledPatterns: gitignore.CompileIgnoreLines(combinedPatterns...),
		rootDirectory:    rootDirectory,
		logger:           logger,
	}
}

// ShouldInclude reports whether the path survives the exclude patterns.
// Directories are additionally tested with a trailing slash so that
// directory-only patterns match them.
func (excludeMatcher *ExcludeMatcher) ShouldInclude(path string) bool {
	relativePath, hasRelative := utils.RelativeSlashPath(path, excludeMatcher.rootDirectory)
	if !hasRelative {
		return false
	}
	if relativePath == "." {
		return true
	}

	if excludeMatcher.compiledPatterns.MatchesPath(relativePath) {
		excludeMatcher.logIgnored(relativePath)
		return false
	}
	if isDirectory(path) && excludeMatcher.compiledPatterns.MatchesPath(relativePath+"/") {
		excludeMatcher.logIgnored(relativePath + "/")
		return false
	}
	return true
}

func (excludeMatcher *ExcludeMatcher) logIgnored(relativePath string) {
	if excludeMatcher.logger != nil {
		excludeMatcher.logger.Debug("ignored", zap.String("path", relativePath))
	}
}

// normalizeForValidation strips gitignore-only pattern syntax that the glob
// validator does not understand: negation prefixes and directory-only suffixes.
func normalizeForValidation(pattern string) string {
	normalized := strings.TrimPrefix(pattern, "!")
	normalized = strings.TrimSuffix(normalized, "/")
	if normalized == "" {
		return "*"
	}
	return normalized
}

func isDirectory(path string) bool {
	fileInformation, statError := os.Stat(path)
	return statError == nil && fileInformation.IsDir()
}
