package merge_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dirmerge/dirmerge/internal/matcher"
	"github.com/dirmerge/dirmerge/internal/merge"
	"github.com/dirmerge/dirmerge/internal/output"
	"github.com/dirmerge/dirmerge/internal/render"
	"github.com/dirmerge/dirmerge/internal/scanner"
	"github.com/dirmerge/dirmerge/internal/types"
)

// newMerger builds a Merger over rootDirectory with match-all filtering.
func newMerger(testInstance *testing.T, rootDirectory string, format string) *merge.Merger {
	testInstance.Helper()

	nopLogger := zap.NewNop()
	includeMatcher, matcherError := matcher.NewIncludeMatcher(nil, rootDirectory, nopLogger)
	if matcherError != nil {
		testInstance.Fatalf("NewIncludeMatcher: %v", matcherError)
	}
	excludeMatcher := matcher.NewExcludeMatcher(nil, rootDirectory, false, nopLogger)

	directoryScanner := scanner.New(includeMatcher, excludeMatcher, nopLogger)
	treeBuilder := render.NewTreeBuilder(excludeMatcher, includeMatcher)
	listBuilder := render.NewListBuilder(rootDirectory)

	return merge.New(directoryScanner, output.NewGenerator(format), treeBuilder, listBuilder, nil, nil)
}

func writeTestFile(testInstance *testing.T, directoryPath string, fileName string, content string) {
	testInstance.Helper()
	if writeError := os.WriteFile(filepath.Join(directoryPath, fileName), []byte(content), 0o644); writeError != nil {
		testInstance.Fatalf("writing %s: %v", fileName, writeError)
	}
}

func TestRunMergesIntoOutputFile(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	writeTestFile(testInstance, rootDirectory, "alpha.txt", "first line\nsecond line\n")
	writeTestFile(testInstance, rootDirectory, "beta.go", "package beta\n")

	outputPath := filepath.Join(testInstance.TempDir(), "merged.txt")
	merger := newMerger(testInstance, rootDirectory, types.FormatText)

	runError := merger.Run(merge.Request{
		RootDirectory:    rootDirectory,
		OutputPath:       outputPath,
		SkipConfirmation: true,
		IncludeMerge:     true,
	})
	if runError != nil {
		testInstance.Fatalf("Run: %v", runError)
	}

	mergedBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testInstance.Fatalf("reading merged output: %v", readError)
	}
	mergedContent := string(mergedBytes)

	for _, expectedFragment := range []string{"--- /alpha.txt ---", "--- /beta.go ---", "first line", "package beta"} {
		if !strings.Contains(mergedContent, expectedFragment) {
			testInstance.Errorf("merged output missing %q:\n%s", expectedFragment, mergedContent)
		}
	}
}

func TestRunConfirmationGatesFileWrite(testInstance *testing.T) {
	testCases := []struct {
		name           string
		promptResponse string
		expectWritten  bool
	}{
		{name: "accepted with y", promptResponse: "y\n", expectWritten: true},
		{name: "accepted with yes", promptResponse: "yes\n", expectWritten: true},
		{name: "declined with n", promptResponse: "n\n", expectWritten: false},
		{name: "declined with empty response", promptResponse: "\n", expectWritten: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			rootDirectory := testInstance.TempDir()
			writeTestFile(testInstance, rootDirectory, "alpha.txt", "content\n")

			outputPath := filepath.Join(testInstance.TempDir(), "merged.txt")
			merger := newMerger(testInstance, rootDirectory, types.FormatText)
			merger.SetConfirmationInput(strings.NewReader(testCase.promptResponse))

			runError := merger.Run(merge.Request{
				RootDirectory: rootDirectory,
				OutputPath:    outputPath,
				IncludeMerge:  true,
			})
			if runError != nil {
				testInstance.Fatalf("Run: %v", runError)
			}

			_, statError := os.Stat(outputPath)
			written := statError == nil
			if written != testCase.expectWritten {
				testInstance.Errorf("output written = %v, want %v", written, testCase.expectWritten)
			}
		})
	}
}

func TestRunMetadataOnlySkipsFileBodies(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	writeTestFile(testInstance, rootDirectory, "alpha.txt", "secret body line\n")

	outputPath := filepath.Join(testInstance.TempDir(), "merged.txt")
	merger := newMerger(testInstance, rootDirectory, types.FormatText)

	runError := merger.Run(merge.Request{
		RootDirectory:    rootDirectory,
		OutputPath:       outputPath,
		SkipConfirmation: true,
		ShowTree:         true,
		ShowList:         true,
		ShowStats:        true,
		IncludeMerge:     false,
	})
	if runError != nil {
		testInstance.Fatalf("Run: %v", runError)
	}

	mergedBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testInstance.Fatalf("reading merged output: %v", readError)
	}
	mergedContent := string(mergedBytes)

	for _, expectedSection := range []string{"=== Statistics ===", "=== Directory Structure ===", "=== File List ==="} {
		if !strings.Contains(mergedContent, expectedSection) {
			testInstance.Errorf("metadata output missing %q:\n%s", expectedSection, mergedContent)
		}
	}
	if strings.Contains(mergedContent, "secret body line") {
		testInstance.Errorf("file body present in metadata-only output:\n%s", mergedContent)
	}
	if strings.Contains(mergedContent, "--- /alpha.txt ---") {
		testInstance.Errorf("file block delimiter present in metadata-only output:\n%s", mergedContent)
	}
}

func TestRunDisplayOnlyListShowsFileDetails(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	writeTestFile(testInstance, rootDirectory, "alpha.txt", "one\ntwo\n")

	merger := newMerger(testInstance, rootDirectory, types.FormatText)
	var statusBuffer strings.Builder
	merger.SetStatusOutput(&statusBuffer)

	runError := merger.Run(merge.Request{
		RootDirectory: rootDirectory,
		ShowList:      true,
		IncludeMerge:  true,
	})
	if runError != nil {
		testInstance.Fatalf("Run: %v", runError)
	}

	statusOutput := statusBuffer.String()
	if !strings.Contains(statusOutput, "alpha.txt (") {
		testInstance.Errorf("display list missing per-file details:\n%s", statusOutput)
	}
	if !strings.Contains(statusOutput, "2 lines)") {
		testInstance.Errorf("display list missing line count:\n%s", statusOutput)
	}
}

func TestRunDisplayOnlyWritesNothing(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	writeTestFile(testInstance, rootDirectory, "alpha.txt", "content\n")

	merger := newMerger(testInstance, rootDirectory, types.FormatText)

	runError := merger.Run(merge.Request{
		RootDirectory: rootDirectory,
		ShowTree:      true,
		ShowStats:     true,
		IncludeMerge:  true,
	})
	if runError != nil {
		testInstance.Fatalf("Run: %v", runError)
	}

	entries, readError := os.ReadDir(rootDirectory)
	if readError != nil {
		testInstance.Fatalf("ReadDir: %v", readError)
	}
	if len(entries) != 1 {
		testInstance.Errorf("display-only run changed the directory: %d entries", len(entries))
	}
}

func TestRunMarkdownOutputContainsFencedBlocks(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	writeTestFile(testInstance, rootDirectory, "main.go", "package main\n")

	outputPath := filepath.Join(testInstance.TempDir(), "merged.md")
	merger := newMerger(testInstance, rootDirectory, types.FormatMarkdown)

	runError := merger.Run(merge.Request{
		RootDirectory:    rootDirectory,
		OutputPath:       outputPath,
		SkipConfirmation: true,
		IncludeMerge:     true,
	})
	if runError != nil {
		testInstance.Fatalf("Run: %v", runError)
	}

	mergedBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testInstance.Fatalf("reading merged output: %v", readError)
	}
	mergedContent := string(mergedBytes)

	if !strings.Contains(mergedContent, "### `/main.go`") {
		testInstance.Errorf("markdown output missing file heading:\n%s", mergedContent)
	}
	if !strings.Contains(mergedContent, "```go\n") {
		testInstance.Errorf("markdown output missing fenced go block:\n%s", mergedContent)
	}
}
