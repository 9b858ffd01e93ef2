package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dirmerge/dirmerge/internal/matcher"
	"github.com/dirmerge/dirmerge/internal/scanner"
	"github.com/dirmerge/dirmerge/internal/types"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if mkdirError := os.MkdirAll(filepath.Dir(path), 0o755); mkdirError != nil {
		t.Fatalf("mkdir: %v", mkdirError)
	}
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		t.Fatalf("write: %v", writeError)
	}
}

func newScanner(t *testing.T, rootDirectory string, globPatterns []string, excludePatterns []string, autoVCSIgnore bool) *scanner.Scanner {
	t.Helper()
	includeMatcher, constructionError := matcher.NewIncludeMatcher(globPatterns, rootDirectory, nil)
	if constructionError != nil {
		t.Fatalf("include matcher: %v", constructionError)
	}
	excludeMatcher := matcher.NewExcludeMatcher(excludePatterns, rootDirectory, autoVCSIgnore, nil)
	return scanner.New(includeMatcher, excludeMatcher, nil)
}

func recordPaths(rootDirectory string, records []types.FileRecord) []string {
	var paths []string
	for _, record := range records {
		relativePath, _ := filepath.Rel(rootDirectory, record.Path)
		paths = append(paths, filepath.ToSlash(relativePath))
	}
	return paths
}

func containsPath(paths []string, target string) bool {
	for _, path := range paths {
		if path == target {
			return true
		}
	}
	return false
}

func TestScanAppliesIgnorePatternsFromGitignore(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "a.py"), "print(1)")
	writeFile(t, filepath.Join(rootDirectory, "b.log"), "log line\n")
	writeFile(t, filepath.Join(rootDirectory, ".gitignore"), "*.log\n")

	directoryScanner := newScanner(t, rootDirectory, nil, []string{"*.log"}, true)
	records, statistics := directoryScanner.Scan(rootDirectory)

	paths := recordPaths(rootDirectory, records)
	if len(paths) != 1 || paths[0] != "a.py" {
		t.Fatalf("expected exactly [a.py], got %v", paths)
	}
	if statistics.Ignored == 0 {
		t.Fatal("expected b.log to contribute to the ignored counter")
	}
	if statistics.GlobFiltered != 0 {
		t.Fatalf("expected no glob filtering, got %d", statistics.GlobFiltered)
	}
}

func TestScanGlobFiltering(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "src", "main.py"), "print(1)\n")
	writeFile(t, filepath.Join(rootDirectory, "src", "sub", "util.py"), "print(2)\n")
	writeFile(t, filepath.Join(rootDirectory, "root.py"), "print(3)\n")

	directoryScanner := newScanner(t, rootDirectory, []string{"src/**/*.py"}, nil, false)
	records, statistics := directoryScanner.Scan(rootDirectory)

	paths := recordPaths(rootDirectory, records)
	if !containsPath(paths, "src/main.py") || !containsPath(paths, "src/sub/util.py") {
		t.Fatalf("expected both src files, got %v", paths)
	}
	if containsPath(paths, "root.py") {
		t.Fatalf("root.py should have been glob filtered, got %v", paths)
	}
	if statistics.GlobFiltered != 1 {
		t.Fatalf("expected glob_filtered == 1, got %d", statistics.GlobFiltered)
	}
	if statistics.Included != 2 {
		t.Fatalf("expected included == 2, got %d", statistics.Included)
	}
}

func TestScanPrunesExcludedDirectories(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "keep.txt"), "keep\n")
	writeFile(t, filepath.Join(rootDirectory, "node_modules", "dep", "index.js"), "x\n")

	directoryScanner := newScanner(t, rootDirectory, nil, []string{"node_modules/"}, false)
	records, statistics := directoryScanner.Scan(rootDirectory)

	paths := recordPaths(rootDirectory, records)
	if len(paths) != 1 || paths[0] != "keep.txt" {
		t.Fatalf("expected only keep.txt, got %v", paths)
	}
	// The pruned directory counts once; files beneath it are never scanned.
	if statistics.Ignored != 1 {
		t.Fatalf("expected ignored == 1 for the pruned directory, got %d", statistics.Ignored)
	}
	if statistics.Scanned != 1 {
		t.Fatalf("expected scanned == 1, got %d", statistics.Scanned)
	}
}

func TestScanSkipsSymlinks(t *testing.T) {
	rootDirectory := t.TempDir()
	targetPath := filepath.Join(rootDirectory, "real.txt")
	writeFile(t, targetPath, "real\n")
	linkPath := filepath.Join(rootDirectory, "link.txt")
	if symlinkError := os.Symlink(targetPath, linkPath); symlinkError != nil {
		t.Skipf("symlinks unavailable: %v", symlinkError)
	}

	directoryScanner := newScanner(t, rootDirectory, nil, nil, false)
	records, statistics := directoryScanner.Scan(rootDirectory)

	paths := recordPaths(rootDirectory, records)
	if containsPath(paths, "link.txt") {
		t.Fatalf("symlink should never appear in scan results, got %v", paths)
	}
	if statistics.Scanned != 1 {
		t.Fatalf("symlink should not count as scanned, got %d", statistics.Scanned)
	}
}

func TestScanRecordsMetadata(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "sample.txt"), "one\ntwo\nthree")

	directoryScanner := newScanner(t, rootDirectory, nil, nil, false)
	records, _ := directoryScanner.Scan(rootDirectory)

	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].Size != int64(len("one\ntwo\nthree")) {
		t.Fatalf("unexpected size %d", records[0].Size)
	}
	if records[0].LineCount != 3 {
		t.Fatalf("expected 3 lines, got %d", records[0].LineCount)
	}
}
