package matcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dirmerge/dirmerge/internal/matcher"
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

func TestIncludeMatcherWithoutPatternsMatchesEverything(t *testing.T) {
	rootDirectory := t.TempDir()
	filePath := filepath.Join(rootDirectory, "main.go")
	writeFile(t, filePath, "package main\n")

	includeMatcher, constructionError := matcher.NewIncludeMatcher(nil, rootDirectory, nil)
	if constructionError != nil {
		t.Fatalf("unexpected error: %v", constructionError)
	}
	if !includeMatcher.ShouldInclude(filePath) {
		t.Fatal("expected match-all behavior with no patterns")
	}
}

func TestIncludeMatcherPatterns(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "src", "main.py"), "print(1)\n")
	writeFile(t, filepath.Join(rootDirectory, "src", "sub", "util.py"), "print(2)\n")
	writeFile(t, filepath.Join(rootDirectory, "root.py"), "print(3)\n")
	writeFile(t, filepath.Join(rootDirectory, "notes.txt"), "notes\n")

	testCases := []struct {
		name     string
		patterns []string
		path     string
		expected bool
	}{
		{name: "suffix pattern matches nested file", patterns: []string{"*.py"}, path: "src/main.py", expected: true},
		{name: "suffix pattern rejects other extension", patterns: []string{"*.py"}, path: "notes.txt", expected: false},
		{name: "double star matches direct child", patterns: []string{"src/**/*.py"}, path: "src/main.py", expected: true},
		{name: "double star matches nested child", patterns: []string{"src/**/*.py"}, path: "src/sub/util.py", expected: true},
		{name: "double star rejects root file", patterns: []string{"src/**/*.py"}, path: "root.py", expected: false},
		{name: "directories always pass", patterns: []string{"*.py"}, path: "src", expected: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			includeMatcher, constructionError := matcher.NewIncludeMatcher(testCase.patterns, rootDirectory, nil)
			if constructionError != nil {
				t.Fatalf("unexpected error: %v", constructionError)
			}
			result := includeMatcher.ShouldInclude(filepath.Join(rootDirectory, filepath.FromSlash(testCase.path)))
			if result != testCase.expected {
				t.Fatalf("expected %v for %s, got %v", testCase.expected, testCase.path, result)
			}
		})
	}
}

func TestIncludeMatcherRejectsMalformedPattern(t *testing.T) {
	_, constructionError := matcher.NewIncludeMatcher([]string{"[unclosed"}, t.TempDir(), nil)
	if constructionError == nil {
		t.Fatal("expected construction error for malformed include pattern")
	}
}

func TestExcludeMatcher(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "app.log"), "log\n")
	writeFile(t, filepath.Join(rootDirectory, "main.go"), "package main\n")
	writeFile(t, filepath.Join(rootDirectory, "build", "out.txt"), "artifact\n")
	writeFile(t, filepath.Join(rootDirectory, ".git", "HEAD"), "ref\n")

	testCases := []struct {
		name          string
		patterns      []string
		autoVCSIgnore bool
		path          string
		expected      bool
	}{
		{name: "pattern excludes file", patterns: []string{"*.log"}, path: "app.log", expected: false},
		{name: "unmatched file survives", patterns: []string{"*.log"}, path: "main.go", expected: true},
		{name: "directory pattern excludes directory", patterns: []string{"build/"}, path: "build", expected: false},
		{name: "vcs patterns apply when auto ignore set", patterns: nil, autoVCSIgnore: true, path: ".git", expected: false},
		{name: "vcs patterns absent without auto ignore", patterns: nil, autoVCSIgnore: false, path: ".git", expected: true},
		{name: "negation revives excluded file", patterns: []string{"*.log", "!app.log"}, path: "app.log", expected: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			excludeMatcher := matcher.NewExcludeMatcher(testCase.patterns, rootDirectory, testCase.autoVCSIgnore, nil)
			result := excludeMatcher.ShouldInclude(filepath.Join(rootDirectory, filepath.FromSlash(testCase.path)))
			if result != testCase.expected {
				t.Fatalf("expected %v for %s, got %v", testCase.expected, testCase.path, result)
			}
		})
	}
}

func TestExcludeMatcherDropsMalformedPatternsGracefully(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "kept.txt"), "kept\n")

	excludeMatcher := matcher.NewExcludeMatcher([]string{"[unclosed", "*.log"}, rootDirectory, false, nil)
	if !excludeMatcher.ShouldInclude(filepath.Join(rootDirectory, "kept.txt")) {
		t.Fatal("expected file untouched by malformed pattern to survive")
	}
}
