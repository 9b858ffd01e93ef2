package output_test

import (
	"testing"

	"github.com/dirmerge/dirmerge/internal/output"
)

func TestApplyWindow(t *testing.T) {
	fiveLines := "line1\nline2\nline3\nline4\nline5"

	testCases := []struct {
		name      string
		content   string
		headLines int
		tailLines int
		expected  string
	}{
		{
			name:      "head keeps first lines and appends marker",
			content:   fiveLines,
			headLines: 2,
			expected:  "line1\nline2\n... (truncated)\n",
		},
		{
			name:      "tail keeps last lines and prepends marker",
			content:   fiveLines,
			tailLines: 2,
			expected:  "... (truncated)\nline4\nline5",
		},
		{
			name:      "head larger than content returns content without marker",
			content:   "a\nb",
			headLines: 10,
			expected:  "a\nb",
		},
		{
			name:      "tail larger than content still prepends marker",
			content:   "a\nb",
			tailLines: 10,
			expected:  "... (truncated)\na\nb",
		},
		{
			name:     "no limits returns content unchanged",
			content:  fiveLines,
			expected: fiveLines,
		},
		{
			name:      "head of empty content stays empty",
			content:   "",
			headLines: 3,
			expected:  "",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := output.ApplyWindow(testCase.content, testCase.headLines, testCase.tailLines)
			if result != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, result)
			}
		})
	}
}
