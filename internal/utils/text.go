package utils

import (
	"os"
	"strings"
)

// DecodeLossyText converts raw bytes to a UTF-8 string, dropping invalid byte sequences.
func DecodeLossyText(rawBytes []byte) string {
	return strings.ToValidUTF8(string(rawBytes), "")
}

// ReadTextFile reads the file at path as lossily decoded UTF-8 text.
func ReadTextFile(path string) (string, error) {
	rawBytes, readError := os.ReadFile(path)
	if readError != nil {
		return "", readError
	}
	return DecodeLossyText(rawBytes), nil
}

// CountLines counts the lines of content. A final line without a trailing
// terminator still counts as one line; empty content has zero lines.
func CountLines(content string) int {
	if len(content) == 0 {
		return 0
	}
	lineCount := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		lineCount++
	}
	return lineCount
}
