package sanitize

import (
	"bufio"
	"os"
	"strings"
	"unicode"
)

const ruleSeparator = "->"

// LoadReplacementRules reads custom replacement rules from a line-oriented
// file. A line containing "->" splits at its first occurrence into pattern and
// replacement, both trimmed; otherwise the line splits on its first run of
// whitespace. Blank lines and lines starting with '#' are skipped.
func LoadReplacementRules(rulesFilePath string) ([]Rule, error) {
	fileHandle, openError := os.Open(rulesFilePath)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	var rules []Rule
	lineScanner := bufio.NewScanner(fileHandle)
	for lineScanner.Scan() {
		trimmedLine := strings.TrimSpace(lineScanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}

		if separatorIndex := strings.Index(trimmedLine, ruleSeparator); separatorIndex >= 0 {
			rules = append(rules, Rule{
				Pattern:     strings.TrimSpace(trimmedLine[:separatorIndex]),
				Replacement: strings.TrimSpace(trimmedLine[separatorIndex+len(ruleSeparator):]),
			})
			continue
		}

		whitespaceIndex := strings.IndexFunc(trimmedLine, unicode.IsSpace)
		if whitespaceIndex < 0 {
			continue
		}
		rules = append(rules, Rule{
			Pattern:     trimmedLine[:whitespaceIndex],
			Replacement: strings.TrimSpace(trimmedLine[whitespaceIndex:]),
		})
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, scanError
	}

	return rules, nil
}
