package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// sizeExpression matches a size string such as "1M", "500K", or "1.5GB".
var sizeExpression = regexp.MustCompile(`^([\d.]+)\s*([KMGB]+)$`)

// sizeUnits maps a unit suffix to its byte multiplier.
var sizeUnits = map[string]int64{
	"B":  1,
	"K":  1024,
	"KB": 1024,
	"M":  1024 * 1024,
	"MB": 1024 * 1024,
	"G":  1024 * 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

// ParseSize converts a human size string like "1M", "500K", or "1.5G" into a byte count.
func ParseSize(sizeText string) (int64, error) {
	normalizedText := strings.ToUpper(strings.TrimSpace(sizeText))
	expressionMatch := sizeExpression.FindStringSubmatch(normalizedText)
	if expressionMatch == nil {
		return 0, fmt.Errorf("invalid size format: %s (use a format like '1M', '500K', or '1.5G')", sizeText)
	}

	numericValue, parseError := strconv.ParseFloat(expressionMatch[1], 64)
	if parseError != nil {
		return 0, fmt.Errorf("invalid size number %s: %w", expressionMatch[1], parseError)
	}

	unitMultiplier, unitKnown := sizeUnits[expressionMatch[2]]
	if !unitKnown {
		return 0, fmt.Errorf("unknown size unit: %s (use B, K, M, or G)", expressionMatch[2])
	}

	return int64(numericValue * float64(unitMultiplier)), nil
}

// FormatSize converts a byte count into a human-scaled string with one decimal place.
func FormatSize(sizeBytes int64) string {
	scaledValue := float64(sizeBytes)
	for _, unitName := range []string{"B", "KB", "MB", "GB"} {
		if scaledValue < 1024.0 {
			return fmt.Sprintf("%.1f %s", scaledValue, unitName)
		}
		scaledValue /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", scaledValue)
}
