package tokenizer

import (
	"errors"
	"fmt"
	"os"

	"github.com/dirmerge/dirmerge/internal/types"
	"github.com/dirmerge/dirmerge/internal/utils"
)

// CountResult captures the outcome of counting one file.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountFile estimates tokens for the file at path. Binary files are reported
// as not counted rather than producing a meaningless number.
func CountFile(counter Counter, path string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errors.New("nil tokenizer counter")
	}
	rawBytes, readError := os.ReadFile(path)
	if readError != nil {
		return CountResult{}, readError
	}
	if utils.IsBinary(rawBytes) {
		return CountResult{Counted: false}, nil
	}
	tokens, countError := counter.CountString(utils.DecodeLossyText(rawBytes))
	if countError != nil {
		return CountResult{}, countError
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}

// SumRecordTokens totals the token estimate across the scanned records.
// Per-file failures produce a warning on the diagnostic stream and are
// excluded from the total.
func SumRecordTokens(counter Counter, records []types.FileRecord) int {
	var totalTokens int
	for _, record := range records {
		countResult, countError := CountFile(counter, record.Path)
		if countError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to count tokens for %s: %v\n", record.Path, countError)
			continue
		}
		if countResult.Counted {
			totalTokens += countResult.Tokens
		}
	}
	return totalTokens
}
