package extract

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// textExtractor reads plain text files as-is. Bytes that are not valid
// UTF-8 are an extraction failure, not a crash.
type textExtractor struct{}

func (textExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8", path)
	}

	return string(data), nil
}
