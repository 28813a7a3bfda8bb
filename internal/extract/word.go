package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// wordExtractor concatenates paragraph text in document order, separated by
// newlines. Legacy .doc files fail to parse and are skipped upstream.
type wordExtractor struct{}

func (wordExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open word document: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat word document: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parse word document: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			sb.WriteString(para.String())
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
