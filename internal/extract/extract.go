// Package extract turns supported document files into plain searchable
// text. One extractor per format, dispatched by the classifier's tag.
package extract

import (
	"encoding/base64"
	"fmt"

	"docsearch/internal/classify"
)

// Extractor produces the full plain text of a document file. Parse
// failures are reported as errors; callers treat them as "skip this file".
type Extractor interface {
	Extract(path string) (string, error)
}

// Registry dispatches extraction by format tag.
type Registry struct {
	extractors map[classify.Format]Extractor
}

// NewRegistry creates a registry with the standard extractors registered.
func NewRegistry() *Registry {
	return &Registry{
		extractors: map[classify.Format]Extractor{
			classify.FormatPDF:   pdfExtractor{},
			classify.FormatWord:  wordExtractor{},
			classify.FormatExcel: excelExtractor{},
			classify.FormatText:  textExtractor{},
		},
	}
}

// Extract runs the extractor registered for format and derives the bounded
// preview from the result. Parser panics are converted to errors here so
// that a malformed document can never take down a scan.
func (r *Registry) Extract(path string, format classify.Format) (text, preview string, err error) {
	extractor, ok := r.extractors[format]
	if !ok {
		return "", "", fmt.Errorf("no extractor for format %q", format)
	}

	defer func() {
		if rec := recover(); rec != nil {
			text, preview = "", ""
			err = fmt.Errorf("extract %s: parser panic: %v", path, rec)
		}
	}()

	text, err = extractor.Extract(path)
	if err != nil {
		return "", "", err
	}

	return text, Preview(text), nil
}

// previewLimit bounds the preview to the first 200 characters of content.
const previewLimit = 200

// Preview encodes the head of the text as a self-describing inline blob
// (a text/plain data URI) so clients can render it without a second fetch.
// Truncation is marked with a trailing ellipsis.
func Preview(text string) string {
	head := text
	if runes := []rune(text); len(runes) > previewLimit {
		head = string(runes[:previewLimit]) + "..."
	}
	return "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte(head))
}
