// Package classify maps filesystem paths to supported document formats.
// Classification is total: any path maps to a format tag or to
// FormatUnsupported, never to an error.
package classify

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"gopkg.in/yaml.v3"
)

// Format tags the document family a file belongs to, which selects the
// extractor used for it.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatWord        Format = "word"
	FormatExcel       Format = "excel"
	FormatText        Format = "text"
	FormatUnsupported Format = "unsupported"
)

//go:embed formats.yaml
var formatsYAML []byte

type formatSpec struct {
	Tag        Format   `yaml:"tag"`
	Extensions []string `yaml:"extensions"`
	MIMETypes  []string `yaml:"mime_types"`
}

type formatsFile struct {
	Formats []formatSpec `yaml:"formats"`
}

// Classifier resolves paths to format tags using the embedded extension
// table first and content sniffing as a fallback.
type Classifier struct {
	byExt  map[string]Format
	byMIME map[string]Format
}

// New creates a classifier from the embedded format registry.
func New() (*Classifier, error) {
	var file formatsFile
	if err := yaml.Unmarshal(formatsYAML, &file); err != nil {
		return nil, fmt.Errorf("unmarshal format registry: %w", err)
	}

	c := &Classifier{
		byExt:  make(map[string]Format),
		byMIME: make(map[string]Format),
	}
	for _, spec := range file.Formats {
		for _, ext := range spec.Extensions {
			c.byExt[strings.ToLower(ext)] = spec.Tag
		}
		for _, mt := range spec.MIMETypes {
			c.byMIME[mt] = spec.Tag
		}
	}

	return c, nil
}

// Classify maps a path to its format tag. Extension match wins; when the
// extension is unknown the file content is sniffed and the detected media
// type (or any of its ancestors) is looked up. Unknown types map to
// FormatUnsupported.
func (c *Classifier) Classify(path string) Format {
	if format, ok := c.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return format
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return FormatUnsupported
	}
	for m := mtype; m != nil; m = m.Parent() {
		// Detected types can carry parameters ("text/plain; charset=utf-8");
		// the registry keys are bare media types.
		mt, _, _ := strings.Cut(m.String(), ";")
		if format, ok := c.byMIME[strings.TrimSpace(mt)]; ok {
			return format
		}
	}

	return FormatUnsupported
}

// SupportedExt reports whether the path's extension is in the supported
// set. Cheaper than Classify; used to pre-filter walks and tree listings.
func (c *Classifier) SupportedExt(path string) bool {
	_, ok := c.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}
