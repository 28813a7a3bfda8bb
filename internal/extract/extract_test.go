package extract

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docsearch/internal/classify"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestExtract_Text(t *testing.T) {
	r := NewRegistry()
	path := writeFile(t, t.TempDir(), "a.txt", []byte("hello world"))

	text, preview, err := r.Extract(path, classify.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	// Preview is a self-describing data URI wrapping the text head.
	require.True(t, strings.HasPrefix(preview, "data:text/plain;base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(preview, "data:text/plain;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(decoded))
}

func TestExtract_TextInvalidUTF8(t *testing.T) {
	r := NewRegistry()
	path := writeFile(t, t.TempDir(), "bad.txt", []byte{0xff, 0xfe, 0x41})

	_, _, err := r.Extract(path, classify.FormatText)
	assert.Error(t, err)
}

func TestExtract_Excel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Qty"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Widget"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 12))
	// Row 3 left entirely blank on purpose.
	require.NoError(t, f.SetCellValue("Sheet1", "A4", "Gadget"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	r := NewRegistry()
	text, _, err := r.Extract(path, classify.FormatExcel)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 4) // header + 3 non-blank rows, blank row skipped
	assert.Equal(t, "Sheet: Sheet1", lines[0])
	assert.Equal(t, "Name\tQty", lines[1])
	assert.Equal(t, "Widget\t12", lines[2])
	assert.Equal(t, "Gadget", lines[3])
}

func TestExtract_ExcelMultiSheetOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "first"))
	_, err := f.NewSheet("Archive")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Archive", "A1", "second"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	r := NewRegistry()
	text, _, err := r.Extract(path, classify.FormatExcel)
	require.NoError(t, err)

	// Sheets appear in workbook order.
	assert.Less(t, strings.Index(text, "Sheet: Sheet1"), strings.Index(text, "Sheet: Archive"))
	assert.Less(t, strings.Index(text, "first"), strings.Index(text, "second"))
}

func TestExtract_Word(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.docx")

	doc := docx.New().WithDefaultTheme()
	doc.AddParagraph().AddText("first paragraph")
	doc.AddParagraph().AddText("second paragraph")
	doc.AddParagraph().AddText("third paragraph")

	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = doc.WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r := NewRegistry()
	text, _, err := r.Extract(path, classify.FormatWord)
	require.NoError(t, err)

	// One line per paragraph, document order.
	assert.Equal(t, "first paragraph\nsecond paragraph\nthird paragraph", text)
}

// writePDF assembles a minimal PDF with one Helvetica text line per page.
// Object offsets and the xref table are computed while writing.
func writePDF(t *testing.T, path string, pageTexts ...string) {
	t.Helper()

	var kids, pages []string
	for i, pageText := range pageTexts {
		pageObj := 3 + 2*i
		kids = append(kids, fmt.Sprintf("%d 0 R", pageObj))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", pageText)
		pages = append(pages,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>",
				pageObj+1, 3+2*len(pageTexts)),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	objects := append([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageTexts)),
	}, pages...)
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestExtract_PDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.pdf")
	writePDF(t, path, "alpha page", "beta page")

	r := NewRegistry()
	text, _, err := r.Extract(path, classify.FormatPDF)
	require.NoError(t, err)

	// Pages in source order, newline-separated.
	first := strings.Index(text, "alpha page")
	second := strings.Index(text, "beta page")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
	assert.Contains(t, text[first:second], "\n")
}

func TestExtract_MalformedDocumentsFailSoftly(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()

	tests := []struct {
		name   string
		file   string
		format classify.Format
	}{
		{"corrupt pdf", "broken.pdf", classify.FormatPDF},
		{"corrupt docx", "broken.docx", classify.FormatWord},
		{"corrupt xlsx", "broken.xlsx", classify.FormatExcel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, []byte("this is not a real document"))
			_, _, err := r.Extract(path, tt.format)
			// An error, never a panic.
			assert.Error(t, err)
		})
	}
}

func TestExtract_UnknownFormat(t *testing.T) {
	r := NewRegistry()
	_, _, err := r.Extract("whatever.bin", classify.FormatUnsupported)
	assert.Error(t, err)
}

func TestPreview_Truncation(t *testing.T) {
	long := strings.Repeat("x", 250)

	preview := Preview(long)
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(preview, "data:text/plain;base64,"))
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("x", 200)+"...", string(decoded))
}

func TestPreview_ShortTextKeptVerbatim(t *testing.T) {
	preview := Preview("short")
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(preview, "data:text/plain;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "short", string(decoded))
}
