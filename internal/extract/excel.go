package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// excelExtractor emits, for each sheet in workbook order, a "Sheet: <name>"
// header followed by tab-joined cell rows in sheet order. Rows that are
// entirely blank after joining are skipped.
type excelExtractor struct{}

func (excelExtractor) Extract(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		sb.WriteString("Sheet: ")
		sb.WriteString(sheet)
		sb.WriteString("\n")

		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			line := strings.Join(row, "\t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
