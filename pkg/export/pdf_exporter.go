package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders tables into a basic tabular PDF.
type PDFExporter struct {
	pageSize string
}

// NewPDFExporter constructs a PDF exporter. Page size defaults to A4.
func NewPDFExporter(pageSize string) *PDFExporter {
	if pageSize == "" {
		pageSize = "A4"
	}
	return &PDFExporter{pageSize: pageSize}
}

// Render creates a PDF document with a title, an optional subtitle line and a
// table body.
func (e *PDFExporter) Render(table Table, title, subtitle string) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}

	pdf := gofpdf.New("L", "mm", e.pageSize, "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	}
	if subtitle != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 6, subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(table.Columns))

	pdf.SetFont("Arial", "B", 10)
	for _, col := range table.Columns {
		pdf.CellFormat(colWidth, 8, col.Title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range table.Rows {
		for _, col := range table.Columns {
			pdf.CellFormat(colWidth, 7, row[col.Key], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
