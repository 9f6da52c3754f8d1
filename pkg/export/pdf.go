package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders a Table into a tabular PDF document. Timetable
// tables tend to be wide, so the renderer supports landscape pages.
type PDFRenderer struct {
	landscape bool
}

// NewPDFRenderer constructs a portrait PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// NewLandscapePDFRenderer constructs a landscape PDF renderer.
func NewLandscapePDFRenderer() *PDFRenderer {
	return &PDFRenderer{landscape: true}
}

// Render creates a PDF with the table title as heading and one bordered
// row per table row. Column widths follow the column weight ratios.
func (r *PDFRenderer) Render(table Table) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}

	orientation := "P"
	usable := 190.0
	if r.landscape {
		orientation = "L"
		usable = 277.0
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, table.Title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	total := table.weightTotal()
	widths := make([]float64, len(table.Columns))
	for i, col := range table.Columns {
		w := col.Weight
		if w <= 0 {
			w = 1
		}
		widths[i] = usable * w / total
	}

	pdf.SetFont("Arial", "B", 10)
	for i, col := range table.Columns {
		pdf.CellFormat(widths[i], 8, col.Label, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], 7, row[col.Key], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
