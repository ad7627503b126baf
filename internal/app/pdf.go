package app

import (
	"fmt"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// writeSummaryPDF renders a minimal one-page summary of an extraction run:
// the run metadata followed by one line per written file. Intentionally
// simple; the manifest JSON is the machine-readable record.
func writeSummaryPDF(path string, meta manifestMeta, entries []manifestEntry) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Table extraction summary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, fmt.Sprintf("Source: %s", meta.BaseURL), "", "L", false)
	if len(meta.Pages) > 0 {
		pdf.MultiCell(0, 5, fmt.Sprintf("Pages: %v", meta.Pages), "", "L", false)
	}
	pdf.MultiCell(0, 5, fmt.Sprintf("Output directory: %s", meta.OutDir), "", "L", false)
	pdf.MultiCell(0, 5, fmt.Sprintf("Tables saved: %d", meta.TableCount), "", "L", false)
	pdf.MultiCell(0, 5, fmt.Sprintf("Generated: %s", meta.GeneratedAt.Format("2006-01-02 15:04:05 MST")), "", "L", false)
	pdf.Ln(4)

	if len(entries) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, "Files", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, e := range entries {
			line := fmt.Sprintf("%s  (%d rows, %d columns)", filepath.Base(e.Path), e.Rows, e.Columns)
			pdf.MultiCell(0, 5, line, "", "L", false)
		}
	}

	return pdf.OutputFileAndClose(path)
}
