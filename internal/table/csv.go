package table

import (
	"encoding/csv"
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// writeCSV serializes one record as comma-separated UTF-8 with a byte-order
// marker, which spreadsheet tools rely on to detect the encoding. The header
// row comes first; rows are written as extracted, without an index column.
func writeCSV(path string, rec Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	bom := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bom)
	if err := w.Write(rec.Header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rec.Rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := bom.Close(); err != nil {
		f.Close()
		return fmt.Errorf("flush encoder: %w", err)
	}
	return f.Close()
}
