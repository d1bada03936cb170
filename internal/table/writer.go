package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteCSV writes the table as comma-delimited text with a header row.
// nil cells render as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	return t.writeDelimited(w, ',')
}

// WriteTSV writes the table as tab-delimited text with a header row.
func (t *Table) WriteTSV(w io.Writer) error {
	return t.writeDelimited(w, '\t')
}

func (t *Table) writeDelimited(w io.Writer, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim

	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for j, cell := range row {
			record[j] = FormatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to a CSV file at path.
func (t *Table) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
