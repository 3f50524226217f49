package alumni

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteCSV writes the header row followed by one row per alumnus. Fields with
// commas are quoted, which the import tokenizer reads back unchanged. Embedded
// double quotes would not survive a re-import; record validation rejects them.
func WriteCSV(w io.Writer, all []Alumnus) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, a := range all {
		if err := cw.Write(a.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const sheetName = "Alumni"

// WriteXLSX writes the same layout as WriteCSV into a single-sheet workbook.
func WriteXLSX(w io.Writer, all []Alumnus) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, a := range all {
		values := a.Values()
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_, err := f.WriteTo(w)
	return err
}
