package bulkfile

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Calificaciones"

// ReadXLSX parses the first sheet of an XLSX file into bulk rows
func ReadXLSX(data []byte) ([]*Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX rows: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return rowsFromRecords(records)
}

// SheetWriter builds an XLSX export with the canonical header row
type SheetWriter struct {
	file *excelize.File
	next int
	err  error
}

// NewSheetWriter creates a writer with the header row already in place
func NewSheetWriter() *SheetWriter {
	f := excelize.NewFile()

	w := &SheetWriter{file: f, next: 2}
	index, err := f.NewSheet(sheetName)
	if err != nil {
		w.err = err
		return w
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		w.err = err
		return w
	}

	header := make([]interface{}, 0, len(Columns()))
	for _, col := range Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		w.err = err
	}
	return w
}

// Append writes one data row. Empty strings leave the cell blank.
func (w *SheetWriter) Append(cells []string) {
	if w.err != nil {
		return
	}
	row := make([]interface{}, 0, len(cells))
	for _, c := range cells {
		row = append(row, c)
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	if err := w.file.SetSheetRow(sheetName, cell, &row); err != nil {
		w.err = err
		return
	}
	w.next++
}

// Bytes finishes the workbook and returns its serialized content
func (w *SheetWriter) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	defer w.file.Close()

	var buf bytes.Buffer
	if err := w.file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
