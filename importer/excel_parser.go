package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX читает таблицу из Excel-файла: первый лист, первая строка —
// заголовки. Любое нарушение формата — *LoadError.
func ParseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Reason: "malformed XLSX", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &LoadError{Reason: fmt.Sprintf("cannot read sheet %q", sheets[0]), Err: err}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Reason: "empty table: header row is required"}
	}

	headers := rows[0]

	// excelize возвращает строки без хвостовых пустых ячеек — выравниваем
	table := &Table{
		Headers: headers,
		Rows:    make([][]string, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		padded := make([]string, len(headers))
		copy(padded, row)
		table.Rows = append(table.Rows, padded)
	}

	return table, nil
}

// WriteXLSX сериализует таблицу в Excel-файл с одним листом
func WriteXLSX(t *Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)

	headerCell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetSheetRow(sheetName, headerCell, &t.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i := range t.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &t.Rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
