package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a raw spreadsheet sheet: an ordered header list plus one
// column-name → cell-value map per row. Values are kept as strings exactly
// as the source provides them.
type Table struct {
	Headers []string
	Rows    []Row
}

// Row maps a column header to the raw cell value.
type Row map[string]string

// ReadFile loads a spreadsheet into a Table. Supported formats are .xlsx
// and .csv. For workbooks the first sheet with data rows wins.
func ReadFile(path string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return readWorkbook(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file extension %q: only .xlsx and .csv files are allowed", ext)
	}
}

func readWorkbook(path string) (*Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	for _, sheet := range file.GetSheetList() {
		rows, err := file.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}

		table := tableFromRecords(rows)
		if len(table.Rows) > 0 {
			return table, nil
		}
	}

	return nil, errors.New("no data found in workbook")
}

func readCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return tableFromRecords(records), nil
}

func tableFromRecords(records [][]string) *Table {
	table := &Table{}

	// The first row with any content is the header row.
	start := -1
	for i, record := range records {
		if !recordEmpty(record) {
			start = i
			break
		}
	}
	if start == -1 {
		return table
	}

	for _, header := range records[start] {
		table.Headers = append(table.Headers, strings.TrimSpace(header))
	}

	for _, record := range records[start+1:] {
		if recordEmpty(record) {
			continue
		}
		row := make(Row, len(table.Headers))
		for i, header := range table.Headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

func recordEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
