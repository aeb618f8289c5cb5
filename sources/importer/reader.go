package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile   = errors.New("file has no header row")
	ErrTooManyRows = errors.New("file has too many rows")
)

type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "Invalid CSV format. Missing columns: " + strings.Join(e.Missing, ", ")
}

// Row is one non-blank data row. Number is 1-based over data rows.
type Row struct {
	Number int
	Values map[string]string
}

func (r Row) Get(column string) string {
	return r.Values[column]
}

type Sheet struct {
	Columns []string
	Rows    []Row
}

var zipMagic = []byte("PK\x03\x04")

// Read parses an uploaded listing file. XLSX is chosen by extension or zip
// signature, everything else is read as CSV. maxRows <= 0 disables the cap.
func Read(filename string, r io.Reader, maxRows int) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	var records [][]string
	if isSpreadsheet(filename, data) {
		records, err = readXLSX(data)
	} else {
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}

	return build(records, maxRows)
}

func isSpreadsheet(filename string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return true
	case ".csv", ".txt":
		return false
	}
	return bytes.HasPrefix(data, zipMagic)
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comma = sniffDelimiter(data)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return records, nil
}

// sniffDelimiter picks ';' for spreadsheets exported with a European locale.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet rows: %w", err)
	}
	return rows, nil
}

func build(records [][]string, maxRows int) (*Sheet, error) {
	start := -1
	for i, record := range records {
		if !isBlank(record) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrEmptyFile
	}

	columns := resolveColumns(records[start])
	if missing := missingColumns(columns); len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	sheet := &Sheet{Columns: columns, Rows: []Row{}}
	for _, record := range records[start+1:] {
		if isBlank(record) {
			continue
		}

		values := make(map[string]string, len(columns))
		for i, column := range columns {
			if column == "" {
				continue
			}
			if i < len(record) {
				values[column] = strings.TrimSpace(record[i])
			} else {
				values[column] = ""
			}
		}

		sheet.Rows = append(sheet.Rows, Row{Number: len(sheet.Rows) + 1, Values: values})
		if maxRows > 0 && len(sheet.Rows) > maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, maxRows)
		}
	}

	return sheet, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
