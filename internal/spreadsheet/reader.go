package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const (
	// MaxRows bounds the data rows of one upload, header excluded.
	MaxRows = 100000
	// xlsMaxColumns is the BIFF8 column count.
	xlsMaxColumns = 256
)

var (
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrNoWorksheet       = errors.New("no worksheet found")
	ErrTooManyRows       = errors.New("too many rows in the sheet")
)

// Row maps a header to its cell value. Cells under blank headers are dropped.
type Row map[string]string

type Sheet struct {
	Headers []string
	Rows    []Row
}

func (sheet Sheet) Empty() bool {
	return len(sheet.Rows) == 0
}

// Read parses the first worksheet of an .xlsx, .xls or .csv upload. The first
// row holds the headers; fully blank rows are skipped.
func Read(reader io.Reader, filename string) (Sheet, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return Sheet{}, fmt.Errorf("read upload: %w", err)
	}

	var cells [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		cells, err = readCSV(data)
	case ".xls":
		cells, err = readXLS(data)
	case ".xlsx", ".xlsm":
		cells, err = readXLSX(data)
	default:
		return Sheet{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		return Sheet{}, err
	}
	sheet := buildSheet(cells)
	if len(sheet.Rows) > MaxRows {
		return Sheet{}, fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, len(sheet.Rows), MaxRows)
	}
	return sheet, nil
}

func SupportedExtensions() []string {
	return []string{".xlsx", ".xls", ".csv"}
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoWorksheet
	}
	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if workbook == nil || workbook.NumSheets() == 0 {
		return nil, ErrNoWorksheet
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoWorksheet
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for index := 0; index <= int(sheet.MaxRow); index++ {
		row := xlsRow(sheet, index)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		// Rows without a ROW record report LastCol 0 whatever their cells.
		width := row.LastCol() + 1
		if row.LastCol() <= 0 {
			width = xlsMaxColumns
		}
		cells := make([]string, 0, width)
		for col := 0; col < width; col++ {
			cells = append(cells, row.Col(col))
		}
		rows = append(rows, trimTrailingBlanks(cells))
	}
	return rows, nil
}

// xlsRow returns nil for rows missing from the sheet. WorkSheet.Row
// dereferences a nil row for them; any other panic is passed on.
func xlsRow(sheet *xls.WorkSheet, index int) (row *xls.Row) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if _, isRuntime := recovered.(runtime.Error); !isRuntime {
				panic(recovered)
			}
			row = nil
		}
	}()
	return sheet.Row(index)
}

func trimTrailingBlanks(cells []string) []string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}

func buildSheet(cells [][]string) Sheet {
	if len(cells) == 0 {
		return Sheet{}
	}

	headers := make([]string, len(cells[0]))
	for index, header := range cells[0] {
		headers[index] = strings.TrimSpace(header)
	}

	sheet := Sheet{Headers: headers}
	for _, cellRow := range cells[1:] {
		if isBlankRow(cellRow) {
			continue
		}
		row := make(Row, len(headers))
		for index, header := range headers {
			if header == "" {
				continue
			}
			if _, seen := row[header]; seen {
				continue
			}
			row[header] = cellValue(cellRow, index)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellValue(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
