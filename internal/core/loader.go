package core

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultHeaderRow is the 1-based sheet row holding column names.
// Rows above it are ignored.
const DefaultHeaderRow = 5

// LoadOptions controls how a workbook is turned into a Table.
type LoadOptions struct {
	// HeaderRow is the 1-based row with column names (default DefaultHeaderRow).
	HeaderRow int

	// Sheet is the worksheet to read (default: first sheet).
	Sheet string

	// MaxUnzipSize caps the total decompressed size of the workbook parts
	// in bytes (default: excelize's own limit).
	MaxUnzipSize int64
}

// Workbook is a decoded sheet ready for column selection.
type Workbook struct {
	Sheet  string
	Sheets []string
	Table  *Table
}

// LoadWorkbook decodes an .xlsx stream into a Table. Every failure is
// returned as a *LoadError.
func LoadWorkbook(r io.Reader, opts LoadOptions) (*Workbook, error) {
	wb, err := loadWorkbook(r, opts)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return wb, nil
}

func loadWorkbook(r io.Reader, opts LoadOptions) (*Workbook, error) {
	if opts.HeaderRow <= 0 {
		opts.HeaderRow = DefaultHeaderRow
	}

	f, err := excelize.OpenReader(r, excelize.Options{UnzipSizeLimit: opts.MaxUnzipSize})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheet := opts.Sheet
	if sheet == "" {
		sheet = sheets[0]
	} else if !containsString(sheets, sheet) {
		return nil, fmt.Errorf("worksheet %q not found (have: %s)", sheet, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows of %q: %w", sheet, err)
	}

	table, err := tableFromRows(rows, opts.HeaderRow)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	return &Workbook{Sheet: sheet, Sheets: sheets, Table: table}, nil
}

// tableFromRows turns raw sheet rows into a Table whose header is at the
// 1-based headerRow.
func tableFromRows(rows [][]string, headerRow int) (*Table, error) {
	if len(rows) < headerRow {
		return nil, fmt.Errorf("header row %d not found: sheet has %d rows", headerRow, len(rows))
	}

	header := rows[headerRow-1]
	data := trimTrailingEmptyRows(rows[headerRow:])

	width := len(header)
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("header row %d is empty", headerRow)
	}

	names := columnNames(header, width)
	columns := make([]Column, width)
	for i := range columns {
		cells := make([]Cell, len(data))
		for r, row := range data {
			if i < len(row) {
				cells[r] = TextCell(row[i])
			}
		}
		columns[i] = Column{Name: names[i], Cells: cells}
	}

	return NewTable(columns)
}

// columnNames derives unique names from a header row. Names are kept
// verbatim, surrounding spaces included. Blank headers become
// "Unnamed: <index>"; repeats get ".1", ".2", ... suffixes.
func columnNames(header []string, width int) []string {
	names := make([]string, width)
	used := make(map[string]bool, width)
	counts := make(map[string]int, width)

	for i := 0; i < width; i++ {
		var name string
		if i < len(header) {
			name = header[i]
		}
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		base := name
		for used[name] {
			counts[base]++
			name = base + "." + strconv.Itoa(counts[base])
		}
		used[name] = true
		names[i] = name
	}

	return names
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isEmptyRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
