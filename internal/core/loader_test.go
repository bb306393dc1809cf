package core

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows (1-based sheet row = index+1) into an in-memory
// .xlsx file. nil values leave the cell empty.
func buildWorkbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("SetSheetName: %v", err)
		}
	}

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("SetCellValue(%s): %v", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

// gpioRows is a typical pin map: title block on rows 1-4, header on row 5.
func gpioRows() [][]any {
	return [][]any{
		{"GPIO map"},
		{"rev", "B"},
		{},
		{},
		{"Pin", "Num", "Dir", "Description"},
		{"PA0", 1, "OUT", "enable pin"},
		{"PA1", 2, "IN", nil},
		{"PB3", nil, "IN", "button"},
	}
}

func TestLoadWorkbook(t *testing.T) {
	buf := buildWorkbook(t, "Sheet1", gpioRows())

	wb, err := LoadWorkbook(buf, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadWorkbook() error = %v", err)
	}

	if wb.Sheet != "Sheet1" {
		t.Errorf("Sheet = %q, want Sheet1", wb.Sheet)
	}
	if got := wb.Table.ColumnNames(); !reflect.DeepEqual(got, []string{"Pin", "Num", "Dir", "Description"}) {
		t.Errorf("ColumnNames() = %v", got)
	}
	if wb.Table.RowCount() != 3 {
		t.Fatalf("RowCount() = %d, want 3", wb.Table.RowCount())
	}

	num, _ := wb.Table.Cell("Num", 0)
	if num.String() != "1" {
		t.Errorf("Num[0] = %q, want %q", num.String(), "1")
	}
	desc, _ := wb.Table.Cell("Description", 1)
	if desc.Valid {
		t.Errorf("Description[1] should be missing, got %q", desc.Value)
	}
	num2, _ := wb.Table.Cell("Num", 2)
	if num2.String() != "nan" {
		t.Errorf("Num[2] = %q, want nan", num2.String())
	}
}

func TestLoadWorkbook_ThenFormat(t *testing.T) {
	buf := buildWorkbook(t, "Sheet1", gpioRows())

	wb, err := LoadWorkbook(buf, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadWorkbook() error = %v", err)
	}

	projected, err := wb.Table.Project([]string{"Pin", "Num", "Dir"})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	got, err := FormatHeader(projected, wb.Table, "Description")
	if err != nil {
		t.Fatalf("FormatHeader: %v", err)
	}

	want := strings.Join([]string{
		"{PA0 , {1  , OUT}}, // enable pin",
		"{PA1 , {2  , IN }}, // nan",
		"{PB3 , {nan, IN }}, // button",
	}, "\n")
	if got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestLoadWorkbook_SheetAndHeaderRow(t *testing.T) {
	buf := buildWorkbook(t, "Pins", [][]any{
		{"Name", "Mode"},
		{"LED", "OUT"},
	})

	wb, err := LoadWorkbook(buf, LoadOptions{Sheet: "Pins", HeaderRow: 1})
	if err != nil {
		t.Fatalf("LoadWorkbook() error = %v", err)
	}
	if got := wb.Table.ColumnNames(); !reflect.DeepEqual(got, []string{"Name", "Mode"}) {
		t.Errorf("ColumnNames() = %v", got)
	}
	if wb.Table.RowCount() != 1 {
		t.Errorf("RowCount() = %d, want 1", wb.Table.RowCount())
	}
}

func TestLoadWorkbook_Failures(t *testing.T) {
	tests := []struct {
		name    string
		input   func(t *testing.T) *bytes.Buffer
		opts    LoadOptions
		wantMsg string
	}{
		{
			name:    "not a workbook",
			input:   func(*testing.T) *bytes.Buffer { return bytes.NewBufferString("Pin,Dir\nPA0,OUT\n") },
			wantMsg: "open workbook",
		},
		{
			name: "header row beyond sheet",
			input: func(t *testing.T) *bytes.Buffer {
				return buildWorkbook(t, "Sheet1", [][]any{{"only"}, {"two rows"}})
			},
			wantMsg: "header row 5 not found",
		},
		{
			name: "unknown sheet",
			input: func(t *testing.T) *bytes.Buffer {
				return buildWorkbook(t, "Sheet1", gpioRows())
			},
			opts:    LoadOptions{Sheet: "Nope"},
			wantMsg: `worksheet "Nope" not found`,
		},
		{
			name: "inflates past unzip limit",
			input: func(t *testing.T) *bytes.Buffer {
				return buildWorkbook(t, "Sheet1", gpioRows())
			},
			opts:    LoadOptions{MaxUnzipSize: 64},
			wantMsg: "unzip size exceeds the 64 bytes limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, err := LoadWorkbook(tt.input(t), tt.opts)
			if err == nil {
				t.Fatal("LoadWorkbook() expected error")
			}
			if wb != nil {
				t.Error("no workbook should be returned on failure")
			}

			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not a *LoadError", err)
			}
			if !strings.HasPrefix(err.Error(), "Failed to read Excel file: ") {
				t.Errorf("error = %q, want Failed to read Excel file prefix", err.Error())
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestTableFromRows(t *testing.T) {
	rows := [][]string{
		{"junk"},
		{"Pin", "Pin", "", "Dir"},
		{"PA0", "x", "", "OUT", "extra"},
		{},
		{"PA1"},
		{"", "  "},
		{},
	}

	tbl, err := tableFromRows(rows, 2)
	if err != nil {
		t.Fatalf("tableFromRows() error = %v", err)
	}

	want := []string{"Pin", "Pin.1", "Unnamed: 2", "Dir", "Unnamed: 4"}
	if got := tbl.ColumnNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ColumnNames() = %v, want %v", got, want)
	}

	// interior blank row kept, trailing blank rows dropped
	if tbl.RowCount() != 3 {
		t.Fatalf("RowCount() = %d, want 3", tbl.RowCount())
	}
	blank, _ := tbl.Cell("Pin", 1)
	if blank.Valid {
		t.Error("interior blank row should hold missing cells")
	}
	extra, _ := tbl.Cell("Unnamed: 4", 0)
	if extra.String() != "extra" {
		t.Errorf("Unnamed: 4[0] = %q, want extra", extra.String())
	}
}

func TestColumnNames_KeepsSurroundingSpaces(t *testing.T) {
	got := columnNames([]string{" Dir ", "Pin", "   ", "Dir"}, 4)
	want := []string{" Dir ", "Pin", "Unnamed: 2", "Dir"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("columnNames() = %q, want %q", got, want)
	}
}

func TestColumnNames_RepeatedSuffixes(t *testing.T) {
	got := columnNames([]string{"A", "A", "A.1", "A"}, 4)
	want := []string{"A", "A.1", "A.1.1", "A.2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("columnNames() = %v, want %v", got, want)
	}
}
