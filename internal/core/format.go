package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// GroupThreshold is the column count from which the first cell is emitted
// as a tag followed by a braced group of the remaining cells.
const GroupThreshold = 3

// CommentPrefix separates a line from its trailing annotation.
const CommentPrefix = " // "

// ColumnWidths returns, per column, the larger of the longest rendered cell
// and the column name, in characters. Missing cells count as "nan".
func ColumnWidths(t *Table) []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		w := utf8.RuneCountInString(col.Name)
		for _, c := range col.Cells {
			if n := utf8.RuneCountInString(c.String()); n > w {
				w = n
			}
		}
		widths[i] = w
	}
	return widths
}

// padRight left-justifies s in a field of width characters.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// FormatLine renders one row of already padded cells.
//
//	3+ cells: {a , {b, c}},
//	1-2 cells: {a, b},
func FormatLine(cells []string) string {
	if len(cells) >= GroupThreshold {
		return "{" + cells[0] + " , {" + strings.Join(cells[1:], ", ") + "}},"
	}
	return "{" + strings.Join(cells, ", ") + "},"
}

// FormatLines renders every row of projected as an initializer line.
// When commentColumn is set, the raw value of that column in full is
// appended after CommentPrefix.
func FormatLines(projected, full *Table, commentColumn string) ([]string, error) {
	if projected.ColumnCount() == 0 {
		return nil, ErrNoColumns
	}

	var comments Column
	if commentColumn != "" {
		if full == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, commentColumn)
		}
		col, ok := full.Column(commentColumn)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, commentColumn)
		}
		if full.RowCount() != projected.RowCount() {
			return nil, fmt.Errorf("%w: projected %d rows, full %d rows",
				ErrRowMismatch, projected.RowCount(), full.RowCount())
		}
		comments = col
	}

	widths := ColumnWidths(projected)
	lines := make([]string, projected.RowCount())
	cells := make([]string, projected.ColumnCount())

	for row := range lines {
		for i, col := range projected.columns {
			cells[i] = padRight(col.Cells[row].String(), widths[i])
		}

		line := FormatLine(cells)
		if commentColumn != "" {
			line += CommentPrefix + comments.Cells[row].String()
		}
		lines[row] = line
	}

	return lines, nil
}

// FormatHeader renders projected as newline-separated initializer lines.
// There is no trailing newline, header or footer.
func FormatHeader(projected, full *Table, commentColumn string) (string, error) {
	lines, err := FormatLines(projected, full, commentColumn)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}
