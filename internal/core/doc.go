// Package core provides the business logic for turning spreadsheet rows into
// C initializer lists.
//
// It is independent of any UI or transport layer and is used by the HTML
// handlers, the JSON API and tests alike.
//
// # Flow
//
//  1. [Service.Load] decodes an uploaded .xlsx file with [LoadWorkbook]. The
//     header is read from row 5 by default; rows above it are ignored.
//  2. [Service.SelectColumns] records the chosen columns. A [ColumnOrder]
//     tracks their order and is reset whenever the chosen set changes.
//  3. [Service.MoveUp] and [Service.MoveDown] swap a column with its
//     neighbour. Moves at either end are no-ops.
//  4. [Service.Generate] projects the table onto the order and renders it
//     with [FormatHeader].
//
// # Output Format
//
// Each row becomes one line. Cells are right-padded to the widest value (or
// column name) in their column and missing cells read "nan":
//
//	{PA0 , {1  , OUT}}, // enable pin
//	{A, B},
//
// Three or more columns use the first cell as a tag followed by a braced
// group of the rest; fewer columns are comma-joined in a single brace pair.
//
// # Sessions
//
// Sessions live in memory only. They expire after an idle TTL and are swept
// by [Service.StartJanitor].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Workbooks that cannot be read surface as [LoadError], whose text starts
// with "Failed to read Excel file:".
package core
