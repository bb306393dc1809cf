package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "load failure keeps details",
			err:         &LoadError{Err: errors.New("zip: not a valid zip file")},
			wantCode:    "FILE002",
			wantMessage: "Failed to read Excel file: zip: not a valid zip file",
		},
		{
			name:        "wrapped load failure",
			err:         fmt.Errorf("upload: %w", &LoadError{Err: errors.New("header row 5 not found")}),
			wantCode:    "FILE002",
			wantMessage: "Failed to read Excel file: header row 5 not found",
		},
		{
			name:        "file too large",
			err:         fmt.Errorf("%w: 30 MB exceeds 20 MB", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "no file",
			err:         ErrNoFile,
			wantCode:    "FILE004",
			wantMessage: "No file was selected",
		},
		{
			name:        "session not found",
			err:         ErrSessionNotFound,
			wantCode:    "SES001",
			wantMessage: "Workbook session not found",
		},
		{
			name:        "column not selected before unknown column",
			err:         fmt.Errorf("%w: Dir", ErrColumnNotSelected),
			wantCode:    "COL002",
			wantMessage: "Column is not part of the current order",
		},
		{
			name:        "unknown column",
			err:         fmt.Errorf("%w: Bogus", ErrUnknownColumn),
			wantCode:    "COL001",
			wantMessage: "Column not found in the workbook",
		},
		{
			name:        "no columns",
			err:         ErrNoColumns,
			wantCode:    "COL003",
			wantMessage: "No columns selected",
		},
		{
			name:        "busy",
			err:         ErrTooManyParses,
			wantCode:    "UPL002",
			wantMessage: "Too many workbooks are being read right now",
		},
		{
			name:        "rate limit",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "column named like another error",
			err:         fmt.Errorf("%w: %s", ErrUnknownColumn, "Session not found"),
			wantCode:    "COL001",
			wantMessage: "Column not found in the workbook",
		},
		{
			name:        "column named file too large",
			err:         fmt.Errorf("%w: %s", ErrColumnNotSelected, "File too large"),
			wantCode:    "COL002",
			wantMessage: "Column is not part of the current order",
		},
		{
			name:        "wrapped deadline",
			err:         fmt.Errorf("parse workbook: %w", context.DeadlineExceeded),
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("SESSION NOT FOUND"),
			wantCode:    "SES001",
			wantMessage: "Workbook session not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrNoColumns)

	expected := "No columns selected (Code: COL003). Select at least one column to include in the output"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrSessionNotFound, true},
		{"load error is user facing", &LoadError{Err: errors.New("bad")}, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadError_Unwrap(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := &LoadError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("LoadError should unwrap to its cause")
	}
	if !IsLoadError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsLoadError should see through wrapping")
	}
}
