// Package core provides the business logic for header generation.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Remove unused sheets or rows and upload again
//	          Patterns: "file too large"
//
//	FILE002 - Load failure: the workbook could not be read
//	          Message: the full "Failed to read Excel file: <details>" text
//	          Action: Upload an .xlsx workbook with the header on the configured row
//	          Matched by: *LoadError
//
//	FILE004 - No file: No file was selected
//	          Action: Please select an .xlsx file to upload
//	          Patterns: "no file provided"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: the workbook session expired or never existed
//	         Action: Upload the workbook again
//	         Patterns: "session not found"
//
// # Column Errors (COL001-COL099)
//
//	COL001 - Unknown column: the column is not in the workbook
//	COL002 - Column not selected: the column is not part of the current order
//	COL003 - No columns: nothing to generate
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Malformed input: a form field or JSON body could not be parsed
//	         Patterns: "invalid request"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: too many workbooks are being read right now
//	UPL004 - Request cancelled
//	UPL005 - Request timeout
//
// # Auth and Rate Limiting
//
//	AUTH001 - Missing API key
//	AUTH002 - Invalid API key
//	RATE001 - Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the application logs
// for the underlying technical error.
//
// Sentinel errors are matched with errors.Is first. Patterns are a fallback
// for errors from other packages, matched case-insensitively with
// strings.Contains. The first match wins, so specific patterns come before
// general ones.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownColumn is returned when a column name is not in the table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrColumnNotSelected is returned when a reorder targets a column outside the order.
	ErrColumnNotSelected = errors.New("column not selected")

	// ErrNoColumns is returned when generating with an empty column order.
	ErrNoColumns = errors.New("no columns selected")

	// ErrRowMismatch is returned when the projected and full tables are not row aligned.
	ErrRowMismatch = errors.New("row count mismatch")

	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")

	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoFile is returned when an upload request carries no file.
	ErrNoFile = errors.New("no file provided")

	// ErrBadRequest is returned for malformed form or JSON input.
	ErrBadRequest = errors.New("invalid request")
)

// LoadError reports that an uploaded file could not be decoded as a workbook.
// No session is created and no output is produced for that upload.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "Failed to read Excel file: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is, or wraps, a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern maps an error to a message. A non-nil target is matched with
// errors.Is before any pattern is tried, so text that ends up in an error
// (a column name, say) cannot change which message is chosen.
type errorPattern struct {
	target  error
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		target:  ErrFileTooLarge,
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or rows and upload again",
			Code:    "FILE001",
		},
	},
	{
		target:  ErrNoFile,
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select an .xlsx file to upload",
			Code:    "FILE004",
		},
	},
	{
		target:  ErrSessionNotFound,
		pattern: "session not found",
		msg: UserMessage{
			Message: "Workbook session not found",
			Action:  "The session may have expired. Please upload the workbook again",
			Code:    "SES001",
		},
	},
	{
		target:  ErrColumnNotSelected,
		pattern: "column not selected",
		msg: UserMessage{
			Message: "Column is not part of the current order",
			Action:  "Select the column in step 1 before moving it",
			Code:    "COL002",
		},
	},
	{
		target:  ErrUnknownColumn,
		pattern: "unknown column",
		msg: UserMessage{
			Message: "Column not found in the workbook",
			Action:  "Pick one of the columns read from the header row",
			Code:    "COL001",
		},
	},
	{
		target:  ErrNoColumns,
		pattern: "no columns selected",
		msg: UserMessage{
			Message: "No columns selected",
			Action:  "Select at least one column to include in the output",
			Code:    "COL003",
		},
	},
	{
		target:  ErrBadRequest,
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Check the submitted values and try again",
			Code:    "REQ001",
		},
	},
	{
		target:  ErrTooManyParses,
		pattern: "too many uploads",
		msg: UserMessage{
			Message: "Too many workbooks are being read right now",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		target:  context.Canceled,
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		target:  context.DeadlineExceeded,
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller workbook or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "missing api key",
		msg: UserMessage{
			Message: "API key required",
			Action:  "Send the key in the X-API-Key header",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "invalid api key",
		msg: UserMessage{
			Message: "API key not recognised",
			Action:  "Check the X-API-Key header value",
			Code:    "AUTH002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Load failures keep their full "Failed to read Excel file: ..." text so the
// user sees what went wrong with the workbook.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var le *LoadError
	if errors.As(err, &le) {
		return UserMessage{
			Message: le.Error(),
			Action:  "Upload an .xlsx workbook with the header on the configured row",
			Code:    "FILE002",
		}
	}

	for _, ep := range errorPatterns {
		if ep.target != nil && errors.Is(err, ep.target) {
			return ep.msg
		}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
