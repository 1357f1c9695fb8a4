package core

// # Error Codes Reference
//
// This file maps technical errors from the outer layers (ingestion, sessions,
// the commit sink) to user-friendly messages with codes for support reference.
// Validation problems on records are not errors: they travel as data in
// Record.Errors and never pass through MapError.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large          Patterns: "file too large"
//	FILE002 - Too many records        Patterns: "too many records"
//	FILE003 - No file                 Patterns: "no file provided"
//	FILE004 - Empty file              Patterns: "empty file"
//	FILE005 - Invalid CSV             Patterns: "invalid csv", "parse csv"
//
// # Header Errors (CSV001-CSV099)
//
//	CSV001 - Unrecognized header      Patterns: "no recognized columns"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired          Patterns: "session not found"
//	SES002 - System busy              Patterns: "too many concurrent loads"
//	SES003 - Request cancelled        Patterns: "context canceled"
//	SES004 - Request timeout          Patterns: "context deadline exceeded"
//
// # Editing Errors (REC001-REC099)
//
//	REC001 - Record not found         Patterns: "record not found"
//	REC002 - Record invalid           Patterns: "record has validation errors"
//	REC003 - Unknown field            Patterns: "unknown field"
//	REC004 - Page out of range        Patterns: "page out of range"
//	REC005 - Bulk add too small       Patterns: "at least 2 selected"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Malformed request        Patterns: "invalid request"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key             Patterns: "duplicate key", "violates unique"
//	DB002 - Connection refused        Patterns: "connection refused"
//	DB003 - Connection reset          Patterns: "connection reset"
//	DB004 - Timeout                   Patterns: "timeout"
//	DB005 - Age too large to store    Patterns: "out of storable range"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited            Patterns: "rate limit"
//
// ERR000 is the fallback when nothing matches; check the logs for the
// technical error.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched case-insensitively with strings.Contains.
// The first match wins, so specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "too many records",
		msg: UserMessage{
			Message: "File has more records than the editor accepts",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with a header and data rows",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no recognized columns",
		msg: UserMessage{
			Message: "The header row has none of the expected columns",
			Action:  "Use the columns NIC, First Name, Last Name, Gender, Age",
			Code:    "CSV001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent quoting",
			Code:    "FILE005",
		},
	},
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent quoting",
			Code:    "FILE005",
		},
	},

	// Session errors
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Editor session not found",
			Action:  "The session may have expired. Please upload the file again",
			Code:    "SES001",
		},
	},
	{
		pattern: "too many concurrent loads",
		msg: UserMessage{
			Message: "Too many files are being loaded",
			Action:  "Please wait a moment and try again",
			Code:    "SES002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "SES003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "SES004",
		},
	},

	// Editing errors
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "That row no longer exists",
			Action:  "Reload the editor to see the current rows",
			Code:    "REC001",
		},
	},
	{
		pattern: "record has validation errors",
		msg: UserMessage{
			Message: "Only valid rows can be added",
			Action:  "Fix the highlighted cells first",
			Code:    "REC002",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "That column cannot be edited",
			Action:  "Edit one of NIC, First Name, Last Name, Gender, Age",
			Code:    "REC003",
		},
	},
	{
		pattern: "page out of range",
		msg: UserMessage{
			Message: "That page does not exist",
			Action:  "Choose a page between the first and the last",
			Code:    "REC004",
		},
	},
	{
		pattern: "at least 2 selected",
		msg: UserMessage{
			Message: "Bulk add needs at least two selected rows",
			Action:  "Select more valid rows or add the row on its own",
			Code:    "REC005",
		},
	},

	// Request errors
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Reload the page and try again",
			Code:    "REQ001",
		},
	},

	// Database errors
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A person with this NIC was already added",
			Action:  "Check the NIC values of the selected rows",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A person with this NIC was already added",
			Action:  "Check the NIC values of the selected rows",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB004",
		},
	},

	{
		pattern: "out of storable range",
		msg: UserMessage{
			Message: "Age is too large to store",
			Action:  "Enter an age of at most 2147483647",
			Code:    "DB005",
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

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern's message, or the ERR000 fallback.
//
// Example:
//
//	msg := MapError(fmt.Errorf("load: %w", session.ErrNotFound))
//	// msg.Code == "SES001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while Error() gives the clean message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
