package core

import (
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
			name:        "file too large",
			err:         errors.New("http: file too large"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "empty file wrapped",
			err:         fmt.Errorf("parse upload: %w", errors.New("empty file")),
			wantCode:    "FILE004",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "unrecognized header wins over invalid csv",
			err:         errors.New("invalid csv: no recognized columns in header"),
			wantCode:    "CSV001",
			wantMessage: "The header row has none of the expected columns",
		},
		{
			name:        "session not found",
			err:         errors.New("session not found"),
			wantCode:    "SES001",
			wantMessage: "Editor session not found",
		},
		{
			name:        "bulk add too small",
			err:         errors.New("bulk add needs at least 2 selected records"),
			wantCode:    "REC005",
			wantMessage: "Bulk add needs at least two selected rows",
		},
		{
			name:        "duplicate key from postgres",
			err:         errors.New("ERROR: duplicate key value violates unique constraint \"people_pkey\""),
			wantCode:    "DB001",
			wantMessage: "A person with this NIC was already added",
		},
		{
			name:        "context deadline is not a db timeout",
			err:         errors.New("context deadline exceeded"),
			wantCode:    "SES004",
			wantMessage: "Request timed out",
		},
		{
			name:        "age too large for storage",
			err:         errors.New("age out of storable range: r1: age \"3000000000\""),
			wantCode:    "DB005",
			wantMessage: "Age is too large to store",
		},
		{
			name:        "malformed request body",
			err:         errors.New("invalid request body: unexpected EOF"),
			wantCode:    "REQ001",
			wantMessage: "The request could not be read",
		},
		{
			name:        "case insensitive",
			err:         errors.New("RATE LIMIT EXCEEDED"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error falls back",
			err:         errors.New("something odd"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError().Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError().Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(errors.New("page out of range"))
	want := "That page does not exist (Code: REC004). Choose a page between the first and the last"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true, want false")
	}
	if !IsUserFacing(errors.New("record not found")) {
		t.Error("IsUserFacing(record not found) = false, want true")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Error("IsUserFacing(boom) = true, want false")
	}
}

func TestNewUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Error("NewUserError(nil) should be nil")
	}

	tech := errors.New("unknown field \"email\"")
	ue := NewUserError(tech)
	if ue.User.Code != "REC003" {
		t.Errorf("Code = %q, want REC003", ue.User.Code)
	}
	if !errors.Is(ue, tech) {
		t.Error("UserError does not unwrap to the technical error")
	}
	if ue.Error() != "That column cannot be edited" {
		t.Errorf("Error() = %q", ue.Error())
	}
}
