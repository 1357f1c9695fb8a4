package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/JonMunkholm/roster/internal/core"
)

// seqParser assigns ids r1, r2, ... so tests can compare whole records.
func seqParser(max int) *Parser {
	n := 0
	return NewParser(Options{
		MaxRecords: max,
		NewID: func() core.RecordID {
			n++
			return core.RecordID(fmt.Sprintf("r%d", n))
		},
	})
}

// ============================================================================
// Header Tests
// ============================================================================

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"NIC", "nic"},
		{"  First Name ", "first_name"},
		{"Last  Name", "last_name"},
		{"frist_name", "first_name"},
		{"Frist Name", "first_name"},
		{"age", "age"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapHeader(t *testing.T) {
	got, err := mapHeader([]string{"ID", "notes", "Frist Name", "surname", "Last Name", "Sex", "Age", "nic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []core.Field{
		core.FieldNIC, "", core.FieldFirstName, "", core.FieldLastName, core.FieldGender, core.FieldAge, "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mapHeader() mismatch (-want +got):\n%s", diff)
	}
}

// ============================================================================
// Parse Tests
// ============================================================================

func TestParse(t *testing.T) {
	input := "nic,first_name,last_name,gender,age\n" +
		"NIC1, Ann ,Lee,F,30\n" +
		"\n" +
		"   \n" +
		"NIC2,Bob,Ray,M,25\n"

	got, err := seqParser(0).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []core.Record{
		{ID: "r1", NIC: "NIC1", FirstName: "Ann", LastName: "Lee", Gender: "F", Age: "30"},
		{ID: "r2", NIC: "NIC2", FirstName: "Bob", LastName: "Ray", Gender: "M", Age: "25"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  N1 ", "N1"},
		{`="00123"`, "00123"},
		{` ="A-1" `, "A-1"},
		{`=""`, ""},
		{"=5", "=5"},
		{`"quoted"`, `"quoted"`},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse_KeepsRowsWithBlankCells(t *testing.T) {
	input := "nic,first_name,last_name,gender,age\n" +
		",,,,\n" +
		"NIC3,,Lee,,\n"

	got, err := seqParser(0).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[1].NIC != "NIC3" || got[1].LastName != "Lee" || got[1].FirstName != "" {
		t.Errorf("record = %+v", got[1])
	}
}

func TestParse_HeaderVariants(t *testing.T) {
	input := "\xEF\xBB\xBFAge,Sex,Frist Name,Last Name,ID,Notes\n" +
		"41,M,Cy,Doe,N9,vip\n"

	got, err := seqParser(0).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []core.Record{
		{ID: "r1", NIC: "N9", FirstName: "Cy", LastName: "Doe", Gender: "M", Age: "41"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_MissingColumnsAndShortRows(t *testing.T) {
	input := "nic,first_name,last_name\n" +
		"N1,Ann\n"

	got, err := seqParser(0).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []core.Record{{ID: "r1", NIC: "N1", FirstName: "Ann"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_QuotedAndInvalidUTF8(t *testing.T) {
	input := "nic,first_name,last_name,gender,age\n" +
		"\"N,1\",\"Zo\x80\",\"O\"\"Neil\",F,30\n"

	got, err := seqParser(0).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].NIC != "N,1" {
		t.Errorf("NIC = %q, want %q", got[0].NIC, "N,1")
	}
	if got[0].FirstName != "Zo?" {
		t.Errorf("FirstName = %q, want %q", got[0].FirstName, "Zo?")
	}
	if got[0].LastName != "O\"Neil" {
		t.Errorf("LastName = %q, want %q", got[0].LastName, "O\"Neil")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		max     int
		wantErr error
	}{
		{"empty input", "", 0, ErrEmptyFile},
		{"only BOM", "\xEF\xBB\xBF", 0, ErrEmptyFile},
		{"unknown header", "foo,bar\n1,2\n", 0, ErrUnknownHeader},
		{"too many records", "nic\nA\nB\nC\n", 2, ErrTooManyRecords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seqParser(tt.max).Parse(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	got, err := Parse(strings.NewReader("nic,first_name,last_name,gender,age\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 records, got %d", len(got))
	}
}

func TestParse_AssignsUniqueIDs(t *testing.T) {
	var b strings.Builder
	b.WriteString("nic\n")
	for i := 0; i < 50; i++ {
		b.WriteString("same\n")
	}

	got, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[core.RecordID]bool, len(got))
	for _, r := range got {
		if r.ID == "" {
			t.Fatal("record has empty id")
		}
		if seen[r.ID] {
			t.Fatalf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	if err := os.WriteFile(path, []byte("nic,age\nN1,30\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].NIC != "N1" || got[0].Age != "30" {
		t.Errorf("ParseFile() = %+v", got)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

// ============================================================================
// Export Tests
// ============================================================================

func TestExport(t *testing.T) {
	records := []core.Record{
		{ID: "b", NIC: "N2", FirstName: "Bob", LastName: "Ray", Gender: "M", Age: "25"},
		{ID: "a", NIC: "N1", FirstName: " Ann", LastName: "Lee, Jr", Gender: "X", Age: "-5",
			Errors: core.ValidationErrors{core.FieldGender: core.MsgGenderInvalid}},
	}

	var buf bytes.Buffer
	if err := Export(&buf, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "NIC,First Name,Last Name,Gender,Age\n" +
		"N2,Bob,Ray,M,25\n" +
		"N1,\" Ann\",\"Lee, Jr\",X,-5\n"
	if buf.String() != want {
		t.Errorf("Export() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	records := []core.Record{
		{ID: "x", NIC: "N1", FirstName: "Ann", LastName: "Lee", Gender: "F", Age: "30"},
		{ID: "y", NIC: "N2", FirstName: "Łukasz", LastName: "O\"Neil", Gender: "M", Age: "41"},
	}

	var buf bytes.Buffer
	if err := Export(&buf, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(records, got, cmpopts.IgnoreFields(core.Record{}, "ID")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
