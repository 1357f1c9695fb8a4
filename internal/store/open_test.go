package store

import (
	"context"
	"testing"

	"github.com/JonMunkholm/roster/internal/config"
)

func TestOpen_MemoryWithoutURL(t *testing.T) {
	sink, closeFn, err := Open(context.Background(), config.DatabaseConfig{}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer closeFn()

	if _, ok := sink.(*MemorySink); !ok {
		t.Errorf("sink = %T, want *MemorySink", sink)
	}
}

func TestOpen_InvalidURL(t *testing.T) {
	_, _, err := Open(context.Background(), config.DatabaseConfig{URL: "postgres://%zz"}, nil)
	if err == nil {
		t.Fatal("Open() error = nil, want parse error")
	}
}

func TestDatabaseName(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/roster?sslmode=disable": "roster",
		"postgres://localhost":                                 "",
	}
	for in, want := range tests {
		if got := databaseName(in); got != want {
			t.Errorf("databaseName(%q) = %q, want %q", in, got, want)
		}
	}
}
