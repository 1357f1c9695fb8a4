package core

import (
	"fmt"
	"testing"
)

// ============================================================================
// Revalidation Benchmarks
// ============================================================================

// benchRecords builds n records with a sprinkling of duplicates and bad ages
// so every validation branch is exercised.
func benchRecords(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		age := "30"
		if i%17 == 0 {
			age = "-1"
		}
		out[i] = Record{
			ID:        RecordID(fmt.Sprintf("row-%d", i)),
			NIC:       fmt.Sprintf("NIC%d", i%(n-n/20)),
			FirstName: fmt.Sprintf("First%d", i%500),
			LastName:  fmt.Sprintf("Last%d", i%700),
			Gender:    GenderMale,
			Age:       age,
		}
	}
	return out
}

// BenchmarkRevalidate_2000 measures the full rebuild that runs on every edit
// at the upper end of the target dataset size.
func BenchmarkRevalidate_2000(b *testing.B) {
	records := benchRecords(2000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Revalidate(records)
	}
}

// BenchmarkReduce_UpdateCell measures one keystroke-driven edit.
func BenchmarkReduce_UpdateCell(b *testing.B) {
	s := Reduce(NewState(), Load{Records: benchRecords(2000)})
	values := []string{"NIC1", "NIC2", "NIC3"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s = Reduce(s, UpdateCell{ID: "row-1000", Field: FieldNIC, Value: values[i%len(values)]})
	}
}

// BenchmarkBuildIndexes isolates the index pass.
func BenchmarkBuildIndexes(b *testing.B) {
	records := benchRecords(2000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BuildIndexes(records)
	}
}
