package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/roster/internal/core"
)

var (
	// ErrInvalidRecord is returned when a record with validation errors reaches a sink.
	ErrInvalidRecord = errors.New("record has validation errors")
	// ErrAgeOutOfRange is returned for a valid age that does not fit the
	// people.age INTEGER column.
	ErrAgeOutOfRange = errors.New("age out of storable range")
)

// Sink receives records committed from the editor.
type Sink interface {
	// Save stores the records and returns how many were written.
	Save(ctx context.Context, records []core.Record) (int, error)
}

// PersonFromRecord converts a valid record to a Person.
// Text fields are trimmed.
func PersonFromRecord(r core.Record) (Person, error) {
	if !r.Valid() {
		return Person{}, fmt.Errorf("%w: %s", ErrInvalidRecord, r.ID)
	}
	age, ok := core.ParseAge(r.Age)
	if !ok {
		return Person{}, fmt.Errorf("%w: %s: age %q", ErrInvalidRecord, r.ID, r.Age)
	}
	if age > math.MaxInt32 {
		return Person{}, fmt.Errorf("%w: %s: age %q", ErrAgeOutOfRange, r.ID, r.Age)
	}
	return Person{
		NIC:       strings.TrimSpace(r.NIC),
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Gender:    r.Gender,
		Age:       int32(age),
		RecordID:  string(r.ID),
	}, nil
}

func peopleFromRecords(records []core.Record) ([]Person, error) {
	people := make([]Person, 0, len(records))
	for _, r := range records {
		p, err := PersonFromRecord(r)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, nil
}

// TxDB is a DBTX that can start transactions, such as *pgxpool.Pool.
type TxDB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresSink upserts committed people into Postgres, keyed by NIC.
// A single record is upserted directly; several are copied into a staging
// table and merged in one transaction.
type PostgresSink struct {
	db TxDB
}

// NewPostgresSink creates a sink over db.
func NewPostgresSink(db TxDB) *PostgresSink {
	return &PostgresSink{db: db}
}

// EnsureSchema creates the people table if it does not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if err := New(s.db).CreatePeopleTable(ctx); err != nil {
		return fmt.Errorf("create people table: %w", err)
	}
	return nil
}

// Save implements Sink.
func (s *PostgresSink) Save(ctx context.Context, records []core.Record) (int, error) {
	people, err := peopleFromRecords(records)
	if err != nil {
		return 0, err
	}

	switch len(people) {
	case 0:
		return 0, nil
	case 1:
		if err := New(s.db).UpsertPerson(ctx, people[0]); err != nil {
			return 0, fmt.Errorf("upsert person: %w", err)
		}
		return 1, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	q := New(s.db).WithTx(tx)
	if err := q.CreatePeopleStage(ctx); err != nil {
		return 0, fmt.Errorf("create stage: %w", err)
	}
	if _, err := q.CopyPeopleStage(ctx, people); err != nil {
		return 0, fmt.Errorf("copy people: %w", err)
	}
	n, err := q.MergePeopleStage(ctx)
	if err != nil {
		return 0, fmt.Errorf("merge people: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return int(n), nil
}

// MemorySink keeps committed people in process memory with the same
// upsert-by-NIC semantics as PostgresSink.
type MemorySink struct {
	mu     sync.Mutex
	people []Person
	byNIC  map[string]int
}

func NewMemorySink() *MemorySink {
	return &MemorySink{byNIC: make(map[string]int)}
}

// Save implements Sink.
func (s *MemorySink) Save(_ context.Context, records []core.Record) (int, error) {
	people, err := peopleFromRecords(records)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range people {
		if i, ok := s.byNIC[p.NIC]; ok {
			s.people[i] = p
			continue
		}
		s.byNIC[p.NIC] = len(s.people)
		s.people = append(s.people, p)
	}
	return len(people), nil
}

// People returns a copy of the stored people in first-commit order.
func (s *MemorySink) People() []Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Person, len(s.people))
	copy(out, s.people)
	return out
}
