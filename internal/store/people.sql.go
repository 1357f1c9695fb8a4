package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Person is one committed row of the people table.
type Person struct {
	NIC       string
	FirstName string
	LastName  string
	Gender    string
	Age       int32
	RecordID  string
}

var peopleColumns = []string{"nic", "first_name", "last_name", "gender", "age", "record_id"}

const createPeopleTable = `
CREATE TABLE IF NOT EXISTS people (
    nic          TEXT PRIMARY KEY,
    first_name   TEXT NOT NULL,
    last_name    TEXT NOT NULL,
    gender       CHAR(1) NOT NULL CHECK (gender IN ('M', 'F')),
    age          INTEGER NOT NULL CHECK (age > 0),
    record_id    TEXT NOT NULL,
    committed_at TIMESTAMPTZ NOT NULL DEFAULT now()
)
`

func (q *Queries) CreatePeopleTable(ctx context.Context) error {
	_, err := q.db.Exec(ctx, createPeopleTable)
	return err
}

const upsertPerson = `
INSERT INTO people (nic, first_name, last_name, gender, age, record_id)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (nic) DO UPDATE SET
    first_name   = EXCLUDED.first_name,
    last_name    = EXCLUDED.last_name,
    gender       = EXCLUDED.gender,
    age          = EXCLUDED.age,
    record_id    = EXCLUDED.record_id,
    committed_at = now()
`

func (q *Queries) UpsertPerson(ctx context.Context, p Person) error {
	_, err := q.db.Exec(ctx, upsertPerson, p.NIC, p.FirstName, p.LastName, p.Gender, p.Age, p.RecordID)
	return err
}

const createPeopleStage = `
CREATE TEMP TABLE people_stage (LIKE people INCLUDING DEFAULTS) ON COMMIT DROP
`

// CreatePeopleStage creates a temp table dropped at commit. Call it inside a
// transaction.
func (q *Queries) CreatePeopleStage(ctx context.Context) error {
	_, err := q.db.Exec(ctx, createPeopleStage)
	return err
}

func (q *Queries) CopyPeopleStage(ctx context.Context, people []Person) (int64, error) {
	return q.db.CopyFrom(ctx, pgx.Identifier{"people_stage"}, peopleColumns,
		pgx.CopyFromSlice(len(people), func(i int) ([]any, error) {
			p := people[i]
			return []any{p.NIC, p.FirstName, p.LastName, p.Gender, p.Age, p.RecordID}, nil
		}))
}

const mergePeopleStage = `
INSERT INTO people (nic, first_name, last_name, gender, age, record_id)
SELECT nic, first_name, last_name, gender, age, record_id FROM people_stage
ON CONFLICT (nic) DO UPDATE SET
    first_name   = EXCLUDED.first_name,
    last_name    = EXCLUDED.last_name,
    gender       = EXCLUDED.gender,
    age          = EXCLUDED.age,
    record_id    = EXCLUDED.record_id,
    committed_at = now()
`

func (q *Queries) MergePeopleStage(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, mergePeopleStage)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
