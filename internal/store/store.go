// Package store provides access to the external task database: a SQLite
// file holding one key/value record per task, addressed by UUID.
//
// Mutations are buffered in an [Operations] list and applied by
// [Store.Commit] inside a single SQL transaction, so the updates for one
// reconciled task land atomically or not at all.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Well-known record fields consumed by synchronization.
const (
	FieldStatus      = "status"
	FieldDescription = "description"
	FieldDue         = "due"
	FieldWait        = "wait"
	FieldScheduled   = "scheduled"
	FieldCreated     = "created"
	FieldEnd         = "end"
	FieldPriority    = "priority"
	FieldProject     = "project"
)

// Store status vocabulary.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
)

// tagPrefix marks boolean-presence tag fields, keyed by tag name.
const tagPrefix = "tag_"

// TagField returns the record field name for a tag.
func TagField(name string) string {
	return tagPrefix + name
}

// Store is an open handle to the task database.
type Store struct {
	db *sql.DB
}

// Open opens the task database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("open store: path is empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping store: %w", err)
	}

	err = applyPragmas(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	_, err = db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS tasks (uuid TEXT PRIMARY KEY, data TEXT NOT NULL)`)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// Get fetches the record addressed by id. Returns [ErrNotFound] when no
// record exists for the identifier.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	fields, err := loadFields(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	return &Record{ID: id, fields: fields}, nil
}

// queryer covers both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadFields(ctx context.Context, q queryer, id uuid.UUID) (map[string]string, error) {
	row := q.QueryRowContext(ctx, `SELECT data FROM tasks WHERE uuid = ?`, id.String())

	var data string

	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", id, err)
	}

	fields := make(map[string]string)

	err = json.Unmarshal([]byte(data), &fields)
	if err != nil {
		return nil, fmt.Errorf("decode task %s: %w", id, err)
	}

	return fields, nil
}

// Commit applies all buffered operations as one atomic group. Either every
// operation lands or none does.
func (s *Store) Commit(ctx context.Context, ops *Operations) error {
	if ops.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Working copies of each touched record, keyed by identifier.
	// created tracks records that need INSERT rather than UPDATE.
	records := make(map[uuid.UUID]map[string]string)
	created := make(map[uuid.UUID]bool)

	load := func(id uuid.UUID) (map[string]string, error) {
		if fields, ok := records[id]; ok {
			return fields, nil
		}

		fields, err := loadFields(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		records[id] = fields

		return fields, nil
	}

	for _, op := range ops.ops {
		switch op.kind {
		case opCreate:
			if _, ok := records[op.id]; ok {
				return fmt.Errorf("%w: %s", ErrTaskExists, op.id)
			}

			records[op.id] = make(map[string]string)
			created[op.id] = true
		case opSet:
			fields, err := load(op.id)
			if err != nil {
				return err
			}

			fields[op.field] = op.value
		case opDelete:
			fields, err := load(op.id)
			if err != nil {
				return err
			}

			delete(fields, op.field)
		}
	}

	for id, fields := range records {
		data, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("encode task %s: %w", id, err)
		}

		if created[id] {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO tasks (uuid, data) VALUES (?, ?)`, id.String(), string(data))
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE tasks SET data = ? WHERE uuid = ?`, string(data), id.String())
		}

		if err != nil {
			return fmt.Errorf("write task %s: %w", id, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	committed = true

	return nil
}
