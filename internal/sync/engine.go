// Package sync reconciles parsed task records against the external task
// store: it computes field-level differences and issues the minimal update
// in the chosen authoritative direction, or creates a new store record for
// a task that has never been synchronized.
package sync

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sharptask/internal/store"
	"sharptask/internal/task"
)

// Outcome classifies what a reconciliation did.
type Outcome uint8

// Outcome values.
const (
	// OutcomeNoChange means both sides already agree. Repeated runs over
	// unmodified text must always land here on the second pass.
	OutcomeNoChange Outcome = iota

	// OutcomeStoreUpdated means differing fields were written to the
	// store as one atomic group.
	OutcomeStoreUpdated

	// OutcomeTextUpdated means the store side won and Result.Task holds
	// the corrected record for the caller to render and patch in.
	OutcomeTextUpdated

	// OutcomeStoreCreated means a new store record was created under
	// Result.ID; the text line must gain the identifier anchor.
	OutcomeStoreCreated
)

// Result is the outcome of reconciling one task line.
type Result struct {
	Outcome Outcome

	// Task is the corrected record when Outcome is OutcomeTextUpdated.
	Task *task.Task

	// ID is the allocated identifier when Outcome is OutcomeStoreCreated.
	ID uuid.UUID

	// Missing reports a text identifier that resolves to no store record
	// (deleted upstream). Nothing is updated and nothing is retried.
	Missing bool

	// Diffs lists the differing fields behind a store or text update.
	Diffs []FieldDiff
}

// Syncer reconciles task records against one task store in one configured
// time zone.
type Syncer struct {
	store *store.Store
	loc   *time.Location
}

// New returns a Syncer over st. Calendar dates are compared and written at
// local midnight in loc.
func New(st *store.Store, loc *time.Location) *Syncer {
	return &Syncer{store: st, loc: loc}
}

// Push reconciles in the text-authoritative direction: the store record is
// created from or overwritten with the text record. file and vault name the
// originating markdown file and vault root; they feed the one-time
// annotation written at record creation and are not used afterwards.
//
// The task's identifier is set in place when a record is created.
func (s *Syncer) Push(ctx context.Context, t *task.Task, file, vault string) (Result, error) {
	if t.ID == nil {
		return s.create(ctx, t, file, vault)
	}

	rec, err := s.store.Get(ctx, *t.ID)
	if errors.Is(err, store.ErrNotFound) {
		return Result{Missing: true}, nil
	}

	if err != nil {
		return Result{}, err
	}

	diffs := fieldDiffs(t, rec, s.loc)
	if len(diffs) == 0 {
		return Result{Outcome: OutcomeNoChange}, nil
	}

	var ops store.Operations

	for _, c := range comparators {
		if c.equal(t, rec, s.loc) {
			continue
		}

		c.push(t, rec, s.loc, &ops)
	}

	err = s.store.Commit(ctx, &ops)
	if err != nil {
		return Result{}, fmt.Errorf("update task %s: %w", t.ID, err)
	}

	return Result{Outcome: OutcomeStoreUpdated, Diffs: diffs}, nil
}

// create allocates an identifier, creates the store record, and writes
// every field from the text record into it.
func (s *Syncer) create(ctx context.Context, t *task.Task, file, vault string) (Result, error) {
	id := store.NewID()
	t.ID = &id

	var ops store.Operations

	ops.Create(id)

	for _, c := range comparators {
		c.push(t, nil, s.loc, &ops)
	}

	if annotation := creationAnnotation(file, vault); annotation != "" {
		ops.Set(id, fmt.Sprintf("annotation_%d", time.Now().Unix()), annotation)
	}

	err := s.store.Commit(ctx, &ops)
	if err != nil {
		t.ID = nil

		return Result{}, fmt.Errorf("create task: %w", err)
	}

	return Result{Outcome: OutcomeStoreCreated, ID: id}, nil
}

// creationAnnotation builds the link back to the originating file, written
// once at creation time and never revisited.
func creationAnnotation(file, vault string) string {
	if file == "" || vault == "" {
		return ""
	}

	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	return "obsidian://open?vault=" + url.QueryEscape(filepath.Base(vault)) +
		"&file=" + url.QueryEscape(stem)
}

// Pull reconciles in the store-authoritative direction: if the store record
// exists and any compared field differs, the returned result carries a
// corrected task record built from the store, field by field. The caller
// renders and patches it; Pull itself never mutates anything.
func (s *Syncer) Pull(ctx context.Context, t *task.Task) (Result, error) {
	if t.ID == nil {
		return Result{Outcome: OutcomeNoChange}, nil
	}

	rec, err := s.store.Get(ctx, *t.ID)
	if errors.Is(err, store.ErrNotFound) {
		return Result{Outcome: OutcomeNoChange}, nil
	}

	if err != nil {
		return Result{}, err
	}

	diffs := fieldDiffs(t, rec, s.loc)
	if len(diffs) == 0 {
		return Result{Outcome: OutcomeNoChange}, nil
	}

	return Result{
		Outcome: OutcomeTextUpdated,
		Task:    s.taskFromRecord(rec),
		Diffs:   diffs,
	}, nil
}

// taskFromRecord copies every compared field from a store record into a
// fresh task record, mapping the store status back into the tri-state and
// timestamps back into calendar dates in the configured zone.
func (s *Syncer) taskFromRecord(rec *store.Record) *task.Task {
	id := rec.ID
	status, _ := rec.Field(store.FieldStatus)
	desc, _ := rec.Field(store.FieldDescription)
	project, _ := rec.Field(store.FieldProject)

	t := &task.Task{
		ID:          &id,
		Status:      textStatus(status),
		Description: desc,
		Project:     project,
		Priority:    s.priorityFromRecord(rec),
	}

	for _, tag := range rec.Tags() {
		if tag == reservedTag {
			continue
		}

		t.Tags = append(t.Tags, tag)
	}

	t.Due = s.recordDate(rec, store.FieldDue)
	t.Scheduled = s.recordDate(rec, store.FieldScheduled)
	t.Start = s.recordDate(rec, store.FieldWait)
	t.Created = s.recordDate(rec, store.FieldCreated)

	// The end slot maps back through the status.
	switch t.Status {
	case task.StatusComplete:
		t.Done = s.recordDate(rec, store.FieldEnd)
	case task.StatusCanceled:
		t.Canceled = s.recordDate(rec, store.FieldEnd)
	}

	return t
}

// recordDate reads a timestamp field as a calendar date at local midnight.
func (s *Syncer) recordDate(rec *store.Record, field string) *time.Time {
	raw, ok := rec.Field(field)

	d, ok := storeDate(raw, ok, s.loc)
	if !ok {
		return nil
	}

	y, m, day := d.Date()
	midnight := time.Date(y, m, day, 0, 0, 0, 0, s.loc)

	return &midnight
}

// priorityFromRecord maps the store's letter code back into the priority
// ladder. H combined with the reserved tag means highest; the lowest level
// is unreachable from the store side (L covers both low levels).
func (s *Syncer) priorityFromRecord(rec *store.Record) task.Priority {
	code, _ := rec.Field(store.FieldPriority)

	switch code {
	case "H":
		if rec.HasTag(reservedTag) {
			return task.PriorityHighest
		}

		return task.PriorityHigh
	case "M":
		return task.PriorityMedium
	case "L":
		return task.PriorityLow
	default:
		return task.PriorityNormal
	}
}
