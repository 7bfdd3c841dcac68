package task

import (
	"time"

	"github.com/google/uuid"
)

// Builder constructs Task records one field at a time. Unset fields keep
// their documented defaults: pending status, normal priority, no dates, no
// identifier. Used pervasively in tests.
type Builder struct {
	t Task
}

// NewBuilder returns a builder for an empty pending task.
func NewBuilder() *Builder {
	return &Builder{}
}

// ID sets the identifier.
func (b *Builder) ID(id uuid.UUID) *Builder {
	b.t.ID = &id

	return b
}

// Status sets the tri-state status.
func (b *Builder) Status(s Status) *Builder {
	b.t.Status = s

	return b
}

// Description sets the description text.
func (b *Builder) Description(desc string) *Builder {
	b.t.Description = desc

	return b
}

// Tags sets the tag set.
func (b *Builder) Tags(tags ...string) *Builder {
	b.t.Tags = tags

	return b
}

// Due sets the due date.
func (b *Builder) Due(d time.Time) *Builder {
	b.t.Due = ptr(d)

	return b
}

// Scheduled sets the scheduled date.
func (b *Builder) Scheduled(d time.Time) *Builder {
	b.t.Scheduled = ptr(d)

	return b
}

// Start sets the start date.
func (b *Builder) Start(d time.Time) *Builder {
	b.t.Start = ptr(d)

	return b
}

// Created sets the creation date.
func (b *Builder) Created(d time.Time) *Builder {
	b.t.Created = ptr(d)

	return b
}

// Done sets the completion date.
func (b *Builder) Done(d time.Time) *Builder {
	b.t.Done = ptr(d)

	return b
}

// Canceled sets the cancellation date.
func (b *Builder) Canceled(d time.Time) *Builder {
	b.t.Canceled = ptr(d)

	return b
}

// Priority sets the priority level.
func (b *Builder) Priority(p Priority) *Builder {
	b.t.Priority = p

	return b
}

// Project sets the project label.
func (b *Builder) Project(project string) *Builder {
	b.t.Project = project

	return b
}

// Build returns the constructed task.
func (b *Builder) Build() *Task {
	t := b.t

	return &t
}
